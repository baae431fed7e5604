package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Chative-core-poc-v1/leadqual/internal/config"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

var (
	envFile string
	appCfg  *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "leadqual",
	Short: "Real-estate lead qualification agent",
	Long: `leadqual talks with prospective property buyers and tenants, collects
their contact details and requirements, and saves qualified leads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(envFile)
		if err != nil {
			return err
		}
		logx.Init(logx.LoggerOpts{Environment: cfg.Environment, Level: cfg.LogLevel})
		appCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
