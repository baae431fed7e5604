package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
	"github.com/Chative-core-poc-v1/leadqual/internal/api"
	logx "github.com/Chative-core-poc-v1/leadqual/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversations over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, appCfg)
	if err != nil {
		return err
	}
	defer a.Close()

	conversations := dialogue.NewManager(a.deps, appCfg.Conversation.TTL)
	defer conversations.Close()

	srv := api.NewServer(appCfg.HTTPPort, conversations, a.voice)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		logx.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
