package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the agent in the terminal",
	Long:  `Reads one message per line from stdin and prints the agent's replies. Type "quit" or send EOF to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp(cmd.Context(), appCfg)
		if err != nil {
			return err
		}
		defer a.Close()

		sess := dialogue.NewSession(uuid.NewString(), a.deps)
		return chatLoop(cmd, sess, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func chatLoop(cmd *cobra.Command, sess *dialogue.Session, in io.Reader, out io.Writer) error {
	r := sess.ProcessMessage(cmd.Context(), "")
	fmt.Fprintf(out, "Agent: %s\n", r.Text)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "quit") || strings.EqualFold(text, "exit") {
			return nil
		}

		r = sess.ProcessMessage(cmd.Context(), text)
		fmt.Fprintf(out, "Agent: %s\n", r.Text)
		if r.Saved && r.ReadyToLog {
			fmt.Fprintf(out, "[lead %s saved]\n", sess.View().LeadID)
		}
	}
}
