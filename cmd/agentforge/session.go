package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/sumittt2004/agentforge/bootstrap"
)

func newSessionCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and clear stored conversations",
	}

	infoCmd := &cobra.Command{
		Use:   "info <session-id>",
		Short: "Show message and token counts for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()
			return printSessionInfo(cmd.Context(), app, cmd.OutOrStdout(), args[0])
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear <session-id>",
		Short: "Delete every turn of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.Agent.ClearHistory(cmd.Context(), args[0]) {
				return fmt.Errorf("failed to clear session %s", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Cleared session %s\n", args[0])
			return nil
		},
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions by most recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			sessions, err := app.Store.ListSessions(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No sessions yet.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tMESSAGES\tTOKENS\tLAST ACTIVE")
			for _, s := range sessions {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", s.SessionID, s.MessageCount, s.TotalTokens, s.LastActive.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum sessions to show")

	cmd.AddCommand(infoCmd, clearCmd, listCmd)
	return cmd
}

func printSessionInfo(ctx context.Context, app *bootstrap.App, out io.Writer, sessionID string) error {
	info, err := app.Agent.SessionInfo(ctx, sessionID)
	if err != nil {
		return err
	}
	if info == nil {
		fmt.Fprintf(out, "Session %s has no messages.\n", sessionID)
		return nil
	}

	b, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(b))
	return nil
}
