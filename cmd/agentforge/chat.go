package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sumittt2004/agentforge/agents"
	"github.com/sumittt2004/agentforge/bootstrap"
	logcontext "github.com/sumittt2004/agentforge/context"
)

const replHelp = `Commands:
  /info   show session statistics
  /clear  delete this session's history
  /exit   leave the chat`

func newChatCmd(opts *options) *cobra.Command {
	var sessionID, message string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the agent in the terminal",
		Long:  "Starts an interactive session, or answers a single message with --message.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logcontext.WithRequestID(cmd.Context(), logcontext.NewRequestID())

			app, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if sessionID == "" {
				sessionID = logcontext.NewSessionID()
			}
			out := cmd.OutOrStdout()

			if message != "" {
				runTurn(ctx, app, out, sessionID, message)
				return nil
			}

			fmt.Fprintf(out, "🤖 AgentForge (%s, %s). Session: %s\n%s\n\n", app.Provider.Name, app.Provider.Model, sessionID, replHelp)
			return repl(ctx, app, cmd.InOrStdin(), out, sessionID)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to continue (a new one is generated when empty)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "send one message and exit")
	return cmd
}

func repl(ctx context.Context, app *bootstrap.App, in io.Reader, out io.Writer, sessionID string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/help":
			fmt.Fprintln(out, replHelp)
		case "/clear":
			if app.Agent.ClearHistory(ctx, sessionID) {
				fmt.Fprintln(out, "✅ History cleared")
			} else {
				fmt.Fprintln(out, "❌ Could not clear history")
			}
		case "/info":
			if err := printSessionInfo(ctx, app, out, sessionID); err != nil {
				return err
			}
		default:
			runTurn(ctx, app, out, sessionID, line)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// runTurn streams one chat exchange to out
func runTurn(ctx context.Context, app *bootstrap.App, out io.Writer, sessionID, message string) {
	for event := range app.Agent.Chat(ctx, sessionID, message) {
		printEvent(out, event)
	}
	app.RecordProvider(ctx, sessionID)
}

func printEvent(out io.Writer, e agents.Event) {
	switch e.Type {
	case agents.EventToolCall:
		args, _ := json.Marshal(e.Args)
		fmt.Fprintf(out, "🔧 Using %s %s\n", e.Name, args)
	case agents.EventToolResult:
		fmt.Fprintf(out, "%s\n\n", e.Content)
	case agents.EventResponse:
		fmt.Fprintf(out, "🤖 %s\n\n", e.Content)
	case agents.EventError:
		fmt.Fprintf(out, "❌ %s\n\n", e.Content)
	}
}
