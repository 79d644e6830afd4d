package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	v1 "github.com/sumittt2004/agentforge/apis/v1"
	"github.com/sumittt2004/agentforge/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Setup signal handling for graceful shutdown
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			app, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			if port == "" {
				port = opts.cfg.Server.Port
			}

			api := v1.NewServer(app.Agent, app.Store)
			api.OnChat = app.RecordProvider

			// Use h2c for HTTP/2 without TLS
			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           h2c.NewHandler(v1.CORS(api.Handler()), &http2.Server{}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				log.Info(context.Background(), "Shutting down server...")
				shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
				defer done()
				srv.Shutdown(shutdownCtx)
			}()

			log.Infof(ctx, "Starting server on port %s", port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (defaults to server.port)")
	return cmd
}
