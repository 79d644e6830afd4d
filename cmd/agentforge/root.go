package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sumittt2004/agentforge/bootstrap"
	"github.com/sumittt2004/agentforge/config"
	"github.com/sumittt2004/agentforge/log"
)

// options are the persistent flags shared by every subcommand
type options struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "agentforge",
		Short:         "Tool-using conversational agent",
		Long:          "AgentForge answers questions with web search, a calculator, weather, notes and the clock, keeping per-session history.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Init()
			log.SetOutput(cmd.ErrOrStderr())

			cfg, err := config.LoadFrom(opts.configPath)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if opts.logLevel != "" {
				level = opts.logLevel
			}
			if err := log.SetLevelName(level); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newSessionCmd(opts),
		newToolsCmd(opts),
	)
	return root
}

// setup builds the application from the loaded configuration
func (o *options) setup(ctx context.Context) (*bootstrap.App, error) {
	if o.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	app, err := bootstrap.Setup(ctx, o.cfg)
	if err != nil {
		return nil, fmt.Errorf("setup failed: %w", err)
	}
	return app, nil
}
