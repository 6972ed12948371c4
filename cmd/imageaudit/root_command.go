package main

import (
	"github.com/glycora/imageaudit/internal/infrastructure/config"
	"github.com/glycora/imageaudit/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// commandContext carries lazily-initialized shared state across commands.
type commandContext struct {
	configPath string

	cfg *config.Config
	log *zap.Logger
}

// setup loads configuration and the logger on first use.
func (c *commandContext) setup() error {
	if c.cfg != nil {
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.log = log
	return nil
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:   "imageaudit",
		Short: "Verify and safely correct recipe image assignments",
		Long: `imageaudit checks every recipe in the catalog against its assigned
photographic asset, scores the match, reports mismatches, and - only under
strict guard conditions - rewrites bad image references with an auditable
rollback trail.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&ctx.configPath, "config", "", "path to config file")

	root.AddCommand(newVerifyCommand(ctx))
	root.AddCommand(newIndexCommand(ctx))
	root.AddCommand(newLockCommand(ctx))

	return root
}
