package main

import (
	"fmt"
	"strings"

	"github.com/glycora/imageaudit/internal/locks"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newLockCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "lock <recipe-id> <reason...>",
		Short: "Lock a recipe's image against automated changes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.setup(); err != nil {
				return err
			}
			cfg := cmdCtx.cfg

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid recipe id %q: %w", args[0], err)
			}
			reason := strings.Join(args[1:], " ")

			registry, err := locks.Load(cfg.Audit.LocksFile())
			if err != nil {
				return err
			}

			registry.Lock(id, reason)
			if err := registry.Save(); err != nil {
				return err
			}

			fmt.Printf("Locked recipe %s: %s\n", id, reason)
			return nil
		},
	}
}
