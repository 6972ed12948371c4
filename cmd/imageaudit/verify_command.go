package main

import (
	"fmt"

	"github.com/glycora/imageaudit/internal/fixer"
	"github.com/glycora/imageaudit/internal/imageindex"
	"github.com/glycora/imageaudit/internal/infrastructure/persistence/postgres"
	"github.com/glycora/imageaudit/internal/ontology"
	"github.com/glycora/imageaudit/internal/report"
	"github.com/glycora/imageaudit/internal/verifier"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newVerifyCommand(cmdCtx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify all recipe image assignments",
		Long: `Runs a full verification pass and writes the audit report. The default
is a dry run: no database writes. With --apply, and only when the pass
finds zero critical issues, the safe subset of fixes is applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg, log := cmdCtx.cfg, cmdCtx.log

			mode := "dry-run"
			if apply {
				mode = "live"
			}
			log.Info("Starting verification run", zap.String("mode", mode))

			ont := ontology.New(ontology.DefaultConfig())

			index, err := imageindex.Load(cfg.Audit.IndexFile(), ont)
			if err != nil {
				return err
			}

			store, err := postgres.NewMealStore(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer store.Close()

			reports := report.NewGenerator(cfg.Audit.DataDir, log)
			v := verifier.New(store, index, ont, reports, log, cfg.Audit.VerifyBatchSize)

			rep, err := v.VerifyAll(ctx)
			if err != nil {
				return err
			}

			fmt.Println(reports.Summary(rep))

			if rep.CriticalIssues > 0 {
				fmt.Printf("Found %d critical image mismatches\n", rep.CriticalIssues)
			}

			if !apply {
				return nil
			}
			if rep.CriticalIssues > 0 {
				// Automated correction is gated on a clean critical count.
				// Resolve or lock the critical mismatches first, then
				// invoke --apply again.
				log.Warn("Refusing to apply fixes while critical issues remain",
					zap.Int("critical_issues", rep.CriticalIssues),
				)
				fmt.Println("Apply skipped: resolve critical issues first, then rerun with --apply")
				return nil
			}

			f := fixer.New(store, v, ont, reports, log, fixer.Options{
				DryRun:       false,
				LocksFile:    cfg.Audit.LocksFile(),
				RunLockFile:  cfg.Audit.RunLockFile(),
				AssetBaseURL: cfg.Audit.AssetBaseURL,
				BatchSize:    cfg.Audit.ApplyBatchSize,
				Pause:        cfg.Audit.ApplyPause,
			})

			journal, err := f.Apply(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Applied %d fixes, %d failed\n", journal.TotalApplied, journal.TotalFailed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "apply safe fixes after a clean verification pass")

	return cmd
}
