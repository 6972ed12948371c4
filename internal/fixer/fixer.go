// Package fixer applies surgical image corrections surfaced by an
// audit run.
package fixer

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glycora/imageaudit/internal/domain/audit"
	"github.com/glycora/imageaudit/internal/locks"
	"github.com/glycora/imageaudit/internal/ontology"
	"github.com/glycora/imageaudit/internal/ports/outbound"
	"github.com/glycora/imageaudit/internal/report"
	"github.com/glycora/imageaudit/internal/verifier"
	apperrors "github.com/glycora/imageaudit/pkg/errors"
)

// Options configures a fix run.
type Options struct {
	DryRun       bool
	LocksFile    string
	RunLockFile  string
	AssetBaseURL string
	BatchSize    int
	Pause        time.Duration
}

// Fixer selects safe fix candidates from a fresh audit and applies
// them to the recipe store.
type Fixer struct {
	store    outbound.RecipeStore
	verifier *verifier.Verifier
	ont      *ontology.Ontology
	reports  *report.Generator
	logger   *zap.Logger
	opts     Options
}

// New creates a fixer.
func New(store outbound.RecipeStore, v *verifier.Verifier, ont *ontology.Ontology, reports *report.Generator, logger *zap.Logger, opts Options) *Fixer {
	if opts.BatchSize < 1 {
		opts.BatchSize = 1
	}
	return &Fixer{
		store:    store,
		verifier: v,
		ont:      ont,
		reports:  reports,
		logger:   logger.Named("fixer"),
		opts:     opts,
	}
}

// Apply runs a fresh audit, selects eligible fixes and applies them in
// batches. It refuses to run in dry-run mode: the caller decides
// whether to mutate, Apply never second-guesses a dry run into writes.
func (f *Fixer) Apply(ctx context.Context) (*audit.RollbackJournal, error) {
	if f.opts.DryRun {
		return nil, apperrors.NewDryRunViolationError("apply fixes")
	}

	registry, err := locks.Load(f.opts.LocksFile)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Lock registry loaded", zap.Int("locked_recipes", registry.Len()))

	runLock := flock.New(f.opts.RunLockFile)
	acquired, err := runLock.TryLock()
	if err != nil || !acquired {
		return nil, apperrors.NewRunInProgressError(f.opts.RunLockFile).WithCause(err)
	}
	defer runLock.Unlock()

	rep, err := f.verifier.VerifyAll(ctx)
	if err != nil {
		return nil, err
	}

	candidates := f.selectCandidates(rep, registry)
	f.logger.Info("Surgical fixes identified",
		zap.Int("candidates", len(candidates)),
		zap.Int("rejected", len(rep.Results)-len(candidates)))

	journal := &audit.RollbackJournal{
		Timestamp: time.Now(),
		Changes:   []audit.RollbackRecord{},
		Failures:  []audit.FixFailure{},
	}

	for start := 0; start < len(candidates); start += f.opts.BatchSize {
		end := min(start+f.opts.BatchSize, len(candidates))
		f.logger.Info("Applying batch",
			zap.Int("batch", start/f.opts.BatchSize+1),
			zap.Int("from", start),
			zap.Int("to", end))

		type outcome struct {
			record  *audit.RollbackRecord
			failure *audit.FixFailure
		}
		outcomes := make([]outcome, end-start)

		g, batchCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			fix := candidates[i]

			// The lock guard runs once more immediately before
			// mutating, in case the registry grew between selection
			// and application.
			if f.locked(registry, fix) {
				continue
			}

			newImageURL := f.opts.AssetBaseURL + "/" + fix.SuggestedImage

			// Journal the attempt before issuing the mutation so a
			// crash mid-batch still leaves a rollback trail.
			outcomes[i-start].record = &audit.RollbackRecord{
				RecipeID:   fix.RecipeID,
				RecipeName: fix.RecipeName,
				OldImage:   fix.CurrentImage,
				NewImage:   fix.SuggestedImage,
				Reason:     rollbackReason(fix),
			}

			g.Go(func() error {
				if err := f.store.UpdateMealImage(batchCtx, fix.RecipeID, newImageURL); err != nil {
					f.logger.Error("Fix failed",
						zap.String("recipe", fix.RecipeName),
						zap.Error(err))
					outcomes[i-start].record = nil
					outcomes[i-start].failure = &audit.FixFailure{
						RecipeName: fix.RecipeName,
						Error:      err.Error(),
					}
					return nil
				}
				f.logger.Info("Fixed recipe image",
					zap.String("recipe", fix.RecipeName),
					zap.String("new_image", fix.SuggestedImage))
				return nil
			})
		}
		_ = g.Wait()

		for _, o := range outcomes {
			if o.record != nil {
				journal.Changes = append(journal.Changes, *o.record)
				journal.TotalApplied++
			}
			if o.failure != nil {
				journal.Failures = append(journal.Failures, *o.failure)
				journal.TotalFailed++
			}
		}

		if ctx.Err() != nil {
			break
		}
		if end < len(candidates) && f.opts.Pause > 0 {
			select {
			case <-time.After(f.opts.Pause):
			case <-ctx.Done():
			}
		}
	}

	if err := f.reports.WriteRollback(journal); err != nil {
		return journal, err
	}
	if err := f.reports.WriteFixSummary(journal); err != nil {
		return journal, err
	}

	f.logger.Info("Fix run complete",
		zap.Int("applied", journal.TotalApplied),
		zap.Int("failed", journal.TotalFailed))
	return journal, nil
}

// selectCandidates filters audit results down to the fixes safe enough
// to apply without human review.
func (f *Fixer) selectCandidates(rep *audit.Report, registry *locks.Registry) []audit.VerificationResult {
	var candidates []audit.VerificationResult
	for _, result := range rep.Results {
		if result.SuggestedImage == "" {
			continue
		}

		switch result.ActionRequired {
		case audit.ActionCritical:
			// Forbidden-ingredient mismatches are always eligible.
		case audit.ActionRecommended:
			if result.MatchScore >= 0 ||
				result.Confidence != audit.ConfidenceHigh ||
				audit.HasForbidden(result.Issues) {
				continue
			}
		default:
			continue
		}

		if f.locked(registry, result) {
			continue
		}
		if !f.ont.FormFactorCompatible(result.RecipeName, result.SuggestedImage) {
			f.logger.Info("Rejected form-factor mismatch",
				zap.String("recipe", result.RecipeName),
				zap.String("suggested", result.SuggestedImage))
			continue
		}

		candidates = append(candidates, result)
	}
	return candidates
}

// locked is the single authoritative lock guard. Selection and the
// pre-mutation check both go through here.
func (f *Fixer) locked(registry *locks.Registry, result audit.VerificationResult) bool {
	reason, ok := registry.Reason(result.RecipeID)
	if ok {
		f.logger.Info("Skipped locked recipe",
			zap.String("recipe", result.RecipeName),
			zap.String("reason", reason))
	}
	return ok
}

func rollbackReason(fix audit.VerificationResult) string {
	return string(fix.ActionRequired) + ": " + strings.Join(audit.IssueStrings(fix.Issues), "; ")
}
