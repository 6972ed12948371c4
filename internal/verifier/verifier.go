// Package verifier orchestrates the catalog-wide image audit.
package verifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/glycora/imageaudit/internal/domain/audit"
	"github.com/glycora/imageaudit/internal/domain/catalog"
	"github.com/glycora/imageaudit/internal/imageindex"
	"github.com/glycora/imageaudit/internal/ontology"
	"github.com/glycora/imageaudit/internal/ports/outbound"
	"github.com/glycora/imageaudit/internal/report"
)

const (
	recommendedBelow = 50
	optionalBelow    = 70
)

// Verifier scores every recipe against its current image and produces
// the audit report.
type Verifier struct {
	store     outbound.RecipeStore
	index     *imageindex.Index
	ont       *ontology.Ontology
	reports   *report.Generator
	logger    *zap.Logger
	batchSize int
}

// New creates a verifier. batchSize bounds intra-batch concurrency.
func New(store outbound.RecipeStore, index *imageindex.Index, ont *ontology.Ontology, reports *report.Generator, logger *zap.Logger, batchSize int) *Verifier {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Verifier{
		store:     store,
		index:     index,
		ont:       ont,
		reports:   reports,
		logger:    logger.Named("verifier"),
		batchSize: batchSize,
	}
}

// VerifyAll verifies every recipe in the catalog. Recipes are
// processed in batches; within a batch verification runs concurrently,
// but results keep the catalog's fetch order.
func (v *Verifier) VerifyAll(ctx context.Context) (*audit.Report, error) {
	recipes, err := v.store.FetchAllRecipes(ctx)
	if err != nil {
		return nil, err
	}

	v.logger.Info("Starting verification",
		zap.Int("recipes", len(recipes)),
		zap.Int("indexed_images", v.index.Len()),
		zap.Int("batch_size", v.batchSize))

	results := make([]audit.VerificationResult, len(recipes))
	totalBatches := (len(recipes) + v.batchSize - 1) / v.batchSize

	for start := 0; start < len(recipes); start += v.batchSize {
		end := min(start+v.batchSize, len(recipes))

		g, _ := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = v.verifyRecipe(recipes[i])
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		v.logger.Info("Processed batch",
			zap.Int("batch", start/v.batchSize+1),
			zap.Int("total_batches", totalBatches),
			zap.Int("verified", end),
			zap.Int("total", len(recipes)))
	}

	rep := &audit.Report{
		Timestamp:    time.Now(),
		TotalRecipes: len(recipes),
		Results:      results,
	}
	for _, r := range results {
		switch r.ActionRequired {
		case audit.ActionCritical:
			rep.CriticalIssues++
		case audit.ActionRecommended:
			rep.RecommendedFixes++
		case audit.ActionOptional:
			rep.OptionalIssues++
		case audit.ActionOK:
			rep.OKRecipes++
		}
	}

	if _, err := v.reports.WriteAudit(rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// verifyRecipe scores one recipe. A panic inside scoring degrades to a
// LOW-confidence result rather than killing the batch.
func (v *Verifier) verifyRecipe(recipe catalog.Recipe) (result audit.VerificationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("Recipe verification panicked",
				zap.String("recipe", recipe.Name),
				zap.Any("panic", r))
			result = audit.VerificationResult{
				RecipeID:     recipe.ID,
				RecipeName:   recipe.Name,
				CurrentImage: recipe.ImageFilename(),
				Issues: []audit.Issue{
					{Kind: audit.IssueScoringFailure, Detail: fmt.Sprint(r)},
				},
				Confidence:     audit.ConfidenceLow,
				ActionRequired: audit.ActionRecommended,
			}
		}
	}()

	recipeText := strings.Join(append([]string{recipe.Name}, recipe.Ingredients...), " ")
	recipeTokens := v.ont.Tokenize(recipeText)
	imageTokens := v.ont.Tokenize(recipe.ImageFilename())

	match := v.ont.Score(recipeTokens, imageTokens, recipe.Category)
	action := classify(match)

	result = audit.VerificationResult{
		RecipeID:       recipe.ID,
		RecipeName:     recipe.Name,
		CurrentImage:   recipe.ImageFilename(),
		Issues:         match.Issues,
		MatchScore:     match.Score,
		Confidence:     match.Confidence,
		ActionRequired: action,
	}

	if action != audit.ActionOK {
		// Absence of a suggestion is a valid outcome, not an error.
		if s := v.index.BestMatch(recipe.Name, recipeTokens, recipe.Category); s != nil {
			result.SuggestedImage = s.Filename
			result.SuggestedReason = s.Reason
		}
	}
	return result
}

func classify(match audit.MatchResult) audit.ActionTier {
	switch {
	case audit.HasForbidden(match.Issues):
		return audit.ActionCritical
	case match.Score < recommendedBelow:
		return audit.ActionRecommended
	case match.Score < optionalBelow:
		return audit.ActionOptional
	default:
		return audit.ActionOK
	}
}
