// Package imageindex loads the pre-built catalog of available image assets
// and answers best-replacement queries. The index is an immutable snapshot
// for the duration of a run; assets added or removed after the build are
// not reflected.
package imageindex

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/glycora/imageaudit/internal/domain/audit"
	"github.com/glycora/imageaudit/internal/ontology"
	"github.com/glycora/imageaudit/pkg/errors"
)

// Minimum acceptable scores for suggestions. A suggestion below these
// bounds is worse than no suggestion at all.
const (
	minDirectScore   = -20
	minFallbackScore = 10
)

// Entry describes one indexed image asset.
type Entry struct {
	Filename   string   `json:"filename"`
	FullPath   string   `json:"fullPath"`
	Tokens     []string `json:"tokens"`
	Categories []string `json:"categories"`
}

// Suggestion is a proposed replacement asset for a recipe.
type Suggestion struct {
	Filename string
	Score    int
	Reason   string
}

// Index is a read-only snapshot of the asset catalog.
type Index struct {
	entries []Entry
	ont     *ontology.Ontology
}

// Load reads the index snapshot from disk. A missing or unreadable index
// is fatal: there is nothing meaningful to verify without it.
func Load(path string, ont *ontology.Ontology) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewImageIndexMissingError(path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.NewImageIndexMissingError(path, err)
	}

	return New(entries, ont), nil
}

// New builds an Index over the given entries. Entries are sorted by
// filename so that equal-scored candidates resolve the same way on every
// run.
func New(entries []Entry, ont *ontology.Ontology) *Index {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Filename < sorted[j].Filename
	})
	return &Index{entries: sorted, ont: ont}
}

// Len returns the number of indexed assets.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// BestMatch proposes the best replacement asset for a recipe, or nil when
// no acceptable candidate exists. Candidates that fail the beverage
// form-factor check against the recipe name are never proposed, even if
// their textual score is the best available.
func (ix *Index) BestMatch(recipeName string, recipeTokens []string, category string) *Suggestion {
	var best *Suggestion
	bestScore := minDirectScore

	for _, entry := range ix.entries {
		if !ix.ont.FormFactorCompatible(recipeName, entry.Filename) {
			continue
		}
		result := ix.ont.Score(recipeTokens, entry.Tokens, category)
		if result.Score <= bestScore {
			continue
		}
		bestScore = result.Score
		best = &Suggestion{
			Filename: entry.Filename,
			Score:    result.Score,
			Reason:   fmt.Sprintf("Score: %d, Issues: %s", result.Score, issueSummary(result.Issues)),
		}
	}

	// When direct matching comes up empty or negative, fall back to
	// category-shaped matching.
	if best == nil || best.Score < 0 {
		if fallback := ix.categoryFallback(recipeName, recipeTokens, category); fallback != nil {
			if best == nil || fallback.Score > best.Score {
				best = fallback
			}
		}
	}

	return best
}

// categoryFallback scores assets on category presentation patterns,
// protein hits, and raw ingredient overlap instead of the full scorer.
func (ix *Index) categoryFallback(recipeName string, recipeTokens []string, category string) *Suggestion {
	patterns := ix.ont.CategoryPatterns(category)

	var recipeProtein string
	for _, protein := range ix.ont.Proteins() {
		for _, token := range recipeTokens {
			if strings.Contains(token, protein) {
				recipeProtein = protein
				break
			}
		}
		if recipeProtein != "" {
			break
		}
	}

	var best *Suggestion
	bestScore := minFallbackScore

	for _, entry := range ix.entries {
		if !ix.ont.FormFactorCompatible(recipeName, entry.Filename) {
			continue
		}

		score := 0
		patternHits := 0
		for _, pattern := range patterns {
			for _, token := range entry.Tokens {
				if strings.Contains(token, pattern) {
					patternHits++
					break
				}
			}
		}
		score += patternHits * 15

		if recipeProtein != "" {
			for _, token := range entry.Tokens {
				if strings.Contains(token, recipeProtein) {
					score += 25
					break
				}
			}
		}

		overlap := 0
		for _, token := range recipeTokens {
			for _, imageToken := range entry.Tokens {
				if token == imageToken {
					overlap++
					break
				}
			}
		}
		score += overlap * 10

		if score <= bestScore {
			continue
		}
		bestScore = score
		best = &Suggestion{
			Filename: entry.Filename,
			Score:    score,
			Reason: fmt.Sprintf("Category fallback: %s (%d pattern matches, %d ingredient matches)",
				category, patternHits, overlap),
		}
	}

	return best
}

func issueSummary(issues []audit.Issue) string {
	if len(issues) == 0 {
		return "None"
	}
	return strings.Join(audit.IssueStrings(issues), "; ")
}
