package ontology

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/glycora/imageaudit/internal/domain/audit"
)

// Scoring constants. The forbidden penalty is deliberately heavy enough
// that no amount of token overlap can lift a disqualified pair into a
// passing score.
const (
	forbiddenPenalty      = 50
	categoryBonus         = 20
	categoryPenalty       = 10
	lowOverlapThreshold   = 0.2
	highConfidenceScore   = 80
	mediumConfidenceScore = 50
)

// Score computes the match quality of a (recipe, image) token pair.
// Empty token sets are treated as zero overlap. An unknown category skips
// the category check entirely.
func (o *Ontology) Score(recipeTokens, imageTokens []string, category string) audit.MatchResult {
	var issues []audit.Issue
	score := 0

	recipeSet := o.ExpandTokens(recipeTokens)
	imageSet := o.ExpandTokens(imageTokens)

	// Forbidden tokens present in the image but not justified by the
	// recipe disqualify the pairing outright.
	var forbiddenFound []string
	for _, forbidden := range o.cfg.Forbidden {
		if _, inImage := imageSet[forbidden]; !inImage {
			continue
		}
		if _, inRecipe := recipeSet[forbidden]; inRecipe {
			continue
		}
		forbiddenFound = append(forbiddenFound, forbidden)
	}
	if len(forbiddenFound) > 0 {
		sort.Strings(forbiddenFound)
		issues = append(issues, audit.Issue{
			Kind:   audit.IssueForbiddenIngredient,
			Detail: strings.Join(forbiddenFound, ", "),
		})
		score -= forbiddenPenalty
	}

	if keywords := o.CategoryKeywords(category); len(keywords) > 0 {
		matched := false
		for _, keyword := range keywords {
			if _, ok := imageSet[keyword]; ok {
				matched = true
				break
			}
		}
		if matched {
			score += categoryBonus
		} else {
			issues = append(issues, audit.Issue{
				Kind:   audit.IssueCategoryMismatch,
				Detail: category,
			})
			score -= categoryPenalty
		}
	}

	// Token overlap is the core match signal.
	common := 0
	for token := range recipeSet {
		if _, ok := imageSet[token]; ok {
			common++
		}
	}
	denominator := len(recipeSet)
	if denominator < 1 {
		denominator = 1
	}
	overlapRatio := float64(common) / float64(denominator)
	score += int(math.Round(overlapRatio * 100))

	if overlapRatio < lowOverlapThreshold {
		issues = append(issues, audit.Issue{
			Kind:   audit.IssueLowOverlap,
			Detail: fmt.Sprintf("%d%%", int(math.Round(overlapRatio*100))),
		})
	}

	confidence := audit.ConfidenceLow
	switch {
	case score >= highConfidenceScore && len(issues) == 0:
		confidence = audit.ConfidenceHigh
	case score >= mediumConfidenceScore && len(forbiddenFound) == 0:
		confidence = audit.ConfidenceMedium
	}

	return audit.MatchResult{
		Score:      score,
		Issues:     issues,
		Confidence: confidence,
	}
}
