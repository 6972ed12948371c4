// Package audit contains the result model of a verification run: the
// per-recipe verification results, the aggregate report, and the rollback
// journal written by a live fix run.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Confidence describes how trustworthy a match or suggested replacement is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ActionTier describes the severity of a verification result and gates
// whether automated correction is permitted.
type ActionTier string

const (
	ActionCritical    ActionTier = "CRITICAL"
	ActionRecommended ActionTier = "RECOMMENDED"
	ActionOptional    ActionTier = "OPTIONAL"
	ActionOK          ActionTier = "OK"
)

// IssueKind identifies a class of verification issue. Severity
// classification keys off the kind, never off rendered text.
type IssueKind string

const (
	IssueForbiddenIngredient IssueKind = "forbidden_ingredient"
	IssueCategoryMismatch    IssueKind = "category_mismatch"
	IssueLowOverlap          IssueKind = "low_overlap"
	IssueScoringFailure      IssueKind = "scoring_failure"
)

// Issue is a structured verification finding.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail"`
}

// String renders the issue for reports and logs.
func (i Issue) String() string {
	switch i.Kind {
	case IssueForbiddenIngredient:
		return fmt.Sprintf("Forbidden ingredients in image: %s", i.Detail)
	case IssueCategoryMismatch:
		return fmt.Sprintf("Image doesn't match meal category: %s", i.Detail)
	case IssueLowOverlap:
		return fmt.Sprintf("Low ingredient overlap: %s", i.Detail)
	case IssueScoringFailure:
		return fmt.Sprintf("Scoring failed: %s", i.Detail)
	default:
		return i.Detail
	}
}

// HasForbidden reports whether any issue flags a forbidden ingredient.
func HasForbidden(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Kind == IssueForbiddenIngredient {
			return true
		}
	}
	return false
}

// IssueStrings renders all issues, preserving order.
func IssueStrings(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.String()
	}
	return out
}

// MatchResult is the outcome of scoring a (recipe, image) pair.
type MatchResult struct {
	Score      int
	Issues     []Issue
	Confidence Confidence
}

// VerificationResult is the per-recipe outcome of a verification pass.
// Results are created fresh on every pass and never mutated afterwards.
type VerificationResult struct {
	RecipeID        uuid.UUID  `json:"recipeId"`
	RecipeName      string     `json:"recipeName"`
	CurrentImage    string     `json:"currentImage"`
	Issues          []Issue    `json:"issues"`
	MatchScore      int        `json:"matchScore"`
	Confidence      Confidence `json:"confidence"`
	SuggestedImage  string     `json:"suggestedImage,omitempty"`
	SuggestedReason string     `json:"suggestedReason,omitempty"`
	ActionRequired  ActionTier `json:"actionRequired"`
}

// Report aggregates one verification run.
//
// OptionalIssues was not tallied by earlier revisions of this tooling;
// it is tracked explicitly now for symmetry with the other counters.
type Report struct {
	Timestamp        time.Time            `json:"timestamp"`
	TotalRecipes     int                  `json:"totalRecipes"`
	CriticalIssues   int                  `json:"criticalIssues"`
	RecommendedFixes int                  `json:"recommendedFixes"`
	OptionalIssues   int                  `json:"optionalIssues"`
	OKRecipes        int                  `json:"okRecipes"`
	Results          []VerificationResult `json:"results"`
}

// RollbackRecord describes a single applied image mutation, sufficient to
// manually reverse it.
type RollbackRecord struct {
	RecipeID   uuid.UUID `json:"id"`
	RecipeName string    `json:"recipeName"`
	OldImage   string    `json:"oldImage"`
	NewImage   string    `json:"newImage"`
	Reason     string    `json:"reason"`
}

// FixFailure records a mutation that could not be applied.
type FixFailure struct {
	RecipeName string `json:"recipeName"`
	Error      string `json:"error"`
}

// RollbackJournal is the ordered audit trail of one live apply run.
type RollbackJournal struct {
	Timestamp    time.Time        `json:"timestamp"`
	TotalApplied int              `json:"totalApplied"`
	TotalFailed  int              `json:"totalFailed"`
	Changes      []RollbackRecord `json:"changes"`
	Failures     []FixFailure     `json:"failures"`
}
