package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueString(t *testing.T) {
	cases := []struct {
		issue Issue
		want  string
	}{
		{Issue{Kind: IssueForbiddenIngredient, Detail: "pork, bacon"}, "Forbidden ingredients in image: pork, bacon"},
		{Issue{Kind: IssueCategoryMismatch, Detail: "dinner"}, "Image doesn't match meal category: dinner"},
		{Issue{Kind: IssueLowOverlap, Detail: "7%"}, "Low ingredient overlap: 7%"},
		{Issue{Kind: IssueScoringFailure, Detail: "index out of range"}, "Scoring failed: index out of range"},
		{Issue{Kind: "future_kind", Detail: "raw detail"}, "raw detail"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.issue.String())
	}
}

func TestHasForbidden(t *testing.T) {
	t.Run("DetectsByKindNotByText", func(t *testing.T) {
		// A detail that merely mentions forbidden words must not trip
		// the severity check.
		decoy := []Issue{{Kind: IssueLowOverlap, Detail: "Forbidden ingredients in image: none"}}
		assert.False(t, HasForbidden(decoy))

		flagged := []Issue{{Kind: IssueForbiddenIngredient, Detail: "pork"}}
		assert.True(t, HasForbidden(flagged))
	})

	t.Run("EmptySliceIsClean", func(t *testing.T) {
		assert.False(t, HasForbidden(nil))
	})
}

func TestIssueStrings(t *testing.T) {
	issues := []Issue{
		{Kind: IssueForbiddenIngredient, Detail: "pork"},
		{Kind: IssueLowOverlap, Detail: "3%"},
	}
	assert.Equal(t, []string{
		"Forbidden ingredients in image: pork",
		"Low ingredient overlap: 3%",
	}, IssueStrings(issues))
}
