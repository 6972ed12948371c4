// Package report renders audit and fix-run artifacts to the data
// directory.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.uber.org/zap"

	"github.com/glycora/imageaudit/internal/domain/audit"
)

const sampleSize = 10

// Generator writes machine-readable JSON next to a human-readable
// summary for every run.
type Generator struct {
	dataDir string
	logger  *zap.Logger
}

// NewGenerator creates a report generator rooted at dataDir.
func NewGenerator(dataDir string, logger *zap.Logger) *Generator {
	return &Generator{
		dataDir: dataDir,
		logger:  logger.Named("report"),
	}
}

// WriteAudit persists the full audit report and its text summary,
// returning the rendered summary.
func (g *Generator) WriteAudit(rep *audit.Report) (string, error) {
	slug := timestampSlug(rep.Timestamp)

	jsonPath := filepath.Join(g.dataDir, fmt.Sprintf("image-audit-%s.json", slug))
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal audit report: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write audit report: %w", err)
	}

	summary := g.Summary(rep)
	summaryPath := filepath.Join(g.dataDir, fmt.Sprintf("image-audit-summary-%s.txt", slug))
	if err := os.WriteFile(summaryPath, []byte(summary), 0o644); err != nil {
		return "", fmt.Errorf("write audit summary: %w", err)
	}

	g.logger.Info("Audit report written",
		zap.String("report", jsonPath),
		zap.String("summary", summaryPath))
	return summary, nil
}

// Summary renders the human-readable audit summary.
func (g *Generator) Summary(rep *audit.Report) string {
	var b strings.Builder
	b.WriteString("RECIPE IMAGE AUDIT REPORT\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", rep.Timestamp.Format(time.RFC3339)))

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"Total recipes", rep.TotalRecipes},
		{"Critical issues", rep.CriticalIssues},
		{"Recommended fixes", rep.RecommendedFixes},
		{"Optional issues", rep.OptionalIssues},
		{"OK recipes", rep.OKRecipes},
	})
	b.WriteString(t.Render())
	b.WriteString("\n")

	critical := filterByAction(rep.Results, audit.ActionCritical)
	if len(critical) > 0 {
		b.WriteString("\nCRITICAL ISSUES (forbidden ingredient mismatches):\n")
		for _, r := range head(critical, sampleSize) {
			b.WriteString(fmt.Sprintf("- %s: %s\n", r.RecipeName, strings.Join(audit.IssueStrings(r.Issues), "; ")))
			if r.SuggestedImage != "" {
				b.WriteString(fmt.Sprintf("  suggested: %s\n", r.SuggestedImage))
			}
		}
	}

	recommended := filterByAction(rep.Results, audit.ActionRecommended)
	if len(recommended) > 0 {
		// Worst matches first so the reader triages top-down.
		sort.SliceStable(recommended, func(i, j int) bool {
			return recommended[i].MatchScore < recommended[j].MatchScore
		})
		b.WriteString("\nTOP RECOMMENDED FIXES:\n")
		for _, r := range head(recommended, sampleSize) {
			b.WriteString(fmt.Sprintf("- %s (score %d)\n", r.RecipeName, r.MatchScore))
		}
	}

	return b.String()
}

// WriteRollback persists the rollback journal. The journal is written
// even when no change was applied.
func (g *Generator) WriteRollback(journal *audit.RollbackJournal) error {
	path := filepath.Join(g.dataDir, fmt.Sprintf("image-rollback-%d.json", journal.Timestamp.UnixMilli()))
	data, err := json.MarshalIndent(journal, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal rollback journal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write rollback journal: %w", err)
	}
	g.logger.Info("Rollback journal written", zap.String("path", path))
	return nil
}

// WriteFixSummary persists the human-readable fix-run summary.
func (g *Generator) WriteFixSummary(journal *audit.RollbackJournal) error {
	var b strings.Builder
	b.WriteString("RECIPE IMAGE FIX SUMMARY\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", journal.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Fixes applied: %d\n", journal.TotalApplied))
	b.WriteString(fmt.Sprintf("Fixes failed:  %d\n", journal.TotalFailed))

	total := journal.TotalApplied + journal.TotalFailed
	if total > 0 {
		b.WriteString(fmt.Sprintf("Success rate:  %.1f%%\n", float64(journal.TotalApplied)/float64(total)*100))
		days := (total + 19) / 20
		b.WriteString(fmt.Sprintf("Regeneration avoided: $80 CAD/day ~%d days (~$%d CAD)\n", days, days*80))
	}

	if len(journal.Changes) > 0 {
		b.WriteString("\nSAMPLE FIXES APPLIED:\n")
		for _, c := range journal.Changes[:min(sampleSize, len(journal.Changes))] {
			b.WriteString(fmt.Sprintf("- %s: %s -> %s\n", c.RecipeName, c.OldImage, c.NewImage))
		}
	}

	path := filepath.Join(g.dataDir, fmt.Sprintf("fix-summary-%d.txt", journal.Timestamp.UnixMilli()))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write fix summary: %w", err)
	}
	g.logger.Info("Fix summary written", zap.String("path", path))
	return nil
}

// timestampSlug produces a filesystem-safe timestamp for filenames.
func timestampSlug(t time.Time) string {
	s := t.UTC().Format("2006-01-02T15:04:05.000Z")
	s = strings.ReplaceAll(s, ":", "-")
	return strings.ReplaceAll(s, ".", "-")
}

func filterByAction(results []audit.VerificationResult, action audit.ActionTier) []audit.VerificationResult {
	var out []audit.VerificationResult
	for _, r := range results {
		if r.ActionRequired == action {
			out = append(out, r)
		}
	}
	return out
}

func head(results []audit.VerificationResult, n int) []audit.VerificationResult {
	if len(results) <= n {
		return results
	}
	return results[:n]
}
