package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
	"github.com/alsdiag/alsdiag/internal/history"
	"github.com/alsdiag/alsdiag/internal/patterns"
	"github.com/alsdiag/alsdiag/internal/rules"
	"github.com/alsdiag/alsdiag/internal/scan"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func severityIcon(s rules.Severity) string {
	switch s {
	case rules.SeverityCritical:
		return "❌"
	case rules.SeverityWarning:
		return "⚠️ "
	case rules.SeveritySuggestion:
		return "💡"
	default:
		return "ℹ️ "
	}
}

func renderReport(proj *als.Project, report *rules.HealthReport) {
	fmt.Printf("🎛  %s\n", proj.Name)
	fmt.Printf("    %.1f BPM, %d/%d, %d tracks, %d devices\n",
		proj.Tempo, proj.TimeSigNum, proj.TimeSigDen, report.TrackCount, report.DeviceCount)
	fmt.Printf("    Health: %.1f / 100 (%s)\n\n", report.Score, report.Grade)

	if len(report.Issues) == 0 {
		fmt.Println("✅ No issues found")
		return
	}
	for _, is := range report.Issues {
		fmt.Printf("%s [%s] %s\n", severityIcon(is.Severity), is.Severity, is.Message)
	}
	fmt.Println()
	fmt.Printf("Totals: %d critical, %d warnings, %d suggestions\n",
		report.CountBySeverity(rules.SeverityCritical),
		report.CountBySeverity(rules.SeverityWarning),
		report.CountBySeverity(rules.SeveritySuggestion))
}

func renderScan(result *scan.Result, top int) {
	fmt.Printf("📂 %d projects analyzed, %d unreadable, average score %.1f\n\n",
		len(result.Entries), len(result.Failures), result.AverageScore())

	for _, grade := range []rules.Grade{rules.GradeA, rules.GradeB, rules.GradeC, rules.GradeD, rules.GradeF} {
		if n := result.GradeCounts[grade]; n > 0 {
			fmt.Printf("    %s: %d\n", grade, n)
		}
	}

	if len(result.Entries) > 0 {
		fmt.Println("\nBest:")
		for _, e := range result.Top(top) {
			fmt.Printf("    %6.1f (%s)  %s\n", e.Report.Score, e.Report.Grade, e.Path)
		}
		fmt.Println("\nNeeds attention:")
		for _, e := range result.Bottom(top) {
			fmt.Printf("    %6.1f (%s)  %s\n", e.Report.Score, e.Report.Grade, e.Path)
		}
	}

	if len(result.Failures) > 0 {
		fmt.Println("\nUnreadable files:")
		for _, f := range result.Failures {
			fmt.Printf("    %s: %s\n", f.Path, f.Reason)
		}
	}
}

func verdictIcon(v diff.Verdict) string {
	switch v {
	case diff.VerdictImprovement:
		return "📈"
	case diff.VerdictRegression:
		return "📉"
	default:
		return "➖"
	}
}

func renderDelta(oldPath, newPath string, delta *diff.Delta) {
	fmt.Printf("%s %s → %s\n", verdictIcon(delta.Verdict), oldPath, newPath)
	fmt.Printf("    Score %.1f → %.1f (%+.1f, %s)\n\n",
		delta.OldScore, delta.NewScore, delta.HealthDelta, delta.Verdict)

	if len(delta.Changes) == 0 {
		fmt.Println("No structural changes")
		return
	}
	for _, c := range delta.Changes {
		renderChange(c)
	}
}

func renderTransition(oldScore, newScore float64, delta *diff.Delta) {
	fmt.Printf("%s Since last save: %.1f → %.1f (%+.1f)\n",
		verdictIcon(delta.Verdict), oldScore, newScore, delta.HealthDelta)
	for _, c := range delta.Changes {
		renderChange(c)
	}
}

func renderChange(c diff.Change) {
	switch c.Type {
	case diff.TrackAdded, diff.TrackRemoved:
		fmt.Printf("    %s: %s\n", c.Type, c.TrackName)
	case diff.ParamChanged:
		fmt.Printf("    %s: %s %q on %q (%s → %s)\n",
			c.Type, c.Category, c.DeviceName, c.TrackName, c.Before, c.After)
	default:
		fmt.Printf("    %s: %s %q on %q\n", c.Type, c.Category, c.DeviceName, c.TrackName)
	}
}

func trendIcon(d history.TrendDirection) string {
	switch d {
	case history.TrendImproving:
		return "📈"
	case history.TrendDeclining:
		return "📉"
	default:
		return "➖"
	}
}

func renderTrend(t *history.Trend) {
	fmt.Printf("%s %s is %s over %d versions\n", trendIcon(t.Direction), t.Project, t.Direction, t.Versions)
	fmt.Printf("    Slope:    %+.2f points per version (strength %.2f)\n", t.Slope, t.Strength)
	fmt.Printf("    Momentum: %+.2f\n", t.Momentum)
	fmt.Printf("    Scores:   best %.1f, worst %.1f, average %.1f\n", t.Best, t.Worst, t.Average)
	fmt.Printf("    Largest gain %+.1f, largest drop %+.1f\n", t.LargestGain, t.LargestDrop)
}

func renderPredictions(project string, preds []patterns.Prediction, top int) {
	if len(preds) == 0 {
		fmt.Println("No applicable suggestions for this project yet.")
		return
	}
	if top > 0 && len(preds) > top {
		preds = preds[:top]
	}
	fmt.Printf("🔮 Suggested edits for %s:\n", project)
	for _, p := range preds {
		fmt.Printf("    %+5.1f  %s %q on %q (%.0f%% helped, %s confidence)\n",
			p.Expected, p.Key, p.DeviceName, p.TrackName, p.SuccessRate*100, p.Confidence)
	}
}

func renderRecommendations(recs []patterns.Recommendation) {
	if len(recs) == 0 {
		fmt.Println("No strong patterns in your editing history yet.")
		return
	}
	for _, r := range recs {
		p := r.Pattern
		icon := "👍"
		if r.Kind == "avoid" {
			icon = "🚫"
		}
		fmt.Printf("%s %s: avg %+.1f over %d edits, %.0f%% helped (%s confidence)\n",
			icon, p.Key, p.AvgDelta, p.Occurrences, p.SuccessRate*100, p.Confidence)
	}
}
