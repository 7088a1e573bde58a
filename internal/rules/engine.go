package rules

import (
	"math"
	"sort"

	"github.com/alsdiag/alsdiag/internal/als"
)

// Engine evaluates a parsed project against the full rule set. Evaluation
// is pure: the same project and config always produce the same report.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine { return &Engine{cfg: cfg} }

// Evaluate runs every rule family and folds the findings into a scored
// report. A project with zero tracks is healthy by definition.
func (e *Engine) Evaluate(p *als.Project) *HealthReport {
	report := &HealthReport{
		TrackCount:  len(p.Tracks),
		DeviceCount: p.DeviceCount(),
		Counts:      make(map[Severity]int),
	}

	if len(p.Tracks) == 0 {
		report.Issues = []Issue{{
			Rule:        "empty-project",
			Category:    CategoryGeneral,
			Severity:    SeverityInfo,
			Message:     "project has no tracks, nothing to analyze",
			TrackIndex:  -1,
			DeviceIndex: -1,
		}}
		report.Counts[SeverityInfo] = 1
		report.Score = 100
		report.Grade = GradeFor(report.Score)
		return report
	}

	var issues []Issue
	issues = append(issues, e.checkClutter(p)...)
	issues = append(issues, e.checkChainOrder(p)...)
	issues = append(issues, e.checkWrongEffect(p)...)
	issues = append(issues, e.checkDuplicates(p)...)
	issues = append(issues, e.checkParameters(p)...)
	issues = append(issues, e.checkGainStaging(p)...)

	sortIssues(issues)

	report.Issues = issues
	for _, is := range issues {
		report.Counts[is.Severity]++
	}
	report.Score = e.score(issues)
	report.Grade = GradeFor(report.Score)
	return report
}

// sortIssues orders most severe first, then by track, device, and rule so
// the report reads top down and repeated runs are byte-identical.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity != b.Severity {
			return a.Severity > b.Severity
		}
		if a.TrackIndex != b.TrackIndex {
			return a.TrackIndex < b.TrackIndex
		}
		if a.DeviceIndex != b.DeviceIndex {
			return a.DeviceIndex < b.DeviceIndex
		}
		return a.Rule < b.Rule
	})
}

// score applies severity penalties with diminishing returns: the first two
// findings of a rule family on a given track count in full, each further
// repeat counts half the previous one. Keeps a single noisy track from
// zeroing the whole project.
func (e *Engine) score(issues []Issue) float64 {
	type key struct {
		track    int
		category string
	}
	seen := make(map[key]int)

	total := 0.0
	for _, is := range issues {
		k := key{is.TrackIndex, is.Category}
		n := seen[k]
		seen[k] = n + 1

		penalty := is.Severity.Penalty()
		if n >= 2 {
			penalty *= math.Pow(0.5, float64(n-1))
		}
		total += penalty
	}

	score := 100 - total
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// enabledEntry pairs a device with its position in the original chain.
type enabledEntry struct {
	idx int
	dev als.Device
}

func enabledDevices(t als.Track) []enabledEntry {
	var out []enabledEntry
	for i, d := range t.Devices {
		if d.Enabled {
			out = append(out, enabledEntry{idx: i, dev: d})
		}
	}
	return out
}
