package rules

// Severity orders issues from cosmetic to structural. Higher values are
// more severe, which makes the ordering explicit when sorting.
type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuggestion
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	case SeveritySuggestion:
		return "suggestion"
	default:
		return "info"
	}
}

// Penalty is the base score deduction for one issue of this severity.
func (s Severity) Penalty() float64 {
	switch s {
	case SeverityCritical:
		return 25
	case SeverityWarning:
		return 10
	case SeveritySuggestion:
		return 4
	default:
		return 0
	}
}

// Rule category groups used in report summaries.
const (
	CategoryClutter     = "clutter"
	CategoryChainOrder  = "chain-order"
	CategoryWrongEffect = "wrong-effect"
	CategoryDuplicates  = "duplicates"
	CategoryParameters  = "parameters"
	CategoryGainStaging = "gain-staging"
	CategoryGeneral     = "general"
)

// Issue is one finding produced by the rules engine. TrackIndex is -1 for
// project-wide findings, DeviceIndex is -1 when no single device is at
// fault.
type Issue struct {
	Rule        string   `json:"rule"`
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	TrackIndex  int      `json:"track_index"`
	TrackName   string   `json:"track_name,omitempty"`
	DeviceIndex int      `json:"device_index"`
}

// Grade buckets the numeric score for at-a-glance reporting.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeFor maps a score to its grade band.
func GradeFor(score float64) Grade {
	switch {
	case score >= 80:
		return GradeA
	case score >= 60:
		return GradeB
	case score >= 40:
		return GradeC
	case score >= 20:
		return GradeD
	default:
		return GradeF
	}
}

// HealthReport is the complete verdict for one project evaluation.
type HealthReport struct {
	Score       float64          `json:"score"`
	Grade       Grade            `json:"grade"`
	Issues      []Issue          `json:"issues"`
	TrackCount  int              `json:"track_count"`
	DeviceCount int              `json:"device_count"`
	Counts      map[Severity]int `json:"counts"`
}

// CountBySeverity returns the number of issues at the given severity.
func (r *HealthReport) CountBySeverity(s Severity) int {
	return r.Counts[s]
}
