package history

import (
	"math"

	"github.com/alsdiag/alsdiag/utils"
)

type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

const (
	// Slopes at or above this many points per version saturate the
	// strength signal.
	trendSlopeCeiling = 5.0
	// Below this strength the direction is reported as stable.
	trendStrengthFloor = 0.1
	// Recent window for the momentum comparison.
	momentumWindow = 5
)

// Trend summarizes how a project's health has moved across its saved
// versions.
type Trend struct {
	Project   string         `json:"project"`
	Direction TrendDirection `json:"direction"`

	// Slope is score points per saved version; Strength folds the slope
	// magnitude and the fit quality into [0, 1].
	Slope    float64 `json:"slope"`
	Strength float64 `json:"strength"`

	// Momentum is the mean of the recent deltas minus the lifetime mean:
	// positive means improvement is accelerating.
	Momentum float64 `json:"momentum"`

	Versions int     `json:"versions"`
	Best     float64 `json:"best"`
	Worst    float64 `json:"worst"`
	Average  float64 `json:"average"`

	LargestGain float64 `json:"largest_gain"`
	LargestDrop float64 `json:"largest_drop"`
}

// AnalyzeTrend fits a line through a project's score history. At least two
// versions are required; fewer yields *InsufficientHistoryError.
func AnalyzeTrend(project string, recs []VersionRecord) (*Trend, error) {
	if len(recs) < 2 {
		return nil, &InsufficientHistoryError{Project: project, Have: len(recs), Need: 2}
	}

	x := make([]float64, len(recs))
	y := make([]float64, len(recs))
	for i, rec := range recs {
		x[i] = float64(i)
		y[i] = rec.Report.Score
	}

	slope, corr := utils.LinearRegression(x, y)
	strength := math.Min(1, math.Abs(slope)/trendSlopeCeiling) * corr * corr

	t := &Trend{
		Project:  project,
		Slope:    slope,
		Strength: strength,
		Versions: len(recs),
		Best:     y[0],
		Worst:    y[0],
		Average:  utils.CalculateMean(y),
	}
	for _, score := range y {
		t.Best = math.Max(t.Best, score)
		t.Worst = math.Min(t.Worst, score)
	}

	switch {
	case strength < trendStrengthFloor:
		t.Direction = TrendStable
	case slope > 0:
		t.Direction = TrendImproving
	default:
		t.Direction = TrendDeclining
	}

	deltas := make([]float64, len(y)-1)
	for i := 1; i < len(y); i++ {
		d := y[i] - y[i-1]
		deltas[i-1] = d
		t.LargestGain = math.Max(t.LargestGain, d)
		t.LargestDrop = math.Min(t.LargestDrop, d)
	}
	recent := deltas
	if len(recent) > momentumWindow {
		recent = deltas[len(deltas)-momentumWindow:]
	}
	t.Momentum = utils.CalculateMean(recent) - utils.CalculateMean(deltas)

	return t, nil
}
