package patterns

import (
	"sort"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
)

// Prediction is one concrete edit the model expects to move a project's
// score, with the evidence behind the expectation.
type Prediction struct {
	Key         Key        `json:"key"`
	TrackName   string     `json:"track_name"`
	DeviceName  string     `json:"device_name"`
	Expected    float64    `json:"expected_delta"`
	SuccessRate float64    `json:"success_rate"`
	Confidence  Confidence `json:"confidence"`
}

// Predict enumerates the edits available on the given project (removing,
// disabling, or enabling each device) and scores each against the learned
// patterns. Results come back best expected delta first.
func (m *Model) Predict(p *als.Project) ([]Prediction, error) {
	if m.Empty() {
		return nil, &InsufficientSampleError{}
	}

	var preds []Prediction
	for _, t := range p.Tracks {
		for _, d := range t.Devices {
			keys := []Key{{Type: diff.DeviceRemoved, Category: d.Category}}
			if d.Enabled {
				keys = append(keys, Key{Type: diff.DeviceDisabled, Category: d.Category})
			} else {
				keys = append(keys, Key{Type: diff.DeviceEnabled, Category: d.Category})
			}
			for _, k := range keys {
				pat, ok := m.byKey[k]
				if !ok {
					continue
				}
				preds = append(preds, Prediction{
					Key:         k,
					TrackName:   t.Name,
					DeviceName:  d.DisplayName(),
					Expected:    pat.AvgDelta,
					SuccessRate: pat.SuccessRate,
					Confidence:  pat.Confidence,
				})
			}
		}
	}

	sort.SliceStable(preds, func(i, j int) bool {
		a, b := preds[i], preds[j]
		if a.Expected != b.Expected {
			return a.Expected > b.Expected
		}
		if a.TrackName != b.TrackName {
			return a.TrackName < b.TrackName
		}
		return a.DeviceName < b.DeviceName
	})
	return preds, nil
}

// Recommendation pairs a pattern with the advice it supports.
type Recommendation struct {
	Pattern Pattern `json:"pattern"`
	Kind    string  `json:"kind"` // "do" or "avoid"
}

// Recommend turns the learned patterns into advice: edits that reliably
// help, and frequent edits that reliably hurt.
func (m *Model) Recommend() ([]Recommendation, error) {
	if m.Empty() {
		return nil, &InsufficientSampleError{}
	}

	var recs []Recommendation
	for _, p := range m.Helps() {
		recs = append(recs, Recommendation{Pattern: p, Kind: "do"})
	}
	for _, p := range m.Hurts() {
		// A rare mistake is an anecdote; a frequent one is a habit worth
		// calling out.
		if p.Occurrences >= highOccurrences {
			recs = append(recs, Recommendation{Pattern: p, Kind: "avoid"})
		}
	}
	return recs, nil
}
