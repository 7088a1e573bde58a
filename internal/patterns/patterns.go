package patterns

import (
	"fmt"
	"sort"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/diff"
)

// Key identifies one kind of edit: what was done to which category of
// device. Track-level edits carry an empty category.
type Key struct {
	Type     diff.ChangeType    `json:"type"`
	Category als.DeviceCategory `json:"category,omitempty"`
}

func (k Key) String() string {
	if k.Category == "" {
		return string(k.Type)
	}
	return fmt.Sprintf("%s %s", k.Type, k.Category)
}

// Confidence labels how much evidence backs a pattern.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

const (
	highOccurrences   = 10
	mediumOccurrences = 5
	minOccurrences    = 2

	// Average deltas inside (-1, +1) are noise, not signal.
	signalDelta = 1.0
)

func confidenceFor(n int) (Confidence, bool) {
	switch {
	case n >= highOccurrences:
		return ConfidenceHigh, true
	case n >= mediumOccurrences:
		return ConfidenceMedium, true
	case n >= minOccurrences:
		return ConfidenceLow, true
	default:
		return "", false
	}
}

// Pattern is the aggregated outcome of one kind of edit across every
// recorded transition.
type Pattern struct {
	Key         Key        `json:"key"`
	Occurrences int        `json:"occurrences"`
	AvgDelta    float64    `json:"avg_delta"`
	SuccessRate float64    `json:"success_rate"`
	Confidence  Confidence `json:"confidence"`
}

// InsufficientSampleError reports that no edit kind has been seen often
// enough to learn from.
type InsufficientSampleError struct {
	Changes int
}

func (e *InsufficientSampleError) Error() string {
	return fmt.Sprintf("not enough recorded changes to learn from (%d total, need %d of one kind)", e.Changes, minOccurrences)
}

// Model holds the learned patterns. Rebuilt from scratch on every Learn
// call: full recomputation over all stored changes is cheap at this scale
// and cannot drift.
type Model struct {
	byKey   map[Key]Pattern
	ordered []Pattern
}

// Learn aggregates recorded changes into patterns. Kinds seen fewer than
// two times are excluded entirely.
func Learn(changes []diff.Change) *Model {
	type acc struct {
		n        int
		sum      float64
		positive int
	}
	accs := make(map[Key]*acc)
	for _, c := range changes {
		k := Key{Type: c.Type, Category: c.Category}
		a, ok := accs[k]
		if !ok {
			a = &acc{}
			accs[k] = a
		}
		a.n++
		a.sum += c.HealthDelta
		if c.HealthDelta > 0 {
			a.positive++
		}
	}

	m := &Model{byKey: make(map[Key]Pattern)}
	for k, a := range accs {
		conf, ok := confidenceFor(a.n)
		if !ok {
			continue
		}
		p := Pattern{
			Key:         k,
			Occurrences: a.n,
			AvgDelta:    a.sum / float64(a.n),
			SuccessRate: float64(a.positive) / float64(a.n),
			Confidence:  conf,
		}
		m.byKey[k] = p
		m.ordered = append(m.ordered, p)
	}

	sort.Slice(m.ordered, func(i, j int) bool {
		a, b := m.ordered[i], m.ordered[j]
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		if a.Key.Type != b.Key.Type {
			return a.Key.Type < b.Key.Type
		}
		return a.Key.Category < b.Key.Category
	})
	return m
}

// Patterns returns every learned pattern, most evidence first.
func (m *Model) Patterns() []Pattern { return m.ordered }

func (m *Model) Lookup(k Key) (Pattern, bool) {
	p, ok := m.byKey[k]
	return p, ok
}

func (m *Model) Empty() bool { return len(m.ordered) == 0 }

// Helps returns patterns whose average delta clears the signal threshold,
// best first.
func (m *Model) Helps() []Pattern {
	var out []Pattern
	for _, p := range m.ordered {
		if p.AvgDelta > signalDelta {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgDelta > out[j].AvgDelta })
	return out
}

// Hurts returns patterns whose average delta is clearly negative, worst
// first.
func (m *Model) Hurts() []Pattern {
	var out []Pattern
	for _, p := range m.ordered {
		if p.AvgDelta < -signalDelta {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgDelta < out[j].AvgDelta })
	return out
}
