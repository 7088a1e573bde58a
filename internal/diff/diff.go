package diff

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/rules"
)

// ChangeType names one kind of structural edit between two versions.
type ChangeType string

const (
	DeviceAdded    ChangeType = "device-added"
	DeviceRemoved  ChangeType = "device-removed"
	DeviceEnabled  ChangeType = "device-enabled"
	DeviceDisabled ChangeType = "device-disabled"
	ParamChanged   ChangeType = "param-changed"
	TrackAdded     ChangeType = "track-added"
	TrackRemoved   ChangeType = "track-removed"
)

// Change is one structural edit. HealthDelta carries the score movement of
// the whole transition: with many edits in one save there is no way to tell
// which edit moved the score, so every change in the transition gets the
// same delta and the pattern learner averages it out over many transitions.
type Change struct {
	Type        ChangeType         `json:"type"`
	Category    als.DeviceCategory `json:"category,omitempty"`
	TrackName   string             `json:"track_name"`
	DeviceName  string             `json:"device_name,omitempty"`
	Before      string             `json:"before,omitempty"`
	After       string             `json:"after,omitempty"`
	HealthDelta float64            `json:"health_delta"`
}

// Verdict summarizes the direction of a transition.
type Verdict string

const (
	VerdictImprovement Verdict = "improvement"
	VerdictRegression  Verdict = "regression"
	VerdictNoChange    Verdict = "no-change"
)

// Options tunes comparison sensitivity.
type Options struct {
	// Numeric parameter moves smaller than this are measurement noise.
	ParamDeadBand float64
	// Score moves smaller than this count as unchanged.
	Epsilon float64
}

func DefaultOptions() Options {
	return Options{ParamDeadBand: 1e-3, Epsilon: 0.5}
}

// Delta is the full result of comparing two project versions.
type Delta struct {
	OldScore    float64  `json:"old_score"`
	NewScore    float64  `json:"new_score"`
	HealthDelta float64  `json:"health_delta"`
	Verdict     Verdict  `json:"verdict"`
	Changes     []Change `json:"changes"`
}

// Differ compares two versions of a project, scoring both with the same
// rules engine so the delta is apples to apples.
type Differ struct {
	engine *rules.Engine
	opts   Options
}

func NewDiffer(engine *rules.Engine, opts Options) *Differ {
	return &Differ{engine: engine, opts: opts}
}

// Compare evaluates both versions and derives the structural changes
// between them. Identical inputs always yield zero changes and an
// unchanged verdict.
func (d *Differ) Compare(oldP, newP *als.Project) *Delta {
	oldRep := d.engine.Evaluate(oldP)
	newRep := d.engine.Evaluate(newP)

	delta := &Delta{
		OldScore:    oldRep.Score,
		NewScore:    newRep.Score,
		HealthDelta: newRep.Score - oldRep.Score,
	}
	switch {
	case delta.HealthDelta > d.opts.Epsilon:
		delta.Verdict = VerdictImprovement
	case delta.HealthDelta < -d.opts.Epsilon:
		delta.Verdict = VerdictRegression
	default:
		delta.Verdict = VerdictNoChange
	}

	delta.Changes = d.compareTracks(oldP, newP)
	for i := range delta.Changes {
		delta.Changes[i].HealthDelta = delta.HealthDelta
	}
	sortChanges(delta.Changes)
	return delta
}

// compareTracks pairs tracks by case-insensitive name; tracks sharing a
// name pair up in document order. A renamed track reads as one removal plus
// one addition, which is the honest answer when no stable identity survives
// the rename.
func (d *Differ) compareTracks(oldP, newP *als.Project) []Change {
	oldByName := make(map[string][]*als.Track, len(oldP.Tracks))
	for i := range oldP.Tracks {
		key := strings.ToLower(oldP.Tracks[i].Name)
		oldByName[key] = append(oldByName[key], &oldP.Tracks[i])
	}

	var changes []Change
	claimed := make(map[string]int)
	for i := range newP.Tracks {
		nt := &newP.Tracks[i]
		key := strings.ToLower(nt.Name)
		if claimed[key] >= len(oldByName[key]) {
			// Devices inside a brand-new track are part of the addition,
			// not separate edits.
			changes = append(changes, Change{
				Type:      TrackAdded,
				TrackName: nt.Name,
			})
			continue
		}
		ot := oldByName[key][claimed[key]]
		claimed[key]++
		changes = append(changes, d.compareChains(ot, nt)...)
	}

	seen := make(map[string]int)
	for i := range oldP.Tracks {
		ot := &oldP.Tracks[i]
		key := strings.ToLower(ot.Name)
		seen[key]++
		if seen[key] > claimed[key] {
			changes = append(changes, Change{
				Type:      TrackRemoved,
				TrackName: ot.Name,
			})
		}
	}
	return changes
}

// compareChains aligns two device chains by longest common subsequence over
// category plus display name, so an insertion mid-chain does not cascade
// into spurious edits for every device after it.
func (d *Differ) compareChains(oldT, newT *als.Track) []Change {
	pairs, removed, added := alignChains(oldT.Devices, newT.Devices)

	var changes []Change
	for _, oi := range removed {
		dev := oldT.Devices[oi]
		changes = append(changes, Change{
			Type:       DeviceRemoved,
			Category:   dev.Category,
			TrackName:  newT.Name,
			DeviceName: dev.DisplayName(),
		})
	}
	for _, ni := range added {
		dev := newT.Devices[ni]
		changes = append(changes, Change{
			Type:       DeviceAdded,
			Category:   dev.Category,
			TrackName:  newT.Name,
			DeviceName: dev.DisplayName(),
		})
	}
	for _, p := range pairs {
		od, nd := oldT.Devices[p.oldIdx], newT.Devices[p.newIdx]
		if od.Enabled != nd.Enabled {
			ct := DeviceDisabled
			if nd.Enabled {
				ct = DeviceEnabled
			}
			changes = append(changes, Change{
				Type:       ct,
				Category:   nd.Category,
				TrackName:  newT.Name,
				DeviceName: nd.DisplayName(),
			})
		}
		if before, after, ok := d.firstParamChange(od, nd); ok {
			changes = append(changes, Change{
				Type:       ParamChanged,
				Category:   nd.Category,
				TrackName:  newT.Name,
				DeviceName: nd.DisplayName(),
				Before:     before,
				After:      after,
			})
		}
	}
	return changes
}

// firstParamChange reports the first parameter, in chain document order,
// that moved beyond the dead band.
func (d *Differ) firstParamChange(od, nd als.Device) (before, after string, ok bool) {
	oldByName := make(map[string]als.Param, len(od.Params))
	for _, p := range od.Params {
		if _, dup := oldByName[p.Name]; !dup {
			oldByName[p.Name] = p
		}
	}
	for _, np := range nd.Params {
		op, found := oldByName[np.Name]
		if !found {
			continue
		}
		if op.Raw == np.Raw {
			continue
		}
		_, oerr := strconv.ParseFloat(op.Raw, 64)
		_, nerr := strconv.ParseFloat(np.Raw, 64)
		if oerr == nil && nerr == nil && math.Abs(np.Value-op.Value) <= d.opts.ParamDeadBand {
			continue
		}
		label := string(np.Key)
		if np.Key == als.ParamOpaque {
			label = np.Name
		}
		return fmt.Sprintf("%s=%s", label, op.Raw), fmt.Sprintf("%s=%s", label, np.Raw), true
	}
	return "", "", false
}

func sortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if a.TrackName != b.TrackName {
			return a.TrackName < b.TrackName
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.DeviceName < b.DeviceName
	})
}
