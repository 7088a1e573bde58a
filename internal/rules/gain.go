package rules

import (
	"fmt"
	"math"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/utils"
)

// checkGainStaging flags track faders far outside the mix's own level
// distribution. Return and master tracks are excluded because their levels
// follow different conventions, muted tracks because they carry no signal.
func (e *Engine) checkGainStaging(p *als.Project) []Issue {
	type candidate struct {
		idx  int
		name string
		vol  float64
	}
	var cands []candidate
	for i, t := range p.Tracks {
		if t.Type == als.TrackReturn || t.Type == als.TrackMaster || t.Muted {
			continue
		}
		cands = append(cands, candidate{idx: i, name: t.Name, vol: t.VolumeDB})
	}
	if len(cands) < e.cfg.MinTracksForGain {
		return nil
	}

	vols := make([]float64, len(cands))
	for i, c := range cands {
		vols[i] = c.vol
	}
	stddev, mean := utils.CalculateStdDev(vols)

	var issues []Issue
	for _, c := range cands {
		dev := math.Abs(c.vol - mean)
		outlier := dev > e.cfg.GainFixedDB
		if !outlier && stddev > 0 && dev/stddev > e.cfg.GainZScore {
			outlier = true
		}
		if !outlier {
			continue
		}
		issues = append(issues, Issue{
			Rule:        "gain-outlier",
			Category:    CategoryGainStaging,
			Severity:    SeverityWarning,
			Message:     fmt.Sprintf("track %q sits %.1f dB from the mix average of %.1f dB", c.name, c.vol-mean, mean),
			TrackIndex:  c.idx,
			TrackName:   c.name,
			DeviceIndex: -1,
		})
	}
	return issues
}
