package rules

import (
	"fmt"
	"math"

	"github.com/alsdiag/alsdiag/internal/als"
)

// checkParameters flags parameter values no deliberate mix decision
// produces: brick-wall compression ratios and runaway makeup gain.
func (e *Engine) checkParameters(p *als.Project) []Issue {
	var issues []Issue
	for i, t := range p.Tracks {
		for j, d := range t.Devices {
			if !d.Enabled {
				continue
			}
			if d.Category == als.CategoryCompressor {
				if ratio, ok := d.Param(als.ParamRatio); ok && ratio.Value >= e.cfg.MaxCompRatio {
					issues = append(issues, Issue{
						Rule:        "extreme-ratio",
						Category:    CategoryParameters,
						Severity:    SeverityCritical,
						Message:     fmt.Sprintf("compressor %q on track %q runs a %.0f:1 ratio, effectively a brick-wall limiter", d.DisplayName(), t.Name, ratio.Value),
						TrackIndex:  i,
						TrackName:   t.Name,
						DeviceIndex: j,
					})
				}
			}
			if gain, ok := d.Param(als.ParamGain); ok && math.Abs(gain.Value) > e.cfg.MaxGainDB {
				issues = append(issues, Issue{
					Rule:        "extreme-gain",
					Category:    CategoryParameters,
					Severity:    SeverityCritical,
					Message:     fmt.Sprintf("%q on track %q applies %+.1f dB of gain", d.DisplayName(), t.Name, gain.Value),
					TrackIndex:  i,
					TrackName:   t.Name,
					DeviceIndex: j,
				})
			}
		}
	}
	return issues
}
