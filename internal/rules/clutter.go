package rules

import (
	"fmt"

	"github.com/alsdiag/alsdiag/internal/als"
)

// Below this many devices the disabled ratio is too noisy to judge.
const clutterMinDevices = 4

func (e *Engine) checkClutter(p *als.Project) []Issue {
	var issues []Issue

	total := p.DeviceCount()
	if total >= clutterMinDevices {
		disabled := p.DisabledDeviceCount()
		if sev, ok := e.clutterSeverity(disabled, total); ok {
			issues = append(issues, Issue{
				Rule:        "disabled-clutter",
				Category:    CategoryClutter,
				Severity:    sev,
				Message:     fmt.Sprintf("%d of %d devices are disabled (%.0f%%), delete the ones you are done auditioning", disabled, total, ratio(disabled, total)*100),
				TrackIndex:  -1,
				DeviceIndex: -1,
			})
		}
	}

	for i, t := range p.Tracks {
		if len(t.Devices) < clutterMinDevices {
			continue
		}
		disabled := t.DisabledDevices()
		if sev, ok := e.clutterSeverity(disabled, len(t.Devices)); ok {
			issues = append(issues, Issue{
				Rule:        "track-clutter",
				Category:    CategoryClutter,
				Severity:    sev,
				Message:     fmt.Sprintf("track %q carries %d disabled devices out of %d", t.Name, disabled, len(t.Devices)),
				TrackIndex:  i,
				TrackName:   t.Name,
				DeviceIndex: -1,
			})
		}
	}
	return issues
}

// clutterSeverity scales with how far past the threshold the ratio sits.
func (e *Engine) clutterSeverity(disabled, total int) (Severity, bool) {
	r := ratio(disabled, total)
	switch {
	case r > e.cfg.DisabledRatioSevere:
		return SeverityWarning, true
	case r > e.cfg.DisabledRatio:
		return SeveritySuggestion, true
	default:
		return SeverityInfo, false
	}
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole)
}
