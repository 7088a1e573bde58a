package rules

import (
	"fmt"

	"github.com/alsdiag/alsdiag/internal/als"
)

// checkDuplicates flags stacks of same-category effects on one track.
// Utility, instrument, and unclassified devices are exempt because stacking
// them is routine.
func (e *Engine) checkDuplicates(p *als.Project) []Issue {
	var issues []Issue
	for i, t := range p.Tracks {
		counts := make(map[als.DeviceCategory]int)
		for _, d := range t.Devices {
			if !d.Enabled {
				continue
			}
			switch d.Category {
			case als.CategoryUtility, als.CategoryUnknown, als.CategoryInstrument, als.CategoryThirdParty:
				continue
			}
			counts[d.Category]++
		}
		for _, cat := range als.Categories() {
			n := counts[cat]
			if n < e.cfg.DuplicateThreshold {
				continue
			}
			issues = append(issues, Issue{
				Rule:        "duplicate-category",
				Category:    CategoryDuplicates,
				Severity:    SeveritySuggestion,
				Message:     fmt.Sprintf("track %q runs %d %s devices in series", t.Name, n, cat),
				TrackIndex:  i,
				TrackName:   t.Name,
				DeviceIndex: -1,
			})
		}
	}
	return issues
}
