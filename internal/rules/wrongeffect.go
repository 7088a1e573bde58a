package rules

import (
	"fmt"
	"strings"

	"github.com/alsdiag/alsdiag/internal/als"
)

// Device names that mark a vocal-specific processor.
var vocalDeviceKeywords = []string{"de-ess", "deess", "vocal", "vox"}

// Track names that mark a clearly non-vocal source.
var instrumentTrackKeywords = []string{
	"drum", "kick", "snare", "hat", "perc",
	"bass", "guitar", "keys", "synth", "piano", "pad", "lead",
}

// checkWrongEffect flags vocal-specific processors sitting on tracks whose
// name says instrument. Tracks whose name also mentions vocals are left
// alone: "Lead Vocal" is a vocal track, not a lead synth.
func (e *Engine) checkWrongEffect(p *als.Project) []Issue {
	var issues []Issue
	for i, t := range p.Tracks {
		trackName := strings.ToLower(t.Name)
		if containsAny(trackName, vocalDeviceKeywords) {
			continue
		}
		if !containsAny(trackName, instrumentTrackKeywords) {
			continue
		}
		for j, d := range t.Devices {
			if !d.Enabled {
				continue
			}
			devName := strings.ToLower(d.DisplayName())
			if !containsAny(devName, vocalDeviceKeywords) {
				continue
			}
			issues = append(issues, Issue{
				Rule:        "vocal-effect-on-instrument",
				Category:    CategoryWrongEffect,
				Severity:    SeverityWarning,
				Message:     fmt.Sprintf("%q on track %q looks like a vocal processor on a non-vocal source", d.DisplayName(), t.Name),
				TrackIndex:  i,
				TrackName:   t.Name,
				DeviceIndex: j,
			})
		}
	}
	return issues
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
