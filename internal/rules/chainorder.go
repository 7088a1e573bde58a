package rules

import (
	"fmt"

	"github.com/alsdiag/alsdiag/internal/als"
)

// Chain-order rules look at enabled devices only: a bypassed device is not
// processing signal, so its position cannot be wrong.
func (e *Engine) checkChainOrder(p *als.Project) []Issue {
	var issues []Issue
	for i, t := range p.Tracks {
		chain := enabledDevices(t)
		issues = append(issues, e.limiterNotLast(i, t, chain)...)
		issues = append(issues, e.eqAfterCompressor(i, t, chain)...)
	}
	return issues
}

// limiterNotLast flags each limiter that has real processing after it.
// Metering and gain utilities after a limiter are fine.
func (e *Engine) limiterNotLast(trackIdx int, t als.Track, chain []enabledEntry) []Issue {
	var issues []Issue
	for pos, entry := range chain {
		if entry.dev.Category != als.CategoryLimiter {
			continue
		}
		for _, after := range chain[pos+1:] {
			cat := after.dev.Category
			if cat == als.CategoryUtility || cat == als.CategoryUnknown {
				continue
			}
			issues = append(issues, Issue{
				Rule:        "limiter-not-last",
				Category:    CategoryChainOrder,
				Severity:    SeverityWarning,
				Message:     fmt.Sprintf("limiter %q on track %q is followed by %s %q, limiters normally sit last in the chain", entry.dev.DisplayName(), t.Name, after.dev.Category, after.dev.DisplayName()),
				TrackIndex:  trackIdx,
				TrackName:   t.Name,
				DeviceIndex: entry.idx,
			})
			break // one finding per limiter, not one per trailing device
		}
	}
	return issues
}

// eqAfterCompressor flags the first EQ that sits after the first compressor
// on a track. Corrective EQ usually belongs before compression; one finding
// per track keeps the report readable.
func (e *Engine) eqAfterCompressor(trackIdx int, t als.Track, chain []enabledEntry) []Issue {
	compPos := -1
	for pos, entry := range chain {
		if entry.dev.Category == als.CategoryCompressor {
			compPos = pos
			break
		}
	}
	if compPos < 0 {
		return nil
	}
	for _, entry := range chain[compPos+1:] {
		if entry.dev.Category != als.CategoryEQ {
			continue
		}
		return []Issue{{
			Rule:        "eq-after-compressor",
			Category:    CategoryChainOrder,
			Severity:    SeveritySuggestion,
			Message:     fmt.Sprintf("EQ %q on track %q sits after a compressor, corrective EQ usually goes first", entry.dev.DisplayName(), t.Name),
			TrackIndex:  trackIdx,
			TrackName:   t.Name,
			DeviceIndex: entry.idx,
		}}
	}
	return nil
}
