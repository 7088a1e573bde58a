package diff

import (
	"testing"

	"github.com/alsdiag/alsdiag/internal/als"
	"github.com/alsdiag/alsdiag/internal/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDiffer() *Differ {
	return NewDiffer(rules.NewEngine(rules.DefaultConfig()), DefaultOptions())
}

func dev(cat als.DeviceCategory, typ string, params ...als.Param) als.Device {
	return als.Device{Category: cat, Type: typ, Enabled: true, Params: params}
}

func trk(name string, devices ...als.Device) als.Track {
	return als.Track{Name: name, Type: als.TrackAudio, VolumeDB: -3, Devices: devices}
}

func proj(tracks ...als.Track) *als.Project {
	return &als.Project{Name: "test", Tempo: 120, TimeSigNum: 4, TimeSigDen: 4, Tracks: tracks}
}

func TestCompareIdentical(t *testing.T) {
	p := proj(trk("Bass",
		dev(als.CategoryInstrument, "Operator"),
		dev(als.CategoryEQ, "Eq8", als.Param{Key: als.ParamGain, Name: "Gain", Value: 3, Raw: "3"}),
	))

	delta := newDiffer().Compare(p, p)

	assert.Empty(t, delta.Changes)
	assert.Equal(t, VerdictNoChange, delta.Verdict)
	assert.Equal(t, 0.0, delta.HealthDelta)
	assert.Equal(t, delta.OldScore, delta.NewScore)
}

func TestCompareDeviceRemoved(t *testing.T) {
	older := proj(trk("Bass",
		dev(als.CategoryInstrument, "Operator"),
		als.Device{Category: als.CategoryEQ, Type: "Eq8", Name: "Muddy EQ", Enabled: true},
	))
	newer := proj(trk("Bass",
		dev(als.CategoryInstrument, "Operator"),
	))

	delta := newDiffer().Compare(older, newer)

	require.Len(t, delta.Changes, 1)
	c := delta.Changes[0]
	assert.Equal(t, DeviceRemoved, c.Type)
	assert.Equal(t, als.CategoryEQ, c.Category)
	assert.Equal(t, "Bass", c.TrackName)
	assert.Equal(t, "Muddy EQ", c.DeviceName)

	// Every change carries the whole transition's score movement.
	assert.Equal(t, delta.NewScore-delta.OldScore, delta.HealthDelta)
	assert.Equal(t, delta.HealthDelta, c.HealthDelta)
}

// An insertion mid-chain must not cascade into edits for the devices that
// merely shifted position.
func TestCompareMidChainInsertion(t *testing.T) {
	older := proj(trk("Keys",
		dev(als.CategoryEQ, "Eq8"),
		dev(als.CategoryReverb, "Reverb"),
		dev(als.CategoryDelay, "Delay"),
	))
	newer := proj(trk("Keys",
		dev(als.CategoryEQ, "Eq8"),
		dev(als.CategorySaturator, "Saturator"),
		dev(als.CategoryReverb, "Reverb"),
		dev(als.CategoryDelay, "Delay"),
	))

	delta := newDiffer().Compare(older, newer)

	require.Len(t, delta.Changes, 1)
	assert.Equal(t, DeviceAdded, delta.Changes[0].Type)
	assert.Equal(t, als.CategorySaturator, delta.Changes[0].Category)
}

func TestCompareEnableToggle(t *testing.T) {
	older := proj(trk("Vox",
		als.Device{Category: als.CategoryReverb, Type: "Reverb", Enabled: false},
	))
	newer := proj(trk("Vox",
		als.Device{Category: als.CategoryReverb, Type: "Reverb", Enabled: true},
	))

	delta := newDiffer().Compare(older, newer)

	require.Len(t, delta.Changes, 1)
	assert.Equal(t, DeviceEnabled, delta.Changes[0].Type)
	assert.Equal(t, "Reverb", delta.Changes[0].DeviceName)
}

func TestCompareParamChange(t *testing.T) {
	older := proj(trk("Snare",
		dev(als.CategoryCompressor, "Compressor2",
			als.Param{Key: als.ParamRatio, Name: "Ratio", Value: 4, Raw: "4"},
			als.Param{Key: als.ParamThreshold, Name: "Threshold", Value: -18, Raw: "-18"},
		),
	))
	newer := proj(trk("Snare",
		dev(als.CategoryCompressor, "Compressor2",
			als.Param{Key: als.ParamRatio, Name: "Ratio", Value: 8, Raw: "8"},
			als.Param{Key: als.ParamThreshold, Name: "Threshold", Value: -24, Raw: "-24"},
		),
	))

	delta := newDiffer().Compare(older, newer)

	// One change per device, reporting the first moved parameter.
	require.Len(t, delta.Changes, 1)
	c := delta.Changes[0]
	assert.Equal(t, ParamChanged, c.Type)
	assert.Equal(t, "Ratio=4", c.Before)
	assert.Equal(t, "Ratio=8", c.After)
}

func TestCompareParamDeadBand(t *testing.T) {
	older := proj(trk("Pad",
		dev(als.CategoryReverb, "Reverb",
			als.Param{Key: als.ParamDryWet, Name: "DryWet", Value: 0.5, Raw: "0.5"},
		),
	))
	within := proj(trk("Pad",
		dev(als.CategoryReverb, "Reverb",
			als.Param{Key: als.ParamDryWet, Name: "DryWet", Value: 0.5005, Raw: "0.5005"},
		),
	))
	beyond := proj(trk("Pad",
		dev(als.CategoryReverb, "Reverb",
			als.Param{Key: als.ParamDryWet, Name: "DryWet", Value: 0.6, Raw: "0.6"},
		),
	))

	d := newDiffer()
	assert.Empty(t, d.Compare(older, within).Changes)
	require.Len(t, d.Compare(older, beyond).Changes, 1)
}

// Devices inside a brand-new track are part of the addition, not separate
// device edits.
func TestCompareTrackAdded(t *testing.T) {
	older := proj(trk("Drums", dev(als.CategoryInstrument, "DrumGroupDevice")))
	newer := proj(
		trk("Drums", dev(als.CategoryInstrument, "DrumGroupDevice")),
		trk("Strings",
			dev(als.CategoryInstrument, "Operator"),
			dev(als.CategoryReverb, "Reverb"),
		),
	)

	delta := newDiffer().Compare(older, newer)

	require.Len(t, delta.Changes, 1)
	assert.Equal(t, TrackAdded, delta.Changes[0].Type)
	assert.Equal(t, "Strings", delta.Changes[0].TrackName)
}

func TestCompareTrackRemoved(t *testing.T) {
	older := proj(
		trk("Drums"),
		trk("Scratch", dev(als.CategoryEQ, "Eq8")),
	)
	newer := proj(trk("Drums"))

	delta := newDiffer().Compare(older, newer)

	require.Len(t, delta.Changes, 1)
	assert.Equal(t, TrackRemoved, delta.Changes[0].Type)
	assert.Equal(t, "Scratch", delta.Changes[0].TrackName)
}

// Tracks sharing a name pair up in document order; surplus copies are
// reported, not silently dropped.
func TestCompareDuplicateTrackNames(t *testing.T) {
	older := proj(
		trk("Drums", dev(als.CategoryEQ, "Eq8")),
		trk("Drums", dev(als.CategoryReverb, "Reverb")),
	)
	newer := proj(trk("Drums", dev(als.CategoryEQ, "Eq8")))

	delta := newDiffer().Compare(older, newer)
	require.Len(t, delta.Changes, 1)
	assert.Equal(t, TrackRemoved, delta.Changes[0].Type)
	assert.Equal(t, "Drums", delta.Changes[0].TrackName)

	reverse := newDiffer().Compare(newer, older)
	require.Len(t, reverse.Changes, 1)
	assert.Equal(t, TrackAdded, reverse.Changes[0].Type)
}

func TestCompareTrackMatchCaseInsensitive(t *testing.T) {
	older := proj(trk("bass drop", dev(als.CategoryEQ, "Eq8")))
	newer := proj(trk("Bass Drop", dev(als.CategoryEQ, "Eq8")))

	delta := newDiffer().Compare(older, newer)
	assert.Empty(t, delta.Changes)
}

func TestCompareVerdicts(t *testing.T) {
	bad := proj(trk("Mix",
		dev(als.CategoryLimiter, "Limiter"),
		dev(als.CategorySaturator, "Saturator"),
	))
	good := proj(trk("Mix",
		dev(als.CategorySaturator, "Saturator"),
		dev(als.CategoryLimiter, "Limiter"),
	))

	d := newDiffer()
	assert.Equal(t, VerdictImprovement, d.Compare(bad, good).Verdict)
	assert.Equal(t, VerdictRegression, d.Compare(good, bad).Verdict)
	assert.Equal(t, VerdictNoChange, d.Compare(bad, bad).Verdict)
}

func TestAlignChainsDuplicateDevices(t *testing.T) {
	older := []als.Device{
		dev(als.CategoryEQ, "Eq8"),
		dev(als.CategoryEQ, "Eq8"),
	}
	newer := []als.Device{
		dev(als.CategoryEQ, "Eq8"),
	}

	pairs, removed, added := alignChains(older, newer)

	assert.Len(t, pairs, 1)
	assert.Len(t, removed, 1)
	assert.Empty(t, added)
}
