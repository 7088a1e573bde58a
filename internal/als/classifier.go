package als

import "strings"

// Native device element names mapped to categories. The table is additive:
// new Live devices land in CategoryUnknown until added here, which keeps the
// parser forward-compatible with schema drift.
var nativeCategories = map[string]DeviceCategory{
	// Instruments
	"OriginalSimpler":       CategoryInstrument,
	"MultiSampler":          CategoryInstrument,
	"Operator":              CategoryInstrument,
	"InstrumentVector":      CategoryInstrument, // Wavetable
	"UltraAnalog":           CategoryInstrument, // Analog
	"Collision":             CategoryInstrument,
	"StringStudio":          CategoryInstrument, // Tension
	"InstrumentImpulse":     CategoryInstrument,
	"DrumGroupDevice":       CategoryInstrument,
	"InstrumentGroupDevice": CategoryInstrument,
	"InstrumentMeld":        CategoryInstrument,
	"Drift":                 CategoryInstrument,

	// EQ
	"Eq8":       CategoryEQ,
	"FilterEQ3": CategoryEQ, // EQ Three
	"ChannelEq": CategoryEQ,

	// Dynamics
	"Compressor2":       CategoryCompressor,
	"GlueCompressor":    CategoryCompressor,
	"MultibandDynamics": CategoryCompressor,
	"Gate":              CategoryCompressor,

	"Limiter": CategoryLimiter,

	// Saturation / distortion
	"Saturator":   CategorySaturator,
	"Overdrive":   CategorySaturator,
	"Amp":         CategorySaturator,
	"Cabinet":     CategorySaturator,
	"DynamicTube": CategorySaturator, // Dynamic Tube
	"Erosion":     CategorySaturator,
	"Redux":       CategorySaturator,
	"Redux2":      CategorySaturator,
	"Vinyl":       CategorySaturator, // Vinyl Distortion
	"Pedal":       CategorySaturator,
	"Roar":        CategorySaturator,

	// Reverb
	"Reverb": CategoryReverb,
	"Hybrid": CategoryReverb, // Hybrid Reverb

	// Delay
	"Delay":         CategoryDelay,
	"PingPongDelay": CategoryDelay,
	"FilterDelay":   CategoryDelay,
	"GrainDelay":    CategoryDelay,
	"Echo":          CategoryDelay,

	// Modulation
	"Chorus":           CategoryModulation,
	"Chorus2":          CategoryModulation,
	"Phaser":           CategoryModulation,
	"PhaserNew":        CategoryModulation,
	"Flanger":          CategoryModulation,
	"FrequencyShifter": CategoryModulation,
	"AutoPan":          CategoryModulation,
	"Shifter":          CategoryModulation,

	// Filter
	"AutoFilter": CategoryFilter,

	// Utility
	"StereoGain":             CategoryUtility, // Utility
	"Tuner":                  CategoryUtility,
	"SpectrumAnalyzer":       CategoryUtility,
	"Spectrum":               CategoryUtility,
	"CrossDelay":             CategoryUtility,
	"AudioBranchMixerDevice": CategoryUtility,
}

// Element names that host an external plugin rather than describing a
// native device. For these the wrapped plugin name decides the category.
var pluginHosts = map[string]bool{
	"PluginDevice":         true,
	"AuPluginDevice":       true,
	"Vst3PluginDevice":     true,
	"MxDeviceAudioEffect":  true,
	"MxDeviceInstrument":   true,
	"MxDeviceMidiEffect":   true,
}

// Keyword fragments matched against a lowercased plugin name, checked in
// order so the more specific fragments win.
var pluginKeywords = []struct {
	fragment string
	category DeviceCategory
}{
	{"pro-l", CategoryLimiter},
	{"pro-c", CategoryCompressor},
	{"pro-mb", CategoryCompressor},
	{"pro-ds", CategoryCompressor},
	{"pro-q", CategoryEQ},
	{"limit", CategoryLimiter},
	{"maximizer", CategoryLimiter},
	{"comp", CategoryCompressor},
	{"de-ess", CategoryCompressor},
	{"deess", CategoryCompressor},
	{"eq", CategoryEQ},
	{"equaliz", CategoryEQ},
	{"reverb", CategoryReverb},
	{"verb", CategoryReverb},
	{"delay", CategoryDelay},
	{"echo", CategoryDelay},
	{"saturat", CategorySaturator},
	{"distort", CategorySaturator},
	{"drive", CategorySaturator},
	{"tape", CategorySaturator},
	{"chorus", CategoryModulation},
	{"phaser", CategoryModulation},
	{"flanger", CategoryModulation},
	{"tremolo", CategoryModulation},
	{"filter", CategoryFilter},
	{"synth", CategoryInstrument},
	{"piano", CategoryInstrument},
	{"sampler", CategoryInstrument},
}

// Classify maps a raw device element name (and, for hosted plugins, the
// wrapped plugin name) to a category. Pure lookup: the same inputs always
// yield the same category.
func Classify(rawType, pluginName string) DeviceCategory {
	if cat, ok := nativeCategories[rawType]; ok {
		return cat
	}
	if pluginHosts[rawType] {
		return classifyPlugin(pluginName)
	}
	return CategoryUnknown
}

// classifyPlugin matches keyword fragments against a lowercased plugin name.
// Vendor names collide with product keywords ("FabFilter" contains "filter"),
// so a multi-word name is first matched with its leading word dropped; the
// full name is only a fallback.
func classifyPlugin(name string) DeviceCategory {
	lower := strings.ToLower(strings.TrimSpace(name))
	if _, rest, cut := strings.Cut(lower, " "); cut {
		if cat, ok := matchPluginKeywords(rest); ok {
			return cat
		}
	}
	if cat, ok := matchPluginKeywords(lower); ok {
		return cat
	}
	return CategoryThirdParty
}

func matchPluginKeywords(name string) (DeviceCategory, bool) {
	for _, kw := range pluginKeywords {
		if strings.Contains(name, kw.fragment) {
			return kw.category, true
		}
	}
	return CategoryThirdParty, false
}

// IsPluginHost reports whether a raw element name hosts an external plugin.
func IsPluginHost(rawType string) bool { return pluginHosts[rawType] }
