package als

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNative(t *testing.T) {
	tests := []struct {
		rawType string
		want    DeviceCategory
	}{
		{"Eq8", CategoryEQ},
		{"ChannelEq", CategoryEQ},
		{"Compressor2", CategoryCompressor},
		{"GlueCompressor", CategoryCompressor},
		{"Limiter", CategoryLimiter},
		{"Saturator", CategorySaturator},
		{"Reverb", CategoryReverb},
		{"Echo", CategoryDelay},
		{"Chorus2", CategoryModulation},
		{"AutoFilter", CategoryFilter},
		{"StereoGain", CategoryUtility},
		{"Operator", CategoryInstrument},
		{"DrumGroupDevice", CategoryInstrument},
		{"NeverHeardOfIt", CategoryUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.rawType, ""), "type %s", tt.rawType)
	}
}

func TestClassifyPlugin(t *testing.T) {
	tests := []struct {
		plugin string
		want   DeviceCategory
	}{
		{"FabFilter Pro-L 2", CategoryLimiter},
		{"Ozone Maximizer", CategoryLimiter},
		{"FabFilter Pro-C 2", CategoryCompressor},
		{"CLA-76 Compressor", CategoryCompressor},
		{"FabFilter Pro-Q 3", CategoryEQ},
		{"Pro-C 2", CategoryCompressor},
		{"Pro-Q 3", CategoryEQ},
		{"TDR Nova Equalizer", CategoryEQ},
		{"ValhallaVintageVerb", CategoryReverb},
		{"EchoBoy", CategoryDelay},
		{"Decapitator Saturation", CategorySaturator},
		{"RC-20 Retro Color", CategoryThirdParty},
		{"Serum Synth", CategoryInstrument},
		{"", CategoryThirdParty},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify("PluginDevice", tt.plugin), "plugin %q", tt.plugin)
	}
}

func TestClassifyPluginHostKinds(t *testing.T) {
	// All host element names defer to the plugin name.
	for _, host := range []string{"PluginDevice", "AuPluginDevice", "Vst3PluginDevice"} {
		assert.True(t, IsPluginHost(host))
		assert.Equal(t, CategoryReverb, Classify(host, "Valhalla Reverb"))
	}
	assert.False(t, IsPluginHost("Eq8"))
}

func TestClassifyDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, CategoryCompressor, Classify("PluginDevice", "Some Comp Thing"))
	}
}
