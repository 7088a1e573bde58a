package als

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeALS gzips the given XML body into a .als file under dir.
func writeALS(t *testing.T, dir, name, xmlBody string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(xmlBody))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

const minimalSet = `<?xml version="1.0" encoding="UTF-8"?>
<Ableton MajorVersion="5" MinorVersion="12.0_12049" Creator="Ableton Live 12.0.5">
  <LiveSet>
    <Tracks>
      <MidiTrack Id="10">
        <Name>
          <EffectiveName Value="Lead Synth"/>
          <UserName Value=""/>
        </Name>
        <DeviceChain>
          <Mixer>
            <Volume><Manual Value="0.794328"/></Volume>
            <Pan><Manual Value="-0.25"/></Pan>
            <Speaker><Manual Value="true"/></Speaker>
          </Mixer>
          <DeviceChain>
            <Devices>
              <Operator Id="0">
                <On><Manual Value="true"/></On>
                <UserName Value=""/>
              </Operator>
              <Eq8 Id="1">
                <On><Manual Value="true"/></On>
                <UserName Value="Tone Shape"/>
                <Bands.0>
                  <ParameterA>
                    <Gain><Manual Value="3.5"/></Gain>
                  </ParameterA>
                </Bands.0>
              </Eq8>
              <Compressor2 Id="2">
                <On><Manual Value="false"/></On>
                <UserName Value=""/>
                <Ratio><Manual Value="4"/></Ratio>
                <Threshold><Manual Value="-18"/></Threshold>
              </Compressor2>
            </Devices>
          </DeviceChain>
        </DeviceChain>
      </MidiTrack>
      <AudioTrack Id="11">
        <Name>
          <EffectiveName Value="Vocals"/>
          <UserName Value=""/>
        </Name>
        <DeviceChain>
          <Mixer>
            <Volume><Manual Value="1.0"/></Volume>
            <Pan><Manual Value="0"/></Pan>
            <Speaker><Manual Value="false"/></Speaker>
          </Mixer>
          <DeviceChain>
            <Devices>
              <PluginDevice Id="0">
                <On><Manual Value="true"/></On>
                <UserName Value=""/>
                <PluginDesc>
                  <VstPluginInfo>
                    <PlugName Value="FabFilter Pro-Q 3"/>
                  </VstPluginInfo>
                </PluginDesc>
              </PluginDevice>
            </Devices>
          </DeviceChain>
        </DeviceChain>
      </AudioTrack>
    </Tracks>
    <MasterTrack Id="0">
      <Name>
        <EffectiveName Value="Master"/>
        <UserName Value=""/>
      </Name>
      <DeviceChain>
        <Mixer>
          <Volume><Manual Value="1.0"/></Volume>
          <Tempo><Manual Value="128"/></Tempo>
          <TimeSignature>
            <TimeSignatures>
              <RemoteableTimeSignature>
                <Numerator Value="3"/>
                <Denominator Value="4"/>
              </RemoteableTimeSignature>
            </TimeSignatures>
          </TimeSignature>
        </Mixer>
        <DeviceChain>
          <Devices>
            <Limiter Id="0">
              <On><Manual Value="true"/></On>
              <UserName Value=""/>
              <Ceiling><Manual Value="-0.3"/></Ceiling>
            </Limiter>
          </Devices>
        </DeviceChain>
      </DeviceChain>
    </MasterTrack>
  </LiveSet>
</Ableton>`

func TestParseFile(t *testing.T) {
	path := writeALS(t, t.TempDir(), "My Song.als", minimalSet)

	proj, err := NewParser().ParseFile(path)
	require.NoError(t, err)

	assert.Equal(t, "My Song", proj.Name)
	assert.Equal(t, "Ableton Live 12.0.5", proj.Creator)
	assert.Equal(t, 128.0, proj.Tempo)
	assert.Equal(t, 3, proj.TimeSigNum)
	assert.Equal(t, 4, proj.TimeSigDen)

	require.Len(t, proj.Tracks, 3)

	lead := proj.Tracks[0]
	assert.Equal(t, "Lead Synth", lead.Name)
	assert.Equal(t, TrackMidi, lead.Type)
	assert.False(t, lead.Muted)
	assert.InDelta(t, -2.0, lead.VolumeDB, 0.01)
	assert.InDelta(t, -0.25, lead.Pan, 1e-9)

	// Chain order must match document order exactly.
	require.Len(t, lead.Devices, 3)
	assert.Equal(t, CategoryInstrument, lead.Devices[0].Category)
	assert.Equal(t, CategoryEQ, lead.Devices[1].Category)
	assert.Equal(t, CategoryCompressor, lead.Devices[2].Category)

	eq := lead.Devices[1]
	assert.Equal(t, "Tone Shape", eq.Name)
	assert.Equal(t, "Tone Shape", eq.DisplayName())
	assert.True(t, eq.Enabled)

	comp := lead.Devices[2]
	assert.False(t, comp.Enabled)
	ratio, ok := comp.Param(ParamRatio)
	require.True(t, ok)
	assert.Equal(t, 4.0, ratio.Value)
	thresh, ok := comp.Param(ParamThreshold)
	require.True(t, ok)
	assert.Equal(t, -18.0, thresh.Value)

	vocals := proj.Tracks[1]
	assert.Equal(t, TrackAudio, vocals.Type)
	assert.True(t, vocals.Muted)
	require.Len(t, vocals.Devices, 1)
	plug := vocals.Devices[0]
	assert.Equal(t, CategoryEQ, plug.Category)
	assert.Equal(t, "FabFilter Pro-Q 3", plug.Plugin)
	assert.Equal(t, "FabFilter Pro-Q 3", plug.DisplayName())

	master := proj.Tracks[2]
	assert.Equal(t, TrackMaster, master.Type)
	require.Len(t, master.Devices, 1)
	assert.Equal(t, CategoryLimiter, master.Devices[0].Category)
}

func TestParseFileDeterministic(t *testing.T) {
	path := writeALS(t, t.TempDir(), "repeat.als", minimalSet)

	first, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	second, err := NewParser().ParseFile(path)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestParseFileNotGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.als")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not gzip"), 0o644))

	_, err := NewParser().ParseFile(path)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)
}

func TestParseFileTruncatedXML(t *testing.T) {
	path := writeALS(t, t.TempDir(), "trunc.als", `<?xml version="1.0"?><Ableton><LiveSet><Tracks>`)

	_, err := NewParser().ParseFile(path)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseFileMissingLiveSet(t *testing.T) {
	path := writeALS(t, t.TempDir(), "empty.als", `<?xml version="1.0"?><Ableton Creator="Ableton Live 11"></Ableton>`)

	_, err := NewParser().ParseFile(path)
	var ue *UnsupportedStructureError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "LiveSet", ue.Missing)
	assert.Equal(t, path, ue.Path)
}

func TestParseFileMissingTracks(t *testing.T) {
	path := writeALS(t, t.TempDir(), "notracks.als", `<?xml version="1.0"?><Ableton><LiveSet></LiveSet></Ableton>`)

	_, err := NewParser().ParseFile(path)
	var ue *UnsupportedStructureError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Tracks", ue.Missing)
}

func TestParseFileWrongRoot(t *testing.T) {
	path := writeALS(t, t.TempDir(), "other.als", `<?xml version="1.0"?><SomethingElse/>`)

	_, err := NewParser().ParseFile(path)
	var ue *UnsupportedStructureError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Ableton", ue.Missing)
}

func TestParseToleratesUnknownElements(t *testing.T) {
	body := `<?xml version="1.0"?>
<Ableton Creator="Ableton Live 13.0">
  <FutureSection><Nested Value="1"/></FutureSection>
  <LiveSet>
    <NewFangledThing/>
    <Tracks>
      <MidiTrack Id="1">
        <Name><EffectiveName Value="A"/></Name>
        <SomethingNew Value="yes"/>
        <DeviceChain>
          <Mixer><Volume><Manual Value="1"/></Volume></Mixer>
          <DeviceChain>
            <Devices>
              <BrandNewDevice Id="0">
                <On><Manual Value="true"/></On>
                <UserName Value=""/>
                <Mystery><Manual Value="0.5"/></Mystery>
              </BrandNewDevice>
            </Devices>
          </DeviceChain>
        </DeviceChain>
      </MidiTrack>
      <HologramTrack Id="2"/>
    </Tracks>
  </LiveSet>
</Ableton>`
	path := writeALS(t, t.TempDir(), "future.als", body)

	proj, err := NewParser().ParseFile(path)
	require.NoError(t, err)

	// Unknown track kinds are dropped, unknown devices kept as Unknown.
	require.Len(t, proj.Tracks, 1)
	require.Len(t, proj.Tracks[0].Devices, 1)
	d := proj.Tracks[0].Devices[0]
	assert.Equal(t, CategoryUnknown, d.Category)
	assert.Equal(t, "BrandNewDevice", d.Type)
	assert.Equal(t, DefaultTempo, proj.Tempo)
	assert.Equal(t, DefaultTimeSigNum, proj.TimeSigNum)
}

func TestParseEmptyTracks(t *testing.T) {
	path := writeALS(t, t.TempDir(), "bare.als", `<?xml version="1.0"?><Ableton><LiveSet><Tracks></Tracks></LiveSet></Ableton>`)

	proj, err := NewParser().ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, proj.Tracks)
	assert.Equal(t, 0, proj.DeviceCount())
}

func TestLinearToDB(t *testing.T) {
	assert.InDelta(t, 0, linearToDB(1.0), 1e-9)
	assert.InDelta(t, -6.02, linearToDB(0.5), 0.01)
	assert.Equal(t, minVolumeDB, linearToDB(0))
	assert.Equal(t, minVolumeDB, linearToDB(-1))
}
