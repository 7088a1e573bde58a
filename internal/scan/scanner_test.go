package scan

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alsdiag/alsdiag/internal/rules"
)

const cleanSet = `<?xml version="1.0"?>
<Ableton Creator="Ableton Live 12.0">
  <LiveSet>
    <Tracks>
      <MidiTrack Id="1">
        <Name><EffectiveName Value="Keys"/></Name>
        <DeviceChain>
          <Mixer><Volume><Manual Value="0.8"/></Volume></Mixer>
          <DeviceChain>
            <Devices>
              <Operator Id="0"><On><Manual Value="true"/></On><UserName Value=""/></Operator>
            </Devices>
          </DeviceChain>
        </DeviceChain>
      </MidiTrack>
    </Tracks>
  </LiveSet>
</Ableton>`

const flawedSet = `<?xml version="1.0"?>
<Ableton Creator="Ableton Live 12.0">
  <LiveSet>
    <Tracks>
      <AudioTrack Id="1">
        <Name><EffectiveName Value="Mix"/></Name>
        <DeviceChain>
          <Mixer><Volume><Manual Value="0.8"/></Volume></Mixer>
          <DeviceChain>
            <Devices>
              <Limiter Id="0"><On><Manual Value="true"/></On><UserName Value=""/></Limiter>
              <Saturator Id="1"><On><Manual Value="true"/></On><UserName Value=""/></Saturator>
            </Devices>
          </DeviceChain>
        </DeviceChain>
      </AudioTrack>
    </Tracks>
  </LiveSet>
</Ableton>`

func writeGzipped(t *testing.T, path, body string) {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func newScanner(opts Options) *Scanner {
	return NewScanner(rules.NewEngine(rules.DefaultConfig()), opts)
}

func TestScanMixedTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))

	for i := 0; i < 4; i++ {
		writeGzipped(t, filepath.Join(dir, fmt.Sprintf("good-%d.als", i)), cleanSet)
	}
	writeGzipped(t, filepath.Join(dir, "nested", "flawed.als"), flawedSet)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt-1.als"), []byte("not gzip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "corrupt-2.als"), []byte{0x1f, 0x8b, 0xff}, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	result, err := newScanner(Options{Workers: 4}).Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, result.Entries, 5)
	require.Len(t, result.Failures, 2)

	// Ranked best first: four clean projects at 100, the limiter mishap last.
	for _, e := range result.Entries[:4] {
		assert.Equal(t, 100.0, e.Report.Score)
	}
	last := result.Entries[4]
	assert.Equal(t, 90.0, last.Report.Score)
	assert.Equal(t, "flawed", last.Project)

	assert.Equal(t, 5, result.GradeCounts[rules.GradeA])
	assert.InDelta(t, 98.0, result.AverageScore(), 1e-9)

	assert.Equal(t, []Entry{result.Entries[0]}, result.Top(1))
	assert.Equal(t, "flawed", result.Bottom(1)[0].Project)
}

func TestScanSkipsBackupDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Backup"), 0o755))
	writeGzipped(t, filepath.Join(dir, "keep.als"), cleanSet)
	writeGzipped(t, filepath.Join(dir, "Backup", "keep [2026-08-01].als"), cleanSet)

	result, err := newScanner(Options{}).Run(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
}

func TestScanPatternFilter(t *testing.T) {
	dir := t.TempDir()
	writeGzipped(t, filepath.Join(dir, "mix-v1.als"), cleanSet)
	writeGzipped(t, filepath.Join(dir, "mix-v2.als"), cleanSet)
	writeGzipped(t, filepath.Join(dir, "sketch.als"), cleanSet)

	result, err := newScanner(Options{Pattern: "mix-*.als"}).Run(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, result.Entries, 2)
}

func TestScanEmptyDir(t *testing.T) {
	result, err := newScanner(Options{}).Run(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 0.0, result.AverageScore())
}

func TestScanCancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeGzipped(t, filepath.Join(dir, "a.als"), cleanSet)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newScanner(Options{Workers: 1}).Run(ctx, dir)
	require.ErrorIs(t, err, context.Canceled)
}
