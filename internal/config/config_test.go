package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-chasecam/pkg/director"
)

func TestEnvDefaults(t *testing.T) {
	t.Setenv("CHASECAM_PORT", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CHASECAM_URL", "")
	assert.Equal(t, 9000, Port(9000))
	assert.Equal(t, DefaultLogLevel, LogLevel())
	assert.Equal(t, DefaultHostURL, HostURL())

	t.Setenv("CHASECAM_PORT", "8123")
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, 8123, Port(9000))
	assert.Equal(t, "debug", LogLevel())

	t.Setenv("CHASECAM_PORT", "99999")
	assert.Equal(t, 9000, Port(9000))
}

func TestAPIURL(t *testing.T) {
	t.Setenv("CHASECAM_API", "")
	t.Setenv("CHASECAM_PORT", "")
	assert.Equal(t, "http://127.0.0.1:7460", APIURL())

	t.Setenv("CHASECAM_PORT", "8200")
	assert.Equal(t, "http://127.0.0.1:8200", APIURL())

	t.Setenv("CHASECAM_API", "http://cam.lan:9000")
	assert.Equal(t, "http://cam.lan:9000", APIURL())
}

func TestParsePresetsKeepsDefaults(t *testing.T) {
	p, err := ParsePresets([]byte(`
pursuit:
  speed: 450
transit:
  margin: 0
lock:
  nodead: true
`))
	require.NoError(t, err)

	want := director.DefaultPresets()
	want.Pursuit.Speed = 450
	want.Transit.Margin = 0.5
	want.Lock.DisableOnDead = true
	assert.Equal(t, want, p)
}

func TestParsePresetsRejectsGarbage(t *testing.T) {
	_, err := ParsePresets([]byte("pursuit: [1, 2"))
	assert.Error(t, err)
}

func TestSaveLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	p := director.DefaultPresets()
	p.Transit.Height = 900
	require.NoError(t, SavePresets(path, p))

	got, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestNewStoreCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	s, err := NewStore(path)
	require.NoError(t, err)
	assert.Equal(t, director.DefaultPresets(), s.Presets())
	assert.FileExists(t, path)
}

func TestStoreUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	s, err := NewStore(path)
	require.NoError(t, err)

	var seen []director.Presets
	s.OnChange(func(p director.Presets) { seen = append(seen, p) })

	speed := 700.0
	p, err := s.Update(director.Tuning{PursuitSpeed: &speed})
	require.NoError(t, err)
	assert.Equal(t, 700.0, p.Pursuit.Speed)
	require.Len(t, seen, 1)

	onDisk, err := LoadPresets(path)
	require.NoError(t, err)
	assert.Equal(t, 700.0, onDisk.Pursuit.Speed)

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestMemoryStore(t *testing.T) {
	s, err := NewStore("")
	require.NoError(t, err)
	h := 0.3
	p, err := s.Update(director.Tuning{LockHalfTime: &h})
	require.NoError(t, err)
	assert.Equal(t, 0.3, p.Lock.HalfTime)

	changed, err := s.Reload()
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestWatchReloadsExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	s, err := NewStore(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Watch(ctx, s))

	require.NoError(t, os.WriteFile(path, []byte("transit:\n  height: 1234\n"), 0o644))
	assert.Eventually(t, func() bool {
		return s.Presets().Transit.Height == 1234
	}, 3*time.Second, 20*time.Millisecond)
}
