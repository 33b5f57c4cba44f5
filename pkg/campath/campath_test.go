package campath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

func twoKeys() *Path {
	return New(
		Key{Time: 2, Position: geom.V(100, 0, 0), Angles: geom.Angles{Yaw: 170}},
		Key{Time: 0, Position: geom.V(0, 0, 0), Angles: geom.Angles{Yaw: -170}},
	)
}

func TestEvalInterpolates(t *testing.T) {
	p := twoKeys()
	require.True(t, p.CanEval())

	pose, ok := p.Eval(1)
	require.True(t, ok)
	assert.InDelta(t, 50.0, pose.Position.X, 1e-9)
	assert.InDelta(t, 180.0, pose.Angles.Yaw, 1e-9, "angles take the short way round")

	lo, hi := p.Bounds()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 2.0, hi)
}

func TestEvalNeedsTwoKeys(t *testing.T) {
	p := New(Key{Time: 1})
	assert.False(t, p.CanEval())
	_, ok := p.Eval(1)
	assert.False(t, ok)
}

func TestSampleOffsetAndHold(t *testing.T) {
	p := twoKeys()
	p.SetOffset(10)

	pose, ok := p.Sample(11)
	require.True(t, ok)
	assert.InDelta(t, 50.0, pose.Position.X, 1e-9)

	_, ok = p.Sample(20)
	assert.False(t, ok, "outside the key range without hold")

	p.SetHold(true)
	pose, ok = p.Sample(20)
	require.True(t, ok)
	assert.InDelta(t, 100.0, pose.Position.X, 1e-9)

	p.SetEnabled(false)
	_, ok = p.Sample(11)
	assert.False(t, ok)
}

func TestAddReplacesSameTime(t *testing.T) {
	p := twoKeys()
	p.Add(Key{Time: 2, Position: geom.V(200, 0, 0)})
	assert.Equal(t, 2, p.Len())
	pose, _ := p.Eval(2)
	assert.InDelta(t, 200.0, pose.Position.X, 1e-9)
}

func TestLoadYAML(t *testing.T) {
	doc := `
hold: true
offset: 1.5
keys:
  - t: 0
    pos: [0, 0, 100]
    ang: [10, 90, 0]
  - t: 4
    pos: [400, 0, 100]
    ang: [10, 90, 0]
`
	path := filepath.Join(t.TempDir(), "path.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.True(t, p.Enabled())
	pose, ok := p.Sample(3.5)
	require.True(t, ok)
	assert.InDelta(t, 200.0, pose.Position.X, 1e-9)
	assert.InDelta(t, 90.0, pose.Angles.Yaw, 1e-9)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
