package director

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestDefaultPresetsAreClamped(t *testing.T) {
	p := DefaultPresets()
	assert.Empty(t, cmp.Diff(p, p.Clamp()))
}

func TestClampRanges(t *testing.T) {
	pc := PursuitConfig{Speed: 1, VelSmooth: 0, AngSmooth: -1, Margin: -3, FOV: 400}.Clamp()
	assert.Equal(t, PursuitConfig{Speed: 50, VelSmooth: 0.05, AngSmooth: 0.05, Margin: 0, FOV: 170}, pc)

	tc := TransitConfig{Height: -10, Speed: 0, Hold: -1, Margin: 0}.Clamp()
	assert.Equal(t, 0.0, tc.Height)
	assert.Equal(t, 50.0, tc.Speed)
	assert.Equal(t, 0.0, tc.Hold)
	assert.Equal(t, 0.5, tc.Margin)

	lc := LockConfig{HalfTime: -1, Blend: 0.2, RestoreHalf: -7}.Clamp()
	assert.Equal(t, LockConfig{HalfTime: 0, Blend: 0.2, RestoreHalf: -1}, lc)
}

func TestTuningApply(t *testing.T) {
	base := DefaultPresets()
	got := Tuning{
		PursuitSpeed:  ptr(800.0),
		TransitHeight: ptr(1200.0),
		TransitMargin: ptr(0.0),
		LockNoDead:    ptr(true),
		LockRestore:   ptr(0.2),
	}.Apply(base)

	want := base
	want.Pursuit.Speed = 800
	want.Transit.Height = 1200
	want.Transit.Margin = 0.5
	want.Lock.DisableOnDead = true
	want.Lock.RestoreHalf = 0.2
	assert.Empty(t, cmp.Diff(want, got))
}

func TestEmptyTuningIsIdentity(t *testing.T) {
	base := DefaultPresets()
	assert.Equal(t, base, Tuning{}.Apply(base))
}
