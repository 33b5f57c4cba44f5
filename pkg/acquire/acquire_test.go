package acquire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

func player(r *world.Registry, name string, eye geom.Vec) (world.Handle, world.Handle) {
	return r.SpawnPlayer(world.Player{Name: name, Team: world.TeamCT, Eye: eye, Health: 100})
}

func TestNearestExcludesSelf(t *testing.T) {
	r := world.NewRegistry()
	_, self := player(r, "self", geom.V(1, 1, 0))
	_, far := player(r, "far", geom.V(300, 0, 0))
	_, near := player(r, "near", geom.V(50, 0, 0))

	idx, ok := Nearest(r, geom.Vec{})
	require.True(t, ok)
	assert.Equal(t, near.Index(), idx)
	assert.NotEqual(t, self.Index(), idx)
	assert.NotEqual(t, far.Index(), idx)
}

func TestNearestFallsBackToSelf(t *testing.T) {
	r := world.NewRegistry()
	_, a := player(r, "a", geom.V(3, 0, 0))
	_, b := player(r, "b", geom.V(1, 0, 0))
	r.SpawnPawn("loose", geom.Vec{}, world.PawnInfo{EyeOrigin: geom.V(4, 0, 0), Health: 100})

	idx, ok := Nearest(r, geom.Vec{})
	require.True(t, ok)
	assert.Equal(t, b.Index(), idx, "closest near-self candidate wins when the primary pool is empty")
	assert.NotEqual(t, a.Index(), idx)
}

func TestNearestNothing(t *testing.T) {
	r := world.NewRegistry()
	r.SpawnController("ghost", world.ControllerInfo{Team: world.TeamT})

	_, ok := Nearest(r, geom.Vec{})
	assert.False(t, ok)
}

func TestAcquireNilWorld(t *testing.T) {
	view := geom.Pose{}
	for _, policy := range []Policy{PolicyNearest, PolicyCone, PolicyRay} {
		assert.NotPanics(t, func() {
			_, ok := Acquire(nil, policy, view, 60)
			assert.False(t, ok, policy.String())
		})
	}
	_, ok := Resolve(nil, 1)
	assert.False(t, ok)
}

func TestConePrefersAlignment(t *testing.T) {
	r := world.NewRegistry()
	_, close := player(r, "close", geom.V(100, 60, 0))
	_, aligned := player(r, "aligned", geom.V(900, 10, 0))

	view := geom.Pose{} // looking down +X
	idx, ok := Cone(r, view, 60)
	require.True(t, ok)
	assert.Equal(t, aligned.Index(), idx)
	assert.NotEqual(t, close.Index(), idx)
}

func TestConeTieGoesToCloser(t *testing.T) {
	r := world.NewRegistry()
	_, far := player(r, "far", geom.V(800, 0, 0))
	_, near := player(r, "near", geom.V(200, 0, 0))

	idx, ok := Cone(r, geom.Pose{}, 30)
	require.True(t, ok)
	assert.Equal(t, near.Index(), idx)
	assert.NotEqual(t, far.Index(), idx)
}

func TestConeFallsBackToNearest(t *testing.T) {
	r := world.NewRegistry()
	_, behind := player(r, "behind", geom.V(-100, 0, 0))
	_, side := player(r, "side", geom.V(0, 400, 0))

	idx, ok := Cone(r, geom.Pose{}, 10)
	require.True(t, ok)
	assert.Equal(t, behind.Index(), idx)
	assert.NotEqual(t, side.Index(), idx)
}

func TestConeSkipsCoincident(t *testing.T) {
	r := world.NewRegistry()
	player(r, "inside", geom.Vec{})

	_, ok := Cone(r, geom.Pose{}, 60)
	assert.False(t, ok)
}

func TestRayPicksSmallestDeviation(t *testing.T) {
	r := world.NewRegistry()
	_, behind := player(r, "behind", geom.V(-100, 0, 0))
	_, wide := player(r, "wide", geom.V(200, 100, 0))
	_, narrow := player(r, "narrow", geom.V(1000, 50, 0))

	idx, ok := Ray(r, geom.Pose{})
	require.True(t, ok)
	assert.Equal(t, narrow.Index(), idx)
	assert.NotEqual(t, behind.Index(), idx)
	assert.NotEqual(t, wide.Index(), idx)
}

func TestRayFilters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *world.Registry, ctrl, pawn world.Handle)
	}{
		{"dead", func(r *world.Registry, _, pawn world.Handle) {
			r.UpdatePawn(pawn, func(_ *geom.Vec, p *world.PawnInfo) { p.Health = 0 })
		}},
		{"spectating", func(r *world.Registry, ctrl, _ world.Handle) {
			r.UpdateController(ctrl, func(c *world.ControllerInfo) { c.ObserverMode = 5 })
		}},
		{"spectator team", func(r *world.Registry, ctrl, _ world.Handle) {
			r.UpdateController(ctrl, func(c *world.ControllerInfo) { c.Team = world.TeamSpectator })
		}},
		{"no pawn", func(r *world.Registry, ctrl, _ world.Handle) {
			r.UpdateController(ctrl, func(c *world.ControllerInfo) { c.Pawn = world.InvalidHandle })
		}},
		{"pawn removed", func(r *world.Registry, _, pawn world.Handle) {
			r.Remove(pawn.Index())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := world.NewRegistry()
			ctrl, pawn := player(r, "only", geom.V(500, 0, 0))
			tt.mutate(r, ctrl, pawn)

			_, ok := Ray(r, geom.Pose{})
			assert.False(t, ok)
		})
	}
}

func TestRayRequiresFront(t *testing.T) {
	r := world.NewRegistry()
	player(r, "beside", geom.V(0, 500, 0))

	_, ok := Ray(r, geom.Pose{})
	assert.False(t, ok, "a candidate at exactly 90 degrees is not in front")
}

func TestAcquireResolvesController(t *testing.T) {
	r := world.NewRegistry()
	ctrl, pawn := player(r, "zed", geom.V(100, 0, 0))

	for _, p := range []Policy{PolicyNearest, PolicyCone, PolicyRay} {
		t.Run(p.String(), func(t *testing.T) {
			tgt, ok := Acquire(r, p, geom.Pose{}, 60)
			require.True(t, ok)
			assert.Equal(t, ctrl.Index(), tgt.Controller)
			assert.Equal(t, pawn, tgt.Pawn.Handle())
		})
	}
}

func TestResolveOrphanPawn(t *testing.T) {
	r := world.NewRegistry()
	h := r.SpawnPawn("orphan", geom.Vec{}, world.PawnInfo{EyeOrigin: geom.V(100, 0, 0), Health: 100})

	_, ok := Resolve(r, h.Index())
	assert.False(t, ok, "a pawn without a controller cannot be followed")
}
