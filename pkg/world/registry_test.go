package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

func TestHandleRoundTrip(t *testing.T) {
	h := MakeHandle(42, 7)
	assert.Equal(t, 42, h.Index())
	assert.Equal(t, uint32(7), h.Serial())
	assert.True(t, h.Valid())

	assert.Equal(t, InvalidHandle, MakeHandle(1, 0))
	assert.Equal(t, InvalidHandle, MakeHandle(-1, 3))
	assert.Equal(t, InvalidHandle, MakeHandle(MaxIndex+1, 3))
}

func TestRegistryEmpty(t *testing.T) {
	r := NewRegistry()

	if r.HighestIndex() != -1 {
		t.Errorf("Expected -1 highest index, got %d", r.HighestIndex())
	}
	if _, ok := r.EntityAt(0); ok {
		t.Error("EntityAt should fail on empty registry")
	}
	if _, ok := r.ObservedController(); ok {
		t.Error("ObservedController should be unset")
	}
}

func TestNilWorldIsEmpty(t *testing.T) {
	calls := 0
	Each(nil, func(Entity) bool { calls++; return true })
	assert.Zero(t, calls)

	_, ok := At(nil, 0)
	assert.False(t, ok)
	_, _, ok = ControllerPawn(nil, 0)
	assert.False(t, ok)
	_, ok = PawnController(nil, 0)
	assert.False(t, ok)

	tgt := ByController(0)
	_, ok = tgt.Eyes(nil)
	assert.False(t, ok)
	assert.Equal(t, "", tgt.Name(nil))
}

func TestSpawnPlayerLinks(t *testing.T) {
	r := NewRegistry()
	ctrl, pawn := r.SpawnPlayer(Player{Name: "alice", Team: TeamCT, Eye: geom.V(10, 0, 64), Health: 100})

	ce, ok := r.EntityAt(ctrl.Index())
	require.True(t, ok)
	c, ok := ce.AsController()
	require.True(t, ok)
	assert.Equal(t, pawn, c.Pawn)
	assert.Equal(t, "alice", ce.DisplayName())

	_, ok = ce.AsPawn()
	assert.False(t, ok, "controller must not expose pawn data")

	pe, p, ok := ControllerPawn(r, ctrl.Index())
	require.True(t, ok)
	assert.Equal(t, pawn, pe.Handle)
	assert.Equal(t, geom.V(10, 0, 64), p.EyeOrigin)
	assert.Equal(t, geom.V(10, 0, 0), pe.Origin)

	idx, ok := PawnController(r, pawn.Index())
	require.True(t, ok)
	assert.Equal(t, ctrl.Index(), idx)
}

func TestStaleHandleAfterReplace(t *testing.T) {
	r := NewRegistry()
	_, pawn := r.SpawnPlayer(Player{Name: "bob", Team: TeamT, Health: 100})
	ref := RefOf(pawn)

	_, ok := ref.Revalidate(r)
	require.True(t, ok)

	r.Remove(pawn.Index())
	_, ok = ref.Revalidate(r)
	assert.False(t, ok, "removed entity must not resolve")

	// Reusing the slot bumps the serial.
	h := r.SpawnPawn("other", geom.Vec{}, PawnInfo{Health: 100})
	assert.Equal(t, pawn.Index(), h.Index())
	assert.NotEqual(t, pawn.Serial(), h.Serial())
	_, ok = ref.Revalidate(r)
	assert.False(t, ok, "replaced entity must not resolve through the old handle")
}

func TestPawnControllerLinearScan(t *testing.T) {
	r := NewRegistry()
	ctrl, pawn := r.SpawnPlayer(Player{Name: "carol", Team: TeamT, Health: 100})

	// Break the pawn's back reference; the scan still finds the owner.
	r.UpdatePawn(pawn, func(_ *geom.Vec, p *PawnInfo) { p.Controller = InvalidHandle })

	idx, ok := PawnController(r, pawn.Index())
	require.True(t, ok)
	assert.Equal(t, ctrl.Index(), idx)
}

func TestTargetRepairsPawnRef(t *testing.T) {
	r := NewRegistry()
	ctrl, pawn := r.SpawnPlayer(Player{Name: "dave", Team: TeamCT, Eye: geom.V(1, 2, 3), Health: 100})
	tgt := Target{Pawn: RefOf(pawn), Controller: ctrl.Index()}

	eyes, ok := tgt.Eyes(r)
	require.True(t, ok)
	assert.Equal(t, geom.V(1, 2, 3), eyes.Origin)

	// Respawn: old pawn gone, controller owns a new one.
	r.Remove(pawn.Index())
	np := r.SpawnPawn("dave_pawn", geom.Vec{}, PawnInfo{EyeOrigin: geom.V(9, 9, 9), Health: 100})
	r.Link(ctrl, np)

	eyes, ok = tgt.Eyes(r)
	require.True(t, ok)
	assert.Equal(t, geom.V(9, 9, 9), eyes.Origin)
	assert.Equal(t, np, tgt.Pawn.Handle())
	assert.Equal(t, "dave", tgt.Name(r))
}

func TestTargetLost(t *testing.T) {
	r := NewRegistry()
	ctrl, pawn := r.SpawnPlayer(Player{Name: "erin", Team: TeamT, Health: 100})
	tgt := ByController(ctrl.Index())
	r.Remove(pawn.Index())

	_, ok := tgt.Eyes(r)
	assert.False(t, ok)
}

func TestReplaceSnapshot(t *testing.T) {
	r := NewRegistry()
	r.SpawnPlayer(Player{Name: "x", Team: TeamT, Health: 100})
	require.Equal(t, 2, r.Count())

	h := MakeHandle(5, 3)
	r.Replace([]Entity{NewOther(h, "prop", geom.V(1, 1, 1))})

	assert.Equal(t, 1, r.Count())
	assert.Equal(t, 5, r.HighestIndex())
	e, ok := r.EntityAt(5)
	require.True(t, ok)
	assert.Equal(t, KindOther, e.Kind)
	idx, ok := r.Resolve(h)
	require.True(t, ok)
	assert.Equal(t, 5, idx)
}

func TestValidityPredicates(t *testing.T) {
	tests := []struct {
		name string
		c    ControllerInfo
		want bool
	}{
		{"terrorist playing", ControllerInfo{Team: TeamT}, true},
		{"ct playing", ControllerInfo{Team: TeamCT}, true},
		{"spectator team", ControllerInfo{Team: TeamSpectator}, false},
		{"observing", ControllerInfo{Team: TeamCT, ObserverMode: 4}, false},
		{"unassigned", ControllerInfo{}, false},
	}
	for _, tt := range tests {
		if got := ActiveController(tt.c); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}

	assert.True(t, AlivePawn(PawnInfo{Health: 1}))
	assert.False(t, AlivePawn(PawnInfo{Health: 0}))
}
