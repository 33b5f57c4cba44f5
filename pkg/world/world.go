package world

import "github.com/teslashibe/go-chasecam/pkg/geom"

// World is the read side of the host's entity list.
type World interface {
	// HighestIndex is the largest index that may hold an entity, or -1.
	HighestIndex() int
	// EntityAt returns a snapshot of the entity in slot index.
	EntityAt(index int) (Entity, bool)
	// Resolve maps a handle to its slot index if the handle is still live.
	Resolve(h Handle) (int, bool)
	// ObservedController is the controller index the local spectator is
	// watching.
	ObservedController() (int, bool)
}

// Eyes is a first-person viewpoint.
type Eyes struct {
	Origin geom.Vec
	Angles geom.Angles
}

// UsablePawn reports whether e is a pawn that can be followed.
func UsablePawn(e Entity) (PawnInfo, bool) {
	p, ok := e.AsPawn()
	if !ok || !e.Handle.Valid() {
		return PawnInfo{}, false
	}
	return p, true
}

// AlivePawn reports whether a pawn has health left.
func AlivePawn(p PawnInfo) bool {
	return p.Health > 0
}

// ActiveController reports whether c is a playing, non-spectating player.
func ActiveController(c ControllerInfo) bool {
	return c.ObserverMode == 0 && (c.Team == TeamT || c.Team == TeamCT)
}

// At is w.EntityAt with a nil world treated as empty.
func At(w World, index int) (Entity, bool) {
	if w == nil {
		return Entity{}, false
	}
	return w.EntityAt(index)
}

// Each calls fn for every live entity in index order until fn returns
// false. A nil world has no entities.
func Each(w World, fn func(Entity) bool) {
	if w == nil {
		return
	}
	hi := w.HighestIndex()
	for i := 0; i <= hi; i++ {
		e, ok := w.EntityAt(i)
		if !ok {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// ControllerPawn resolves the pawn currently owned by the controller at
// ctrlIndex.
func ControllerPawn(w World, ctrlIndex int) (Entity, PawnInfo, bool) {
	e, ok := At(w, ctrlIndex)
	if !ok {
		return Entity{}, PawnInfo{}, false
	}
	c, ok := e.AsController()
	if !ok {
		return Entity{}, PawnInfo{}, false
	}
	pe, ok := RefOf(c.Pawn).Revalidate(w)
	if !ok {
		return Entity{}, PawnInfo{}, false
	}
	p, ok := UsablePawn(pe)
	if !ok {
		return Entity{}, PawnInfo{}, false
	}
	return pe, p, true
}

// PawnController maps a pawn back to its controller index: first through
// the pawn's own controller handle, then by scanning every controller for
// one whose pawn handle lands on pawnIndex.
func PawnController(w World, pawnIndex int) (int, bool) {
	e, ok := At(w, pawnIndex)
	if !ok {
		return 0, false
	}
	if p, ok := e.AsPawn(); ok {
		if ce, ok := RefOf(p.Controller).Revalidate(w); ok && ce.Kind == KindController {
			return ce.Index, true
		}
	}

	found, idx := false, 0
	Each(w, func(ce Entity) bool {
		c, ok := ce.AsController()
		if !ok || !c.Pawn.Valid() {
			return true
		}
		if pi, ok := w.Resolve(c.Pawn); ok && pi == pawnIndex {
			found, idx = true, ce.Index
			return false
		}
		return true
	})
	return idx, found
}
