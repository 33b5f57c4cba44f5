package world

import (
	"sync"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

type slot struct {
	entity Entity
	serial uint32
	live   bool
}

// Registry is an in-memory World. The host bridge refreshes it from each
// frame's snapshot; simulations and tests spawn entities directly.
type Registry struct {
	mu       sync.RWMutex
	slots    []slot
	observed int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{observed: -1}
}

// HighestIndex implements World.
func (r *Registry) HighestIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.slots) - 1; i >= 0; i-- {
		if r.slots[i].live {
			return i
		}
	}
	return -1
}

// EntityAt implements World.
func (r *Registry) EntityAt(index int) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.slots) || !r.slots[index].live {
		return Entity{}, false
	}
	return r.slots[index].entity, true
}

// Resolve implements World.
func (r *Registry) Resolve(h Handle) (int, bool) {
	if !h.Valid() {
		return 0, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := h.Index()
	if idx >= len(r.slots) {
		return 0, false
	}
	s := r.slots[idx]
	if !s.live || s.serial != h.Serial() {
		return 0, false
	}
	return idx, true
}

// ObservedController implements World.
func (r *Registry) ObservedController() (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.observed, r.observed >= 0
}

// SetObserved records which controller the local spectator watches; -1
// clears it.
func (r *Registry) SetObserved(ctrlIndex int) {
	r.mu.Lock()
	r.observed = ctrlIndex
	r.mu.Unlock()
}

// Put stores e at the index encoded in its handle, replacing whatever was
// there.
func (r *Registry) Put(e Entity) {
	if !e.Handle.Valid() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.putLocked(e)
}

func (r *Registry) putLocked(e Entity) {
	idx := e.Handle.Index()
	r.grow(idx)
	e.Index = idx
	r.slots[idx] = slot{entity: e, serial: e.Handle.Serial(), live: true}
}

// Replace swaps the whole entity list for entities.
func (r *Registry) Replace(entities []Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		r.slots[i].live = false
	}
	for _, e := range entities {
		if e.Handle.Valid() {
			r.putLocked(e)
		}
	}
}

// Remove frees the slot at index. Handles to it stop resolving.
func (r *Registry) Remove(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index >= 0 && index < len(r.slots) {
		r.slots[index].live = false
	}
}

// Count returns the number of live entities.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, s := range r.slots {
		if s.live {
			n++
		}
	}
	return n
}

func (r *Registry) grow(idx int) {
	for len(r.slots) <= idx {
		r.slots = append(r.slots, slot{})
	}
}

// allocate returns a fresh handle in the first free slot.
func (r *Registry) allocate() Handle {
	for i, s := range r.slots {
		if !s.live {
			return MakeHandle(i, s.serial+1)
		}
	}
	return MakeHandle(len(r.slots), 1)
}

// SpawnPawn adds a pawn in a free slot and returns its handle.
func (r *Registry) SpawnPawn(name string, origin geom.Vec, p PawnInfo) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.allocate()
	r.putLocked(NewPawn(h, name, origin, p))
	return h
}

// SpawnController adds a controller in a free slot and returns its handle.
func (r *Registry) SpawnController(name string, c ControllerInfo) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.allocate()
	r.putLocked(NewController(h, name, c))
	return h
}

// Link points the controller at the pawn and the pawn back at the
// controller.
func (r *Registry) Link(ctrl, pawn Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ce, ok := r.liveLocked(ctrl, KindController)
	if !ok {
		return false
	}
	pe, ok := r.liveLocked(pawn, KindPawn)
	if !ok {
		return false
	}
	ce.controller.Pawn = pawn
	pe.pawn.Controller = ctrl
	return true
}

// UpdatePawn mutates a live pawn in place.
func (r *Registry) UpdatePawn(h Handle, fn func(origin *geom.Vec, p *PawnInfo)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.liveLocked(h, KindPawn)
	if !ok {
		return false
	}
	fn(&e.Origin, &e.pawn)
	return true
}

// UpdateController mutates a live controller in place.
func (r *Registry) UpdateController(h Handle, fn func(c *ControllerInfo)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.liveLocked(h, KindController)
	if !ok {
		return false
	}
	fn(&e.controller)
	return true
}

func (r *Registry) liveLocked(h Handle, kind Kind) (*Entity, bool) {
	if !h.Valid() {
		return nil, false
	}
	idx := h.Index()
	if idx >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[idx]
	if !s.live || s.serial != h.Serial() || s.entity.Kind != kind {
		return nil, false
	}
	return &s.entity, true
}

// Snapshot returns every live entity in index order.
func (r *Registry) Snapshot() []Entity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entity, 0, len(r.slots))
	for _, s := range r.slots {
		if s.live {
			out = append(out, s.entity)
		}
	}
	return out
}

// EyeHeight is the standing eye offset above a pawn's origin.
const EyeHeight = 64.0

// Player describes a controller/pawn pair for SpawnPlayer.
type Player struct {
	Name   string
	Team   Team
	Eye    geom.Vec
	Angles geom.Angles
	Health int
}

// SpawnPlayer adds a linked controller and pawn and returns both handles.
func (r *Registry) SpawnPlayer(p Player) (ctrl, pawn Handle) {
	ctrl = r.SpawnController(p.Name, ControllerInfo{PlayerName: p.Name, Team: p.Team})
	origin := geom.Sub(p.Eye, geom.V(0, 0, EyeHeight))
	pawn = r.SpawnPawn(p.Name+"_pawn", origin, PawnInfo{EyeOrigin: p.Eye, EyeAngles: p.Angles, Health: p.Health})
	r.Link(ctrl, pawn)
	return ctrl, pawn
}
