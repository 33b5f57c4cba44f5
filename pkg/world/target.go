package world

// Target is what a camera run follows: a weak pawn reference plus the
// controller index it was resolved through. Either half may be missing;
// Eyes repairs the pawn half from the controller when the pawn changes.
type Target struct {
	Pawn       Ref
	Controller int // -1 when unknown
}

// ByController targets whatever pawn the controller at idx currently owns.
func ByController(idx int) Target {
	return Target{Controller: idx}
}

// Eyes revalidates the target and returns its viewpoint. When the cached
// pawn is gone but the controller has a new pawn, the pawn ref is updated.
func (t *Target) Eyes(w World) (Eyes, bool) {
	if t.Pawn.Valid() {
		if e, ok := t.Pawn.Revalidate(w); ok {
			if p, ok := UsablePawn(e); ok {
				return Eyes{Origin: p.EyeOrigin, Angles: p.EyeAngles}, true
			}
		}
	}
	if t.Controller < 0 {
		return Eyes{}, false
	}
	pe, p, ok := ControllerPawn(w, t.Controller)
	if !ok {
		return Eyes{}, false
	}
	t.Pawn = RefOf(pe.Handle)
	return Eyes{Origin: p.EyeOrigin, Angles: p.EyeAngles}, true
}

// Name is the controller's player name, or the pawn's debug name, or "".
func (t Target) Name(w World) string {
	if t.Controller >= 0 {
		if e, ok := At(w, t.Controller); ok {
			if _, ok := e.AsController(); ok {
				return e.DisplayName()
			}
		}
	}
	if e, ok := t.Pawn.Revalidate(w); ok {
		return e.DisplayName()
	}
	return ""
}
