package director

import (
	"math"

	"github.com/teslashibe/go-chasecam/pkg/acquire"
	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// ModeLock is the name aim-lock runs report.
const ModeLock = "lock"

// Angles closer than this to the host view are not pushed upstream.
const lockSyncEpsilon = 0.001

// LockPhase is the state of an aim-lock.
type LockPhase int

const (
	LockIdle LockPhase = iota
	LockEngaging
	LockLocked
)

func (p LockPhase) String() string {
	switch p {
	case LockEngaging:
		return "engaging"
	case LockLocked:
		return "locked"
	}
	return "idle"
}

// Lock turns the camera toward the player nearest the screen center and
// keeps it there. Only pitch and yaw are overridden; position stays with
// the operator.
type Lock struct {
	cfg  LockConfig
	host Host

	phase   LockPhase
	blend   float64
	pending bool
	target  world.Ref
	name    string

	restore    float64
	hasRestore bool

	lastOut    geom.Angles
	hasLastOut bool
}

// NewLock returns an aim-lock using cfg.
func NewLock(cfg LockConfig) *Lock {
	return &Lock{cfg: cfg.Clamp()}
}

// Name implements Mode.
func (l *Lock) Name() string { return ModeLock }

// Phase returns the current phase.
func (l *Lock) Phase() LockPhase { return l.phase }

// Blend returns the engage ramp in [0, 1].
func (l *Lock) Blend() float64 { return l.blend }

// Config returns the live settings.
func (l *Lock) Config() LockConfig { return l.cfg }

// Reconfigure changes the tracking settings of a running lock.
func (l *Lock) Reconfigure(cfg LockConfig) {
	cfg = cfg.Clamp()
	l.cfg.HalfTime = cfg.HalfTime
	l.cfg.Blend = cfg.Blend
	l.cfg.DisableOnDead = cfg.DisableOnDead
	if cfg.RestoreHalf >= 0 {
		l.cfg.RestoreHalf = cfg.RestoreHalf
		l.restore, l.hasRestore = cfg.RestoreHalf, true
	}
}

// Start implements Mode.
func (l *Lock) Start(h Host) {
	l.host = h
	l.phase = LockEngaging
	l.blend = 0
	l.pending = true
	l.target = world.Ref{}
	l.hasLastOut = false

	switch {
	case l.cfg.RestoreHalf >= 0:
		l.restore, l.hasRestore = l.cfg.RestoreHalf, true
	case h.Input != nil:
		l.restore, l.hasRestore = h.Input.HalfTimeAng()
	}
	if h.Input != nil {
		h.Input.SetHalfTimeAng(0)
	}
	h.message("lock: Enabled (halftime %.3fs)", l.cfg.HalfTime)
}

func (l *Lock) needsControl() {}

// Stop implements Mode.
func (l *Lock) Stop(reason StopReason) {
	if reason == StopDesync && l.phase != LockIdle {
		l.host.warning("lock: camera control released, stopping")
	}
	l.disable()
}

// Status implements Mode.
func (l *Lock) Status() Status {
	st := Status{Mode: ModeLock, Phase: l.phase.String(), Target: l.name}
	if l.hasLastOut {
		st.Pose = &geom.Pose{Angles: l.lastOut}
	}
	return st
}

// disable writes back the last angles and the overridden smoothing.
func (l *Lock) disable() {
	if l.phase == LockIdle {
		return
	}
	if l.hasLastOut && l.host.Input != nil {
		l.host.Input.SetAngles(geom.Angles{Pitch: l.lastOut.Pitch, Yaw: l.lastOut.Yaw})
	}
	switch {
	case l.hasRestore && l.host.Input != nil:
		l.host.Input.SetHalfTimeAng(l.restore)
	default:
		l.host.warning("lock: no restore value for the angle half-time; set one with \"lock halftimeang <seconds>\"")
	}
	l.phase = LockIdle
	l.blend = 0
	l.pending = false
	l.target = world.Ref{}
	l.host.message("lock: Disabled")
}

// Tick implements Mode.
func (l *Lock) Tick(f Frame) (Output, bool) {
	if l.phase == LockIdle {
		return NoChange, false
	}
	dt := f.dt()

	if l.phase == LockEngaging {
		l.blend += (1 - l.blend) * geom.HalfLifeFactor(l.cfg.Blend, dt)
		if l.blend > 0.999 {
			l.blend = 1
			l.phase = LockLocked
		}
	}

	if l.pending {
		l.pending = false
		// Select against the angles that were on screen last frame.
		view := geom.Pose{Position: f.Current.Position, Angles: f.Last.Angles}
		idx, ok := acquire.Ray(f.World, view)
		if !ok {
			l.host.warning("lock: No target found in view.")
			l.disable()
			return NoChange, false
		}
		e, _ := world.At(f.World, idx)
		l.target = world.RefOf(e.Handle)
		l.name = e.DisplayName()
		if ci, ok := world.PawnController(f.World, idx); ok {
			if ce, ok := world.At(f.World, ci); ok {
				l.name = ce.DisplayName()
			}
		}
		l.host.message("lock: Target acquired: #%d %s", idx, l.name)
	}

	pawn, ok := l.resolve(f.World)
	if !ok {
		l.disable()
		return NoChange, false
	}

	desired := geom.LookAt(f.Current.Position, pawn.EyeOrigin)
	sf := geom.HalfLifeFactor(l.cfg.HalfTime, dt) * geom.Clamp(l.blend, 0, 1)
	last := f.Last.Angles
	out := geom.Angles{
		Pitch: last.Pitch + geom.AngleDelta(desired.Pitch, last.Pitch)*sf,
		Yaw:   last.Yaw + geom.AngleDelta(desired.Yaw, last.Yaw)*sf,
	}
	l.lastOut = out
	l.hasLastOut = true

	// Keep the upstream input in step so releasing does not snap back.
	if l.host.Input != nil {
		dy := math.Abs(geom.AngleDelta(out.Yaw, f.Current.Angles.Yaw))
		dp := math.Abs(geom.AngleDelta(out.Pitch, f.Current.Angles.Pitch))
		if dy > lockSyncEpsilon || dp > lockSyncEpsilon {
			l.host.Input.SetAngles(out)
		}
	}
	return anglesOutput(out.Pitch, out.Yaw), true
}

func (l *Lock) resolve(w world.World) (world.PawnInfo, bool) {
	e, ok := l.target.Revalidate(w)
	if !ok {
		return world.PawnInfo{}, false
	}
	p, ok := e.AsPawn()
	if !ok {
		return world.PawnInfo{}, false
	}
	if l.cfg.DisableOnDead && p.Health == 0 {
		return world.PawnInfo{}, false
	}
	return p, true
}
