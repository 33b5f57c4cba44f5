package director

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// ModeTransit is the name transit runs report.
const ModeTransit = "transit"

const (
	topDownPitch    = 89.9
	transitAngRate  = 720.0 // deg/s
	minDecelRadius  = 50.0
	minDescendAngTC = 0.06
)

// TransitPhase is the state of a birds-eye transit.
type TransitPhase int

const (
	TransitIdle TransitPhase = iota
	TransitAscendA
	TransitHoldA
	TransitToB
	TransitHoldB
	TransitDescendB
)

var transitPhaseNames = [...]string{"idle", "ascend_a", "hold_a", "to_b", "hold_b", "descend_b"}

func (p TransitPhase) String() string {
	if int(p) < len(transitPhaseNames) {
		return transitPhaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Transit lifts the camera out of one player's eyes, flies top-down to a
// second player and descends into their eyes.
//
// In overhead mode source and destination are the same player, there is no
// dwell over A and the camera waits in HoldB until Return is called.
type Transit struct {
	cfg      TransitConfig
	from, to         int
	fromName, toName string
	overhead bool
	host     Host

	phase      TransitPhase
	phaseStart float64
	phasePend  bool // phaseStart is set on the next frame
	dog        watchdog

	initialized bool
	pos, vel    geom.Vec
	ang, angVel geom.Angles
	downYaw     float64
	downYawSet  bool
}

// NewTransit flies from controller from to controller to. Empty names fall
// back to the controller index.
func NewTransit(from int, fromName string, to int, toName string, cfg TransitConfig) *Transit {
	if fromName == "" {
		fromName = fmt.Sprint(from)
	}
	if toName == "" {
		toName = fmt.Sprint(to)
	}
	return &Transit{cfg: cfg.Clamp(), from: from, to: to, fromName: fromName, toName: toName}
}

// NewOverhead rises above controller idx and holds there until Return.
func NewOverhead(idx int, name string, cfg TransitConfig) *Transit {
	t := NewTransit(idx, name, idx, name, cfg)
	t.overhead = true
	return t
}

// Name implements Mode.
func (t *Transit) Name() string { return ModeTransit }

// Phase returns the current phase.
func (t *Transit) Phase() TransitPhase { return t.phase }

// Config returns the run's settings.
func (t *Transit) Config() TransitConfig { return t.cfg }

// Overhead reports whether the run waits for Return.
func (t *Transit) Overhead() bool { return t.overhead }

// Start implements Mode.
func (t *Transit) Start(h Host) {
	t.host = h
	t.initialized = false
	t.downYawSet = false
	t.dog.reset()
	t.begin(TransitAscendA)
	h.spectate(t.fromName)
	if t.overhead {
		h.message("bird: overhead %s height=%.1f", t.toName, t.cfg.Height)
	} else {
		h.message("bird: from %s -> %s height=%.1f speed=%.0f hold=%.1fs",
			t.fromName, t.toName, t.cfg.Height, t.cfg.Speed, t.cfg.Hold)
	}
}

// Return sends an overhead run back down into the player's eyes. It only
// acts while the run is holding over the player and reports false
// otherwise.
func (t *Transit) Return() bool {
	if !t.overhead || t.phase != TransitHoldB {
		return false
	}
	t.begin(TransitDescendB)
	return true
}

// Stop implements Mode.
func (t *Transit) Stop(reason StopReason) {
	if t.phase == TransitIdle {
		return
	}
	t.phase = TransitIdle
	t.initialized = false
	switch reason {
	case StopRequested:
		t.host.message("bird: stopped")
	case StopDesync:
		t.host.warning("bird: camera control released, stopping")
	}
}

// Status implements Mode.
func (t *Transit) Status() Status {
	st := Status{Mode: ModeTransit, Phase: t.phase.String(), Target: t.toName}
	if t.initialized {
		st.Pose = &geom.Pose{Position: t.pos, Angles: t.ang}
	}
	return st
}

func (t *Transit) begin(p TransitPhase) {
	t.phase = p
	t.phasePend = true
}

func (t *Transit) beginAt(p TransitPhase, now float64) {
	t.phase = p
	t.phaseStart = now
	t.phasePend = false
}

func (t *Transit) abort(format string, args ...any) (Output, bool) {
	t.host.warning(format, args...)
	t.phase = TransitIdle
	t.initialized = false
	return NoChange, false
}

// birdPoint is the position height units above the controller's eyes.
func (t *Transit) birdPoint(w world.World, idx int) (geom.Vec, bool) {
	_, p, ok := world.ControllerPawn(w, idx)
	if !ok {
		return geom.Vec{}, false
	}
	return geom.Add(p.EyeOrigin, geom.V(0, 0, t.cfg.Height)), true
}

func (t *Transit) eyes(w world.World, idx int) (world.Eyes, bool) {
	tgt := world.ByController(idx)
	return tgt.Eyes(w)
}

// Tick implements Mode.
func (t *Transit) Tick(f Frame) (Output, bool) {
	if t.phase == TransitIdle {
		return NoChange, false
	}
	if t.phasePend {
		t.beginAt(t.phase, f.Time)
	}

	if !t.initialized {
		dt0 := f.seedDelta()
		t.pos = f.Current.Position
		t.ang = f.Current.Angles
		t.vel = geom.Scale(geom.Sub(f.Current.Position, f.Last.Position), 1/dt0)
		t.angVel = angleRate(f.Current.Angles, f.Last.Angles, dt0)
		t.initialized = true
		if !t.downYawSet {
			t.downYaw = geom.SnapCardinal(f.Current.Angles.Yaw)
			t.downYawSet = true
		}
	}

	dt := f.dt()
	topDown := geom.Angles{Pitch: topDownPitch, Yaw: t.downYaw}

	var (
		targetPos geom.Vec
		targetAng geom.Angles
		ok        bool
	)
	switch t.phase {
	case TransitAscendA, TransitHoldA:
		targetPos, ok = t.birdPoint(f.World, t.from)
		if !ok {
			return t.lost(f.Time, "source player")
		}
		targetAng = topDown
	case TransitToB, TransitHoldB:
		targetPos, ok = t.birdPoint(f.World, t.to)
		if !ok {
			return t.lost(f.Time, "destination player")
		}
		targetAng = topDown
	case TransitDescendB:
		eyes, ok := t.eyes(f.World, t.to)
		if !ok {
			return t.lost(f.Time, "destination POV")
		}
		targetPos = eyes.Origin
		blendRadius := t.blendRadius()
		tBlend := geom.Clamp(1-geom.Dist(targetPos, t.pos)/blendRadius, 0, 1)
		targetAng = geom.Angles{
			Pitch: geom.LerpAngle(topDown.Pitch, eyes.Angles.Pitch, tBlend),
			Yaw:   geom.LerpAngle(topDown.Yaw, eyes.Angles.Yaw, tBlend),
			Roll:  geom.LerpAngle(topDown.Roll, eyes.Angles.Roll, tBlend),
		}
	}
	t.dog.reset()

	t.move(targetPos, dt)

	angSmooth := t.cfg.AngSmooth
	if t.phase == TransitDescendB {
		factor := geom.Clamp(geom.Dist(targetPos, t.pos)/t.blendRadius(), 0.15, 1)
		angSmooth = math.Max(minDescendAngTC, t.cfg.AngSmooth*factor)
	}
	t.ang = geom.SmoothDampAngles(t.ang, targetAng, &t.angVel, angSmooth, transitAngRate, dt)

	out := poseOutput(t.pos, t.ang)
	if done := t.advance(f.Time, targetPos); done {
		return out, false
	}
	return out, true
}

func (t *Transit) lost(now float64, what string) (Output, bool) {
	if t.dog.miss(now) {
		return t.abort("bird: %s not available, aborting.", what)
	}
	return NoChange, true
}

func (t *Transit) blendRadius() float64 {
	return math.Max(1, t.cfg.Height*0.5)
}

// move integrates the position for the current phase.
func (t *Transit) move(target geom.Vec, dt float64) {
	switch t.phase {
	case TransitHoldA, TransitHoldB:
		t.pos = target
		t.vel = geom.Vec{}

	case TransitAscendA:
		t.liftZ(target, dt)

	case TransitToB:
		delta := geom.Sub(target, t.pos)
		dist := geom.Length(delta)
		dir := geom.Normalize(delta, geom.NormEpsilon)

		speed := geom.Length(t.vel)
		goal := t.cfg.Speed
		decelRadius := math.Max(minDecelRadius, t.cfg.Height*0.5)
		if dist < decelRadius {
			goal = math.Max(TransitMinSpeed, t.cfg.Speed*(dist/decelRadius))
		}
		speed += (goal - speed) * geom.ExpFactor(t.cfg.VelSmooth, dt)
		if dist > t.cfg.Margin+0.01 {
			speed = math.Max(TransitMinSpeed, speed)
		}
		t.stepToward(dir, math.Min(speed*dt, dist), dt)

	case TransitDescendB:
		if t.overhead {
			t.liftZ(target, dt)
			return
		}
		delta := geom.Sub(target, t.pos)
		dist := geom.Length(delta)
		dir := geom.Normalize(delta, geom.NormEpsilon)
		speed := math.Max(TransitMinSpeed, math.Min(t.cfg.Speed, dist/math.Max(dt, 1e-6)))
		t.stepToward(dir, math.Min(speed*dt, dist), dt)
	}
}

// liftZ locks XY to target and smooths Z toward it.
func (t *Transit) liftZ(target geom.Vec, dt float64) {
	z, vz := geom.SmoothDamp(t.pos.Z, target.Z, t.vel.Z, t.cfg.VelSmooth, t.cfg.Speed, dt)
	t.pos = geom.V(target.X, target.Y, z)
	t.vel = geom.V(0, 0, vz)
}

func (t *Transit) stepToward(dir geom.Vec, step, dt float64) {
	t.pos = geom.Add(t.pos, geom.Scale(dir, step))
	v := 0.0
	if step > 0 && dt > 0 {
		v = step / dt
	}
	t.vel = geom.Scale(dir, v)
}

// arrived is the birds-eye arrival test: horizontal and vertical offsets
// both within margin.
func (t *Transit) arrived(target geom.Vec) bool {
	return geom.HorizontalDist(t.pos, target) <= t.cfg.Margin &&
		math.Abs(t.pos.Z-target.Z) <= t.cfg.Margin
}

// advance runs the phase transitions and reports whether the run is over.
func (t *Transit) advance(now float64, target geom.Vec) bool {
	switch t.phase {
	case TransitAscendA:
		if t.arrived(target) {
			t.beginAt(TransitHoldA, now)
		}
	case TransitHoldA:
		hold := t.cfg.Hold
		if t.overhead {
			hold = 0
		}
		if now-t.phaseStart >= hold {
			t.host.spectate(t.toName)
			t.downYaw = geom.SnapCardinal(t.ang.Yaw)
			t.beginAt(TransitToB, now)
		}
	case TransitToB:
		if t.arrived(target) {
			t.beginAt(TransitHoldB, now)
		}
	case TransitHoldB:
		if !t.overhead && now-t.phaseStart >= t.cfg.Hold {
			t.beginAt(TransitDescendB, now)
		}
	case TransitDescendB:
		if geom.Dist(t.pos, target) <= t.cfg.Margin {
			t.host.release()
			t.host.message("bird: done -> %s", t.toName)
			t.phase = TransitIdle
			t.initialized = false
			return true
		}
	}
	return false
}
