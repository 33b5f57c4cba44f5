package director

import (
	"fmt"
	"math"

	"github.com/teslashibe/go-chasecam/pkg/acquire"
	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/intercept"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// ModePursuit is the name pursuit runs report.
const ModePursuit = "pursuit"

// Pursuit tuning that is not exposed as configuration.
const (
	targetVelSmooth = 0.20  // s, EMA time constant of the target velocity
	boostRadius     = 120.0 // units, speed boost ramps in below this
	boostMax        = 0.5   // extra speed fraction at distance 0
	closeRadius     = 400.0 // units, close-range blending starts below this
	arriveRadius    = 50.0  // units, step-based arrival only inside this
	snapRadius      = 5.0   // units, always arrived inside this
	headingMinSpeed = 10.0  // units/s, below this the target has no heading
	minVelSmooth    = 0.12  // s
	pursuitAngRate  = 420.0 // deg/s

	lateralWeight   = 0.5
	bearingWeight   = 0.3
	closeLateral    = 0.25
	closeBearing    = 0.15
	minInterceptWgt = 0.15
)

// PursuitPhase is the state of a pursuit run.
type PursuitPhase int

const (
	PursuitIdle PursuitPhase = iota
	PursuitAcquiring
	PursuitChasing
)

func (p PursuitPhase) String() string {
	switch p {
	case PursuitAcquiring:
		return "acquiring"
	case PursuitChasing:
		return "chasing"
	}
	return "idle"
}

// Pursuit flies the camera into a player's eyes, leading a moving target.
type Pursuit struct {
	cfg    PursuitConfig
	policy acquire.Policy
	host   Host

	phase  PursuitPhase
	target world.Target
	name   string
	dog    watchdog

	initialized bool
	pos, vel    geom.Vec
	ang, angVel geom.Angles

	lastTarget geom.Vec
	tgtVel     geom.Vec
	hasTgtVel  bool
}

// ChaseController pursues the pawn of the controller at idx.
func ChaseController(idx int, name string, cfg PursuitConfig) *Pursuit {
	if name == "" {
		name = fmt.Sprintf("#%d", idx)
	}
	return &Pursuit{cfg: cfg.Clamp(), target: world.ByController(idx), name: name}
}

// ChaseNearest pursues whichever pawn is closest to the camera when the run
// starts.
func ChaseNearest(cfg PursuitConfig) *Pursuit {
	return &Pursuit{cfg: cfg.Clamp(), policy: acquire.PolicyNearest, target: world.ByController(-1)}
}

// ChaseInView pursues the pawn best aligned with the view inside cfg.FOV.
func ChaseInView(cfg PursuitConfig) *Pursuit {
	return &Pursuit{cfg: cfg.Clamp(), policy: acquire.PolicyCone, target: world.ByController(-1)}
}

// Name implements Mode.
func (p *Pursuit) Name() string { return ModePursuit }

// Phase returns the current phase.
func (p *Pursuit) Phase() PursuitPhase { return p.phase }

// Config returns the run's settings.
func (p *Pursuit) Config() PursuitConfig { return p.cfg }

// Start implements Mode.
func (p *Pursuit) Start(h Host) {
	p.host = h
	p.initialized = false
	p.dog.reset()
	if p.target.Controller >= 0 {
		p.phase = PursuitChasing
		h.spectate(fmt.Sprint(p.target.Controller))
		h.message("toeyes: started for %s (speed=%.1f)", p.name, p.cfg.Speed)
		return
	}
	p.phase = PursuitAcquiring
}

// Stop implements Mode.
func (p *Pursuit) Stop(reason StopReason) {
	if p.phase == PursuitIdle {
		return
	}
	p.phase = PursuitIdle
	p.initialized = false
	switch reason {
	case StopRequested:
		p.host.message("toeyes: stopped")
	case StopDesync:
		p.host.warning("toeyes: camera control released, stopping")
	}
}

// Status implements Mode.
func (p *Pursuit) Status() Status {
	st := Status{Mode: ModePursuit, Phase: p.phase.String(), Target: p.name}
	if p.initialized {
		st.Pose = &geom.Pose{Position: p.pos, Angles: p.ang}
	}
	return st
}

func (p *Pursuit) abort(format string, args ...any) (Output, bool) {
	p.host.warning(format, args...)
	p.phase = PursuitIdle
	p.initialized = false
	return NoChange, false
}

// Tick implements Mode.
func (p *Pursuit) Tick(f Frame) (Output, bool) {
	switch p.phase {
	case PursuitIdle:
		return NoChange, false
	case PursuitAcquiring:
		tgt, ok := acquire.Acquire(f.World, p.policy, f.Current, p.cfg.FOV)
		if !ok {
			if p.dog.miss(f.Time) {
				return p.abort("toeyes: %s target not found, aborting.", p.policy)
			}
			return NoChange, true
		}
		p.dog.reset()
		p.target = tgt
		p.name = tgt.Name(f.World)
		if p.name == "" {
			p.name = fmt.Sprintf("#%d", tgt.Controller)
		}
		p.phase = PursuitChasing
		p.host.spectate(p.name)
		p.host.message("toeyes: started (%s) for %s (speed=%.1f)", p.policy, p.name, p.cfg.Speed)
	}

	eyes, ok := p.target.Eyes(f.World)
	if !ok {
		if p.dog.miss(f.Time) {
			return p.abort("toeyes: target not available, aborting.")
		}
		return NoChange, true
	}
	p.dog.reset()

	if !p.initialized {
		p.init(f, eyes.Origin)
	}

	dt := f.dt()
	p.trackTarget(eyes.Origin, dt)

	toTgt := geom.Sub(eyes.Origin, p.pos)
	dist := geom.Length(toTgt)
	chaseSpeed := p.cfg.Speed * speedBoost(dist)

	pred, _ := intercept.Predict(p.pos, eyes.Origin, p.tgtVel, chaseSpeed, geom.Length(p.vel))

	dir := steer(geom.Sub(pred, p.pos), toTgt, p.tgtVel)

	velSmooth := math.Max(minVelSmooth, p.cfg.VelSmooth*math.Min(1, dist/closeRadius))
	desired := geom.Scale(dir, chaseSpeed)
	p.vel = geom.Add(p.vel, geom.Scale(geom.Sub(desired, p.vel), geom.ExpFactor(velSmooth, dt)))
	if s := geom.Length(p.vel); s > chaseSpeed {
		p.vel = geom.Scale(p.vel, chaseSpeed/s)
	}
	p.pos = geom.Add(p.pos, geom.Scale(p.vel, dt))

	p.ang = geom.SmoothDampAngles(p.ang, eyes.Angles, &p.angVel, p.cfg.AngSmooth, pursuitAngRate, dt)

	out := poseOutput(p.pos, p.ang)

	step := geom.Length(p.vel) * dt
	if (step >= dist-p.cfg.Margin && dist <= arriveRadius) || dist <= snapRadius {
		p.host.release()
		p.host.message("toeyes: done -> %s", p.name)
		p.phase = PursuitIdle
		p.initialized = false
		return out, false
	}
	return out, true
}

// init seeds the kinematic state from the camera path or, failing that,
// from the last frame's camera motion.
func (p *Pursuit) init(f Frame, tgt geom.Vec) {
	dt0 := f.seedDelta()
	p.pos = f.Current.Position
	p.ang = f.Current.Angles

	seeded := false
	if f.Path != nil {
		v1, ok1 := f.Path.Sample(f.Time)
		v0, ok0 := f.Path.Sample(f.Time - dt0)
		if ok1 && ok0 {
			p.vel = geom.Scale(geom.Sub(v1.Position, v0.Position), 1/dt0)
			p.angVel = angleRate(v1.Angles, v0.Angles, dt0)
			p.ang = v1.Angles
			seeded = true
		}
	}
	if !seeded {
		p.vel = geom.Scale(geom.Sub(f.Current.Position, f.Last.Position), 1/dt0)
		p.angVel = angleRate(f.Current.Angles, f.Last.Angles, dt0)
	}

	p.lastTarget = tgt
	p.tgtVel = geom.Vec{}
	p.hasTgtVel = false
	p.initialized = true
}

// trackTarget updates the smoothed target velocity.
func (p *Pursuit) trackTarget(tgt geom.Vec, dt float64) {
	raw := geom.Scale(geom.Sub(tgt, p.lastTarget), 1/dt)
	p.lastTarget = tgt
	if !p.hasTgtVel {
		p.tgtVel = raw
		p.hasTgtVel = true
		return
	}
	a := geom.ExpFactor(targetVelSmooth, dt)
	p.tgtVel = geom.Add(p.tgtVel, geom.Scale(geom.Sub(raw, p.tgtVel), a))
}

func speedBoost(dist float64) float64 {
	if dist >= boostRadius {
		return 1
	}
	return 1 + (boostRadius-dist)/boostRadius*boostMax
}

// steer blends the intercept direction with a lateral correction toward
// the target's line of travel and the direct bearing. toPred points at the
// predicted intercept, toTgt at the target, tgtVel is the target velocity.
func steer(toPred, toTgt, tgtVel geom.Vec) geom.Vec {
	interceptDir := geom.Unit(toPred)
	baseDir := geom.Unit(toTgt)
	dist := geom.Length(toTgt)

	tgtSpeed := geom.Length(tgtVel)
	lateral := toTgt
	if tgtSpeed > headingMinSpeed {
		fwd := geom.Scale(tgtVel, 1/tgtSpeed)
		lateral = geom.Sub(toTgt, geom.Scale(fwd, geom.Dot(toTgt, fwd)))
	}
	latMag := geom.Length(lateral)
	latDir := geom.Unit(lateral)

	wLat := lateralWeight * (latMag / (latMag + tgtSpeed + 1e-3))
	wBase := 0.0
	if dist > 1e-3 {
		wBase = bearingWeight * (latMag / dist)
	}
	closeFactor := 0.0
	if dist < closeRadius {
		closeFactor = 1 - dist/closeRadius
	}
	wLat += closeFactor * closeLateral
	wBase += closeFactor * closeBearing
	wInt := math.Max(minInterceptWgt, 1-(wLat+wBase))

	dir := geom.Add(geom.Add(geom.Scale(interceptDir, wInt), geom.Scale(latDir, wLat)), geom.Scale(baseDir, wBase))
	return geom.Unit(dir)
}

func angleRate(a1, a0 geom.Angles, dt float64) geom.Angles {
	return geom.Angles{
		Pitch: geom.AngleDelta(a1.Pitch, a0.Pitch) / dt,
		Yaw:   geom.AngleDelta(a1.Yaw, a0.Yaw) / dt,
		Roll:  geom.AngleDelta(a1.Roll, a0.Roll) / dt,
	}
}
