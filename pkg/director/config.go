package director

import "github.com/teslashibe/go-chasecam/pkg/geom"

// PursuitConfig holds the tunables of a pursuit run.
type PursuitConfig struct {
	Speed     float64 `yaml:"speed" json:"speed"`           // nominal chase speed, units/s
	VelSmooth float64 `yaml:"vel_smooth" json:"vel_smooth"` // velocity easing time constant, s
	AngSmooth float64 `yaml:"ang_smooth" json:"ang_smooth"` // angle smoothing time constant, s
	Margin    float64 `yaml:"margin" json:"margin"`         // arrival margin, units
	FOV       float64 `yaml:"fov" json:"fov"`               // acquisition cone half-angle, degrees
}

// DefaultPursuitConfig returns the stock pursuit settings.
func DefaultPursuitConfig() PursuitConfig {
	return PursuitConfig{
		Speed:     300,
		VelSmooth: 0.55,
		AngSmooth: 0.16,
		Margin:    5,
		FOV:       60,
	}
}

// Clamp forces every field into its valid range.
func (c PursuitConfig) Clamp() PursuitConfig {
	c.Speed = max(50, c.Speed)
	c.VelSmooth = max(0.05, c.VelSmooth)
	c.AngSmooth = max(0.05, c.AngSmooth)
	c.Margin = max(0, c.Margin)
	c.FOV = geom.Clamp(c.FOV, 1, 170)
	return c
}

// TransitMinSpeed is the slowest a transit flight ever moves while not at
// its goal, units/s.
const TransitMinSpeed = 300.0

// TransitConfig holds the tunables of a birds-eye transit.
type TransitConfig struct {
	Height    float64 `yaml:"height" json:"height"`         // altitude above eye height, units
	Speed     float64 `yaml:"speed" json:"speed"`           // nominal flight speed, units/s
	Hold      float64 `yaml:"hold" json:"hold"`             // dwell time at each birds-eye point, s
	VelSmooth float64 `yaml:"vel_smooth" json:"vel_smooth"` // s
	AngSmooth float64 `yaml:"ang_smooth" json:"ang_smooth"` // s
	Margin    float64 `yaml:"margin" json:"margin"`         // arrival margin, units
}

// DefaultTransitConfig returns the stock transit settings.
func DefaultTransitConfig() TransitConfig {
	return TransitConfig{
		Height:    500,
		Speed:     500,
		Hold:      1.0,
		VelSmooth: 0.5,
		AngSmooth: 0.25,
		Margin:    5,
	}
}

// Clamp forces every field into its valid range.
func (c TransitConfig) Clamp() TransitConfig {
	c.Height = max(0, c.Height)
	c.Speed = max(50, c.Speed)
	c.Hold = max(0, c.Hold)
	c.VelSmooth = max(0.05, c.VelSmooth)
	c.AngSmooth = max(0.05, c.AngSmooth)
	c.Margin = max(0.5, c.Margin)
	return c
}

// LockConfig holds the tunables of an aim-lock.
type LockConfig struct {
	HalfTime      float64 `yaml:"halftime" json:"halftime"`                 // tracking half-life, s
	Blend         float64 `yaml:"blend" json:"blend"`                       // engage ramp half-life, s
	DisableOnDead bool    `yaml:"nodead" json:"nodead"`                     // release when the target dies
	RestoreHalf   float64 `yaml:"restore_halftime" json:"restore_halftime"` // upstream half-time restored on release, <0 uses the captured value
}

// DefaultLockConfig returns the stock lock settings.
func DefaultLockConfig() LockConfig {
	return LockConfig{
		HalfTime:    0.10,
		Blend:       0.10,
		RestoreHalf: -1,
	}
}

// Clamp forces every field into its valid range.
func (c LockConfig) Clamp() LockConfig {
	c.HalfTime = max(0, c.HalfTime)
	c.Blend = max(0, c.Blend)
	if c.RestoreHalf < 0 {
		c.RestoreHalf = -1
	}
	return c
}

// Presets are the defaults operator commands start from.
type Presets struct {
	Pursuit PursuitConfig `yaml:"pursuit" json:"pursuit"`
	Transit TransitConfig `yaml:"transit" json:"transit"`
	Lock    LockConfig    `yaml:"lock" json:"lock"`
}

// DefaultPresets returns the stock presets.
func DefaultPresets() Presets {
	return Presets{
		Pursuit: DefaultPursuitConfig(),
		Transit: DefaultTransitConfig(),
		Lock:    DefaultLockConfig(),
	}
}

// Clamp clamps every section.
func (p Presets) Clamp() Presets {
	p.Pursuit = p.Pursuit.Clamp()
	p.Transit = p.Transit.Clamp()
	p.Lock = p.Lock.Clamp()
	return p
}

// Tuning is a partial update to Presets. Only non-nil fields are applied.
type Tuning struct {
	PursuitSpeed     *float64 `json:"pursuit_speed,omitempty"`
	PursuitVelSmooth *float64 `json:"pursuit_vel_smooth,omitempty"`
	PursuitAngSmooth *float64 `json:"pursuit_ang_smooth,omitempty"`
	PursuitMargin    *float64 `json:"pursuit_margin,omitempty"`
	PursuitFOV       *float64 `json:"pursuit_fov,omitempty"`

	TransitHeight    *float64 `json:"transit_height,omitempty"`
	TransitSpeed     *float64 `json:"transit_speed,omitempty"`
	TransitHold      *float64 `json:"transit_hold,omitempty"`
	TransitVelSmooth *float64 `json:"transit_vel_smooth,omitempty"`
	TransitAngSmooth *float64 `json:"transit_ang_smooth,omitempty"`
	TransitMargin    *float64 `json:"transit_margin,omitempty"`

	LockHalfTime *float64 `json:"lock_halftime,omitempty"`
	LockBlend    *float64 `json:"lock_blend,omitempty"`
	LockNoDead   *bool    `json:"lock_nodead,omitempty"`
	LockRestore  *float64 `json:"lock_restore_halftime,omitempty"`
}

// Apply returns p with t's fields applied and clamped.
func (t Tuning) Apply(p Presets) Presets {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Pursuit.Speed, t.PursuitSpeed)
	set(&p.Pursuit.VelSmooth, t.PursuitVelSmooth)
	set(&p.Pursuit.AngSmooth, t.PursuitAngSmooth)
	set(&p.Pursuit.Margin, t.PursuitMargin)
	set(&p.Pursuit.FOV, t.PursuitFOV)

	set(&p.Transit.Height, t.TransitHeight)
	set(&p.Transit.Speed, t.TransitSpeed)
	set(&p.Transit.Hold, t.TransitHold)
	set(&p.Transit.VelSmooth, t.TransitVelSmooth)
	set(&p.Transit.AngSmooth, t.TransitAngSmooth)
	set(&p.Transit.Margin, t.TransitMargin)

	set(&p.Lock.HalfTime, t.LockHalfTime)
	set(&p.Lock.Blend, t.LockBlend)
	set(&p.Lock.RestoreHalf, t.LockRestore)
	if t.LockNoDead != nil {
		p.Lock.DisableOnDead = *t.LockNoDead
	}
	return p.Clamp()
}
