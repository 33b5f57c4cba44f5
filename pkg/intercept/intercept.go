// Package intercept predicts where a constant-speed chaser meets a target
// moving at constant velocity.
package intercept

import (
	"math"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

// Epsilon separates the degenerate quadratic cases.
const Epsilon = 1e-6

// Lead time bounds for the fallback prediction, seconds.
const (
	MinLead = 0.05
	MaxLead = 0.5
)

// Solution is a predicted meeting point.
type Solution struct {
	Point geom.Vec
	Time  float64 // seconds from now
}

// Solve finds the earliest positive time t at which a chaser at chaser
// moving at speed can reach target + vel*t. ok is false when no such time
// exists.
func Solve(chaser, target, vel geom.Vec, speed float64) (Solution, bool) {
	r := geom.Sub(target, chaser)
	a := geom.Dot(vel, vel) - speed*speed
	b := 2 * geom.Dot(r, vel)
	c := geom.Dot(r, r)

	var t float64
	if math.Abs(a) < Epsilon {
		if math.Abs(b) <= Epsilon {
			return Solution{}, false
		}
		t = -c / b
	} else {
		disc := b*b - 4*a*c
		if disc < 0 {
			return Solution{}, false
		}
		sq := math.Sqrt(disc)
		t1 := (-b - sq) / (2 * a)
		t2 := (-b + sq) / (2 * a)
		t = smallestPositive(t1, t2)
	}

	if !(t > 0) || math.IsInf(t, 0) {
		return Solution{}, false
	}
	return Solution{Point: geom.Add(target, geom.Scale(vel, t)), Time: t}, true
}

func smallestPositive(t1, t2 float64) float64 {
	p1, p2 := t1 > Epsilon, t2 > Epsilon
	switch {
	case p1 && p2:
		return math.Min(t1, t2)
	case p1:
		return t1
	case p2:
		return t2
	}
	return math.NaN()
}

// Lead is the bounded fallback used when Solve fails: the target advanced
// along vel by distance/chaserSpeed seconds, clamped to [MinLead, MaxLead].
func Lead(target, vel geom.Vec, distance, chaserSpeed float64) geom.Vec {
	lead := geom.Clamp(distance/math.Max(1, chaserSpeed), MinLead, MaxLead)
	return geom.Add(target, geom.Scale(vel, lead))
}

// Predict returns the intercept point for a chaser able to fly at speed,
// falling back to Lead with the chaser's current speed. solved reports
// whether the closed form succeeded.
func Predict(chaser, target, vel geom.Vec, speed, currentSpeed float64) (point geom.Vec, solved bool) {
	if sol, ok := Solve(chaser, target, vel, speed); ok {
		return sol.Point, true
	}
	return Lead(target, vel, geom.Dist(target, chaser), currentSpeed), false
}
