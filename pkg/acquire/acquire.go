// Package acquire picks a target entity for a camera run.
//
// Three policies exist. Nearest and Cone choose among pawns and are used by
// pursuit; Ray chooses among playing controllers and is used by aim-lock.
// Every policy finishes by cross-resolving the chosen pawn to its
// controller so the run can survive a respawn.
package acquire

import (
	"math"

	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// SelfRadius is the distance inside which a candidate is assumed to be the
// pawn the camera is sitting in.
const SelfRadius = 5.0

// Cone half-angle limits in degrees.
const (
	MinFOV = 1.0
	MaxFOV = 170.0
)

const (
	coincidentSq = 1e-6
	cosTieEps    = 1e-6
)

// Policy selects the acceptance rule.
type Policy int

const (
	PolicyNearest Policy = iota
	PolicyCone
	PolicyRay
)

func (p Policy) String() string {
	switch p {
	case PolicyCone:
		return "cone"
	case PolicyRay:
		return "ray"
	}
	return "nearest"
}

// Nearest returns the pawn index closest to origin. Pawns within SelfRadius
// are only used when nothing else exists.
func Nearest(w world.World, origin geom.Vec) (int, bool) {
	best, bestD := -1, math.Inf(1)
	self, selfD := -1, math.Inf(1)

	world.Each(w, func(e world.Entity) bool {
		p, ok := world.UsablePawn(e)
		if !ok {
			return true
		}
		d := geom.DistSq(p.EyeOrigin, origin)
		if d < SelfRadius*SelfRadius {
			if d < selfD {
				self, selfD = e.Index, d
			}
			return true
		}
		if d < bestD {
			best, bestD = e.Index, d
		}
		return true
	})

	if best >= 0 {
		return best, true
	}
	return self, self >= 0
}

// Cone returns the pawn index best aligned with the view inside a cone of
// half-angle fov degrees. Ties on alignment go to the closer pawn. When no
// pawn is inside the cone the globally nearest one is returned.
func Cone(w world.World, view geom.Pose, fov float64) (int, bool) {
	fwd := geom.Forward(view.Angles.Pitch, view.Angles.Yaw)
	minCos := math.Cos(geom.Radians(geom.Clamp(fov, MinFOV, MaxFOV)))

	best, bestCos, bestD := -1, -2.0, math.Inf(1)
	near, nearD := -1, math.Inf(1)

	world.Each(w, func(e world.Entity) bool {
		p, ok := world.UsablePawn(e)
		if !ok {
			return true
		}
		to := geom.Sub(p.EyeOrigin, view.Position)
		d := geom.Dot(to, to)
		if d < coincidentSq {
			return true
		}
		if d < nearD {
			near, nearD = e.Index, d
		}
		c := geom.Dot(fwd, geom.Scale(to, 1/math.Sqrt(d)))
		if c < minCos {
			return true
		}
		if c > bestCos || (math.Abs(c-bestCos) < cosTieEps && d < bestD) {
			best, bestCos, bestD = e.Index, c, d
		}
		return true
	})

	if best >= 0 {
		return best, true
	}
	return near, near >= 0
}

// Ray returns the pawn index of the playing, living player with the
// smallest angular deviation from the view direction, strictly in front of
// the camera.
func Ray(w world.World, view geom.Pose) (int, bool) {
	fwd := geom.Forward(view.Angles.Pitch, view.Angles.Yaw)
	best, bestAng := -1, math.Inf(1)

	world.Each(w, func(e world.Entity) bool {
		c, ok := e.AsController()
		if !ok || !world.ActiveController(c) {
			return true
		}
		pe, ok := world.RefOf(c.Pawn).Revalidate(w)
		if !ok {
			return true
		}
		p, ok := world.UsablePawn(pe)
		if !ok || !world.AlivePawn(p) {
			return true
		}
		dir := geom.Unit(geom.Sub(p.EyeOrigin, view.Position))
		dot := geom.Dot(fwd, dir)
		if dot <= 0 {
			return true
		}
		if ang := math.Acos(geom.Clamp(dot, -1, 1)); ang < bestAng {
			best, bestAng = pe.Index, ang
		}
		return true
	})
	return best, best >= 0
}

// Resolve turns a chosen pawn index into a Target holding both the pawn
// reference and the owning controller index.
func Resolve(w world.World, pawnIndex int) (world.Target, bool) {
	pe, ok := world.At(w, pawnIndex)
	if !ok {
		return world.Target{}, false
	}
	if _, ok := world.UsablePawn(pe); !ok {
		return world.Target{}, false
	}
	ctrl, ok := world.PawnController(w, pawnIndex)
	if !ok {
		return world.Target{}, false
	}
	return world.Target{Pawn: world.RefOf(pe.Handle), Controller: ctrl}, true
}

// Acquire runs policy from view and cross-resolves the result. fov is only
// used by PolicyCone.
func Acquire(w world.World, policy Policy, view geom.Pose, fov float64) (world.Target, bool) {
	var (
		idx int
		ok  bool
	)
	switch policy {
	case PolicyCone:
		idx, ok = Cone(w, view, fov)
	case PolicyRay:
		idx, ok = Ray(w, view)
	default:
		idx, ok = Nearest(w, view.Position)
	}
	if !ok {
		return world.Target{}, false
	}
	return Resolve(w, idx)
}
