// Package geom provides the vector, angle and smoothing math shared by
// every camera mode.
//
// Positions are world units, angles are degrees in the host's convention:
// pitch positive looks down, yaw rotates counter-clockwise about +Z.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec is a point or direction in world space.
type Vec = r3.Vec

// Normalization thresholds. Transit uses the tighter one.
const (
	NormEpsilon      = 1e-6
	NormEpsilonTight = 1e-8
)

// V builds a Vec.
func V(x, y, z float64) Vec {
	return Vec{X: x, Y: y, Z: z}
}

// Add returns a + b.
func Add(a, b Vec) Vec { return r3.Add(a, b) }

// Sub returns a - b.
func Sub(a, b Vec) Vec { return r3.Sub(a, b) }

// Scale returns v * f.
func Scale(v Vec, f float64) Vec { return r3.Scale(f, v) }

// Dot returns the dot product of a and b.
func Dot(a, b Vec) float64 { return r3.Dot(a, b) }

// Length returns |v|.
func Length(v Vec) float64 { return r3.Norm(v) }

// Dist returns |a - b|.
func Dist(a, b Vec) float64 { return r3.Norm(r3.Sub(a, b)) }

// DistSq returns |a - b|².
func DistSq(a, b Vec) float64 { return r3.Norm2(r3.Sub(a, b)) }

// HorizontalDist returns the distance between a and b ignoring Z.
func HorizontalDist(a, b Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Normalize returns v scaled to unit length, or the zero vector when
// |v| <= eps.
func Normalize(v Vec, eps float64) Vec {
	l := r3.Norm(v)
	if l <= eps {
		return Vec{}
	}
	return r3.Scale(1/l, v)
}

// Unit is Normalize with NormEpsilon.
func Unit(v Vec) Vec {
	return Normalize(v, NormEpsilon)
}

// Finite reports whether every component of v is a finite number.
func Finite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
