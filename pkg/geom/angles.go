package geom

import "math"

// Angles is a camera orientation in degrees.
type Angles struct {
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
	Roll  float64 `json:"roll"`
}

// Normalized returns a with every component in (-180, 180].
func (a Angles) Normalized() Angles {
	return Angles{
		Pitch: NormalizeAngle(a.Pitch),
		Yaw:   NormalizeAngle(a.Yaw),
		Roll:  NormalizeAngle(a.Roll),
	}
}

// Pose is a full camera transform.
type Pose struct {
	Position Vec    `json:"position"`
	Angles   Angles `json:"angles"`
}

// Degrees converts radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// Radians converts degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// NormalizeAngle wraps a into (-180, 180].
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return a
	}
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// AngleDelta is the signed shortest rotation from current to target.
func AngleDelta(target, current float64) float64 {
	return NormalizeAngle(target - current)
}

// LerpAngle interpolates from a to b along the shortest arc.
func LerpAngle(a, b, t float64) float64 {
	return NormalizeAngle(a + AngleDelta(b, a)*t)
}

// Forward returns the unit view direction for pitch/yaw in degrees.
func Forward(pitch, yaw float64) Vec {
	p, y := Radians(pitch), Radians(yaw)
	cp := math.Cos(p)
	return Vec{X: cp * math.Cos(y), Y: cp * math.Sin(y), Z: -math.Sin(p)}
}

// DirToAngles is the inverse of Forward. Roll is zero.
func DirToAngles(dir Vec) Angles {
	d := Unit(dir)
	return Angles{
		Pitch: -Degrees(math.Asin(Clamp(d.Z, -1, 1))),
		Yaw:   Degrees(math.Atan2(d.Y, d.X)),
	}
}

// LookAt returns the pitch/yaw that points from eye at target.
func LookAt(eye, target Vec) Angles {
	dx, dy, dz := target.X-eye.X, target.Y-eye.Y, target.Z-eye.Z
	return Angles{
		Pitch: Degrees(math.Atan2(-dz, math.Hypot(dx, dy))),
		Yaw:   Degrees(math.Atan2(dy, dx)),
	}
}

// SnapCardinal rounds yaw to the nearest multiple of 90 degrees.
func SnapCardinal(yaw float64) float64 {
	return NormalizeAngle(math.Round(NormalizeAngle(yaw)/90) * 90)
}
