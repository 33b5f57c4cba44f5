package geom

import "math"

// Frame time limits applied to every host-supplied delta.
const (
	MinDelta = 1.0 / 128
	MaxDelta = 0.25
)

// ClampDelta bounds a host frame time to [MinDelta, MaxDelta].
func ClampDelta(dt float64) float64 {
	if math.IsNaN(dt) {
		return MinDelta
	}
	return Clamp(dt, MinDelta, MaxDelta)
}

const minTimeConstant = 1e-4

// SmoothDamp moves current toward target with a critically damped spring
// and returns the new value and velocity.
//
// maxSpeed <= 0 disables the rate clamp. The result never passes target;
// when it would, it lands on target and velocity becomes (value-target)/dt.
func SmoothDamp(current, target, velocity, timeConstant, maxSpeed, dt float64) (float64, float64) {
	timeConstant = math.Max(minTimeConstant, timeConstant)
	omega := 2 / timeConstant
	x := omega * dt
	exp := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	originalTo := target

	if maxChange := maxSpeed * timeConstant; maxChange > 0 {
		change = Clamp(change, -maxChange, maxChange)
	}
	target = current - change

	temp := (velocity + omega*change) * dt
	newVel := (velocity - omega*temp) * exp
	output := target + (change+temp)*exp

	if (originalTo-current > 0) == (output > originalTo) {
		output = originalTo
		if dt > 0 {
			newVel = (output - originalTo) / dt
		} else {
			newVel = 0
		}
	}
	return output, newVel
}

// SmoothDampAngle is SmoothDamp over the shortest arc, result in (-180, 180].
func SmoothDampAngle(current, target, velocity, timeConstant, maxSpeed, dt float64) (float64, float64) {
	delta := AngleDelta(target, current)
	v, vel := SmoothDamp(current, current+delta, velocity, timeConstant, maxSpeed, dt)
	return NormalizeAngle(v), vel
}

// SmoothDampAngles runs SmoothDampAngle on each axis of a, updating vel.
func SmoothDampAngles(a, target Angles, vel *Angles, timeConstant, maxSpeed, dt float64) Angles {
	var out Angles
	out.Pitch, vel.Pitch = SmoothDampAngle(a.Pitch, target.Pitch, vel.Pitch, timeConstant, maxSpeed, dt)
	out.Yaw, vel.Yaw = SmoothDampAngle(a.Yaw, target.Yaw, vel.Yaw, timeConstant, maxSpeed, dt)
	out.Roll, vel.Roll = SmoothDampAngle(a.Roll, target.Roll, vel.Roll, timeConstant, maxSpeed, dt)
	return out
}

// Damped is one smoothed scalar axis.
type Damped struct {
	Value    float64
	Velocity float64
}

// Step advances d toward target and returns the new value.
func (d *Damped) Step(target, timeConstant, maxSpeed, dt float64) float64 {
	d.Value, d.Velocity = SmoothDamp(d.Value, target, d.Velocity, timeConstant, maxSpeed, dt)
	return d.Value
}

// HalfLifeFactor is the fraction of remaining error removed in dt when the
// error halves every halfLife seconds.
func HalfLifeFactor(halfLife, dt float64) float64 {
	halfLife = math.Max(minTimeConstant, halfLife)
	return 1 - math.Pow(0.5, dt/halfLife)
}

// ExpFactor is the blend weight of an exponential approach with time
// constant tc over dt.
func ExpFactor(tc, dt float64) float64 {
	return 1 - math.Exp(-dt/tc)
}
