package director

import (
	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// Frame is everything the host hands over for one rendered frame.
type Frame struct {
	Current geom.Pose // camera pose the host is about to render
	Last    geom.Pose // camera pose of the previous frame
	Delta   float64   // frame time in seconds, unclamped
	Time    float64   // host clock in seconds

	World world.World
	Path  PathSampler // nil when no camera path is loaded

	// ControlEnabled reports whether the host's camera input override is on.
	ControlEnabled bool
}

// dt is the clamped integration step.
func (f Frame) dt() float64 {
	return geom.ClampDelta(f.Delta)
}

// seedDelta is the step used to turn the previous-frame delta into a
// velocity.
func (f Frame) seedDelta() float64 {
	if f.Delta > 1e-6 {
		return f.Delta
	}
	return 1.0 / 64
}

// OutputKind says what the host should do with an Output.
type OutputKind int

const (
	OutputNone   OutputKind = iota // leave the view alone
	OutputPose                     // override position and angles
	OutputAngles                   // override pitch and yaw only
)

func (k OutputKind) String() string {
	switch k {
	case OutputPose:
		return "pose"
	case OutputAngles:
		return "angles"
	}
	return "none"
}

// Output is a frame's result.
type Output struct {
	Kind OutputKind
	Pose geom.Pose
}

// NoChange leaves the host view untouched.
var NoChange = Output{}

func poseOutput(pos geom.Vec, ang geom.Angles) Output {
	return Output{Kind: OutputPose, Pose: geom.Pose{Position: pos, Angles: ang}}
}

func anglesOutput(pitch, yaw float64) Output {
	return Output{Kind: OutputAngles, Pose: geom.Pose{Angles: geom.Angles{Pitch: pitch, Yaw: yaw}}}
}
