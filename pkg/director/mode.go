package director

import (
	"github.com/teslashibe/go-chasecam/pkg/geom"
)

// WatchdogTimeout is how long a run keeps retrying an unavailable target,
// in host seconds.
const WatchdogTimeout = 3.0

// StopReason says why a run left the slot early.
type StopReason int

const (
	StopRequested StopReason = iota // operator stop command
	StopReplaced                    // another run took the slot
	StopDesync                      // host camera control switched off
)

func (r StopReason) String() string {
	switch r {
	case StopReplaced:
		return "replaced"
	case StopDesync:
		return "desync"
	}
	return "requested"
}

// Mode is one camera behaviour. Tick is called once per frame while the
// mode holds the slot and returns false once the run is over; the Output
// of that last frame is still applied.
type Mode interface {
	Name() string
	Start(h Host)
	Tick(f Frame) (Output, bool)
	Stop(reason StopReason)
	Status() Status
}

// Status is a snapshot for the status API.
type Status struct {
	Active bool       `json:"active"`
	Mode   string     `json:"mode,omitempty"`
	Phase  string     `json:"phase,omitempty"`
	RunID  string     `json:"run_id,omitempty"`
	Target string     `json:"target,omitempty"`
	Pose   *geom.Pose `json:"pose,omitempty"`
	Frames uint64     `json:"frames"`
}

// controlBound is implemented by modes that cannot run while the host's
// camera input override is off.
type controlBound interface {
	needsControl()
}

func needsControl(m Mode) bool {
	_, ok := m.(controlBound)
	return ok
}

// watchdog measures how long a target has been continuously unavailable.
type watchdog struct {
	since float64
	armed bool
}

// miss records an unavailable frame and reports whether the timeout passed.
func (w *watchdog) miss(now float64) bool {
	if !w.armed {
		w.armed = true
		w.since = now
	}
	return now-w.since > WatchdogTimeout
}

func (w *watchdog) reset() {
	w.armed = false
}
