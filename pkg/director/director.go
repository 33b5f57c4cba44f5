package director

import (
	"sync"

	"github.com/google/uuid"

	"github.com/teslashibe/go-chasecam/internal/log"
)

type controlState int

const (
	controlUnknown controlState = iota
	controlOn
	controlOff
)

// Director owns the frame callback slot. Frames and commands may arrive on
// different goroutines; every entry point takes the same lock so that a
// frame never observes a half-activated run.
type Director struct {
	mu   sync.Mutex
	host Host

	mode    Mode
	runID   uuid.UUID
	frames  uint64
	control controlState

	onEnd func(Status)
}

// New creates an idle Director talking to host.
func New(host Host) *Director {
	return &Director{host: host}
}

// OnRunEnd registers a callback fired after a run leaves the slot for any
// reason. It runs with the Director locked and must not call back into it.
func (d *Director) OnRunEnd(fn func(Status)) {
	d.mu.Lock()
	d.onEnd = fn
	d.mu.Unlock()
}

// Activate stops the current run, if any, and gives the slot to m.
func (d *Director) Activate(m Mode) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked(StopReplaced)

	d.mode = m
	d.runID = uuid.New()
	d.frames = 0
	d.control = controlUnknown
	m.Start(d.host)

	log.Info("camera run started", "mode", m.Name(), "run", d.runID.String())
	return d.runID
}

// Stop ends the current run. It reports whether one was active.
func (d *Director) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked(StopRequested)
}

// StopMode ends the current run only if it is of the named mode.
func (d *Director) StopMode(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mode == nil || d.mode.Name() != name {
		return false
	}
	return d.stopLocked(StopRequested)
}

func (d *Director) stopLocked(reason StopReason) bool {
	if d.mode == nil {
		return false
	}
	d.mode.Stop(reason)
	log.Info("camera run stopped", "mode", d.mode.Name(), "run", d.runID.String(), "reason", reason.String())
	d.releaseLocked()
	return true
}

func (d *Director) releaseLocked() {
	st := d.statusLocked()
	d.mode = nil
	d.runID = uuid.Nil
	if d.onEnd != nil {
		d.onEnd(st)
	}
}

// WithCurrent calls fn with the mode holding the slot, or nil, while the
// Director is locked.
func (d *Director) WithCurrent(fn func(m Mode)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.mode)
}

// Frame steps the active run and returns what the host should render.
func (d *Director) Frame(f Frame) Output {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.mode == nil {
		return NoChange
	}

	// Losing camera control mid-run means someone else owns the view now.
	// Modes that write the host's camera input need it from the start.
	if f.ControlEnabled {
		d.control = controlOn
	} else if d.control == controlOn || needsControl(d.mode) {
		d.control = controlOff
		d.stopLocked(StopDesync)
		return NoChange
	}

	d.frames++
	out, active := d.mode.Tick(f)
	if !active {
		log.Info("camera run finished", "mode", d.mode.Name(), "run", d.runID.String(), "frames", d.frames)
		d.releaseLocked()
	}
	return out
}

// Active reports whether a run holds the slot.
func (d *Director) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode != nil
}

// Status describes the current run.
func (d *Director) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.statusLocked()
}

func (d *Director) statusLocked() Status {
	if d.mode == nil {
		return Status{}
	}
	st := d.mode.Status()
	st.Active = true
	st.RunID = d.runID.String()
	st.Frames = d.frames
	return st
}
