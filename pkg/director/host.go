// Package director drives the spectator camera. A Director owns the single
// per-frame callback slot; at most one Mode (pursuit, transit or lock) holds
// it at a time and is stepped once per host frame.
package director

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

// Console is the host's command sink.
type Console interface {
	// Exec runs a console command on the host.
	Exec(cmd string)
	// Message prints an informational line to the operator.
	Message(text string)
	// Warning prints a warning line to the operator.
	Warning(text string)
}

// Input is the host's upstream camera input state. Lock writes its angles
// here so that releasing the lock does not snap the view back.
type Input interface {
	SetAngles(a geom.Angles)
	SetHalfTimeAng(seconds float64)
	// HalfTimeAng is the current angle smoothing half-time, if the host
	// reports it.
	HalfTimeAng() (float64, bool)
}

// PathSampler evaluates the host's camera path at host time t.
type PathSampler interface {
	Sample(t float64) (geom.Pose, bool)
}

// Host bundles the collaborators a mode talks to.
type Host struct {
	Console Console
	Input   Input
}

func (h Host) exec(cmd string) {
	if h.Console != nil {
		h.Console.Exec(cmd)
	}
}

func (h Host) message(format string, args ...any) {
	if h.Console != nil {
		h.Console.Message(fmt.Sprintf(format, args...))
	}
}

func (h Host) warning(format string, args ...any) {
	if h.Console != nil {
		h.Console.Warning(fmt.Sprintf(format, args...))
	}
}

// spectate switches the host's observer target.
func (h Host) spectate(target string) {
	h.exec("spec_mode 5")
	h.exec("spec_player " + quoteArg(target))
}

// release hands the camera back to the host once a run completes.
func (h Host) release() {
	h.exec("mirv_input end")
	h.exec("mirv_campath enabled 0")
}

func quoteArg(s string) string {
	if !strings.ContainsAny(s, " \t") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
