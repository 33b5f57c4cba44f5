// Package command implements the operator console surface: the toeyes,
// bird and lock commands that start, steer and stop camera runs.
package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teslashibe/go-chasecam/internal/log"
	"github.com/teslashibe/go-chasecam/pkg/director"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

var (
	// ErrUnknownCommand is returned for a command name no handler claims.
	ErrUnknownCommand = errors.New("command: unknown command")
	// ErrUsage is returned when arguments are missing or invalid. The usage
	// text has already been printed to the console.
	ErrUsage = errors.New("command: usage")
	// ErrNoObserver is returned when a command needs the spectated player
	// and the host is not in a player's view.
	ErrNoObserver = errors.New("command: no observed player")
)

// PresetStore holds the presets new runs start from.
type PresetStore interface {
	Presets() director.Presets
	Update(t director.Tuning) (director.Presets, error)
}

// WorldFunc returns the latest world snapshot, or nil before the host has
// sent one.
type WorldFunc func() world.World

// Dispatcher routes console lines to the director.
type Dispatcher struct {
	dir     *director.Director
	console director.Console
	world   WorldFunc
	presets PresetStore
}

// New creates a Dispatcher.
func New(dir *director.Director, console director.Console, w WorldFunc, presets PresetStore) *Dispatcher {
	return &Dispatcher{dir: dir, console: console, world: w, presets: presets}
}

// Names lists the top-level commands.
func Names() []string {
	return []string{"toeyes", "bird", "lock"}
}

// Execute tokenizes and runs one console line.
func (d *Dispatcher) Execute(line string) error {
	args, err := Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	return d.Run(args)
}

// Run executes a tokenized command. args[0] is the command name.
func (d *Dispatcher) Run(args []string) error {
	if len(args) == 0 {
		return ErrUnknownCommand
	}
	name := strings.ToLower(args[0])
	log.Debug("command", "name", name, "args", args[1:])

	switch name {
	case "toeyes":
		return d.toeyes(name, args[1:])
	case "bird":
		return d.bird(name, args[1:])
	case "lock":
		return d.lock(name, args[1:])
	}
	return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
}

func (d *Dispatcher) message(format string, args ...any) {
	if d.console != nil {
		d.console.Message(fmt.Sprintf(format, args...))
	}
}

func (d *Dispatcher) warning(format string, args ...any) {
	if d.console != nil {
		d.console.Warning(fmt.Sprintf(format, args...))
	}
}

// usage prints text and returns ErrUsage.
func (d *Dispatcher) usage(text string) error {
	d.message("%s", text)
	return ErrUsage
}

func (d *Dispatcher) currentWorld() world.World {
	if d.world == nil {
		return nil
	}
	return d.world()
}

// controllerName is the player name at idx, or "" when unknown.
func (d *Dispatcher) controllerName(idx int) string {
	w := d.currentWorld()
	if w == nil {
		return ""
	}
	e, ok := w.EntityAt(idx)
	if !ok {
		return ""
	}
	if _, ok := e.AsController(); !ok {
		return ""
	}
	return e.DisplayName()
}

// parseIndex parses a non-negative entity index.
func parseIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// parseNumber parses a finite float.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// optional overwrites dst[i] with args[i] where present and parseable.
// Fields the caller does not supply keep their preset value; the caller
// clamps afterwards.
func optional(args []string, dst ...*float64) {
	for i, p := range dst {
		if i >= len(args) {
			return
		}
		if v, ok := parseNumber(args[i]); ok {
			*p = v
		}
	}
}

// Split breaks a console line into arguments. Double quotes group words and
// a backslash escapes the next character inside quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && (r == ' ' || r == '\t'):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("command: unterminated quote in %q", line)
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
