package command

import (
	"strings"

	"github.com/teslashibe/go-chasecam/pkg/director"
)

const (
	birdGotoUsage   = " goto <controllerIndex> <height> [speed=500] [hold=1.0] [velSmooth=0.5] [angSmooth=0.25] [margin=5]"
	birdPlayerUsage = " player <controllerIndex> <height> [speed=500] [velSmooth=0.5] [angSmooth=0.25] [margin=5]"
)

func birdUsage(cmd string) string {
	return strings.Join([]string{
		cmd + birdGotoUsage,
		cmd + birdPlayerUsage,
		cmd + " return",
		cmd + " stop",
	}, "\n")
}

// birdTarget parses "<controllerIndex> <height>".
func birdTarget(args []string) (int, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	idx, ok := parseIndex(args[0])
	if !ok {
		return 0, 0, false
	}
	h, ok := parseNumber(args[1])
	if !ok || h <= 0 {
		return 0, 0, false
	}
	return idx, h, true
}

func (d *Dispatcher) bird(cmd string, args []string) error {
	if len(args) == 0 {
		return d.usage(birdUsage(cmd))
	}
	cfg := d.presets.Presets().Transit

	switch strings.ToLower(args[0]) {
	case "goto":
		to, height, ok := birdTarget(args[1:])
		if !ok {
			return d.usage(cmd + birdGotoUsage)
		}
		from, ok := 0, false
		if w := d.currentWorld(); w != nil {
			from, ok = w.ObservedController()
		}
		if !ok {
			d.warning("bird: could not detect current observed player (ensure you are in a player POV).")
			return ErrNoObserver
		}
		cfg.Height = height
		optional(args[3:], &cfg.Speed, &cfg.Hold, &cfg.VelSmooth, &cfg.AngSmooth, &cfg.Margin)
		d.dir.Activate(director.NewTransit(from, d.controllerName(from), to, d.controllerName(to), cfg))
		return nil

	case "player":
		idx, height, ok := birdTarget(args[1:])
		if !ok {
			return d.usage(cmd + birdPlayerUsage)
		}
		cfg.Height = height
		optional(args[3:], &cfg.Speed, &cfg.VelSmooth, &cfg.AngSmooth, &cfg.Margin)
		d.dir.Activate(director.NewOverhead(idx, d.controllerName(idx), cfg))
		return nil

	case "return":
		returned := false
		d.dir.WithCurrent(func(m director.Mode) {
			if t, ok := m.(*director.Transit); ok {
				returned = t.Return()
			}
		})
		if !returned {
			d.message("bird: nothing to return from")
		}
		return nil

	case "stop":
		if !d.dir.StopMode(director.ModeTransit) {
			d.message("bird: not running")
		}
		return nil
	}
	return d.usage(birdUsage(cmd))
}
