package command

import (
	"strings"

	"github.com/teslashibe/go-chasecam/pkg/director"
)

func toeyesUsage(cmd string) string {
	return strings.Join([]string{
		cmd + " start_index <controllerIndex> [speed=300] [velSmooth=0.55] [angSmooth=0.16] [margin=5]",
		cmd + " start_closest [speed=300] [velSmooth=0.55] [angSmooth=0.16] [margin=5]",
		cmd + " start_fov [fov=60] [speed=300] [velSmooth=0.55] [angSmooth=0.16] [margin=5]",
		cmd + " stop",
	}, "\n")
}

func (d *Dispatcher) toeyes(cmd string, args []string) error {
	if len(args) == 0 {
		return d.usage(toeyesUsage(cmd))
	}
	cfg := d.presets.Presets().Pursuit
	tuning := func(rest []string) director.PursuitConfig {
		optional(rest, &cfg.Speed, &cfg.VelSmooth, &cfg.AngSmooth, &cfg.Margin)
		return cfg
	}

	switch strings.ToLower(args[0]) {
	case "start_index":
		if len(args) < 2 {
			return d.usage(cmd + " start_index <controllerIndex> [speed=300] [velSmooth=0.55] [angSmooth=0.16] [margin=5]")
		}
		idx, ok := parseIndex(args[1])
		if !ok {
			return d.usage(cmd + " start_index <controllerIndex> [speed=300] [velSmooth=0.55] [angSmooth=0.16] [margin=5]")
		}
		d.dir.Activate(director.ChaseController(idx, d.controllerName(idx), tuning(args[2:])))
		return nil

	case "start_closest":
		d.dir.Activate(director.ChaseNearest(tuning(args[1:])))
		return nil

	case "start_fov":
		rest := args[1:]
		if len(rest) > 0 {
			optional(rest[:1], &cfg.FOV)
			rest = rest[1:]
		}
		d.dir.Activate(director.ChaseInView(tuning(rest)))
		return nil

	case "stop":
		if !d.dir.StopMode(director.ModePursuit) {
			d.message("toeyes: not running")
		}
		return nil
	}
	return d.usage(toeyesUsage(cmd))
}
