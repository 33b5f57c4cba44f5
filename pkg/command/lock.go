package command

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-chasecam/pkg/director"
)

func lockUsage(cmd string) string {
	return strings.Join([]string{
		cmd + " toggle - Lock onto the player nearest the screen center, or release.",
		cmd + " stop - Release the lock.",
		cmd + " halftime <seconds> - Tracking half-time.",
		cmd + " blend <seconds> - Engage blend-in half-time.",
		cmd + " nodead 0|1 - Release when the target dies.",
		cmd + " halftimeang <seconds> - Upstream angle half-time to restore on release.",
	}, "\n")
}

func (d *Dispatcher) lock(cmd string, args []string) error {
	if len(args) == 0 {
		return d.usage(lockUsage(cmd))
	}
	cur := d.presets.Presets().Lock

	switch sub := strings.ToLower(args[0]); sub {
	case "toggle":
		if d.dir.StopMode(director.ModeLock) {
			return nil
		}
		d.dir.Activate(director.NewLock(cur))
		return nil

	case "stop":
		d.dir.StopMode(director.ModeLock)
		return nil

	case "halftime", "blend", "halftimeang":
		if len(args) < 2 {
			return d.usage(fmt.Sprintf("%s %s <seconds>\nCurrent value: %s", cmd, sub, lockValue(cur, sub)))
		}
		v, ok := parseNumber(args[1])
		if !ok || v < 0 {
			return d.usage(fmt.Sprintf("%s %s <seconds>", cmd, sub))
		}
		var t director.Tuning
		switch sub {
		case "halftime":
			t.LockHalfTime = &v
		case "blend":
			t.LockBlend = &v
		default:
			t.LockRestore = &v
		}
		return d.applyLock(t, sub)

	case "nodead":
		if len(args) < 2 || (args[1] != "0" && args[1] != "1") {
			return d.usage(fmt.Sprintf("%s nodead 0|1\nCurrent value: %s", cmd, lockValue(cur, "nodead")))
		}
		on := args[1] == "1"
		return d.applyLock(director.Tuning{LockNoDead: &on}, "nodead")
	}
	return d.usage(lockUsage(cmd))
}

// applyLock stores t and pushes the result into a running lock.
func (d *Dispatcher) applyLock(t director.Tuning, key string) error {
	p, err := d.presets.Update(t)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	d.dir.WithCurrent(func(m director.Mode) {
		if l, ok := m.(*director.Lock); ok {
			l.Reconfigure(p.Lock)
		}
	})
	d.message("lock: %s = %s", key, lockValue(p.Lock, key))
	return nil
}

func lockValue(c director.LockConfig, key string) string {
	switch key {
	case "halftime":
		return fmt.Sprintf("%.3fs", c.HalfTime)
	case "blend":
		return fmt.Sprintf("%.3fs", c.Blend)
	case "halftimeang":
		if c.RestoreHalf < 0 {
			return "unset"
		}
		return fmt.Sprintf("%.3fs", c.RestoreHalf)
	case "nodead":
		if c.DisableOnDead {
			return "1"
		}
		return "0"
	}
	return ""
}
