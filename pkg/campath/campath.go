// Package campath is a keyframed camera path. The director only samples it
// to seed the pursuit camera's initial velocity from whatever path was
// playing when a run started.
package campath

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-chasecam/pkg/geom"
)

// Key is one keyframe.
type Key struct {
	Time     float64
	Position geom.Vec
	Angles   geom.Angles
}

// Path is a sorted list of keys plus playback settings.
type Path struct {
	mu      sync.RWMutex
	keys    []Key
	enabled bool
	hold    bool
	offset  float64
}

// New returns an enabled path holding keys.
func New(keys ...Key) *Path {
	p := &Path{enabled: true}
	for _, k := range keys {
		p.Add(k)
	}
	return p
}

// Add inserts k, replacing any key at the same time.
func (p *Path) Add(k Key) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := sort.Search(len(p.keys), func(i int) bool { return p.keys[i].Time >= k.Time })
	if i < len(p.keys) && p.keys[i].Time == k.Time {
		p.keys[i] = k
		return
	}
	p.keys = append(p.keys, Key{})
	copy(p.keys[i+1:], p.keys[i:])
	p.keys[i] = k
}

// Clear removes every key.
func (p *Path) Clear() {
	p.mu.Lock()
	p.keys = nil
	p.mu.Unlock()
}

// Len returns the number of keys.
func (p *Path) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys)
}

// SetEnabled starts or stops playback.
func (p *Path) SetEnabled(v bool) {
	p.mu.Lock()
	p.enabled = v
	p.mu.Unlock()
}

// SetHold keeps the end keys in effect outside the key range.
func (p *Path) SetHold(v bool) {
	p.mu.Lock()
	p.hold = v
	p.mu.Unlock()
}

// SetOffset shifts path time relative to host time.
func (p *Path) SetOffset(v float64) {
	p.mu.Lock()
	p.offset = v
	p.mu.Unlock()
}

// Enabled reports whether the path is playing.
func (p *Path) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

// Hold reports whether the end keys stay in effect outside the key range.
func (p *Path) Hold() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hold
}

// Offset returns the path time shift.
func (p *Path) Offset() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.offset
}

// Keys returns a copy of the keys in time order.
func (p *Path) Keys() []Key {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Key(nil), p.keys...)
}

// CanEval reports whether Eval has enough keys to interpolate.
func (p *Path) CanEval() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys) >= 2
}

// Bounds returns the first and last key times.
func (p *Path) Bounds() (lo, hi float64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.keys) == 0 {
		return 0, 0
	}
	return p.keys[0].Time, p.keys[len(p.keys)-1].Time
}

// Eval interpolates the path at path time t. Outside the key range the end
// keys are returned. Positions are linear, angles take the shortest arc.
func (p *Path) Eval(t float64) (geom.Pose, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.evalLocked(t)
}

func (p *Path) evalLocked(t float64) (geom.Pose, bool) {
	n := len(p.keys)
	if n < 2 {
		return geom.Pose{}, false
	}
	if t <= p.keys[0].Time {
		return poseOf(p.keys[0]), true
	}
	if t >= p.keys[n-1].Time {
		return poseOf(p.keys[n-1]), true
	}
	i := sort.Search(n, func(i int) bool { return p.keys[i].Time > t })
	a, b := p.keys[i-1], p.keys[i]
	u := (t - a.Time) / (b.Time - a.Time)
	return geom.Pose{
		Position: geom.Add(a.Position, geom.Scale(geom.Sub(b.Position, a.Position), u)),
		Angles: geom.Angles{
			Pitch: geom.LerpAngle(a.Angles.Pitch, b.Angles.Pitch, u),
			Yaw:   geom.LerpAngle(a.Angles.Yaw, b.Angles.Yaw, u),
			Roll:  geom.LerpAngle(a.Angles.Roll, b.Angles.Roll, u),
		},
	}, true
}

func poseOf(k Key) geom.Pose {
	return geom.Pose{Position: k.Position, Angles: k.Angles}
}

// Sample evaluates the path at host time t the way playback would: shifted
// by the offset and, with hold set, clamped to the key range. It reports
// false when the path is disabled or not playing at t.
func (p *Path) Sample(t float64) (geom.Pose, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.enabled || len(p.keys) < 2 {
		return geom.Pose{}, false
	}
	t -= p.offset
	lo, hi := p.keys[0].Time, p.keys[len(p.keys)-1].Time
	if p.hold {
		t = geom.Clamp(t, lo, hi)
	} else if t < lo || t > hi {
		return geom.Pose{}, false
	}
	return p.evalLocked(t)
}

type fileKey struct {
	T     float64    `yaml:"t"`
	Pos   [3]float64 `yaml:"pos"`
	Angle [3]float64 `yaml:"ang"` // pitch, yaw, roll
}

type fileFormat struct {
	Enabled *bool     `yaml:"enabled"`
	Hold    bool      `yaml:"hold"`
	Offset  float64   `yaml:"offset"`
	Keys    []fileKey `yaml:"keys"`
}

// Parse decodes a YAML path document.
func Parse(data []byte) (*Path, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("campath: parse: %w", err)
	}
	p := New()
	for _, k := range f.Keys {
		p.Add(Key{
			Time:     k.T,
			Position: geom.V(k.Pos[0], k.Pos[1], k.Pos[2]),
			Angles:   geom.Angles{Pitch: k.Angle[0], Yaw: k.Angle[1], Roll: k.Angle[2]},
		})
	}
	if f.Enabled != nil {
		p.enabled = *f.Enabled
	}
	p.hold = f.Hold
	p.offset = f.Offset
	return p, nil
}

// Load reads a YAML path file.
func Load(path string) (*Path, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("campath: load %s: %w", path, err)
	}
	return Parse(data)
}
