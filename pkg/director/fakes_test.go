package director

import (
	"strings"
	"sync"

	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

type fakeConsole struct {
	mu       sync.Mutex
	execs    []string
	messages []string
	warnings []string
}

func (c *fakeConsole) Exec(cmd string) {
	c.mu.Lock()
	c.execs = append(c.execs, cmd)
	c.mu.Unlock()
}

func (c *fakeConsole) Message(text string) {
	c.mu.Lock()
	c.messages = append(c.messages, text)
	c.mu.Unlock()
}

func (c *fakeConsole) Warning(text string) {
	c.mu.Lock()
	c.warnings = append(c.warnings, text)
	c.mu.Unlock()
}

func (c *fakeConsole) Execs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.execs...)
}

func (c *fakeConsole) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.messages...)
}

func (c *fakeConsole) Warnings() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.warnings...)
}

func (c *fakeConsole) said(prefix string) bool {
	for _, m := range append(c.Messages(), c.Warnings()...) {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

type fakeInput struct {
	mu        sync.Mutex
	angles    []geom.Angles
	halfTimes []float64
	half      float64
	hasHalf   bool
}

func (in *fakeInput) SetAngles(a geom.Angles) {
	in.mu.Lock()
	in.angles = append(in.angles, a)
	in.mu.Unlock()
}

func (in *fakeInput) SetHalfTimeAng(s float64) {
	in.mu.Lock()
	in.halfTimes = append(in.halfTimes, s)
	in.half, in.hasHalf = s, true
	in.mu.Unlock()
}

func (in *fakeInput) HalfTimeAng() (float64, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.half, in.hasHalf
}

func (in *fakeInput) lastAngles() (geom.Angles, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.angles) == 0 {
		return geom.Angles{}, false
	}
	return in.angles[len(in.angles)-1], true
}

func newHost() (Host, *fakeConsole, *fakeInput) {
	c := &fakeConsole{}
	in := &fakeInput{half: 0.25, hasHalf: true}
	return Host{Console: c, Input: in}, c, in
}

// sim plays host frames against a Director, feeding every output back as
// the next frame's view.
type sim struct {
	d     *Director
	w     world.World
	path  PathSampler
	dt    float64
	frame int
	cur   geom.Pose
	last  geom.Pose
}

func newSim(d *Director, w world.World, start geom.Pose) *sim {
	return &sim{d: d, w: w, dt: 1.0 / 64, cur: start, last: start}
}

func (s *sim) now() float64 { return float64(s.frame) * s.dt }

func (s *sim) step() Output {
	s.frame++
	out := s.d.Frame(Frame{
		Current:        s.cur,
		Last:           s.last,
		Delta:          s.dt,
		Time:           s.now(),
		World:          s.w,
		Path:           s.path,
		ControlEnabled: true,
	})
	rendered := s.cur
	switch out.Kind {
	case OutputPose:
		rendered = out.Pose
	case OutputAngles:
		rendered.Angles.Pitch = out.Pose.Angles.Pitch
		rendered.Angles.Yaw = out.Pose.Angles.Yaw
	}
	s.last = rendered
	s.cur = rendered
	return out
}

// run steps until the Director goes idle or max frames pass. It reports
// whether the run ended.
func (s *sim) run(max int, each func(Output)) bool {
	for i := 0; i < max; i++ {
		out := s.step()
		if each != nil {
			each(out)
		}
		if !s.d.Active() {
			return true
		}
	}
	return false
}

func playerAt(r *world.Registry, name string, eye geom.Vec) (world.Handle, world.Handle) {
	return r.SpawnPlayer(world.Player{Name: name, Team: world.TeamT, Eye: eye, Health: 100})
}
