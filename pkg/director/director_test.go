package director

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// scriptedMode records its lifecycle and ends after a fixed number of ticks.
type scriptedMode struct {
	name   string
	ticks  int
	limit  int
	calls  []string
	reason StopReason
}

func (m *scriptedMode) Name() string { return m.name }

func (m *scriptedMode) Start(Host) { m.calls = append(m.calls, "start") }

func (m *scriptedMode) Tick(Frame) (Output, bool) {
	m.ticks++
	m.calls = append(m.calls, "tick")
	out := poseOutput(geom.V(float64(m.ticks), 0, 0), geom.Angles{})
	return out, m.limit == 0 || m.ticks < m.limit
}

func (m *scriptedMode) Stop(r StopReason) {
	m.reason = r
	m.calls = append(m.calls, "stop:"+r.String())
}

func (m *scriptedMode) Status() Status {
	return Status{Mode: m.name, Phase: "running"}
}

func frame(t float64, control bool) Frame {
	return Frame{Delta: 1.0 / 64, Time: t, World: world.NewRegistry(), ControlEnabled: control}
}

func TestIdleDirectorLeavesViewAlone(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)
	assert.Equal(t, NoChange, d.Frame(frame(0, true)))
	assert.False(t, d.Active())
	assert.Equal(t, Status{}, d.Status())
	assert.False(t, d.Stop())
}

func TestActivateReplacesPreviousRun(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)

	first := &scriptedMode{name: "a"}
	second := &scriptedMode{name: "b"}

	var ended []Status
	d.OnRunEnd(func(st Status) { ended = append(ended, st) })

	id1 := d.Activate(first)
	d.Frame(frame(0.1, true))
	id2 := d.Activate(second)

	assert.NotEqual(t, uuid.Nil, id1)
	assert.NotEqual(t, id1, id2)
	assert.Empty(t, cmp.Diff([]string{"start", "tick", "stop:replaced"}, first.calls))
	assert.Empty(t, cmp.Diff([]string{"start"}, second.calls))

	require.Len(t, ended, 1)
	assert.Equal(t, "a", ended[0].Mode)
	assert.Equal(t, id1.String(), ended[0].RunID)

	st := d.Status()
	assert.True(t, st.Active)
	assert.Equal(t, "b", st.Mode)
	assert.Equal(t, id2.String(), st.RunID)
}

func TestRunEndsWhenModeFinishes(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)
	m := &scriptedMode{name: "a", limit: 3}
	d.Activate(m)

	var last Output
	for i := 0; i < 5; i++ {
		last = d.Frame(frame(float64(i), true))
		if !d.Active() {
			break
		}
	}
	assert.False(t, d.Active())
	assert.Equal(t, 3, m.ticks)
	assert.Equal(t, OutputPose, last.Kind, "the final frame's output is still applied")
	assert.InDelta(t, 3.0, last.Pose.Position.X, 1e-9)
	assert.NotContains(t, m.calls, "stop:requested")
}

func TestStopMode(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)
	m := &scriptedMode{name: "a"}
	d.Activate(m)

	assert.False(t, d.StopMode("b"))
	assert.True(t, d.Active())
	assert.True(t, d.StopMode("a"))
	assert.False(t, d.Active())
	assert.Equal(t, StopRequested, m.reason)
}

func TestDesyncStopsRun(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)
	m := &scriptedMode{name: "a"}
	d.Activate(m)

	d.Frame(frame(0, true))
	d.Frame(frame(0.1, true))
	out := d.Frame(frame(0.2, false))

	assert.Equal(t, NoChange, out)
	assert.False(t, d.Active())
	assert.Equal(t, StopDesync, m.reason)
	assert.Equal(t, 2, m.ticks)
}

func TestDesyncNeedsControlFirst(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)
	m := &scriptedMode{name: "a"}
	d.Activate(m)

	// A host that never enabled control has nothing to lose.
	for i := 0; i < 4; i++ {
		d.Frame(frame(float64(i), false))
	}
	assert.True(t, d.Active())
	assert.Equal(t, 4, m.ticks)
}

func TestStatusCountsFrames(t *testing.T) {
	h, _, _ := newHost()
	d := New(h)
	d.Activate(&scriptedMode{name: "a"})
	for i := 0; i < 7; i++ {
		d.Frame(frame(float64(i), true))
	}
	assert.Equal(t, uint64(7), d.Status().Frames)

	var seen string
	d.WithCurrent(func(m Mode) { seen = m.Name() })
	assert.Equal(t, "a", seen)
}

func TestSpectateQuotesNames(t *testing.T) {
	h, c, _ := newHost()
	h.spectate("two words")
	h.spectate("plain")
	assert.Empty(t, cmp.Diff([]string{
		"spec_mode 5", `spec_player "two words"`,
		"spec_mode 5", "spec_player plain",
	}, c.Execs()))
}
