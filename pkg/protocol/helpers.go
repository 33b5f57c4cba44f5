package protocol

import (
	"fmt"

	"github.com/teslashibe/go-chasecam/pkg/campath"
	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// =============================================================================
// Conversions
// =============================================================================

// VecOf converts a geom vector.
func VecOf(v geom.Vec) Vec3 { return Vec3{v.X, v.Y, v.Z} }

// AnglesOf converts geom angles.
func AnglesOf(a geom.Angles) Vec3 { return Vec3{a.Pitch, a.Yaw, a.Roll} }

// Vec returns v as a position.
func (v Vec3) Vec() geom.Vec { return geom.V(v[0], v[1], v[2]) }

// Angles returns v as pitch, yaw, roll.
func (v Vec3) Angles() geom.Angles { return geom.Angles{Pitch: v[0], Yaw: v[1], Roll: v[2]} }

// ViewOf converts a pose.
func ViewOf(p geom.Pose) View {
	return View{Pos: VecOf(p.Position), Ang: AnglesOf(p.Angles)}
}

// Pose returns v as a geom pose.
func (v View) Pose() geom.Pose {
	return geom.Pose{Position: v.Pos.Vec(), Angles: v.Ang.Angles()}
}

// EntityOf converts a world entity for the wire.
func EntityOf(e world.Entity) EntityData {
	d := EntityData{
		Index:  e.Index,
		Handle: uint32(e.Handle),
		Kind:   e.Kind.String(),
		Name:   e.Name,
		Origin: VecOf(e.Origin),
	}
	if p, ok := e.AsPawn(); ok {
		d.Pawn = &PawnData{
			Eye:        VecOf(p.EyeOrigin),
			EyeAngles:  AnglesOf(p.EyeAngles),
			Health:     p.Health,
			Controller: uint32(p.Controller),
		}
	}
	if c, ok := e.AsController(); ok {
		d.Controller = &ControllerData{
			PlayerName:   c.PlayerName,
			Team:         int(c.Team),
			ObserverMode: c.ObserverMode,
			Pawn:         uint32(c.Pawn),
		}
	}
	return d
}

// Entity converts d into a world entity. The slot index is taken from the
// handle.
func (d EntityData) Entity() (world.Entity, error) {
	h := world.Handle(d.Handle)
	if !h.Valid() {
		return world.Entity{}, fmt.Errorf("%w: entity %d: invalid handle %#x", ErrMalformed, d.Index, d.Handle)
	}
	if h.Index() != d.Index {
		return world.Entity{}, fmt.Errorf("%w: entity %d: handle points at slot %d", ErrMalformed, d.Index, h.Index())
	}

	switch world.ParseKind(d.Kind) {
	case world.KindPawn:
		if d.Pawn == nil {
			return world.Entity{}, fmt.Errorf("%w: entity %d: pawn without pawn data", ErrMalformed, d.Index)
		}
		return world.NewPawn(h, d.Name, d.Origin.Vec(), world.PawnInfo{
			EyeOrigin:  d.Pawn.Eye.Vec(),
			EyeAngles:  d.Pawn.EyeAngles.Angles(),
			Health:     d.Pawn.Health,
			Controller: world.Handle(d.Pawn.Controller),
		}), nil
	case world.KindController:
		if d.Controller == nil {
			return world.Entity{}, fmt.Errorf("%w: entity %d: controller without controller data", ErrMalformed, d.Index)
		}
		return world.NewController(h, d.Name, world.ControllerInfo{
			PlayerName:   d.Controller.PlayerName,
			Team:         world.Team(d.Controller.Team),
			ObserverMode: d.Controller.ObserverMode,
			Pawn:         world.Handle(d.Controller.Pawn),
		}), nil
	}
	return world.NewOther(h, d.Name, d.Origin.Vec()), nil
}

// Entities converts a whole entity list, failing on the first bad entry.
func Entities(list []EntityData) ([]world.Entity, error) {
	out := make([]world.Entity, 0, len(list))
	for _, d := range list {
		e, err := d.Entity()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// PathOf converts a camera path for the wire.
func PathOf(p *campath.Path) *PathData {
	d := &PathData{Enabled: p.Enabled(), Hold: p.Hold(), Offset: p.Offset()}
	for _, k := range p.Keys() {
		d.Keys = append(d.Keys, PathKey{T: k.Time, Pos: VecOf(k.Position), Ang: AnglesOf(k.Angles)})
	}
	return d
}

// Path builds a campath from d.
func (d PathData) Path() *campath.Path {
	p := campath.New()
	for _, k := range d.Keys {
		p.Add(campath.Key{Time: k.T, Position: k.Pos.Vec(), Angles: k.Ang.Angles()})
	}
	p.SetEnabled(d.Enabled)
	p.SetHold(d.Hold)
	p.SetOffset(d.Offset)
	return p
}

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewFrameMessage creates a frame message
func NewFrameMessage(f FrameData) (*Message, error) {
	return NewMessage(TypeFrame, f)
}

// NewCommandMessage creates a console command message
func NewCommandMessage(line string) (*Message, error) {
	return NewMessage(TypeCommand, CommandData{Line: line})
}

// NewViewMessage creates a view answer for frame seq
func NewViewMessage(seq uint64, kind string, pose geom.Pose) (*Message, error) {
	return NewMessage(TypeView, ViewData{Seq: seq, Kind: kind, View: ViewOf(pose)})
}

// NewExecMessage creates a host console command message
func NewExecMessage(cmd string) (*Message, error) {
	return NewMessage(TypeExec, ExecData{Command: cmd})
}

// NewInputMessage creates an input update message
func NewInputMessage(in InputData) (*Message, error) {
	return NewMessage(TypeInput, in)
}

// NewConsoleMessage creates an operator console message
func NewConsoleMessage(level, text string) (*Message, error) {
	return NewMessage(TypeConsole, ConsoleData{Level: level, Text: text})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string, ts int64) (*Message, error) {
	return NewMessage(TypePing, PingData{ID: id, Timestamp: ts})
}

// NewPongMessage creates a pong response message
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

func parse[T any](m *Message) (*T, error) {
	var data T
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetFrameData extracts frame data from a message
func (m *Message) GetFrameData() (*FrameData, error) { return parse[FrameData](m) }

// GetCommandData extracts a console command from a message
func (m *Message) GetCommandData() (*CommandData, error) { return parse[CommandData](m) }

// GetViewData extracts a view answer from a message
func (m *Message) GetViewData() (*ViewData, error) { return parse[ViewData](m) }

// GetExecData extracts a host console command from a message
func (m *Message) GetExecData() (*ExecData, error) { return parse[ExecData](m) }

// GetInputData extracts an input update from a message
func (m *Message) GetInputData() (*InputData, error) { return parse[InputData](m) }

// GetConsoleData extracts console text from a message
func (m *Message) GetConsoleData() (*ConsoleData, error) { return parse[ConsoleData](m) }

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) { return parse[PingData](m) }

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) { return parse[PongData](m) }
