// Package protocol defines the WebSocket messages exchanged between a game
// host plugin and the chasecam server.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Host → Server messages
	TypeFrame   MessageType = "frame"   // Per-frame view, world and path state
	TypeCommand MessageType = "command" // Operator console line

	// Server → Host messages
	TypeView    MessageType = "view"    // Camera override for a frame
	TypeExec    MessageType = "exec"    // Console command to run
	TypeInput   MessageType = "input"   // Upstream camera input update
	TypeConsole MessageType = "console" // Text for the operator console

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// ErrMalformed wraps every decode failure.
var ErrMalformed = errors.New("protocol: malformed message")

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data any) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v any) error {
	if m.Data == nil {
		return nil
	}
	if err := json.Unmarshal(m.Data, v); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformed, m.Type, err)
	}
	return nil
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return &msg, nil
}

// =============================================================================
// Shared Types
// =============================================================================

// Vec3 is an (x, y, z) triple, or (pitch, yaw, roll) for angles.
type Vec3 [3]float64

// View is a camera pose in world units and degrees.
type View struct {
	Pos Vec3 `json:"pos"`
	Ang Vec3 `json:"ang"` // pitch, yaw, roll
}

// =============================================================================
// Host → Server Message Types
// =============================================================================

// FrameData is sent by the host once per rendered frame, before it renders.
type FrameData struct {
	Seq     uint64  `json:"seq"`
	Time    float64 `json:"time"`  // host clock, seconds
	Delta   float64 `json:"delta"` // frame time, seconds
	Current View    `json:"current"`
	Last    View    `json:"last"`

	ControlEnabled bool     `json:"control_enabled"`         // camera input override active
	HalfTimeAng    *float64 `json:"half_time_ang,omitempty"` // upstream angle smoothing

	// Entities replaces the server's entity list when non-nil.
	Entities []EntityData `json:"entities,omitempty"`
	Observed *int         `json:"observed,omitempty"` // spectated controller index

	// Path replaces the server's camera path when non-nil.
	Path *PathData `json:"path,omitempty"`
}

// EntityData is one entity of the host's entity list.
type EntityData struct {
	Index      int             `json:"index"`
	Handle     uint32          `json:"handle"`
	Kind       string          `json:"kind"` // "pawn", "controller", "other"
	Name       string          `json:"name,omitempty"`
	Origin     Vec3            `json:"origin"`
	Pawn       *PawnData       `json:"pawn,omitempty"`
	Controller *ControllerData `json:"controller,omitempty"`
}

// PawnData carries the pawn half of an entity.
type PawnData struct {
	Eye        Vec3   `json:"eye"`
	EyeAngles  Vec3   `json:"eye_angles"`
	Health     int    `json:"health"`
	Controller uint32 `json:"controller,omitempty"` // handle
}

// ControllerData carries the controller half of an entity.
type ControllerData struct {
	PlayerName   string `json:"player_name,omitempty"`
	Team         int    `json:"team"`
	ObserverMode int    `json:"observer_mode"`
	Pawn         uint32 `json:"pawn,omitempty"` // handle
}

// PathData is the host's camera path.
type PathData struct {
	Enabled bool      `json:"enabled"`
	Hold    bool      `json:"hold,omitempty"`
	Offset  float64   `json:"offset,omitempty"`
	Keys    []PathKey `json:"keys"`
}

// PathKey is one keyframe.
type PathKey struct {
	T   float64 `json:"t"`
	Pos Vec3    `json:"pos"`
	Ang Vec3    `json:"ang"`
}

// CommandData is an operator console line.
type CommandData struct {
	Line string `json:"line"`
}

// =============================================================================
// Server → Host Message Types
// =============================================================================

// ViewData answers a frame.
type ViewData struct {
	Seq  uint64 `json:"seq"`
	Kind string `json:"kind"` // "none", "pose", "angles"
	View View   `json:"view"`
}

// ExecData is a console command for the host to run.
type ExecData struct {
	Command string `json:"command"`
}

// InputData updates the host's camera input state. Nil fields are left
// unchanged.
type InputData struct {
	Angles      *Vec3    `json:"angles,omitempty"`
	HalfTimeAng *float64 `json:"half_time_ang,omitempty"`
}

// ConsoleData is operator-facing text.
type ConsoleData struct {
	Level string `json:"level"` // "info", "warning"
	Text  string `json:"text"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
