// Package hub fans camera status events out to dashboard websocket clients
// using a channel-based broadcast loop.
package hub

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind names what an Event carries.
type EventKind string

const (
	EventStatus  EventKind = "status"  // director.Status snapshot
	EventRunEnd  EventKind = "run_end" // final status of a finished run
	EventConsole EventKind = "console" // operator console line
	EventSession EventKind = "session" // host connected or disconnected
)

// Event is the JSON frame sent to clients.
type Event struct {
	Kind EventKind `json:"kind"`
	Time int64     `json:"ts"` // Unix milliseconds
	Data any       `json:"data,omitempty"`
}

// Message is an encoded event ready to be written.
type Message struct {
	Kind EventKind
	Data []byte
}

// Encode builds a Message for kind and data.
func Encode(kind EventKind, data any) (Message, error) {
	b, err := json.Marshal(Event{Kind: kind, Time: time.Now().UnixMilli(), Data: data})
	if err != nil {
		return Message{}, fmt.Errorf("hub: encode %s: %w", kind, err)
	}
	return Message{Kind: kind, Data: b}, nil
}
