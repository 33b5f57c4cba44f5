package bridge

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/teslashibe/go-chasecam/pkg/protocol"
)

// Session is one connected game host.
type Session struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time

	mu       sync.Mutex // serializes writes
	lastSeen time.Time
	frames   uint64
	halfTime float64
	hasHalf  bool
}

// Send writes a message to the host.
func (s *Session) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Session) touch(frame bool) {
	s.mu.Lock()
	s.lastSeen = time.Now()
	if frame {
		s.frames++
	}
	s.mu.Unlock()
}

func (s *Session) setHalfTime(v float64) {
	s.mu.Lock()
	s.halfTime, s.hasHalf = v, true
	s.mu.Unlock()
}

func (s *Session) halfTimeAng() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.halfTime, s.hasHalf
}

// SessionInfo describes a session for the status API.
type SessionInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
	Frames    uint64    `json:"frames"`
}

// Info snapshots the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{ID: s.ID, Connected: s.Connected, LastSeen: s.lastSeen, Frames: s.frames}
}
