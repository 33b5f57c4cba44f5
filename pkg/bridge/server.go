// Package bridge serves the chasecam control API and the websocket the
// game host connects to. Each host frame is fed to the director and
// answered with a view message.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	contribws "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-chasecam/internal/log"
	"github.com/teslashibe/go-chasecam/pkg/campath"
	"github.com/teslashibe/go-chasecam/pkg/command"
	"github.com/teslashibe/go-chasecam/pkg/director"
	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/hub"
	"github.com/teslashibe/go-chasecam/pkg/protocol"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

// statusEvery is how many frames pass between periodic status events.
const statusEvery = 16

// Server bridges one game host to the director.
type Server struct {
	app     *fiber.App
	dir     *director.Director
	disp    *command.Dispatcher
	presets command.PresetStore
	world   *world.Registry
	path    atomic.Pointer[campath.Path]
	status  *hub.Hub

	mu      sync.RWMutex
	session *Session

	statusMu            sync.Mutex
	lastMode, lastPhase string

	framesReceived   atomic.Uint64
	commandsReceived atomic.Uint64
	messagesSent     atomic.Uint64
}

// Config holds server options.
type Config struct {
	Version string
	Debug   bool // log every HTTP request
}

// New wires a director, dispatcher and HTTP app around presets.
func New(presets command.PresetStore, cfg Config) *Server {
	s := &Server{
		presets: presets,
		world:   world.NewRegistry(),
		status:  hub.New("status"),
	}
	s.dir = director.New(director.Host{Console: s, Input: s})
	s.dir.OnRunEnd(func(st director.Status) {
		s.status.Publish(hub.EventRunEnd, st)
	})
	s.disp = command.New(s.dir, s, func() world.World { return s.world }, presets)

	app := fiber.New(fiber.Config{
		AppName:               "chasecam",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	if cfg.Debug {
		app.Use(logger.New())
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"version": cfg.Version,
			"host":    s.current() != nil,
		})
	})
	app.Get("/metrics", s.handleMetrics)
	s.registerAPI(app.Group("/api"))

	app.Use("/ws", func(c *fiber.Ctx) error {
		if contribws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/host", contribws.New(s.handleHost))
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	s.app = app
	return s
}

// App returns the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Director returns the camera director.
func (s *Server) Director() *director.Director { return s.dir }

// World returns the entity registry fed by host frames.
func (s *Server) World() *world.Registry { return s.world }

// SetPath installs a camera path, replacing whatever the host sent.
func (s *Server) SetPath(p *campath.Path) { s.path.Store(p) }

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	go s.status.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("chasecam listening", "addr", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.dir.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("bridge: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *Server) send(msg *protocol.Message, err error) {
	if err != nil {
		log.Error("encode host message", "error", err)
		return
	}
	sess := s.current()
	if sess == nil {
		log.Debug("no host connected, dropping message", "type", string(msg.Type))
		return
	}
	s.messagesSent.Add(1)
	if err := sess.Send(msg); err != nil {
		log.Warn("host write failed", "session", sess.ID, "error", err)
	}
}

// Exec implements director.Console.
func (s *Server) Exec(cmd string) {
	log.Debug("host exec", "command", cmd)
	s.send(protocol.NewExecMessage(cmd))
}

// Message implements director.Console.
func (s *Server) Message(text string) { s.console("info", text) }

// Warning implements director.Console.
func (s *Server) Warning(text string) { s.console("warning", text) }

func (s *Server) console(level, text string) {
	log.Info("console", "level", level, "text", text)
	s.status.Publish(hub.EventConsole, protocol.ConsoleData{Level: level, Text: text})
	s.send(protocol.NewConsoleMessage(level, text))
}

// SetAngles implements director.Input.
func (s *Server) SetAngles(a geom.Angles) {
	v := protocol.AnglesOf(a)
	s.send(protocol.NewInputMessage(protocol.InputData{Angles: &v}))
}

// SetHalfTimeAng implements director.Input.
func (s *Server) SetHalfTimeAng(seconds float64) {
	if sess := s.current(); sess != nil {
		sess.setHalfTime(seconds)
	}
	s.send(protocol.NewInputMessage(protocol.InputData{HalfTimeAng: &seconds}))
}

// HalfTimeAng implements director.Input.
func (s *Server) HalfTimeAng() (float64, bool) {
	if sess := s.current(); sess != nil {
		return sess.halfTimeAng()
	}
	return 0, false
}

// handleHost runs one host connection. A new host replaces the previous
// one.
func (s *Server) handleHost(c *contribws.Conn) {
	sess := &Session{
		ID:        uuid.NewString(),
		Conn:      c,
		Connected: time.Now(),
	}
	l := log.With("session", sess.ID)

	s.mu.Lock()
	prev := s.session
	s.session = sess
	s.mu.Unlock()
	if prev != nil {
		l.Warn("replacing host session", "previous", prev.ID)
		prev.Conn.Close()
	}
	l.Info("host connected", "remote", c.RemoteAddr().String())
	s.status.Publish(hub.EventSession, fiber.Map{"connected": true, "id": sess.ID})

	defer func() {
		s.mu.Lock()
		owner := s.session == sess
		if owner {
			s.session = nil
		}
		s.mu.Unlock()
		if owner {
			// Nobody is left to render the camera.
			s.dir.Stop()
			s.status.Publish(hub.EventSession, fiber.Map{"connected": false, "id": sess.ID})
		}
		l.Info("host disconnected")
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			l.Debug("host read ended", "error", err)
			return
		}
		s.handleMessage(sess, data)
	}
}

func (s *Server) handleMessage(sess *Session, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Warn("bad host message", "session", sess.ID, "error", err)
		return
	}

	switch msg.Type {
	case protocol.TypeFrame:
		f, err := msg.GetFrameData()
		if err != nil {
			log.Warn("bad frame", "session", sess.ID, "error", err)
			return
		}
		sess.touch(true)
		s.handleFrame(sess, f)

	case protocol.TypeCommand:
		cmd, err := msg.GetCommandData()
		if err != nil {
			log.Warn("bad command", "session", sess.ID, "error", err)
			return
		}
		sess.touch(false)
		s.commandsReceived.Add(1)
		if err := s.disp.Execute(cmd.Line); err != nil && !errors.Is(err, command.ErrUsage) {
			s.Warning(err.Error())
		}

	case protocol.TypePing:
		sess.touch(false)
		ping, err := msg.GetPingData()
		if err != nil {
			return
		}
		s.send(protocol.NewPongMessage(ping.ID, ping.Timestamp, time.Now().UnixMilli()))

	default:
		log.Debug("ignoring host message", "type", string(msg.Type))
	}
}

// handleFrame refreshes the world from f, steps the director and answers
// with the view to render.
func (s *Server) handleFrame(sess *Session, f *protocol.FrameData) {
	s.framesReceived.Add(1)

	if f.Entities != nil {
		ents, err := protocol.Entities(f.Entities)
		if err != nil {
			log.Warn("bad entity snapshot", "session", sess.ID, "error", err)
		} else {
			s.world.Replace(ents)
		}
	}
	if f.Observed != nil {
		s.world.SetObserved(*f.Observed)
	}
	if f.Path != nil {
		s.path.Store(f.Path.Path())
	}
	if f.HalfTimeAng != nil {
		sess.setHalfTime(*f.HalfTimeAng)
	}

	frame := director.Frame{
		Current:        f.Current.Pose(),
		Last:           f.Last.Pose(),
		Delta:          f.Delta,
		Time:           f.Time,
		World:          s.world,
		ControlEnabled: f.ControlEnabled,
	}
	if p := s.path.Load(); p != nil {
		frame.Path = p
	}

	out := s.dir.Frame(frame)
	s.send(protocol.NewViewMessage(f.Seq, out.Kind.String(), out.Pose))
	s.publishStatus(f.Seq)
}

// publishStatus sends a status event when the run changes mode or phase,
// and every statusEvery frames otherwise.
func (s *Server) publishStatus(seq uint64) {
	st := s.dir.Status()
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	changed := st.Mode != s.lastMode || st.Phase != s.lastPhase
	s.lastMode, s.lastPhase = st.Mode, st.Phase
	if changed || seq%statusEvery == 0 {
		s.status.Publish(hub.EventStatus, st)
	}
}

func (s *Server) handleStatusWS(c *websocket.Conn) {
	hub.NewClient(s.status, c).Run()
}
