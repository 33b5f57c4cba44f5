package bridge

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-chasecam/pkg/command"
	"github.com/teslashibe/go-chasecam/pkg/director"
)

// Stats holds bridge counters.
type Stats struct {
	FramesReceived   uint64 `json:"frames_received"`
	CommandsReceived uint64 `json:"commands_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	StatusClients    int    `json:"status_clients"`
}

// Stats snapshots the counters.
func (s *Server) Stats() Stats {
	return Stats{
		FramesReceived:   s.framesReceived.Load(),
		CommandsReceived: s.commandsReceived.Load(),
		MessagesSent:     s.messagesSent.Load(),
		StatusClients:    s.status.ClientCount(),
	}
}

func (s *Server) handleMetrics(c *fiber.Ctx) error {
	st := s.Stats()
	active := 0
	if s.dir.Active() {
		active = 1
	}
	host := 0
	if s.current() != nil {
		host = 1
	}
	return c.SendString(fmt.Sprintf(`# HELP chasecam_host_connected Whether a game host is connected
# TYPE chasecam_host_connected gauge
chasecam_host_connected %d

# HELP chasecam_run_active Whether a camera run is active
# TYPE chasecam_run_active gauge
chasecam_run_active %d

# HELP chasecam_frames_received Total host frames received
# TYPE chasecam_frames_received counter
chasecam_frames_received %d

# HELP chasecam_commands_received Total commands received
# TYPE chasecam_commands_received counter
chasecam_commands_received %d

# HELP chasecam_messages_sent Total messages sent to the host
# TYPE chasecam_messages_sent counter
chasecam_messages_sent %d

# HELP chasecam_status_clients Connected status websocket clients
# TYPE chasecam_status_clients gauge
chasecam_status_clients %d
`, host, active, st.FramesReceived, st.CommandsReceived, st.MessagesSent, st.StatusClients))
}

func (s *Server) registerAPI(api fiber.Router) {
	api.Get("/status", s.handleStatus)
	api.Post("/command", s.handleCommand)
	api.Get("/presets", s.handleGetPresets)
	api.Put("/presets", s.handlePutPresets)
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp := fiber.Map{
		"director": s.dir.Status(),
		"host":     nil,
		"stats":    s.Stats(),
	}
	if sess := s.current(); sess != nil {
		resp["host"] = sess.Info()
	}
	return c.JSON(resp)
}

type commandRequest struct {
	Line string `json:"line"`
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Line == "" {
		return fiber.NewError(fiber.StatusBadRequest, "line is required")
	}

	s.commandsReceived.Add(1)
	err := s.disp.Execute(req.Line)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"ok": true, "status": s.dir.Status()})
	case errors.Is(err, command.ErrUsage):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, command.ErrUnknownCommand):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, command.ErrNoObserver):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
}

func (s *Server) handleGetPresets(c *fiber.Ctx) error {
	return c.JSON(s.presets.Presets())
}

func (s *Server) handlePutPresets(c *fiber.Ctx) error {
	var t director.Tuning
	if err := c.BodyParser(&t); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	p, err := s.presets.Update(t)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(p)
}
