// hostsim: synthetic game host for chasecam
// Streams frames of a small moving scene, renders the returned views and
// forwards console commands
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-chasecam/internal/config"
	"github.com/teslashibe/go-chasecam/internal/log"
	"github.com/teslashibe/go-chasecam/pkg/campath"
	"github.com/teslashibe/go-chasecam/pkg/geom"
	"github.com/teslashibe/go-chasecam/pkg/protocol"
	"github.com/teslashibe/go-chasecam/pkg/world"
)

type commandList []string

func (c *commandList) String() string     { return strings.Join(*c, "; ") }
func (c *commandList) Set(v string) error { *c = append(*c, v); return nil }

var (
	url      = flag.String("url", "", "chasecam host websocket (default $CHASECAM_URL)")
	rate     = flag.Float64("rate", 64, "frames per second")
	duration = flag.Duration("duration", 0, "stop after this long (0 runs until interrupted)")
	pathFile = flag.String("campath", "", "camera path YAML sent with the first frame")
	delay    = flag.Duration("delay", time.Second, "wait before sending commands")
	commands commandList
)

// runner is a player walking a circle.
type runner struct {
	ctrl, pawn world.Handle
	center     geom.Vec
	radius     float64
	speed      float64 // rad/s
	phase      float64
}

type host struct {
	ws      *websocket.Conn
	reg     *world.Registry
	runners []runner

	seq      uint64
	clock    float64
	cur      geom.Pose
	last     geom.Pose
	control  bool
	halfTime float64
	observed int
	path     *campath.Path
	pathSent bool
}

func main() {
	flag.Var(&commands, "cmd", "console command to send, repeatable (e.g. -cmd \"toeyes start_closest\")")
	flag.Parse()
	log.Init(config.LogLevel())

	if *url == "" {
		*url = config.HostURL()
	}

	h := &host{reg: world.NewRegistry(), control: true, halfTime: 0.1}
	h.spawn()
	h.cur = geom.Pose{Position: geom.V(0, -800, 300), Angles: geom.LookAt(geom.V(0, -800, 300), geom.V(0, 0, 64))}
	h.last = h.cur

	if *pathFile != "" {
		p, err := campath.Load(*pathFile)
		if err != nil {
			log.Error("load camera path", "path", *pathFile, "error", err)
			os.Exit(1)
		}
		h.path = p
	}

	ws, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		log.Error("dial chasecam", "url", *url, "error", err)
		os.Exit(1)
	}
	defer ws.Close()
	h.ws = ws
	log.Info("connected", "url", *url, "players", len(h.runners))

	incoming := make(chan *protocol.Message, 64)
	go func() {
		defer close(incoming)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				log.Info("connection closed", "error", err)
				return
			}
			msg, err := protocol.ParseMessage(data)
			if err != nil {
				log.Warn("bad message", "error", err)
				continue
			}
			incoming <- msg
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}
	sendAt := time.After(*delay)
	ticker := time.NewTicker(time.Duration(float64(time.Second) / *rate))
	defer ticker.Stop()
	ping := time.NewTicker(5 * time.Second)
	defer ping.Stop()

	dt := 1 / *rate
	for {
		select {
		case <-sig:
			log.Info("interrupted")
			return
		case <-deadline:
			log.Info("duration elapsed")
			return
		case <-sendAt:
			for _, line := range commands {
				h.control = true
				h.send(protocol.NewCommandMessage(line))
				log.Info("command sent", "line", line)
			}
		case <-ping.C:
			h.send(protocol.NewPingMessage(strconv.FormatUint(h.seq, 10), time.Now().UnixMilli()))
		case msg, ok := <-incoming:
			if !ok {
				return
			}
			h.apply(msg)
		case <-ticker.C:
			h.step(dt)
		}
	}
}

func (h *host) spawn() {
	players := []struct {
		name   string
		team   world.Team
		center geom.Vec
		radius float64
		speed  float64
	}{
		{"alice", world.TeamT, geom.V(0, 0, 64), 400, 0.5},
		{"bob", world.TeamCT, geom.V(1500, 500, 64), 250, -0.8},
		{"carol", world.TeamT, geom.V(-1200, 900, 128), 600, 0.3},
		{"dave with spaces", world.TeamCT, geom.V(300, 2000, 64), 150, 1.2},
	}
	for i, p := range players {
		ctrl, pawn := h.reg.SpawnPlayer(world.Player{Name: p.name, Team: p.team, Eye: p.center, Health: 100})
		h.runners = append(h.runners, runner{
			ctrl: ctrl, pawn: pawn,
			center: p.center, radius: p.radius, speed: p.speed,
			phase: float64(i),
		})
	}
	h.observed = h.runners[0].ctrl.Index()
	h.reg.SetObserved(h.observed)
}

// step advances the scene by dt and sends a frame.
func (h *host) step(dt float64) {
	h.clock += dt
	h.seq++
	for _, r := range h.runners {
		a := r.phase + r.speed*h.clock
		eye := geom.Add(r.center, geom.V(r.radius*math.Cos(a), r.radius*math.Sin(a), 0))
		// Facing along the direction of travel.
		facing := geom.DirToAngles(geom.V(-math.Sin(a)*r.speed, math.Cos(a)*r.speed, 0))
		h.reg.UpdatePawn(r.pawn, func(origin *geom.Vec, p *world.PawnInfo) {
			*origin = geom.Sub(eye, geom.V(0, 0, world.EyeHeight))
			p.EyeOrigin = eye
			p.EyeAngles = facing
		})
	}

	snap := h.reg.Snapshot()
	ents := make([]protocol.EntityData, 0, len(snap))
	for _, e := range snap {
		ents = append(ents, protocol.EntityOf(e))
	}
	observed := h.observed
	half := h.halfTime
	f := protocol.FrameData{
		Seq:            h.seq,
		Time:           h.clock,
		Delta:          dt,
		Current:        protocol.ViewOf(h.cur),
		Last:           protocol.ViewOf(h.last),
		ControlEnabled: h.control,
		HalfTimeAng:    &half,
		Entities:       ents,
		Observed:       &observed,
	}
	if h.path != nil && !h.pathSent {
		f.Path = protocol.PathOf(h.path)
		h.pathSent = true
	}
	h.last = h.cur
	h.send(protocol.NewFrameMessage(f))
}

func (h *host) apply(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeView:
		v, err := msg.GetViewData()
		if err != nil {
			return
		}
		switch v.Kind {
		case "pose":
			h.cur = v.View.Pose()
		case "angles":
			a := v.View.Pose().Angles
			h.cur.Angles.Pitch, h.cur.Angles.Yaw = a.Pitch, a.Yaw
		}

	case protocol.TypeInput:
		in, err := msg.GetInputData()
		if err != nil {
			return
		}
		if in.Angles != nil {
			h.cur.Angles = in.Angles.Angles()
		}
		if in.HalfTimeAng != nil {
			h.halfTime = *in.HalfTimeAng
		}

	case protocol.TypeExec:
		ex, err := msg.GetExecData()
		if err != nil {
			return
		}
		h.exec(ex.Command)

	case protocol.TypeConsole:
		c, err := msg.GetConsoleData()
		if err != nil {
			return
		}
		fmt.Printf("[%s] %s\n", c.Level, c.Text)

	case protocol.TypePong:
		p, err := msg.GetPongData()
		if err == nil {
			log.Debug("pong", "id", p.ID, "latency_ms", time.Now().UnixMilli()-p.PingTS)
		}
	}
}

// exec handles the console commands chasecam issues.
func (h *host) exec(cmd string) {
	log.Debug("exec", "command", cmd)
	switch {
	case cmd == "mirv_input end":
		h.control = false
	case strings.HasPrefix(cmd, "spec_player "):
		target := strings.Trim(strings.TrimPrefix(cmd, "spec_player "), `"`)
		if idx, ok := h.lookup(target); ok {
			h.observed = idx
			h.reg.SetObserved(idx)
		}
	}
}

func (h *host) lookup(target string) (int, bool) {
	if idx, err := strconv.Atoi(target); err == nil {
		return idx, true
	}
	for _, r := range h.runners {
		if e, ok := h.reg.EntityAt(r.ctrl.Index()); ok && e.DisplayName() == target {
			return e.Index, true
		}
	}
	return 0, false
}

func (h *host) send(msg *protocol.Message, err error) {
	if err != nil {
		log.Error("encode", "error", err)
		return
	}
	data, err := msg.Bytes()
	if err != nil {
		log.Error("encode", "error", err)
		return
	}
	if err := h.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Warn("write failed", "error", err)
	}
}
