// Package world models the host's entity list: pawns, controllers and
// everything else, addressed by index and by revalidatable handle.
package world

import "github.com/teslashibe/go-chasecam/pkg/geom"

// Kind is the closed set of entity kinds the camera cares about.
type Kind uint8

const (
	KindOther Kind = iota
	KindPawn
	KindController
)

func (k Kind) String() string {
	switch k {
	case KindPawn:
		return "pawn"
	case KindController:
		return "controller"
	}
	return "other"
}

// ParseKind maps the wire names back to a Kind. Unknown names are KindOther.
func ParseKind(s string) Kind {
	switch s {
	case "pawn":
		return KindPawn
	case "controller":
		return KindController
	}
	return KindOther
}

// Team numbers as the host reports them.
type Team int

const (
	TeamUnassigned Team = 0
	TeamSpectator  Team = 1
	TeamT          Team = 2
	TeamCT         Team = 3
)

// PawnInfo is the in-world body of a player.
type PawnInfo struct {
	EyeOrigin  geom.Vec
	EyeAngles  geom.Angles
	Health     int
	Controller Handle // owning controller, may be invalid
}

// ControllerInfo is the persistent per-player entity.
type ControllerInfo struct {
	PlayerName   string
	Team         Team
	ObserverMode int
	Pawn         Handle // current pawn, may be invalid
}

// Entity is a snapshot of one entity. It is a value; never keep one across
// frames, keep a Ref instead.
type Entity struct {
	Index  int
	Handle Handle
	Kind   Kind
	Name   string // debug name
	Origin geom.Vec

	pawn       PawnInfo
	controller ControllerInfo
}

// NewPawn builds a pawn snapshot.
func NewPawn(h Handle, name string, origin geom.Vec, p PawnInfo) Entity {
	return Entity{Index: h.Index(), Handle: h, Kind: KindPawn, Name: name, Origin: origin, pawn: p}
}

// NewController builds a controller snapshot.
func NewController(h Handle, name string, c ControllerInfo) Entity {
	return Entity{Index: h.Index(), Handle: h, Kind: KindController, Name: name, controller: c}
}

// NewOther builds a snapshot of an entity that is neither pawn nor controller.
func NewOther(h Handle, name string, origin geom.Vec) Entity {
	return Entity{Index: h.Index(), Handle: h, Kind: KindOther, Name: name, Origin: origin}
}

// AsPawn returns the pawn view of e, if e is a pawn.
func (e Entity) AsPawn() (PawnInfo, bool) {
	if e.Kind != KindPawn {
		return PawnInfo{}, false
	}
	return e.pawn, true
}

// AsController returns the controller view of e, if e is a controller.
func (e Entity) AsController() (ControllerInfo, bool) {
	if e.Kind != KindController {
		return ControllerInfo{}, false
	}
	return e.controller, true
}

// DisplayName is the player name for controllers and the debug name otherwise.
func (e Entity) DisplayName() string {
	if c, ok := e.AsController(); ok && c.PlayerName != "" {
		return c.PlayerName
	}
	return e.Name
}
