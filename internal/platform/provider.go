package platform

import (
	"context"
	"errors"
	"time"
)

// The session platform is consumed through two narrow, provider-agnostic
// contracts. Business logic (internal/dialer) never touches the wire
// representation; it sees only these types.
//
// Rules:
// - No platform HTTP calls outside this package.
// - Identifiers returned by the platform (room SID, participant id, SIP call
//   id) are opaque tokens; pass them through untouched.

// RoomService creates and inspects session rooms.
type RoomService interface {
	// CreateRoom provisions a room with the given name.
	// If a room with that name already exists, implementations return the
	// existing room's info together with an error wrapping ErrRoomExists;
	// the caller decides whether reuse is acceptable.
	CreateRoom(ctx context.Context, name string) (RoomInfo, error)

	// ListRooms returns active rooms, optionally filtered by name.
	ListRooms(ctx context.Context, names []string) ([]RoomInfo, error)
}

// SIPService bridges rooms to the telephone network through a SIP trunk.
type SIPService interface {
	// CreateSIPParticipant asks the platform to dial the destination through
	// the trunk and attach the resulting call leg to the room as a
	// participant. This is the step with real-world billing consequences.
	CreateSIPParticipant(ctx context.Context, req SIPParticipantRequest) (SIPParticipantInfo, error)
}

// TrunkService exposes outbound trunk administration.
type TrunkService interface {
	ListOutboundTrunks(ctx context.Context) ([]TrunkInfo, error)
	UpdateOutboundTrunk(ctx context.Context, trunk TrunkInfo) (TrunkInfo, error)
}

// ErrRoomExists reports a name collision on room creation.
var ErrRoomExists = errors.New("room already exists")

// RoomInfo describes a session room.
type RoomInfo struct {
	SID       string    `json:"sid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SIPParticipantRequest carries one outbound dial request.
type SIPParticipantRequest struct {
	// TrunkID selects the outbound trunk; sourced from configuration,
	// never from caller input.
	TrunkID string `json:"sip_trunk_id"`

	// CallTo is the destination number in E.164.
	CallTo string `json:"sip_call_to"`

	RoomName            string `json:"room_name"`
	ParticipantIdentity string `json:"participant_identity"`
	ParticipantName     string `json:"participant_name,omitempty"`

	// Metadata is an opaque caller-defined payload attached to the
	// participant. The platform does not interpret it.
	Metadata string `json:"participant_metadata,omitempty"`
}

// SIPParticipantInfo is the platform's acknowledgment of a dial request.
// All identifiers are platform-assigned.
type SIPParticipantInfo struct {
	ParticipantID       string `json:"participant_id"`
	ParticipantIdentity string `json:"participant_identity"`
	RoomName            string `json:"room_name"`
	SIPCallID           string `json:"sip_call_id"`
}

// TrunkInfo describes an outbound SIP trunk.
type TrunkInfo struct {
	TrunkID      string   `json:"sip_trunk_id"`
	Name         string   `json:"name"`
	Address      string   `json:"address"`
	Numbers      []string `json:"numbers"`
	Transport    string   `json:"transport"`
	AuthUsername string   `json:"auth_username"`
}
