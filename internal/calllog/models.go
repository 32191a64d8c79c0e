package calllog

import "time"

// Record is an immutable, append-only trace of one finished call attempt.
//
// Invariants:
// - Records are never updated or deleted.
// - Recording is best-effort; the dial flow must never block on it.
//
// Storage recommendation (Postgres):
// - Table call_records with an INSERT-only policy.
// - Optional: partition by created_at for retention.

type Record struct {
	ID          string `json:"id" db:"id"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`

	Outcome Outcome `json:"outcome" db:"outcome"`

	// Stage and Reason are set on failed attempts only.
	Stage  string `json:"stage,omitempty" db:"stage"`
	Reason string `json:"reason,omitempty" db:"reason"`

	// Platform identifiers, as far as the attempt got. A failed dial still
	// carries the sid of the room that had already been created.
	RoomName            string `json:"room_name,omitempty" db:"room_name"`
	RoomSID             string `json:"room_sid,omitempty" db:"room_sid"`
	ParticipantID       string `json:"participant_id,omitempty" db:"participant_id"`
	ParticipantIdentity string `json:"participant_identity,omitempty" db:"participant_identity"`
	SIPCallID           string `json:"sip_call_id,omitempty" db:"sip_call_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
)
