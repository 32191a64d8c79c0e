package dialer

// Stage names the phase of a call attempt in which a failure occurred.
type Stage string

const (
	StageValidation   Stage = "validation"
	StageRoomCreation Stage = "room_creation"
	StageSIPDial      Stage = "sip_dial"
)

// CallRequest describes one outbound call attempt. Only PhoneNumber is
// required; empty RoomName and ParticipantIdentity are generated.
type CallRequest struct {
	PhoneNumber         string `json:"phone_number"`
	RoomName            string `json:"room_name,omitempty"`
	ParticipantIdentity string `json:"participant_identity,omitempty"`
	Metadata            string `json:"metadata,omitempty"`
}

// CallResult carries every identifier a successful attempt produced, enough
// to join the session, correlate billing and pull provider-side logs.
type CallResult struct {
	PhoneNumber         string `json:"phone_number"`
	RoomName            string `json:"room_name"`
	RoomSID             string `json:"room_sid"`
	ParticipantID       string `json:"participant_id"`
	ParticipantIdentity string `json:"participant_identity"`
	SIPCallID           string `json:"sip_call_id"`
}

// CallError is the structured failure of one attempt: which stage broke and
// the upstream reason, passed through verbatim. RoomSID is set when the room
// had already been created by the time the attempt failed; operators need it
// to find the orphaned room.
type CallError struct {
	Stage   Stage  `json:"stage"`
	Reason  string `json:"reason"`
	RoomSID string `json:"room_sid,omitempty"`

	err error
}

func (e *CallError) Error() string {
	return string(e.Stage) + ": " + e.Reason
}

func (e *CallError) Unwrap() error { return e.err }

func failure(stage Stage, err error) *CallError {
	return &CallError{Stage: stage, Reason: err.Error(), err: err}
}
