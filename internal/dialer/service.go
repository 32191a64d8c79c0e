package dialer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dialout-service/internal/guard"
	"dialout-service/internal/observability"
	"dialout-service/internal/platform"
)

// Recorder persists the outcome of call attempts. Recording is best-effort:
// a recorder must swallow its own errors, it never fails the call.
type Recorder interface {
	RecordSuccess(ctx context.Context, res CallResult)
	RecordFailure(ctx context.Context, phoneNumber string, cerr *CallError)
}

// Service orchestrates one outbound call: validate the destination, provision
// a session room, dial the number through the configured SIP trunk and report
// a structured outcome either way.
type Service struct {
	rooms   platform.RoomService
	sip     platform.SIPService
	trunkID string
	names   *NameGenerator
	guard   guard.Guard
	records Recorder
	metrics *observability.Metrics
	log     *slog.Logger
}

// Options carries the optional collaborators. Any of them may be left nil.
type Options struct {
	Guard    guard.Guard
	Recorder Recorder
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

func NewService(rooms platform.RoomService, sip platform.SIPService, trunkID string, opts Options) (*Service, error) {
	if rooms == nil {
		return nil, errors.New("dialer: room service is required")
	}
	if sip == nil {
		return nil, errors.New("dialer: sip service is required")
	}
	if trunkID == "" {
		return nil, errors.New("dialer: outbound trunk id is required")
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		rooms:   rooms,
		sip:     sip,
		trunkID: trunkID,
		names:   NewNameGenerator(),
		guard:   opts.Guard,
		records: opts.Recorder,
		metrics: opts.Metrics,
		log:     log,
	}, nil
}

// CreateCall runs one attempt end to end. On failure the returned error is
// always a *CallError naming the stage that broke.
func (s *Service) CreateCall(ctx context.Context, req CallRequest) (CallResult, error) {
	start := time.Now()
	res, cerr := s.createCall(ctx, req)

	if cerr != nil {
		s.metrics.ObserveAttempt(string(cerr.Stage), time.Since(start))
		s.log.WarnContext(ctx, "call attempt failed",
			"phone_number", req.PhoneNumber,
			"stage", cerr.Stage,
			"reason", cerr.Reason)
		if s.records != nil {
			s.records.RecordFailure(ctx, req.PhoneNumber, cerr)
		}
		return CallResult{}, cerr
	}

	s.metrics.ObserveAttempt("", time.Since(start))
	s.log.InfoContext(ctx, "call dialed",
		"phone_number", res.PhoneNumber,
		"room", res.RoomName,
		"room_sid", res.RoomSID,
		"sip_call_id", res.SIPCallID)
	if s.records != nil {
		s.records.RecordSuccess(ctx, res)
	}
	return res, nil
}

func (s *Service) createCall(ctx context.Context, req CallRequest) (CallResult, *CallError) {
	if err := ValidateNumber(req.PhoneNumber); err != nil {
		return CallResult{}, failure(StageValidation, err)
	}

	roomName := req.RoomName
	identity := req.ParticipantIdentity
	if roomName == "" || identity == "" {
		genRoom, genIdentity := s.names.Names(req.PhoneNumber)
		if roomName == "" {
			roomName = genRoom
		}
		if identity == "" {
			identity = genIdentity
		}
	}

	room, err := s.rooms.CreateRoom(ctx, roomName)
	if err != nil {
		// A caller-supplied room that already exists is reused; that is how
		// a second participant is dialed into an ongoing session. Generated
		// names are expected to be fresh, a collision there is a failure.
		if !(errors.Is(err, platform.ErrRoomExists) && req.RoomName != "") {
			return CallResult{}, failure(StageRoomCreation, err)
		}
		s.log.DebugContext(ctx, "reusing existing room", "room", roomName, "room_sid", room.SID)
	}

	if s.guard != nil {
		ok, gerr := s.guard.Acquire(ctx, req.PhoneNumber)
		if gerr != nil {
			cerr := failure(StageSIPDial, gerr)
			cerr.RoomSID = room.SID
			return CallResult{}, cerr
		}
		if !ok {
			return CallResult{}, &CallError{
				Stage:   StageSIPDial,
				Reason:  "concurrent dial limit reached for " + req.PhoneNumber,
				RoomSID: room.SID,
			}
		}
	}

	part, err := s.sip.CreateSIPParticipant(ctx, platform.SIPParticipantRequest{
		TrunkID:             s.trunkID,
		CallTo:              req.PhoneNumber,
		RoomName:            roomName,
		ParticipantIdentity: identity,
		ParticipantName:     "Caller " + req.PhoneNumber,
		Metadata:            req.Metadata,
	})
	if err != nil {
		if s.guard != nil {
			s.guard.Release(ctx, req.PhoneNumber)
		}
		cerr := failure(StageSIPDial, err)
		cerr.RoomSID = room.SID
		return CallResult{}, cerr
	}
	// On success the guard slot is left to expire with its TTL so it keeps
	// covering the ringing window.

	return CallResult{
		PhoneNumber:         req.PhoneNumber,
		RoomName:            roomName,
		RoomSID:             room.SID,
		ParticipantID:       part.ParticipantID,
		ParticipantIdentity: part.ParticipantIdentity,
		SIPCallID:           part.SIPCallID,
	}, nil
}
