package calllog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dialout-service/internal/dialer"
)

// Repository is the persistence contract for call records.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

// Service writes one record per finished call attempt and satisfies
// dialer.Recorder. Persistence failures are logged and swallowed; the call
// flow never fails because the log store is down.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

func (s *Service) RecordSuccess(ctx context.Context, res dialer.CallResult) {
	s.append(ctx, Record{
		PhoneNumber:         res.PhoneNumber,
		Outcome:             OutcomeCompleted,
		RoomName:            res.RoomName,
		RoomSID:             res.RoomSID,
		ParticipantID:       res.ParticipantID,
		ParticipantIdentity: res.ParticipantIdentity,
		SIPCallID:           res.SIPCallID,
	})
}

func (s *Service) RecordFailure(ctx context.Context, phoneNumber string, cerr *dialer.CallError) {
	s.append(ctx, Record{
		PhoneNumber: phoneNumber,
		Outcome:     OutcomeFailed,
		Stage:       string(cerr.Stage),
		Reason:      cerr.Reason,
		RoomSID:     cerr.RoomSID,
	})
}

func (s *Service) append(ctx context.Context, rec Record) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.clock().UTC()
	// Persist even when the attempt's context already expired; a timed-out
	// dial still deserves a record.
	if err := s.repo.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.log.WarnContext(ctx, "call record not persisted",
			"phone_number", rec.PhoneNumber, "outcome", rec.Outcome, "err", err)
	}
}

// ListRecent returns the newest records first. limit is clamped to a sane
// window for the API surface.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.ListRecent(ctx, limit)
}
