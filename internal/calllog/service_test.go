package calllog

import (
	"context"
	"errors"
	"testing"
	"time"

	"dialout-service/internal/dialer"
)

func fixedClock(s *Service) time.Time {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	s.clock = func() time.Time { return at }
	return at
}

func TestRecordSuccess_AppendsCompletedRecord(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	at := fixedClock(svc)

	svc.RecordSuccess(context.Background(), dialer.CallResult{
		PhoneNumber:         "+14155551234",
		RoomName:            "outbound-14155551234-1700000000-1",
		RoomSID:             "RM_abc123",
		ParticipantID:       "PA_def456",
		ParticipantIdentity: "caller-14155551234-1700000000-1",
		SIPCallID:           "SCL_ghi789",
	})

	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Outcome != OutcomeCompleted {
		t.Fatalf("expected outcome %q, got %q", OutcomeCompleted, rec.Outcome)
	}
	if rec.ID == "" {
		t.Fatal("expected a generated record id")
	}
	if !rec.CreatedAt.Equal(at) {
		t.Fatalf("expected created_at %v, got %v", at, rec.CreatedAt)
	}
	if rec.RoomSID != "RM_abc123" || rec.SIPCallID != "SCL_ghi789" {
		t.Fatalf("expected platform identifiers to pass through, got %+v", rec)
	}
	if rec.Stage != "" || rec.Reason != "" {
		t.Fatalf("success record must not carry failure fields, got %+v", rec)
	}
}

func TestRecordFailure_CarriesStageReasonAndRoomSID(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	fixedClock(svc)

	svc.RecordFailure(context.Background(), "+14155551234", &dialer.CallError{
		Stage:   dialer.StageSIPDial,
		Reason:  "trunk not authorized",
		RoomSID: "RM_orphaned",
	})

	recs := repo.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Outcome != OutcomeFailed {
		t.Fatalf("expected outcome %q, got %q", OutcomeFailed, rec.Outcome)
	}
	if rec.Stage != "sip_dial" || rec.Reason != "trunk not authorized" {
		t.Fatalf("expected stage and reason to pass through, got %+v", rec)
	}
	if rec.RoomSID != "RM_orphaned" {
		t.Fatalf("expected orphaned room sid for diagnostics, got %q", rec.RoomSID)
	}
}

type failingRepo struct{}

func (failingRepo) Append(ctx context.Context, rec Record) error {
	return errors.New("connection refused")
}

func (failingRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	return nil, errors.New("connection refused")
}

func TestRecord_SwallowsRepositoryErrors(t *testing.T) {
	svc := NewService(failingRepo{}, nil)

	// Must not panic or propagate; recording is best-effort.
	svc.RecordSuccess(context.Background(), dialer.CallResult{PhoneNumber: "+14155551234"})
	svc.RecordFailure(context.Background(), "+14155551234", &dialer.CallError{
		Stage:  dialer.StageValidation,
		Reason: "bad number",
	})
}

func TestListRecent_NewestFirstAndClamped(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	for i := 0; i < 5; i++ {
		svc.RecordFailure(context.Background(), "+14155551234", &dialer.CallError{
			Stage:  dialer.StageValidation,
			Reason: "bad number",
		})
	}

	recs, err := svc.ListRecent(context.Background(), 3)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	all := repo.Records()
	if recs[0].ID != all[4].ID {
		t.Fatalf("expected newest record first, got %q", recs[0].ID)
	}

	// Zero and absurd limits fall back to the default window.
	if recs, _ := svc.ListRecent(context.Background(), 0); len(recs) != 5 {
		t.Fatalf("expected default limit to return everything, got %d", len(recs))
	}
}
