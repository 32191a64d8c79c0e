package calllog

import (
	"context"
	"database/sql"
)

// PostgresRepo persists call records through database/sql (pgx stdlib).
//
// Expected schema:
//
//	CREATE TABLE call_records (
//	    id                   TEXT PRIMARY KEY,
//	    phone_number         TEXT NOT NULL,
//	    outcome              TEXT NOT NULL,
//	    stage                TEXT NOT NULL DEFAULT '',
//	    reason               TEXT NOT NULL DEFAULT '',
//	    room_name            TEXT NOT NULL DEFAULT '',
//	    room_sid             TEXT NOT NULL DEFAULT '',
//	    participant_id       TEXT NOT NULL DEFAULT '',
//	    participant_identity TEXT NOT NULL DEFAULT '',
//	    sip_call_id          TEXT NOT NULL DEFAULT '',
//	    created_at           TIMESTAMPTZ NOT NULL
//	);

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO call_records
			(id, phone_number, outcome, stage, reason, room_name, room_sid,
			 participant_id, participant_identity, sip_call_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.PhoneNumber, string(rec.Outcome), rec.Stage, rec.Reason,
		rec.RoomName, rec.RoomSID, rec.ParticipantID, rec.ParticipantIdentity,
		rec.SIPCallID, rec.CreatedAt,
	)
	return err
}

func (r *PostgresRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, phone_number, outcome, stage, reason, room_name, room_sid,
		       participant_id, participant_identity, sip_call_id, created_at
		FROM call_records
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var outcome string
		if err := rows.Scan(
			&rec.ID, &rec.PhoneNumber, &outcome, &rec.Stage, &rec.Reason,
			&rec.RoomName, &rec.RoomSID, &rec.ParticipantID,
			&rec.ParticipantIdentity, &rec.SIPCallID, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Outcome = Outcome(outcome)
		out = append(out, rec)
	}
	return out, rows.Err()
}
