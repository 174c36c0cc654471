package repository

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertEffectSQL = `
		INSERT INTO booking_effects (id, booking_id, profile_id, mentor_id, event, counter, payload, status, run_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	claimEffectSQL = `
		SELECT id, booking_id, profile_id, mentor_id, event, counter, payload, status, attempts, last_error, run_at, created_at
		FROM booking_effects
		WHERE id = $1 AND status = 'pending'
		FOR UPDATE SKIP LOCKED`

	listDueEffectsSQL = `
		SELECT id
		FROM booking_effects
		WHERE status = 'pending' AND run_at <= $1
		ORDER BY run_at
		LIMIT $2`

	markEffectAppliedSQL = `
		UPDATE booking_effects
		SET status = 'applied', applied_at = $2, last_error = NULL
		WHERE id = $1`

	markEffectRetrySQL = `
		UPDATE booking_effects
		SET attempts = $2, last_error = $3, run_at = $4, status = $5
		WHERE id = $1`
)

type EffectRepository struct {
	db db.DBTX
}

func NewEffectRepository(db db.DBTX) *EffectRepository {
	return &EffectRepository{db: db}
}

func (r *EffectRepository) Enqueue(ctx context.Context, e *shared.Effect) error {
	var counter *string
	if e.Counter != nil {
		c := e.Counter.String()
		counter = &c
	}
	_, err := r.db.Exec(ctx, insertEffectSQL,
		e.ID,
		e.BookingID,
		e.ProfileID,
		e.MentorID,
		e.Event.String(),
		pgconv.StringPtrToPgtype(counter),
		[]byte(e.Payload),
		string(e.Status),
		e.RunAt,
		e.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to enqueue booking effect", err)
	}
	return nil
}

func (r *EffectRepository) ClaimByID(ctx context.Context, id uuid.UUID) (*shared.Effect, error) {
	var (
		e         shared.Effect
		event     string
		counter   pgtype.Text
		payload   []byte
		status    string
		attempts  int32
		lastError pgtype.Text
	)
	err := r.db.QueryRow(ctx, claimEffectSQL, id).Scan(
		&e.ID, &e.BookingID, &e.ProfileID, &e.MentorID, &event, &counter, &payload,
		&status, &attempts, &lastError, &e.RunAt, &e.CreatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to claim booking effect", err)
	}

	e.Event = booking.EventType(event)
	if counter.Valid {
		c, perr := mentor.ParseCounter(counter.String)
		if perr != nil {
			return nil, infra.WrapRepoErr("stored effect has unknown counter", perr, infra.KindDBFailure)
		}
		e.Counter = &c
	}
	e.Payload = payload
	e.Status = shared.EffectStatus(status)
	e.Attempts = int(attempts)
	e.LastError = pgconv.StringPtrFromPgtype(lastError)
	return &e, nil
}

func (r *EffectRepository) ListDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, listDueEffectsSQL, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list due booking effects", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking effect id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking effects", err)
	}
	return ids, nil
}

func (r *EffectRepository) MarkApplied(ctx context.Context, id uuid.UUID, at time.Time) error {
	if _, err := r.db.Exec(ctx, markEffectAppliedSQL, id, at); err != nil {
		return infra.WrapRepoErr("failed to mark booking effect applied", err)
	}
	return nil
}

func (r *EffectRepository) MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, runAt time.Time, status shared.EffectStatus) error {
	if _, err := r.db.Exec(ctx, markEffectRetrySQL, id, attempts, lastErr, runAt, string(status)); err != nil {
		return infra.WrapRepoErr("failed to reschedule booking effect", err)
	}
	return nil
}
