package repository

import (
	"context"
	"encoding/json"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	lockMentorSQL = `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`

	selectBookingSQL = `
		SELECT id, uid, mentor_id, profile_id, session_type_id, start_time, end_time, status,
		       cancellation_reason, meet_code, metadata, completed_at, cancelled_at, created_at, updated_at
		FROM session_bookings
		WHERE id = $1
		FOR UPDATE`

	listActiveInRangeSQL = `
		SELECT start_time, end_time
		FROM session_bookings
		WHERE mentor_id = $1
		  AND status IN ('pending', 'accepted')
		  AND start_time < $3
		  AND end_time > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_time`

	insertBookingSQL = `
		INSERT INTO session_bookings (
			id, uid, mentor_id, profile_id, session_type_id, start_time, end_time, status,
			cancellation_reason, meet_code, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	updateBookingSQL = `
		UPDATE session_bookings
		SET start_time = $2,
		    end_time = $3,
		    status = $4,
		    cancellation_reason = $5,
		    meet_code = $6,
		    metadata = $7,
		    completed_at = $8,
		    cancelled_at = $9,
		    updated_at = $10
		WHERE id = $1`
)

type BookingRepository struct {
	db db.DBTX
}

func NewBookingRepository(db db.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) LockMentor(ctx context.Context, mentorID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, lockMentorSQL, mentorID.String()); err != nil {
		return infra.WrapRepoErr("failed to lock mentor bookings", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, selectBookingSQL, id))
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking by id", err)
	}
	return b, nil
}

func (r *BookingRepository) ListActiveInRange(ctx context.Context, mentorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]booking.TimeSlot, error) {
	rows, err := r.db.Query(ctx, listActiveInRangeSQL, mentorID, start, end, pgconv.UUIDPtrToPgtype(excludeID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}
	return collectSlots(rows)
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	meta, err := json.Marshal(b.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking metadata", err, infra.KindDBFailure)
	}

	_, err = r.db.Exec(ctx, insertBookingSQL,
		b.ID(),
		b.UID(),
		b.MentorID(),
		b.ProfileID(),
		b.SessionTypeID(),
		b.TimeSlot().Start(),
		b.TimeSlot().End(),
		b.Status().String(),
		pgconv.StringPtrToPgtype(b.CancellationReason()),
		b.MeetCode(),
		meta,
		b.CreatedAt(),
		b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	meta, err := json.Marshal(b.Metadata())
	if err != nil {
		return infra.WrapRepoErr("failed to encode booking metadata", err, infra.KindDBFailure)
	}

	tag, err := r.db.Exec(ctx, updateBookingSQL,
		b.ID(),
		b.TimeSlot().Start(),
		b.TimeSlot().End(),
		b.Status().String(),
		pgconv.StringPtrToPgtype(b.CancellationReason()),
		b.MeetCode(),
		meta,
		pgconv.TimePtrToPgtype(b.CompletedAt()),
		pgconv.TimePtrToPgtype(b.CancelledAt()),
		b.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id, uid, mentorID, profileID uuid.UUID
		sessionTypeID                int64
		start, end                   time.Time
		status                       string
		reason                       pgtype.Text
		meetCode                     string
		rawMeta                      []byte
		completedAt, cancelledAt     pgtype.Timestamptz
		createdAt, updatedAt         time.Time
	)
	if err := row.Scan(
		&id, &uid, &mentorID, &profileID, &sessionTypeID, &start, &end, &status,
		&reason, &meetCode, &rawMeta, &completedAt, &cancelledAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	st, err := booking.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	slot, err := booking.ReconstructTimeSlot(start, end)
	if err != nil {
		return nil, err
	}
	meta := booking.Metadata{}
	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return nil, err
		}
	}

	return booking.Reconstruct(
		id, uid, mentorID, profileID,
		sessionTypeID,
		slot,
		st,
		pgconv.StringPtrFromPgtype(reason),
		meetCode,
		meta,
		pgconv.TimePtrFromPgtype(completedAt),
		pgconv.TimePtrFromPgtype(cancelledAt),
		createdAt, updatedAt,
	), nil
}

func collectSlots(rows pgx.Rows) ([]booking.TimeSlot, error) {
	defer rows.Close()

	var slots []booking.TimeSlot
	for rows.Next() {
		var start, end time.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking range", err)
		}
		slot, err := booking.ReconstructTimeSlot(start, end)
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking breaks fixed duration", err, infra.KindDBFailure)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking ranges", err)
	}
	return slots, nil
}
