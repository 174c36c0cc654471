package readstore

import (
	"context"
	"encoding/json"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	activeSlotsSQL = `
		SELECT start_time, end_time
		FROM session_bookings
		WHERE mentor_id = $1
		  AND status IN ('pending', 'accepted')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time`

	getBookingViewByUIDSQL = `
		SELECT b.id, b.uid, b.profile_id, p.display_name, b.start_time, b.end_time, b.status,
		       b.cancellation_reason, b.metadata, b.completed_at, b.cancelled_at, b.created_at, b.updated_at
		FROM session_bookings b
		JOIN mentor_profiles p ON p.id = b.profile_id
		WHERE b.uid = $1`
)

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(db db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

// ActiveSlots reads committed bookings only; it never goes through the availability cache.
func (r *BookingReadStore) ActiveSlots(ctx context.Context, mentorID uuid.UUID, start, end time.Time) ([]booking.TimeSlot, error) {
	rows, err := r.db.Query(ctx, activeSlotsSQL, mentorID, start, end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}
	defer rows.Close()

	var slots []booking.TimeSlot
	for rows.Next() {
		var s, e time.Time
		if err := rows.Scan(&s, &e); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking range", err)
		}
		slot, err := booking.ReconstructTimeSlot(s, e)
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

func (r *BookingReadStore) FindByUID(ctx context.Context, uid uuid.UUID) (*queries.BookingView, error) {
	var (
		v           queries.BookingView
		reason      pgtype.Text
		rawMeta     []byte
		completedAt pgtype.Timestamptz
		cancelledAt pgtype.Timestamptz
	)
	err := r.db.QueryRow(ctx, getBookingViewByUIDSQL, uid).Scan(
		&v.ID, &v.UID, &v.ProfileID, &v.MentorName, &v.StartTime, &v.EndTime, &v.Status,
		&reason, &rawMeta, &completedAt, &cancelledAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking view by uid", err)
	}

	meta := booking.Metadata{}
	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return nil, infra.WrapRepoErr("failed to decode booking metadata", err, infra.KindDBFailure)
		}
	}

	v.CancellationReason = pgconv.StringPtrFromPgtype(reason)
	v.CompletedAt = pgconv.TimePtrFromPgtype(completedAt)
	v.CancelledAt = pgconv.TimePtrFromPgtype(cancelledAt)
	v.MeetLink = meta.String(booking.MetaMeetLink)
	v.StudentName = meta.String(booking.MetaStudentName)
	v.RescheduleCount = meta.Int(booking.MetaRescheduleCount)
	return &v, nil
}
