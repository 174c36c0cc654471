package queries

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/infra"

	"github.com/google/uuid"
)

// BookingView is the read-side projection of a session, addressed by its public UID.
// ID authorizes rating, so it never leaves the server through this view.
type BookingView struct {
	ID                 uuid.UUID  `json:"-"`
	UID                uuid.UUID  `json:"uid"`
	ProfileID          uuid.UUID  `json:"profile_id"`
	MentorName         string     `json:"mentor_name"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	MeetLink           string     `json:"meet_link"`
	StudentName        string     `json:"student_name"`
	RescheduleCount    int        `json:"reschedule_count"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type BookingQueries interface {
	GetByUID(ctx context.Context, uid uuid.UUID) (*BookingView, error)
}

type BookingViewStore interface {
	FindByUID(ctx context.Context, uid uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingViewStore
}

func NewBookingQueries(store BookingViewStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByUID(ctx context.Context, uid uuid.UUID) (*BookingView, error) {
	v, err := q.store.FindByUID(ctx, uid)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}
