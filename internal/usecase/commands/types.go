package commands

import (
	"time"

	"mentor-booking/internal/domain/booking"

	"github.com/google/uuid"
)

type StudentInput struct {
	Name     string
	Email    string
	Question string
}

type CreateSessionParams struct {
	ProfileID uuid.UUID
	Start     time.Time
	Student   StudentInput
}

type CancelSessionParams struct {
	BookingID   uuid.UUID
	Reason      string
	CancelledBy string
}

type RescheduleSessionParams struct {
	BookingID uuid.UUID
	NewStart  time.Time
}

type SubmitRatingParams struct {
	BookingID uuid.UUID
	Rating    int
	Comment   string
}

// SessionResult is what every lifecycle command hands back to its caller.
type SessionResult struct {
	ID                 uuid.UUID
	UID                uuid.UUID
	MentorID           uuid.UUID
	ProfileID          uuid.UUID
	Status             booking.Status
	StartTime          time.Time
	EndTime            time.Time
	MeetLink           string
	CancellationReason *string
	CompletedAt        *time.Time
	RescheduleCount    int
}

func newSessionResult(b *booking.Booking) *SessionResult {
	return &SessionResult{
		ID:                 b.ID(),
		UID:                b.UID(),
		MentorID:           b.MentorID(),
		ProfileID:          b.ProfileID(),
		Status:             b.Status(),
		StartTime:          b.TimeSlot().Start(),
		EndTime:            b.TimeSlot().End(),
		MeetLink:           b.MeetLink(),
		CancellationReason: b.CancellationReason(),
		CompletedAt:        b.CompletedAt(),
		RescheduleCount:    b.Metadata().Int(booking.MetaRescheduleCount),
	}
}

type RatingResult struct {
	BookingID     uuid.UUID
	ProfileID     uuid.UUID
	Rating        int
	AverageRating *float64
}
