package booking

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventCreated     EventType = "booking.created"
	EventCancelled   EventType = "booking.cancelled"
	EventCompleted   EventType = "booking.completed"
	EventRescheduled EventType = "booking.rescheduled"
)

func (e EventType) String() string { return string(e) }

// EventPayload is the webhook payload shared by every booking event.
type EventPayload struct {
	BookingID          uuid.UUID  `json:"bookingId"`
	UID                uuid.UUID  `json:"uid"`
	MentorID           uuid.UUID  `json:"mentorId"`
	ProfileID          uuid.UUID  `json:"profileId"`
	Status             Status     `json:"status"`
	StartTime          time.Time  `json:"startTime"`
	EndTime            time.Time  `json:"endTime"`
	MeetLink           string     `json:"meetLink,omitempty"`
	StudentName        string     `json:"studentName,omitempty"`
	StudentEmail       string     `json:"studentEmail,omitempty"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledBy        string     `json:"cancelledBy,omitempty"`
	PreviousStart      string     `json:"previousStart,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
}

func NewEventPayload(b *Booking) EventPayload {
	return EventPayload{
		BookingID:          b.id,
		UID:                b.uid,
		MentorID:           b.mentorID,
		ProfileID:          b.profileID,
		Status:             b.status,
		StartTime:          b.slot.Start().UTC(),
		EndTime:            b.slot.End().UTC(),
		MeetLink:           b.MeetLink(),
		StudentName:        b.metadata.String(MetaStudentName),
		StudentEmail:       b.metadata.String(MetaStudentEmail),
		CancellationReason: b.cancellationReason,
		CancelledBy:        b.metadata.String(MetaCancelledBy),
		PreviousStart:      b.metadata.String(MetaPreviousStart),
		CompletedAt:        b.completedAt,
	}
}
