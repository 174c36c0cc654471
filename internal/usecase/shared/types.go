package shared

import (
	"encoding/json"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"

	"github.com/google/uuid"
)

type SessionTypeSnapshot struct {
	ID            int64
	MentorID      uuid.UUID
	Slug          string
	LengthMinutes int
}

func (s SessionTypeSnapshot) Length() time.Duration {
	return time.Duration(s.LengthMinutes) * time.Minute
}

type RatingAggregate struct {
	Average *float64
	Count   int
}

type EffectStatus string

const (
	EffectPending EffectStatus = "pending"
	EffectApplied EffectStatus = "applied"
	EffectFailed  EffectStatus = "failed"
)

// Effect is an outbox row: the counter, cache and webhook work owed for one lifecycle change.
type Effect struct {
	ID        uuid.UUID
	BookingID uuid.UUID
	ProfileID uuid.UUID
	MentorID  uuid.UUID
	Event     booking.EventType
	Counter   *mentor.Counter
	Payload   json.RawMessage
	Status    EffectStatus
	Attempts  int
	LastError *string
	RunAt     time.Time
	CreatedAt time.Time
}

func NewEffect(b *booking.Booking, event booking.EventType, counter *mentor.Counter, now time.Time) (*Effect, error) {
	payload, err := json.Marshal(booking.NewEventPayload(b))
	if err != nil {
		return nil, err
	}
	return &Effect{
		ID:        uuid.New(),
		BookingID: b.ID(),
		ProfileID: b.ProfileID(),
		MentorID:  b.MentorID(),
		Event:     event,
		Counter:   counter,
		Payload:   payload,
		Status:    EffectPending,
		RunAt:     now,
		CreatedAt: now,
	}, nil
}
