//go:build unit || e2e

package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

// ReadStore serves the query side from the same committed state.
type ReadStore struct {
	s *Store
}

func (s *Store) Reader() *ReadStore {
	return &ReadStore{s: s}
}

func (r *ReadStore) FindProfile(_ context.Context, id uuid.UUID) (*mentor.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.profiles[id]
	if !ok {
		return nil, notFound("mentor profile not found")
	}
	return row.profile, nil
}

func (r *ReadStore) FindStats(_ context.Context, profileID uuid.UUID) (*mentor.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.profiles[profileID]
	if !ok {
		return nil, notFound("mentor profile not found")
	}
	st := row.stats
	return &st, nil
}

func (r *ReadStore) ActiveSlots(_ context.Context, mentorID uuid.UUID, start, end time.Time) ([]booking.TimeSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return bookingRepo{r.s}.ListActiveInRange(context.Background(), mentorID, start, end, nil)
}

func (r *ReadStore) FindByUID(_ context.Context, uid uuid.UUID) (*queries.BookingView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.bookings {
		if b.UID() != uid {
			continue
		}
		meta := b.Metadata()
		return &queries.BookingView{
			ID:                 b.ID(),
			UID:                b.UID(),
			ProfileID:          b.ProfileID(),
			MentorName:         r.s.profiles[b.ProfileID()].profile.DisplayName(),
			StartTime:          b.TimeSlot().Start(),
			EndTime:            b.TimeSlot().End(),
			Status:             b.Status().String(),
			CancellationReason: b.CancellationReason(),
			MeetLink:           b.MeetLink(),
			StudentName:        meta.String(booking.MetaStudentName),
			RescheduleCount:    meta.Int(booking.MetaRescheduleCount),
			CompletedAt:        b.CompletedAt(),
			CancelledAt:        b.CancelledAt(),
			CreatedAt:          b.CreatedAt(),
			UpdatedAt:          b.UpdatedAt(),
		}, nil
	}
	return nil, notFound("booking not found")
}

type SentEvent struct {
	Event   booking.EventType
	Payload any
}

// Sender records webhook events instead of posting them.
type Sender struct {
	mu     sync.Mutex
	events []SentEvent
}

func (s *Sender) Send(event booking.EventType, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, SentEvent{Event: event, Payload: payload})
}

func (s *Sender) Events() []SentEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SentEvent(nil), s.events...)
}

func (s *Sender) Types() []booking.EventType {
	events := s.Events()
	out := make([]booking.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Event)
	}
	return out
}
