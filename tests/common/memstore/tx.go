//go:build unit || e2e

package memstore

import (
	"context"
	"sort"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// memTx runs with Store.mu already held.
type memTx struct {
	s *Store
}

func (t *memTx) Bookings() shared.BookingRepository         { return bookingRepo{t.s} }
func (t *memTx) SessionTypes() shared.SessionTypeRepository { return sessionTypeRepo{t.s} }
func (t *memTx) Profiles() shared.ProfileRepository         { return profileRepo{t.s} }
func (t *memTx) Stats() shared.StatsRepository              { return statsRepo{t.s} }
func (t *memTx) Ratings() shared.RatingRepository           { return ratingRepo{t.s} }
func (t *memTx) Effects() shared.EffectRepository           { return effectRepo{t.s} }
func (t *memTx) DB() db.DBTX                                { return nil }

type bookingRepo struct{ s *Store }

// LockMentor is a no-op: Within already serializes every transaction on the store.
func (r bookingRepo) LockMentor(context.Context, uuid.UUID) error { return nil }

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, notFound("booking not found")
	}
	return cloneBooking(b), nil
}

func (r bookingRepo) ListActiveInRange(_ context.Context, mentorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]booking.TimeSlot, error) {
	var slots []booking.TimeSlot
	for id, b := range r.s.bookings {
		if b.MentorID() != mentorID || !b.Status().IsActive() {
			continue
		}
		if excludeID != nil && id == *excludeID {
			continue
		}
		if b.TimeSlot().Overlaps(start, end) {
			slots = append(slots, b.TimeSlot())
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Start().Before(slots[j].Start()) })
	return slots, nil
}

func (r bookingRepo) Create(_ context.Context, b *booking.Booking) error {
	if _, exists := r.s.bookings[b.ID()]; exists {
		return infra.WrapRepoErr("booking already exists", errs.New("duplicate key"), infra.KindDuplicateKey)
	}
	if r.s.overlapsActive(b) {
		return infra.WrapRepoErr("booking overlaps", errs.New("exclusion violation"), infra.KindConflict)
	}
	r.s.bookings[b.ID()] = cloneBooking(b)
	return nil
}

func (r bookingRepo) Update(_ context.Context, b *booking.Booking) error {
	if _, exists := r.s.bookings[b.ID()]; !exists {
		return notFound("booking not found")
	}
	if r.s.overlapsActive(b) {
		return infra.WrapRepoErr("booking overlaps", errs.New("exclusion violation"), infra.KindConflict)
	}
	r.s.bookings[b.ID()] = cloneBooking(b)
	return nil
}

type sessionTypeRepo struct{ s *Store }

func (r sessionTypeRepo) EnsureDefault(_ context.Context, mentorID uuid.UUID) (*shared.SessionTypeSnapshot, error) {
	st, ok := r.s.sessionTypes[mentorID]
	if !ok {
		r.s.nextTypeID++
		st = shared.SessionTypeSnapshot{
			ID:            r.s.nextTypeID,
			MentorID:      mentorID,
			Slug:          "mentoring-15",
			LengthMinutes: r.s.SessionTypeLength,
		}
		r.s.sessionTypes[mentorID] = st
	}
	return &st, nil
}

type profileRepo struct{ s *Store }

func (r profileRepo) FindByID(_ context.Context, id uuid.UUID) (*mentor.Profile, error) {
	row, ok := r.s.profiles[id]
	if !ok {
		return nil, notFound("mentor profile not found")
	}
	return row.profile, nil
}

type statsRepo struct{ s *Store }

func (r statsRepo) Increment(_ context.Context, profileID uuid.UUID, counter mentor.Counter) error {
	if r.s.FailIncrement != nil {
		return r.s.FailIncrement
	}
	row, ok := r.s.profiles[profileID]
	if !ok {
		return notFound("mentor profile not found")
	}
	switch counter {
	case mentor.CounterTotalSessions:
		row.stats.TotalSessions++
	case mentor.CounterCompletedSessions:
		row.stats.CompletedSessions++
	case mentor.CounterCancelledSessions:
		row.stats.CancelledSessions++
	default:
		return mentor.ErrUnknownCounter
	}
	r.s.profiles[profileID] = row
	return nil
}

func (r statsRepo) SaveRating(_ context.Context, profileID uuid.UUID, agg shared.RatingAggregate, flaggedAt *time.Time) error {
	row, ok := r.s.profiles[profileID]
	if !ok {
		return notFound("mentor profile not found")
	}
	row.stats = statsWithRating(row.stats, agg, flaggedAt, time.Now())
	r.s.profiles[profileID] = row
	return nil
}

type ratingRepo struct{ s *Store }

func (r ratingRepo) Create(_ context.Context, rt *mentor.Rating) error {
	if _, exists := r.s.ratings[rt.BookingID()]; exists {
		return infra.WrapRepoErr("rating already exists", errs.New("duplicate key"), infra.KindDuplicateKey)
	}
	r.s.ratings[rt.BookingID()] = rt
	return nil
}

func (r ratingRepo) Aggregate(_ context.Context, profileID uuid.UUID) (shared.RatingAggregate, error) {
	var sum, count int
	for _, rt := range r.s.ratings {
		if rt.ProfileID() == profileID {
			sum += rt.Value()
			count++
		}
	}
	if count == 0 {
		return shared.RatingAggregate{}, nil
	}
	avg := float64(sum) / float64(count)
	return shared.RatingAggregate{Average: &avg, Count: count}, nil
}

type effectRepo struct{ s *Store }

func (r effectRepo) Enqueue(_ context.Context, e *shared.Effect) error {
	r.s.effects[e.ID] = *e
	return nil
}

func (r effectRepo) ClaimByID(_ context.Context, id uuid.UUID) (*shared.Effect, error) {
	e, ok := r.s.effects[id]
	if !ok || e.Status != shared.EffectPending {
		return nil, nil
	}
	return &e, nil
}

func (r effectRepo) ListDue(_ context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	var due []shared.Effect
	for _, e := range r.s.effects {
		if e.Status == shared.EffectPending && !e.RunAt.After(now) {
			due = append(due, e)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	ids := make([]uuid.UUID, 0, len(due))
	for _, e := range due {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (r effectRepo) MarkApplied(_ context.Context, id uuid.UUID, _ time.Time) error {
	e, ok := r.s.effects[id]
	if !ok {
		return notFound("booking effect not found")
	}
	e.Status = shared.EffectApplied
	e.LastError = nil
	r.s.effects[id] = e
	return nil
}

func (r effectRepo) MarkRetry(_ context.Context, id uuid.UUID, attempts int, lastErr string, runAt time.Time, status shared.EffectStatus) error {
	e, ok := r.s.effects[id]
	if !ok {
		return notFound("booking effect not found")
	}
	e.Attempts = attempts
	e.LastError = &lastErr
	e.RunAt = runAt
	e.Status = status
	r.s.effects[id] = e
	return nil
}
