//go:build unit || e2e

// Package memstore is an in-memory stand-in for the Postgres unit of work. Transactions are
// serialised by one lock and rolled back by restoring a snapshot, which reproduces the
// per-mentor advisory lock and the overlap exclusion constraint closely enough for usecase tests.
package memstore

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var errNoRows = errs.New("no rows in result set")

type profileRow struct {
	profile *mentor.Profile
	stats   mentor.Stats
}

type Store struct {
	mu sync.Mutex

	profiles     map[uuid.UUID]profileRow
	bookings     map[uuid.UUID]*booking.Booking
	sessionTypes map[uuid.UUID]shared.SessionTypeSnapshot
	ratings      map[uuid.UUID]*mentor.Rating
	effects      map[uuid.UUID]shared.Effect
	nextTypeID   int64

	// SessionTypeLength overrides the length of lazily created session types.
	SessionTypeLength int
	// FailIncrement makes every counter increment return this error.
	FailIncrement error
	// Commits counts successful Within calls.
	Commits int
}

func New() *Store {
	return &Store{
		profiles:          map[uuid.UUID]profileRow{},
		bookings:          map[uuid.UUID]*booking.Booking{},
		sessionTypes:      map[uuid.UUID]shared.SessionTypeSnapshot{},
		ratings:           map[uuid.UUID]*mentor.Rating{},
		effects:           map[uuid.UUID]shared.Effect{},
		SessionTypeLength: 15,
	}
}

// AddProfile seeds a mentor profile with zeroed statistics and returns it.
func (s *Store) AddProfile(ownerID uuid.UUID, name string, active bool) *mentor.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := mentor.ReconstructProfile(uuid.New(), ownerID, name, active)
	s.profiles[p.ID()] = profileRow{profile: p, stats: mentor.Stats{ProfileID: p.ID()}}
	return p
}

// PutBooking stores b as if it had been committed.
func (s *Store) PutBooking(b *booking.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = cloneBooking(b)
}

func (s *Store) Booking(id uuid.UUID) *booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil
	}
	return cloneBooking(b)
}

func (s *Store) StatsOf(profileID uuid.UUID) mentor.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profiles[profileID].stats
}

func (s *Store) Effect(id uuid.UUID) (shared.Effect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.effects[id]
	return e, ok
}

// Effects returns every outbox row ordered by creation time.
func (s *Store) Effects() []shared.Effect {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shared.Effect, 0, len(s.effects))
	for _, e := range s.effects {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Store) ActiveBookings(mentorID uuid.UUID) []*booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*booking.Booking
	for _, b := range s.bookings {
		if b.MentorID() == mentorID && b.Status().IsActive() {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

// Within runs fn with the whole store locked and restores the previous state when fn fails.
func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx, &memTx{s: s}); err != nil {
		s.restore(snap)
		return err
	}
	s.Commits++
	return nil
}

func (s *Store) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (s *Store) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

type snapshot struct {
	profiles     map[uuid.UUID]profileRow
	bookings     map[uuid.UUID]*booking.Booking
	sessionTypes map[uuid.UUID]shared.SessionTypeSnapshot
	ratings      map[uuid.UUID]*mentor.Rating
	effects      map[uuid.UUID]shared.Effect
	nextTypeID   int64
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		profiles:     maps.Clone(s.profiles),
		bookings:     maps.Clone(s.bookings),
		sessionTypes: maps.Clone(s.sessionTypes),
		ratings:      maps.Clone(s.ratings),
		effects:      maps.Clone(s.effects),
		nextTypeID:   s.nextTypeID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.profiles = snap.profiles
	s.bookings = snap.bookings
	s.sessionTypes = snap.sessionTypes
	s.ratings = snap.ratings
	s.effects = snap.effects
	s.nextTypeID = snap.nextTypeID
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, errNoRows, infra.KindNotFound)
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.Reconstruct(
		b.ID(), b.UID(), b.MentorID(), b.ProfileID(), b.SessionTypeID(), b.TimeSlot(), b.Status(),
		b.CancellationReason(), b.MeetCode(), b.Metadata(), b.CompletedAt(), b.CancelledAt(),
		b.CreatedAt(), b.UpdatedAt(),
	)
}

// overlapsActive emulates the exclusion constraint on (mentor_id, tstzrange) for live bookings.
func (s *Store) overlapsActive(b *booking.Booking) bool {
	if !b.Status().IsActive() {
		return false
	}
	for id, other := range s.bookings {
		if id == b.ID() || other.MentorID() != b.MentorID() || !other.Status().IsActive() {
			continue
		}
		if other.TimeSlot().Overlaps(b.TimeSlot().Start(), b.TimeSlot().End()) {
			return true
		}
	}
	return false
}

func statsWithRating(st mentor.Stats, agg shared.RatingAggregate, flaggedAt *time.Time, now time.Time) mentor.Stats {
	st.AverageRating = agg.Average
	st.RatingCount = agg.Count
	if st.LowRatingFlaggedAt == nil {
		st.LowRatingFlaggedAt = flaggedAt
	}
	st.UpdatedAt = now
	return st
}
