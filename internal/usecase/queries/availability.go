package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"mentor-booking/internal/domain/availability"
	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// AvailabilityCacheKey embeds the mentor's version token, so a bump orphans every older entry at once.
func AvailabilityCacheKey(mentorID uuid.UUID, version int64, r availability.Range) string {
	return fmt.Sprintf("availability:%s:v%d:%s", mentorID, version, r.Key())
}

type AvailabilityQueries interface {
	GetSlots(ctx context.Context, profileID uuid.UUID, r availability.Range) ([]availability.Slot, error)
}

type MentorProfileStore interface {
	FindProfile(ctx context.Context, profileID uuid.UUID) (*mentor.Profile, error)
}

type BookingSlotStore interface {
	ActiveSlots(ctx context.Context, mentorID uuid.UUID, start, end time.Time) ([]booking.TimeSlot, error)
}

type availabilityQueriesImpl struct {
	mentors  MentorProfileStore
	bookings BookingSlotStore
	cache    shared.Cache
	versions shared.VersionStore
	clock    clock.Clock
	ttl      time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewAvailabilityQueries(
	mentors MentorProfileStore,
	bookings BookingSlotStore,
	cache shared.Cache,
	versions shared.VersionStore,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		mentors:  mentors,
		bookings: bookings,
		cache:    cache,
		versions: versions,
		clock:    clk,
		ttl:      cfg.Cache.AvailabilityTTL,
		timeout:  cfg.DB.QueryTimeout,
		logger:   logger,
	}
}

func (q *availabilityQueriesImpl) GetSlots(ctx context.Context, profileID uuid.UUID, r availability.Range) ([]availability.Slot, error) {
	now := q.clock.Now()
	if r.StartsBefore(now) {
		return nil, availability.ErrInvalidRange
	}
	if !booking.IsWithinLookaheadWindow(r.End(), now) {
		return nil, availability.ErrBeyondLookahead
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	profile, err := q.mentors.FindProfile(ctx, profileID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, mentor.ErrProfileNotFound
		}
		return nil, err
	}
	if !profile.IsActive() {
		return []availability.Slot{}, nil
	}
	mentorID := profile.OwnerID()

	key, cached := q.lookup(ctx, mentorID, r)
	if cached != nil {
		return cached, nil
	}

	busy, err := q.bookings.ActiveSlots(ctx, mentorID, r.Start(), r.End())
	if err != nil {
		return nil, err
	}
	slots := availability.MarkUnavailable(availability.GenerateGrid(r), busy, now.Add(booking.MinimumNotice))

	if key != "" {
		q.store(ctx, key, slots)
	}
	return slots, nil
}

// lookup returns an empty key when the version store is unreachable; the caller then skips caching.
func (q *availabilityQueriesImpl) lookup(ctx context.Context, mentorID uuid.UUID, r availability.Range) (string, []availability.Slot) {
	version, err := q.versions.Current(ctx, mentorID)
	if err != nil {
		q.logger.Warn("availability version read failed", "mentor_id", mentorID.String(), "error", err.Error())
		return "", nil
	}
	key := AvailabilityCacheKey(mentorID, version, r)

	raw, ok, err := q.cache.Get(ctx, key)
	if err != nil {
		q.logger.Warn("availability cache read failed", "key", key, "error", err.Error())
		return key, nil
	}
	if !ok {
		return key, nil
	}

	var slots []availability.Slot
	if err := json.Unmarshal(raw, &slots); err != nil {
		q.logger.Warn("discarding undecodable availability cache entry", "key", key)
		return key, nil
	}
	return key, slots
}

func (q *availabilityQueriesImpl) store(ctx context.Context, key string, slots []availability.Slot) {
	encoded, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := q.cache.Set(ctx, key, encoded, q.ttl); err != nil {
		q.logger.Warn("availability cache write failed", "key", key, "error", err.Error())
	}
}
