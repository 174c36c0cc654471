package shared

import (
	"context"
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Bookings() BookingRepository
	SessionTypes() SessionTypeRepository
	Profiles() ProfileRepository
	Stats() StatsRepository
	Ratings() RatingRepository
	Effects() EffectRepository
	DB() db.DBTX
}

type BookingRepository interface {
	// LockMentor serialises writers for one mentor until the transaction ends.
	LockMentor(ctx context.Context, mentorID uuid.UUID) error
	// FindByID loads the booking and locks its row.
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	// ListActiveInRange returns pending/accepted slots intersecting [start, end).
	ListActiveInRange(ctx context.Context, mentorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]booking.TimeSlot, error)
	Create(ctx context.Context, b *booking.Booking) error
	Update(ctx context.Context, b *booking.Booking) error
}

type SessionTypeRepository interface {
	// EnsureDefault returns the mentor's 15 minute session type, creating it on first use.
	EnsureDefault(ctx context.Context, mentorID uuid.UUID) (*SessionTypeSnapshot, error)
}

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*mentor.Profile, error)
}

type StatsRepository interface {
	// Increment is a single atomic UPDATE ... SET x = x + 1.
	Increment(ctx context.Context, profileID uuid.UUID, counter mentor.Counter) error
	SaveRating(ctx context.Context, profileID uuid.UUID, agg RatingAggregate, flaggedAt *time.Time) error
}

type RatingRepository interface {
	Create(ctx context.Context, r *mentor.Rating) error
	Aggregate(ctx context.Context, profileID uuid.UUID) (RatingAggregate, error)
}

type EffectRepository interface {
	Enqueue(ctx context.Context, e *Effect) error
	// ClaimByID returns nil when the effect is already applied or held by another worker.
	ClaimByID(ctx context.Context, id uuid.UUID) (*Effect, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error)
	MarkApplied(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, attempts int, lastErr string, runAt time.Time, status EffectStatus) error
}

// Cache is the generic TTL key-value store the read paths sit behind.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// VersionStore holds the per-mentor availability version token.
type VersionStore interface {
	// Current creates the token with value 1 when absent.
	Current(ctx context.Context, mentorID uuid.UUID) (int64, error)
	Bump(ctx context.Context, mentorID uuid.UUID) (int64, error)
}

// EventSender delivers lifecycle events without blocking the caller.
type EventSender interface {
	Send(event booking.EventType, payload any)
}

// EffectApplier runs the pending effects a lifecycle command just committed.
type EffectApplier interface {
	Apply(ctx context.Context, ids []uuid.UUID)
}
