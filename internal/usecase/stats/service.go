package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/config"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const cacheKeyPrefix = "stats:"

func CacheKey(profileID uuid.UUID) string {
	return cacheKeyPrefix + profileID.String()
}

type StatsReadStore interface {
	FindStats(ctx context.Context, profileID uuid.UUID) (*mentor.Stats, error)
}

// Service owns every write to the profile counters and the cached read path.
type Service interface {
	IncrementCounter(ctx context.Context, tx shared.Tx, profileID uuid.UUID, counter mentor.Counter) error
	RecalculateAverageRating(ctx context.Context, tx shared.Tx, profileID uuid.UUID) (*float64, error)
	GetStats(ctx context.Context, profileID uuid.UUID) (*mentor.Stats, error)
	Invalidate(ctx context.Context, profileID uuid.UUID)
}

type serviceImpl struct {
	store  StatsReadStore
	cache  shared.Cache
	ttl    time.Duration
	clock  clock.Clock
	logger *slog.Logger
}

func NewService(store StatsReadStore, cache shared.Cache, cfg config.Config, clk clock.Clock, logger *slog.Logger) Service {
	return &serviceImpl{
		store:  store,
		cache:  cache,
		ttl:    cfg.Cache.StatsTTL,
		clock:  clk,
		logger: logger,
	}
}

func (s *serviceImpl) IncrementCounter(ctx context.Context, tx shared.Tx, profileID uuid.UUID, counter mentor.Counter) error {
	if _, err := mentor.ParseCounter(counter.String()); err != nil {
		return err
	}
	if err := tx.Stats().Increment(ctx, profileID, counter); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return mentor.ErrProfileNotFound
		}
		return err
	}
	return nil
}

func (s *serviceImpl) RecalculateAverageRating(ctx context.Context, tx shared.Tx, profileID uuid.UUID) (*float64, error) {
	agg, err := tx.Ratings().Aggregate(ctx, profileID)
	if err != nil {
		return nil, err
	}

	var flaggedAt *time.Time
	if agg.Average != nil {
		rounded := mentor.RoundRating(*agg.Average)
		agg.Average = &rounded
		if mentor.IsLowRating(rounded) {
			now := s.clock.Now()
			flaggedAt = &now
			s.logger.Warn("mentor average rating is low",
				"profile_id", profileID.String(),
				"average_rating", rounded,
				"rating_count", agg.Count)
		}
	}

	if err := tx.Stats().SaveRating(ctx, profileID, agg, flaggedAt); err != nil {
		return nil, err
	}
	return agg.Average, nil
}

func (s *serviceImpl) GetStats(ctx context.Context, profileID uuid.UUID) (*mentor.Stats, error) {
	key := CacheKey(profileID)

	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("stats cache read failed", "key", key, "error", err.Error())
	} else if ok {
		var cached mentor.Stats
		if uerr := json.Unmarshal(raw, &cached); uerr == nil {
			return &cached, nil
		}
		s.logger.Warn("discarding undecodable stats cache entry", "key", key)
	}

	st, err := s.store.FindStats(ctx, profileID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, mentor.ErrProfileNotFound
		}
		return nil, err
	}

	if encoded, merr := json.Marshal(st); merr == nil {
		if serr := s.cache.Set(ctx, key, encoded, s.ttl); serr != nil {
			s.logger.Warn("stats cache write failed", "key", key, "error", serr.Error())
		}
	}
	return st, nil
}

func (s *serviceImpl) Invalidate(ctx context.Context, profileID uuid.UUID) {
	if err := s.cache.Del(ctx, CacheKey(profileID)); err != nil {
		s.logger.Warn("stats cache invalidation failed", "profile_id", profileID.String(), "error", err.Error())
	}
}
