package repository

import (
	"context"
	"time"

	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// one statement per counter so the column name never comes from input
var incrementSQL = map[mentor.Counter]string{
	mentor.CounterTotalSessions: `
		UPDATE mentor_profiles SET total_sessions = total_sessions + 1, updated_at = now() WHERE id = $1`,
	mentor.CounterCompletedSessions: `
		UPDATE mentor_profiles SET completed_sessions = completed_sessions + 1, updated_at = now() WHERE id = $1`,
	mentor.CounterCancelledSessions: `
		UPDATE mentor_profiles SET cancelled_sessions = cancelled_sessions + 1, updated_at = now() WHERE id = $1`,
}

const saveRatingSQL = `
	UPDATE mentor_profiles
	SET average_rating = $2,
	    rating_count = $3,
	    low_rating_flagged_at = COALESCE($4, low_rating_flagged_at),
	    updated_at = now()
	WHERE id = $1`

type StatsRepository struct {
	db db.DBTX
}

func NewStatsRepository(db db.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) Increment(ctx context.Context, profileID uuid.UUID, counter mentor.Counter) error {
	stmt, ok := incrementSQL[counter]
	if !ok {
		return mentor.ErrUnknownCounter
	}
	tag, err := r.db.Exec(ctx, stmt, profileID)
	if err != nil {
		return infra.WrapRepoErr("failed to increment "+counter.String(), err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("mentor profile not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *StatsRepository) SaveRating(ctx context.Context, profileID uuid.UUID, agg shared.RatingAggregate, flaggedAt *time.Time) error {
	_, err := r.db.Exec(ctx, saveRatingSQL, profileID, agg.Average, agg.Count, pgconv.TimePtrToPgtype(flaggedAt))
	if err != nil {
		return infra.WrapRepoErr("failed to save average rating", err)
	}
	return nil
}
