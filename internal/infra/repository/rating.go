package repository

import (
	"context"

	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/infra/db"
	"mentor-booking/internal/pkg/pgconv"
	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertRatingSQL = `
		INSERT INTO session_ratings (id, booking_id, profile_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	aggregateRatingSQL = `
		SELECT AVG(rating)::numeric, COUNT(*)
		FROM session_ratings
		WHERE profile_id = $1`
)

type RatingRepository struct {
	db db.DBTX
}

func NewRatingRepository(db db.DBTX) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *mentor.Rating) error {
	_, err := r.db.Exec(ctx, insertRatingSQL,
		rating.ID(),
		rating.BookingID(),
		rating.ProfileID(),
		rating.Value(),
		rating.Comment(),
		rating.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create rating", err)
	}
	return nil
}

func (r *RatingRepository) Aggregate(ctx context.Context, profileID uuid.UUID) (shared.RatingAggregate, error) {
	var (
		avg   pgtype.Numeric
		count int64
	)
	if err := r.db.QueryRow(ctx, aggregateRatingSQL, profileID).Scan(&avg, &count); err != nil {
		return shared.RatingAggregate{}, infra.WrapRepoErr("failed to aggregate ratings", err)
	}

	average, err := pgconv.Float64PtrFromNumeric(avg)
	if err != nil {
		return shared.RatingAggregate{}, infra.WrapRepoErr("failed to decode average rating", err, infra.KindDBFailure)
	}
	return shared.RatingAggregate{Average: average, Count: int(count)}, nil
}
