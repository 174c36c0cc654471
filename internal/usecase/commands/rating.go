package commands

import (
	"context"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/usecase/shared"
)

func (uc *bookingCommandsImpl) SubmitRating(ctx context.Context, p SubmitRatingParams) (*RatingResult, error) {
	var result *RatingResult
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := loadBooking(ctx, tx, p.BookingID)
		if derr != nil {
			return derr
		}
		if b.IsCancelled() || !b.IsCompleted() {
			return booking.ErrNotCompleted
		}

		rating, derr := mentor.NewRating(b.ID(), b.ProfileID(), p.Rating, p.Comment, uc.services.Clock.Now())
		if derr != nil {
			return derr
		}
		if derr = tx.Ratings().Create(ctx, rating); derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return mentor.ErrRatingExists
			}
			return derr
		}

		avg, derr := uc.stats.RecalculateAverageRating(ctx, tx, b.ProfileID())
		if derr != nil {
			return derr
		}
		result = &RatingResult{
			BookingID:     b.ID(),
			ProfileID:     b.ProfileID(),
			Rating:        rating.Value(),
			AverageRating: avg,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.stats.Invalidate(ctx, result.ProfileID)
	return result, nil
}
