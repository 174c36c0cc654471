package commands

import (
	"context"
	"time"

	"mentor-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// hasConflict reads the authoritative store inside the caller's transaction, never the availability cache.
func hasConflict(ctx context.Context, repo shared.BookingRepository, mentorID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	existing, err := repo.ListActiveInRange(ctx, mentorID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	for _, slot := range existing {
		if slot.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
