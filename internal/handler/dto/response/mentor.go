package response

import (
	"time"

	"mentor-booking/internal/domain/mentor"

	"github.com/google/uuid"
)

type StatsResponse struct {
	ProfileID         uuid.UUID `json:"profile_id"`
	TotalSessions     int       `json:"total_sessions"`
	CompletedSessions int       `json:"completed_sessions"`
	CancelledSessions int       `json:"cancelled_sessions"`
	AverageRating     *float64  `json:"average_rating"`
	RatingCount       int       `json:"rating_count"`
	LowRatingFlagged  bool      `json:"low_rating_flagged"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromStats(s *mentor.Stats) *StatsResponse {
	return &StatsResponse{
		ProfileID:         s.ProfileID,
		TotalSessions:     s.TotalSessions,
		CompletedSessions: s.CompletedSessions,
		CancelledSessions: s.CancelledSessions,
		AverageRating:     s.AverageRating,
		RatingCount:       s.RatingCount,
		LowRatingFlagged:  s.LowRatingFlaggedAt != nil,
		UpdatedAt:         s.UpdatedAt,
	}
}
