package mentor

import (
	"math"
	"strings"
	"time"

	"mentor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxCommentLength   = 1000
	LowRatingThreshold = 2.0
)

var (
	ErrInvalidRating     = errs.BadRequest("rating must be between 1 and 5")
	ErrCommentTooLong    = errs.BadRequest("comment is too long")
	ErrRatingExists      = errs.Conflict("booking has already been rated")
	ErrProfileNotFound   = errs.NotFound("mentor profile not found")
	ErrProfileInactive   = errs.BadRequest("mentor profile is inactive")
	ErrSessionTypeLength = errs.Internal("session type length does not match the fixed session duration")
)

type Rating struct {
	id        uuid.UUID
	bookingID uuid.UUID
	profileID uuid.UUID
	value     int
	comment   string
	createdAt time.Time
}

func NewRating(bookingID, profileID uuid.UUID, value int, comment string, now time.Time) (*Rating, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}
	c := strings.TrimSpace(comment)
	if len(c) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}
	return &Rating{
		id:        uuid.New(),
		bookingID: bookingID,
		profileID: profileID,
		value:     value,
		comment:   c,
		createdAt: now,
	}, nil
}

func (r *Rating) ID() uuid.UUID        { return r.id }
func (r *Rating) BookingID() uuid.UUID { return r.bookingID }
func (r *Rating) ProfileID() uuid.UUID { return r.profileID }
func (r *Rating) Value() int           { return r.value }
func (r *Rating) Comment() string      { return r.comment }
func (r *Rating) CreatedAt() time.Time { return r.createdAt }

// RoundRating rounds a mean rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func IsLowRating(avg float64) bool {
	return avg <= LowRatingThreshold
}
