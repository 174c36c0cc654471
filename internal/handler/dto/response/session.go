package response

import (
	"time"

	"mentor-booking/internal/domain/availability"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SessionResponse struct {
	ID                 uuid.UUID  `json:"id"`
	UID                uuid.UUID  `json:"uid"`
	ProfileID          uuid.UUID  `json:"profile_id"`
	Status             string     `json:"status"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	MeetLink           string     `json:"meet_link"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	RescheduleCount    int        `json:"reschedule_count"`
}

func FromSessionResult(r *commands.SessionResult) (*SessionResponse, error) {
	var res SessionResponse
	if err := copier.Copy(&res, r); err != nil {
		return nil, err
	}
	res.Status = r.Status.String()
	return &res, nil
}

// BookingResponse is served to anyone holding the share link, so it carries the UID only.
type BookingResponse struct {
	UID                uuid.UUID  `json:"uid"`
	ProfileID          uuid.UUID  `json:"profile_id"`
	MentorName         string     `json:"mentor_name"`
	Status             string     `json:"status"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	MeetLink           string     `json:"meet_link"`
	StudentName        string     `json:"student_name"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	RescheduleCount    int        `json:"reschedule_count"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

type RatingResponse struct {
	BookingID     uuid.UUID `json:"booking_id"`
	Rating        int       `json:"rating"`
	AverageRating *float64  `json:"average_rating"`
}

func FromRatingResult(r *commands.RatingResult) *RatingResponse {
	return &RatingResponse{
		BookingID:     r.BookingID,
		Rating:        r.Rating,
		AverageRating: r.AverageRating,
	}
}

type SlotResponse struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

type AvailabilityResponse struct {
	ProfileID uuid.UUID      `json:"profile_id"`
	From      string         `json:"from"`
	To        string         `json:"to"`
	Slots     []SlotResponse `json:"slots"`
}

func FromSlots(profileID uuid.UUID, r availability.Range, slots []availability.Slot) (*AvailabilityResponse, error) {
	res := &AvailabilityResponse{
		ProfileID: profileID,
		From:      r.From().Format(availability.DateLayout),
		To:        r.To().Format(availability.DateLayout),
		Slots:     make([]SlotResponse, 0, len(slots)),
	}
	if err := copier.Copy(&res.Slots, &slots); err != nil {
		return nil, err
	}
	return res, nil
}
