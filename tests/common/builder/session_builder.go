//go:build unit || e2e

package builder

import (
	"time"

	"mentor-booking/internal/domain/booking"
	reqdto "mentor-booking/internal/handler/dto/request"
	"mentor-booking/internal/usecase/commands"
	"mentor-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type SessionBuilder struct {
	ID           uuid.UUID
	UID          uuid.UUID
	MentorID     uuid.UUID
	ProfileID    uuid.UUID
	Start        time.Time
	Status       booking.Status
	MeetLink     string
	StudentName  string
	StudentEmail string
	Question     string
}

func NewSessionBuilder() *SessionBuilder {
	return &SessionBuilder{
		ID:           uuid.New(),
		UID:          uuid.New(),
		MentorID:     uuid.New(),
		ProfileID:    uuid.New(),
		Start:        time.Now().UTC().Add(24 * time.Hour).Truncate(15 * time.Minute),
		Status:       booking.StatusPending,
		MeetLink:     "https://meet.google.com/abc-defg-hij",
		StudentName:  "Alan Turing",
		StudentEmail: "alan@example.com",
		Question:     "How should I structure my first Go service?",
	}
}

func (b *SessionBuilder) With(mutate func(*SessionBuilder)) *SessionBuilder {
	mutate(b)
	return b
}

func (b *SessionBuilder) BuildCreateRequestDTO() reqdto.CreateSessionRequest {
	return reqdto.CreateSessionRequest{
		Start:        b.Start,
		StudentName:  b.StudentName,
		StudentEmail: b.StudentEmail,
		Question:     b.Question,
	}
}

func (b *SessionBuilder) BuildResult() *commands.SessionResult {
	return &commands.SessionResult{
		ID:        b.ID,
		UID:       b.UID,
		MentorID:  b.MentorID,
		ProfileID: b.ProfileID,
		Status:    b.Status,
		StartTime: b.Start,
		EndTime:   booking.SessionEnd(b.Start),
		MeetLink:  b.MeetLink,
	}
}

func (b *SessionBuilder) BuildView() *queries.BookingView {
	now := time.Now().UTC()
	return &queries.BookingView{
		ID:          b.ID,
		UID:         b.UID,
		ProfileID:   b.ProfileID,
		MentorName:  "Grace Hopper",
		StartTime:   b.Start,
		EndTime:     booking.SessionEnd(b.Start),
		Status:      b.Status.String(),
		MeetLink:    b.MeetLink,
		StudentName: b.StudentName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
