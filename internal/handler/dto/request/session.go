package request

import (
	"time"

	"mentor-booking/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	Start        time.Time `json:"start" binding:"required"`
	StudentName  string    `json:"student_name" binding:"required,max=100"`
	StudentEmail string    `json:"student_email" binding:"required,email"`
	Question     string    `json:"question" binding:"max=1000"`
}

func (r *CreateSessionRequest) ToParams(profileID uuid.UUID) commands.CreateSessionParams {
	return commands.CreateSessionParams{
		ProfileID: profileID,
		Start:     r.Start,
		Student: commands.StudentInput{
			Name:     r.StudentName,
			Email:    r.StudentEmail,
			Question: r.Question,
		},
	}
}

type CancelSessionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type RescheduleSessionRequest struct {
	NewStart time.Time `json:"new_start" binding:"required"`
}

type SubmitRatingRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

type AvailabilityQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}
