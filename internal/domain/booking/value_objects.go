package booking

import (
	"net/mail"
	"strings"
	"time"
)

const (
	MaxStudentNameLength = 100
	MaxQuestionLength    = 1000
)

// TimeSlot is a half-open range [start, end) whose length is always SessionDuration.
type TimeSlot struct {
	start time.Time
	end   time.Time
}

func NewTimeSlot(start time.Time) (TimeSlot, error) {
	if start.IsZero() {
		return TimeSlot{}, ErrInvalidTimeSlot
	}
	return TimeSlot{start: start, end: SessionEnd(start)}, nil
}

// ReconstructTimeSlot rebuilds a slot read from storage and rejects rows that break the fixed duration.
func ReconstructTimeSlot(start, end time.Time) (TimeSlot, error) {
	if end.Sub(start) != SessionDuration {
		return TimeSlot{}, ErrInvalidDuration
	}
	return TimeSlot{start: start, end: end}, nil
}

func (s TimeSlot) Start() time.Time { return s.start }
func (s TimeSlot) End() time.Time   { return s.end }

func (s TimeSlot) Duration() time.Duration {
	return s.end.Sub(s.start)
}

// Overlaps covers start-inside, end-inside and containment; touching edges do not overlap.
func (s TimeSlot) Overlaps(start, end time.Time) bool {
	return s.start.Before(end) && s.end.After(start)
}

type Student struct {
	name     string
	email    string
	question string
}

func NewStudent(name, email, question string) (Student, error) {
	n := strings.TrimSpace(name)
	if n == "" || len(n) > MaxStudentNameLength {
		return Student{}, ErrInvalidStudent
	}

	e := strings.TrimSpace(email)
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return Student{}, ErrInvalidStudent
	}

	q := strings.TrimSpace(question)
	if len(q) > MaxQuestionLength {
		return Student{}, ErrInvalidStudent
	}

	return Student{name: n, email: e, question: q}, nil
}

func (s Student) Name() string     { return s.name }
func (s Student) Email() string    { return s.email }
func (s Student) Question() string { return s.question }
