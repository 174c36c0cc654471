package booking

import (
	"strings"
	"time"

	"mentor-booking/internal/pkg/clock"
	"mentor-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

type MentorSpec struct {
	ProfileID     uuid.UUID
	MentorID      uuid.UUID
	SessionTypeID int64
}

type MeetingCodes interface {
	NewCode() (string, error)
	JoinURL(code string) string
}

type Services struct {
	Clock clock.Clock
	Codes MeetingCodes
}

type Booking struct {
	id                 uuid.UUID
	uid                uuid.UUID
	mentorID           uuid.UUID
	profileID          uuid.UUID
	sessionTypeID      int64
	slot               TimeSlot
	status             Status
	cancellationReason *string
	meetCode           string
	metadata           Metadata
	completedAt        *time.Time
	cancelledAt        *time.Time
	createdAt          time.Time
	updatedAt          time.Time
}

func NewBooking(services *Services, mentor MentorSpec, slot TimeSlot, student Student) (*Booking, error) {
	now := services.Clock.Now()
	if !IsWithinMinimumNotice(slot.Start(), now) {
		return nil, ErrInsufficientNotice
	}
	if slot.Duration() != SessionDuration {
		return nil, ErrInvalidDuration
	}

	code, err := services.Codes.NewCode()
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "generate meeting code"), errs.ErrInternal)
	}

	meta := Metadata{
		MetaProfileID:    mentor.ProfileID.String(),
		MetaStudentName:  student.Name(),
		MetaStudentEmail: student.Email(),
		MetaMeetLink:     services.Codes.JoinURL(code),
	}
	if student.Question() != "" {
		meta[MetaStudentQuestion] = student.Question()
	}

	return &Booking{
		id:            uuid.New(),
		uid:           uuid.New(),
		mentorID:      mentor.MentorID,
		profileID:     mentor.ProfileID,
		sessionTypeID: mentor.SessionTypeID,
		slot:          slot,
		status:        StatusPending,
		meetCode:      code,
		metadata:      meta,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

func Reconstruct(
	id, uid, mentorID, profileID uuid.UUID,
	sessionTypeID int64,
	slot TimeSlot,
	status Status,
	cancellationReason *string,
	meetCode string,
	metadata Metadata,
	completedAt, cancelledAt *time.Time,
	createdAt, updatedAt time.Time,
) *Booking {
	if metadata == nil {
		metadata = Metadata{}
	}
	return &Booking{
		id:                 id,
		uid:                uid,
		mentorID:           mentorID,
		profileID:          profileID,
		sessionTypeID:      sessionTypeID,
		slot:               slot,
		status:             status,
		cancellationReason: cancellationReason,
		meetCode:           meetCode,
		metadata:           metadata,
		completedAt:        completedAt,
		cancelledAt:        cancelledAt,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// Cancel is terminal. Notice is measured against the original start.
func (b *Booking) Cancel(now time.Time, reason, cancelledBy string) error {
	if b.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if !IsWithinMinimumNotice(b.slot.Start(), now) {
		return ErrInsufficientNotice
	}

	b.status = StatusCancelled
	if r := strings.TrimSpace(reason); r != "" {
		b.cancellationReason = &r
	}
	b.cancelledAt = &now
	b.metadata = b.metadata.clone()
	b.metadata[MetaCancelledBy] = cancelledBy
	b.metadata[MetaCancelledAt] = now.UTC().Format(time.RFC3339)
	b.updatedAt = now
	return nil
}

// Reschedule moves the booking and always issues a join link different from the previous one.
func (b *Booking) Reschedule(services *Services, slot TimeSlot) error {
	if b.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if b.IsCompleted() {
		return ErrAlreadyCompleted
	}
	now := services.Clock.Now()
	if !IsWithinMinimumNotice(slot.Start(), now) {
		return ErrInsufficientNotice
	}

	code, err := b.nextMeetCode(services.Codes)
	if err != nil {
		return err
	}

	previous := b.slot.Start()
	b.slot = slot
	b.meetCode = code
	b.metadata = b.metadata.clone()
	b.metadata[MetaMeetLink] = services.Codes.JoinURL(code)
	b.metadata[MetaPreviousStart] = previous.UTC().Format(time.RFC3339)
	b.metadata[MetaRescheduledAt] = now.UTC().Format(time.RFC3339)
	b.metadata[MetaRescheduleCount] = b.metadata.Int(MetaRescheduleCount) + 1
	b.updatedAt = now
	return nil
}

const maxCodeAttempts = 5

func (b *Booking) nextMeetCode(codes MeetingCodes) (string, error) {
	for range maxCodeAttempts {
		code, err := codes.NewCode()
		if err != nil {
			return "", errs.Mark(errs.Wrap(err, "generate meeting code"), errs.ErrInternal)
		}
		if code != b.meetCode {
			return code, nil
		}
	}
	return "", errs.Internal("could not generate a fresh meeting code")
}

// Complete moves the booking to Accepted once its end time has passed.
func (b *Booking) Complete(now time.Time) error {
	if b.IsCancelled() {
		return ErrAlreadyCancelled
	}
	if b.IsCompleted() {
		return ErrAlreadyCompleted
	}
	if b.slot.End().After(now) {
		return ErrSessionNotEnded
	}

	b.status = StatusAccepted
	b.completedAt = &now
	b.metadata = b.metadata.clone()
	b.metadata[MetaCompletedAt] = now.UTC().Format(time.RFC3339)
	b.updatedAt = now
	return nil
}

func (b *Booking) IsCancelled() bool { return b.status == StatusCancelled }
func (b *Booking) IsCompleted() bool { return b.completedAt != nil }

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) UID() uuid.UUID              { return b.uid }
func (b *Booking) MentorID() uuid.UUID         { return b.mentorID }
func (b *Booking) ProfileID() uuid.UUID        { return b.profileID }
func (b *Booking) SessionTypeID() int64        { return b.sessionTypeID }
func (b *Booking) TimeSlot() TimeSlot          { return b.slot }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) CancellationReason() *string { return b.cancellationReason }
func (b *Booking) MeetCode() string            { return b.meetCode }
func (b *Booking) MeetLink() string            { return b.metadata.String(MetaMeetLink) }
func (b *Booking) Metadata() Metadata          { return b.metadata.clone() }
func (b *Booking) CompletedAt() *time.Time     { return b.completedAt }
func (b *Booking) CancelledAt() *time.Time     { return b.cancelledAt }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
