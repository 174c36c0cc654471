package commands

import (
	"context"
	"log/slog"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/domain/mentor"
	"mentor-booking/internal/infra"
	"mentor-booking/internal/pkg/errs"
	"mentor-booking/internal/usecase/shared"
	"mentor-booking/internal/usecase/stats"

	"github.com/google/uuid"
)

type BookingCommands interface {
	Create(ctx context.Context, p CreateSessionParams) (*SessionResult, error)
	Cancel(ctx context.Context, p CancelSessionParams) (*SessionResult, error)
	Reschedule(ctx context.Context, p RescheduleSessionParams) (*SessionResult, error)
	MarkComplete(ctx context.Context, bookingID uuid.UUID) (*SessionResult, error)
	SubmitRating(ctx context.Context, p SubmitRatingParams) (*RatingResult, error)
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	services *booking.Services
	stats    stats.Service
	effects  shared.EffectApplier
	logger   *slog.Logger
}

func NewBookingCommands(
	uow shared.UnitOfWork,
	services *booking.Services,
	statsService stats.Service,
	effects shared.EffectApplier,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		services: services,
		stats:    statsService,
		effects:  effects,
		logger:   logger,
	}
}

func (uc *bookingCommandsImpl) Create(ctx context.Context, p CreateSessionParams) (*SessionResult, error) {
	if !booking.IsWithinMinimumNotice(p.Start, uc.services.Clock.Now()) {
		return nil, booking.ErrInsufficientNotice
	}
	student, err := booking.NewStudent(p.Student.Name, p.Student.Email, p.Student.Question)
	if err != nil {
		return nil, err
	}
	slot, err := booking.NewTimeSlot(p.Start)
	if err != nil {
		return nil, err
	}

	var (
		created  *booking.Booking
		effectID uuid.UUID
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		profile, derr := loadActiveProfile(ctx, tx, p.ProfileID)
		if derr != nil {
			return derr
		}
		mentorID := profile.OwnerID()

		if derr = tx.Bookings().LockMentor(ctx, mentorID); derr != nil {
			return derr
		}
		conflict, derr := hasConflict(ctx, tx.Bookings(), mentorID, slot.Start(), slot.End(), nil)
		if derr != nil {
			return derr
		}
		if conflict {
			return booking.ErrSlotConflict
		}

		st, derr := tx.SessionTypes().EnsureDefault(ctx, mentorID)
		if derr != nil {
			return derr
		}
		if st.Length() != booking.SessionDuration {
			uc.logger.Error("session type length mismatch",
				"mentor_id", mentorID.String(),
				"session_type_id", st.ID,
				"length_minutes", st.LengthMinutes)
			return mentor.ErrSessionTypeLength
		}

		b, derr := booking.NewBooking(uc.services, booking.MentorSpec{
			ProfileID:     profile.ID(),
			MentorID:      mentorID,
			SessionTypeID: st.ID,
		}, slot, student)
		if derr != nil {
			return derr
		}
		if derr = tx.Bookings().Create(ctx, b); derr != nil {
			return translateWriteErr(derr)
		}

		effectID, derr = uc.enqueue(ctx, tx, b, booking.EventCreated, counter(mentor.CounterTotalSessions))
		if derr != nil {
			return derr
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.effects.Apply(context.WithoutCancel(ctx), []uuid.UUID{effectID})
	return newSessionResult(created), nil
}

func (uc *bookingCommandsImpl) Cancel(ctx context.Context, p CancelSessionParams) (*SessionResult, error) {
	var (
		cancelled *booking.Booking
		effectID  uuid.UUID
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := loadBooking(ctx, tx, p.BookingID)
		if derr != nil {
			return derr
		}
		if derr = b.Cancel(uc.services.Clock.Now(), p.Reason, p.CancelledBy); derr != nil {
			return derr
		}
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return translateWriteErr(derr)
		}

		effectID, derr = uc.enqueue(ctx, tx, b, booking.EventCancelled, counter(mentor.CounterCancelledSessions))
		if derr != nil {
			return derr
		}
		cancelled = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.effects.Apply(context.WithoutCancel(ctx), []uuid.UUID{effectID})
	return newSessionResult(cancelled), nil
}

func (uc *bookingCommandsImpl) Reschedule(ctx context.Context, p RescheduleSessionParams) (*SessionResult, error) {
	slot, err := booking.NewTimeSlot(p.NewStart)
	if err != nil {
		return nil, err
	}

	var (
		moved    *booking.Booking
		effectID uuid.UUID
	)
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := loadBooking(ctx, tx, p.BookingID)
		if derr != nil {
			return derr
		}
		// preconditions are checked on the in-memory copy; a conflict below rolls everything back
		if derr = b.Reschedule(uc.services, slot); derr != nil {
			return derr
		}

		if derr = tx.Bookings().LockMentor(ctx, b.MentorID()); derr != nil {
			return derr
		}
		id := b.ID()
		conflict, derr := hasConflict(ctx, tx.Bookings(), b.MentorID(), slot.Start(), slot.End(), &id)
		if derr != nil {
			return derr
		}
		if conflict {
			return booking.ErrSlotConflict
		}

		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return translateWriteErr(derr)
		}

		effectID, derr = uc.enqueue(ctx, tx, b, booking.EventRescheduled, nil)
		if derr != nil {
			return derr
		}
		moved = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.effects.Apply(context.WithoutCancel(ctx), []uuid.UUID{effectID})
	return newSessionResult(moved), nil
}

func (uc *bookingCommandsImpl) MarkComplete(ctx context.Context, bookingID uuid.UUID) (*SessionResult, error) {
	var (
		completed *booking.Booking
		effectID  uuid.UUID
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, derr := loadBooking(ctx, tx, bookingID)
		if derr != nil {
			return derr
		}
		if derr = b.Complete(uc.services.Clock.Now()); derr != nil {
			return derr
		}
		if derr = tx.Bookings().Update(ctx, b); derr != nil {
			return translateWriteErr(derr)
		}

		effectID, derr = uc.enqueue(ctx, tx, b, booking.EventCompleted, counter(mentor.CounterCompletedSessions))
		if derr != nil {
			return derr
		}
		completed = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.effects.Apply(context.WithoutCancel(ctx), []uuid.UUID{effectID})
	return newSessionResult(completed), nil
}

func (uc *bookingCommandsImpl) enqueue(ctx context.Context, tx shared.Tx, b *booking.Booking, event booking.EventType, c *mentor.Counter) (uuid.UUID, error) {
	e, err := shared.NewEffect(b, event, c, uc.services.Clock.Now())
	if err != nil {
		return uuid.Nil, errs.Mark(errs.Wrap(err, "encode booking effect"), errs.ErrInternal)
	}
	if err := tx.Effects().Enqueue(ctx, e); err != nil {
		return uuid.Nil, err
	}
	return e.ID, nil
}

func loadActiveProfile(ctx context.Context, tx shared.Tx, profileID uuid.UUID) (*mentor.Profile, error) {
	profile, err := tx.Profiles().FindByID(ctx, profileID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, mentor.ErrProfileNotFound
		}
		return nil, err
	}
	if !profile.IsActive() {
		return nil, mentor.ErrProfileInactive
	}
	return profile, nil
}

func loadBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Bookings().FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, booking.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// the exclusion constraint is the last line against overlaps that slip past the advisory lock
func translateWriteErr(err error) error {
	switch {
	case infra.IsKind(err, infra.KindConflict):
		return booking.ErrSlotConflict
	case infra.IsKind(err, infra.KindNotFound):
		return booking.ErrNotFound
	default:
		return err
	}
}

func counter(c mentor.Counter) *mentor.Counter {
	return &c
}
