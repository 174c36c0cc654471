package booking

import "mentor-booking/internal/pkg/errs"

var (
	ErrInsufficientNotice = errs.BadRequest("start time must be at least 2 hours from now")
	ErrAlreadyCancelled   = errs.BadRequest("booking is already cancelled")
	ErrAlreadyCompleted   = errs.BadRequest("booking is already completed")
	ErrSessionNotEnded    = errs.BadRequest("session has not ended yet")
	ErrNotCompleted       = errs.BadRequest("booking has not been completed")
	ErrInvalidTimeSlot    = errs.BadRequest("invalid time slot")
	ErrInvalidStudent     = errs.BadRequest("invalid prospective student")
	ErrInvalidStatus      = errs.Internal("invalid booking status")
	ErrInvalidDuration    = errs.Internal("session duration does not match the fixed duration")
)

var (
	ErrNotFound     = errs.NotFound("booking not found")
	ErrSlotConflict = errs.Conflict("requested time overlaps an existing booking")
)
