package errs

import "errors"

// Error kinds surfaced to callers of lifecycle operations
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrInternal   = errors.New("internal error")
)

func BadRequest(msg string) error {
	return Mark(New(msg), ErrBadRequest)
}

func NotFound(msg string) error {
	return Mark(New(msg), ErrNotFound)
}

func Conflict(msg string) error {
	return Mark(New(msg), ErrConflict)
}

func Internal(msg string) error {
	return Mark(New(msg), ErrInternal)
}

// KindOf returns the taxonomy sentinel err belongs to, falling back to ErrInternal.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case Is(err, ErrBadRequest):
		return ErrBadRequest
	case Is(err, ErrNotFound):
		return ErrNotFound
	case Is(err, ErrConflict):
		return ErrConflict
	default:
		return ErrInternal
	}
}
