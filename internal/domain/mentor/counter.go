package mentor

import "mentor-booking/internal/pkg/errs"

// Counter names the column an atomic increment targets.
type Counter string

const (
	CounterTotalSessions     Counter = "total_sessions"
	CounterCompletedSessions Counter = "completed_sessions"
	CounterCancelledSessions Counter = "cancelled_sessions"
)

var ErrUnknownCounter = errs.BadRequest("unknown statistics counter")

func (c Counter) String() string { return string(c) }

func ParseCounter(v string) (Counter, error) {
	c := Counter(v)
	switch c {
	case CounterTotalSessions, CounterCompletedSessions, CounterCancelledSessions:
		return c, nil
	default:
		return "", ErrUnknownCounter
	}
}
