package booking

import "time"

const (
	SessionDuration = 15 * time.Minute
	MinimumNotice   = 2 * time.Hour
	MaxLookahead    = 30 * 24 * time.Hour
)

// IsWithinMinimumNotice is true when requestedStart is at least MinimumNotice after now.
func IsWithinMinimumNotice(requestedStart, now time.Time) bool {
	return !requestedStart.Before(now.Add(MinimumNotice))
}

// IsWithinLookaheadWindow is true when rangeEnd is no later than now + MaxLookahead.
func IsWithinLookaheadWindow(rangeEnd, now time.Time) bool {
	return !rangeEnd.After(now.Add(MaxLookahead))
}

// SessionEnd is the only place a session's end time is derived.
func SessionEnd(start time.Time) time.Time {
	return start.Add(SessionDuration)
}
