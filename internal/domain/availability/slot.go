package availability

import (
	"time"

	"mentor-booking/internal/domain/booking"
	"mentor-booking/internal/pkg/errs"
)

const (
	OpenHour   = 9
	CloseHour  = 17
	DateLayout = "2006-01-02"
)

// MaxRangeDays is today plus every day of the lookahead window.
const MaxRangeDays = int(booking.MaxLookahead/(24*time.Hour)) + 1

var (
	ErrInvalidRange      = errs.BadRequest("invalid date range")
	ErrBeyondLookahead   = errs.BadRequest("date range ends beyond the 30 day lookahead window")
	ErrMalformedDateText = errs.BadRequest("dates must use the YYYY-MM-DD format")
)

type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}

// Range is an inclusive span of calendar days in the business time zone.
type Range struct {
	from time.Time
	to   time.Time
	loc  *time.Location
}

func NewRange(from, to time.Time, loc *time.Location) (Range, error) {
	if loc == nil {
		loc = time.UTC
	}
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	if t.Before(f) || t.After(f.AddDate(0, 0, MaxRangeDays-1)) {
		return Range{}, ErrInvalidRange
	}
	return Range{from: f, to: t, loc: loc}, nil
}

func ParseRange(from, to string, loc *time.Location) (Range, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return Range{}, ErrMalformedDateText
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return Range{}, ErrMalformedDateText
	}
	return NewRange(f, t, loc)
}

func (r Range) From() time.Time { return r.from }
func (r Range) To() time.Time   { return r.to }

// Start is the opening of business on the first day.
func (r Range) Start() time.Time {
	return time.Date(r.from.Year(), r.from.Month(), r.from.Day(), OpenHour, 0, 0, 0, r.loc)
}

// End is the close of business on the last day; the lookahead rule is checked against it.
func (r Range) End() time.Time {
	return time.Date(r.to.Year(), r.to.Month(), r.to.Day(), CloseHour, 0, 0, 0, r.loc)
}

// StartsBefore reports whether the first day precedes the calendar day of now in the range's zone.
func (r Range) StartsBefore(now time.Time) bool {
	n := now.In(r.loc)
	return r.from.Before(time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, r.loc))
}

func (r Range) Key() string {
	return r.from.Format(DateLayout) + ":" + r.to.Format(DateLayout)
}

// GenerateGrid lays out every business-hours slot of the range, all available.
func GenerateGrid(r Range) []Slot {
	var slots []Slot
	for day := r.from; !day.After(r.to); day = day.AddDate(0, 0, 1) {
		open := time.Date(day.Year(), day.Month(), day.Day(), OpenHour, 0, 0, 0, r.loc)
		closeAt := time.Date(day.Year(), day.Month(), day.Day(), CloseHour, 0, 0, 0, r.loc)
		for start := open; !booking.SessionEnd(start).After(closeAt); start = booking.SessionEnd(start) {
			slots = append(slots, Slot{Start: start, End: booking.SessionEnd(start), Available: true})
		}
	}
	return slots
}

// MarkUnavailable flags slots that overlap a busy range or start before earliest.
func MarkUnavailable(slots []Slot, busy []booking.TimeSlot, earliest time.Time) []Slot {
	out := make([]Slot, len(slots))
	for i, s := range slots {
		s.Available = s.Available && !s.Start.Before(earliest)
		for _, b := range busy {
			if !s.Available {
				break
			}
			if b.Overlaps(s.Start, s.End) {
				s.Available = false
			}
		}
		out[i] = s
	}
	return out
}
