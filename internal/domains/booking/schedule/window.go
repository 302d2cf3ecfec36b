package schedule

import (
	"errors"
	"time"

	"siperkat/shared/constant"
	"siperkat/shared/timezone"
)

var (
	ErrInvalidWindow = errors.New("booking window must start before it ends")
)

// Window is the absolute [Start, End) interval a booking occupies. The
// end instant is excluded, so a booking ending exactly when another
// starts does not collide with it.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow combines calendar dates and wall clock times into a Window.
// Zero and negative width windows are rejected here so degenerate input
// never reaches the overlap test, where a zero-width interval would
// silently never conflict.
func NewWindow(startDate, startTime, endDate, endTime string) (Window, error) {
	start, err := combine(startDate, startTime)
	if err != nil {
		return Window{}, err
	}

	end, err := combine(endDate, endTime)
	if err != nil {
		return Window{}, err
	}

	if !start.Before(end) {
		return Window{}, ErrInvalidWindow
	}

	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints are not an overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

func combine(date, clock string) (time.Time, error) {
	return timezone.Parse(
		constant.BookingDateFormat+" "+constant.BookingTimeFormat,
		date+" "+clock,
	)
}
