package analytics

import (
	"time"

	apperrors "github.com/EyeCodes/PAPI-BACKEND-sub001/internal/errors"
)

// Window is a time interval over creation timestamps. It is half-open,
// [Start, End), unless Closed is set, in which case End is included.
type Window struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Closed bool      `json:"closed,omitempty"`
}

// Validate rejects empty or inverted windows.
func (w Window) Validate() error {
	if w.End.Before(w.Start) || (!w.Closed && w.End.Equal(w.Start)) {
		return apperrors.Wrapf(apperrors.ErrInvalidWindow, "end %s is not after start %s",
			w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	if w.Closed {
		return !t.After(w.End)
	}
	return t.Before(w.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Today is [start of now's day, start of the next day).
func Today(now time.Time) Window {
	start := startOfDay(now)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// ThisMonth runs from the first instant of now's calendar month up to and
// including now.
func ThisMonth(now time.Time) Window {
	return Window{Start: startOfMonth(now), End: now, Closed: true}
}

// PreviousMonth is the whole calendar month before now's, ending where
// ThisMonth starts. Month arithmetic carries the year, so January's previous
// month is December of the year before.
func PreviousMonth(now time.Time) Window {
	end := startOfMonth(now)
	return Window{Start: end.AddDate(0, -1, 0), End: end}
}

// WindowByName resolves the named windows accepted by the HTTP layer.
// "all" resolves to nil, meaning no time restriction.
func WindowByName(name string, now time.Time) (*Window, error) {
	var w Window
	switch name {
	case "", "all":
		return nil, nil
	case "today":
		w = Today(now)
	case "this_month":
		w = ThisMonth(now)
	case "previous_month":
		w = PreviousMonth(now)
	default:
		return nil, apperrors.Wrapf(apperrors.ErrInvalidWindow, "unknown window %q", name)
	}
	return &w, nil
}
