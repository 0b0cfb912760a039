package reminders

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Window is the absolute interval a check-in fire time is drawn from.
// End may fall on the day after Start when the requested time-of-day
// window crosses midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// BuildWindow combines a calendar date with a start and end time-of-day.
// When end <= start the end instant is advanced by one calendar day, so a
// 21:00-00:00 request yields a window ending at midnight the next day.
func BuildWindow(date, start, end string, loc *time.Location) (Window, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	startClock, err := time.Parse(clockLayout, start)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start time %q: %w", start, err)
	}

	endClock, err := time.Parse(clockLayout, end)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end time %q: %w", end, err)
	}

	w := Window{
		Start: time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc),
		End:   time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, loc),
	}

	if !w.End.After(w.Start) {
		w.End = w.End.AddDate(0, 0, 1)
	}

	return w, nil
}

// Contains reports whether t lies in the closed interval [Start, End]
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// RandomInstant draws a uniformly distributed instant from the closed
// window and truncates it to the minute. Start and End are whole minutes,
// so the truncated instant cannot leave the window. A nil rng uses the
// shared math/rand source.
func (w Window) RandomInstant(rng *rand.Rand) time.Time {
	interval := int64(w.End.Sub(w.Start))
	var offset time.Duration
	if rng != nil {
		offset = time.Duration(rng.Int63n(interval + 1))
	} else {
		offset = time.Duration(rand.Int63n(interval + 1))
	}
	return w.Start.Add(offset).Truncate(time.Minute)
}
