package week

import "time"

// Window is a Sunday 00:00:00 to Saturday 23:59:59.999 calendar week.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor returns the week window containing t, in t's location.
// PRE: none; no time-zone normalisation beyond t's own location
// POST: Start is a Sunday at start-of-day, End the following Saturday at end-of-day
// INVARIANT: Start <= t <= End
func WindowFor(t time.Time) Window {
	loc := t.Location()
	dow := int(t.Weekday())
	start := time.Date(t.Year(), t.Month(), t.Day()-dow, 0, 0, 0, 0, loc)
	end := time.Date(start.Year(), start.Month(), start.Day()+6, 23, 59, 59, int(999*time.Millisecond), loc)
	return Window{Start: start, End: end}
}

// Contains returns true if t falls within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the number of calendar days covered (always 7 for WindowFor).
func (w Window) Days() int {
	return Week{StartTime: w.Start, EndTime: w.End}.DurationDays(nil)
}

// Label formats the window for previews, e.g. "Sunday, March 3, 2024 - Saturday, March 9, 2024".
func (w Window) Label() string {
	const layout = "Monday, January 2, 2006"
	return w.Start.Format(layout) + " - " + w.End.Format(layout)
}

// StartKey returns the calendar-day key of the window start.
func (w Window) StartKey() string { return w.Start.Format(DayLayout) }

// EndKey returns the calendar-day key of the window end.
func (w Window) EndKey() string { return w.End.Format(DayLayout) }

// Exists reports whether an existing week already covers the same calendar days.
// Start and end are compared as YYYY-MM-DD strings in the window's location, not as
// full instants. The check is advisory; the backend is not assumed to enforce it.
// PRE: w was produced by WindowFor
// POST: Returns true if some week has identical start and end day keys
func Exists(existing []Week, w Window) bool {
	loc := w.Start.Location()
	startKey, endKey := w.StartKey(), w.EndKey()
	for _, e := range existing {
		if e.StartTime.In(loc).Format(DayLayout) == startKey && e.EndTime.In(loc).Format(DayLayout) == endKey {
			return true
		}
	}
	return false
}

// IsDateTaken reports whether picking date would produce a duplicate week.
func IsDateTaken(existing []Week, date time.Time) bool {
	return Exists(existing, WindowFor(date))
}
