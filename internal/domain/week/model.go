package week

import (
	"errors"
	"strings"
	"time"
)

// DayLayout is the calendar-day key used when comparing week windows.
const DayLayout = "2006-01-02"

// Domain errors
var (
	ErrAlreadyExists    = errors.New("A week for this period already exists. Please select a different date.")
	ErrNoDate           = errors.New("Please select a date to create a week")
	ErrInvalidWindow    = errors.New("week start must not be after week end")
	ErrEmptyServiceName = errors.New("service name cannot be empty")
	ErrEmptyServiceTime = errors.New("service time cannot be empty")
)

// Service is one slot in a week's service schedule.
// MinisterID is the "service in charge"; empty means unassigned.
type Service struct {
	Name       string
	Time       string
	MinisterID string
}

// Week is a Sunday-through-Saturday period that groups reviews and services.
// The backend owns it; this value is a snapshot taken for one page view.
type Week struct {
	ID        string
	StartTime time.Time
	EndTime   time.Time
	Services  []Service
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks if the Week has a usable window.
// PRE: Week struct is populated
// POST: Returns nil if StartTime <= EndTime, error otherwise
func (w *Week) Validate() error {
	if w.StartTime.After(w.EndTime) {
		return ErrInvalidWindow
	}
	return nil
}

// Title returns the display title used across pages and search. The start
// day is taken in loc; backend times arrive in UTC, so callers pass the
// display zone. A nil loc uses StartTime's own location.
// INVARIANT: Week fields are not mutated
func (w Week) Title(loc *time.Location) string {
	return "Week of " + inZone(w.StartTime, loc).Format("Jan 2, 2006")
}

// DurationDays returns the number of calendar days covered in loc, inclusive.
// A nil loc uses StartTime's own location.
func (w Week) DurationDays(loc *time.Location) int {
	st := inZone(w.StartTime, loc)
	e := w.EndTime.In(st.Location())
	s := time.Date(st.Year(), st.Month(), st.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(s).Hours()/24) + 1
}

func inZone(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// HasServices reports whether a service schedule has been configured.
func (w Week) HasServices() bool {
	return len(w.Services) > 0
}

// DefaultServices returns the schedule offered when a week has none yet.
func DefaultServices() []Service {
	return []Service{
		{Name: "Voltage", Time: "11AM"},
		{Name: "Little Eagle, All Star, Super Trooper", Time: "11AM"},
		{Name: "Little Eagle, All Star, Super Trooper", Time: "1PM"},
	}
}

// ValidateServices checks a service schedule before it replaces the stored one.
// PRE: services may be empty (clears the schedule)
// POST: Returns the first slot error, nil otherwise
func ValidateServices(services []Service) error {
	for _, s := range services {
		if strings.TrimSpace(s.Name) == "" {
			return ErrEmptyServiceName
		}
		if strings.TrimSpace(s.Time) == "" {
			return ErrEmptyServiceTime
		}
	}
	return nil
}
