package projections

import (
	"slices"
	"time"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/domain/week"
)

// Facets is the year → months-present option tree derived from loaded weeks.
type Facets struct {
	Years  []int                // descending
	Months map[int][]time.Month // ascending per year
}

// MonthsFor returns the months present in year.
func (f Facets) MonthsFor(year int) []time.Month { return f.Months[year] }

// HasYear reports whether any loaded week starts in year.
func (f Facets) HasYear(year int) bool { return slices.Contains(f.Years, year) }

func local(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t
	}
	return t.In(loc)
}

// BuildFacets scans weeks for distinct start years and months.
// POST: Years sorted descending; each Months entry sorted ascending and distinct
func BuildFacets(weeks []week.Week, loc *time.Location) Facets {
	f := Facets{Months: make(map[int][]time.Month)}
	for _, w := range weeks {
		start := local(w.StartTime, loc)
		y, m := start.Year(), start.Month()
		if _, ok := f.Months[y]; !ok {
			f.Years = append(f.Years, y)
		}
		if !slices.Contains(f.Months[y], m) {
			f.Months[y] = append(f.Months[y], m)
		}
	}
	slices.SortFunc(f.Years, func(a, b int) int { return b - a })
	for y := range f.Months {
		slices.Sort(f.Months[y])
	}
	return f
}

// DefaultYear picks the year preselected on the week list: the current year
// when present, otherwise the latest year, otherwise 0.
func DefaultYear(f Facets, now time.Time) int {
	if f.HasYear(now.Year()) {
		return now.Year()
	}
	if len(f.Years) > 0 {
		return f.Years[0]
	}
	return 0
}

func matchesWeek(w week.Week, c listutil.WeekCriteria, loc *time.Location) bool {
	start := local(w.StartTime, loc)
	if c.Year != 0 && start.Year() != c.Year {
		return false
	}
	if c.Month != 0 && start.Month() != c.Month {
		return false
	}
	return true
}

// FilterWeeks applies year and month facets.
// POST: Result sorted by start ascending; input is not modified
func FilterWeeks(weeks []week.Week, c listutil.WeekCriteria, loc *time.Location) []week.Week {
	out := make([]week.Week, 0, len(weeks))
	for _, w := range weeks {
		if matchesWeek(w, c, loc) {
			out = append(out, w)
		}
	}
	slices.SortStableFunc(out, func(a, b week.Week) int { return a.StartTime.Compare(b.StartTime) })
	return out
}

// AvailableWeeks lists the weeks selectable in the review week facet.
// POST: Result narrowed by year and month, sorted by start descending
func AvailableWeeks(weeks []week.Week, c listutil.WeekCriteria, loc *time.Location) []week.Week {
	out := FilterWeeks(weeks, c, loc)
	slices.Reverse(out)
	return out
}
