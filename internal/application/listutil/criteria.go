package listutil

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"eaglekidz/internal/domain/week"
)

// WeekCriteria narrows the week list. Zero values mean "all".
type WeekCriteria struct {
	Year  int
	Month time.Month
}

// IsZero reports whether no facet is selected.
func (c WeekCriteria) IsZero() bool { return c.Year == 0 && c.Month == 0 }

// ReviewCriteria narrows the review list.
type ReviewCriteria struct {
	Search string
	Year   int
	Month  time.Month
	WeekID string
	From   time.Time // exclusive lower bound on week start
	To     time.Time // exclusive upper bound on week start
}

// IsZero reports whether no filter is active.
func (c ReviewCriteria) IsZero() bool {
	return c.Search == "" && c.Year == 0 && c.WeekID == "" && c.From.IsZero() && c.To.IsZero()
}

// PersonCriteria narrows a roster.
type PersonCriteria struct {
	Search   string
	AgeGroup string
	Role     string
}

// ParseWeekCriteria reads year and month.
// POST: Month is only set when Year is set; invalid numbers are dropped
func ParseWeekCriteria(q url.Values) WeekCriteria {
	c := WeekCriteria{Year: parseYear(q.Get("year"))}
	if c.Year != 0 {
		c.Month = parseMonth(q.Get("month"))
	}
	return c
}

// ParseReviewCriteria reads q, year, month, week, from and to.
// from/to are calendar days (2006-01-02) in loc.
func ParseReviewCriteria(q url.Values, loc *time.Location) ReviewCriteria {
	wc := ParseWeekCriteria(q)
	c := ReviewCriteria{
		Search: strings.TrimSpace(q.Get("q")),
		Year:   wc.Year,
		Month:  wc.Month,
		WeekID: strings.TrimSpace(q.Get("week")),
	}
	if t, err := time.ParseInLocation(week.DayLayout, q.Get("from"), loc); err == nil {
		c.From = t
	}
	if t, err := time.ParseInLocation(week.DayLayout, q.Get("to"), loc); err == nil {
		c.To = t
	}
	return c
}

// ParsePersonCriteria reads q, age_group and role.
func ParsePersonCriteria(q url.Values) PersonCriteria {
	return PersonCriteria{
		Search:   strings.TrimSpace(q.Get("q")),
		AgeGroup: strings.TrimSpace(q.Get("age_group")),
		Role:     strings.TrimSpace(q.Get("role")),
	}
}

func parseYear(s string) int {
	y, err := strconv.Atoi(s)
	if err != nil || y < 1 || y > 9999 {
		return 0
	}
	return y
}

func parseMonth(s string) time.Month {
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	return time.Month(m)
}
