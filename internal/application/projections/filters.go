package projections

import (
	"slices"
	"strings"
	"time"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// ReviewRow is a review joined with its week, when the week is known.
type ReviewRow struct {
	Review  review.Review
	Week    week.Week
	HasWeek bool
}

// Title is the week title in loc, or "" when the week is unresolved.
func (r ReviewRow) Title(loc *time.Location) string {
	if !r.HasWeek {
		return ""
	}
	return r.Week.Title(loc)
}

// JoinReviews attaches weeks to reviews by WeekID.
func JoinReviews(reviews []review.Review, weeks []week.Week) []ReviewRow {
	byID := make(map[string]week.Week, len(weeks))
	for _, w := range weeks {
		byID[w.ID] = w
	}
	rows := make([]ReviewRow, 0, len(reviews))
	for _, r := range reviews {
		w, ok := byID[r.WeekID]
		rows = append(rows, ReviewRow{Review: r, Week: w, HasWeek: ok})
	}
	return rows
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// matchesReview applies every active criterion (logical AND).
// INVARIANT: Rows without a resolved week fail any week-derived filter
func matchesReview(row ReviewRow, c listutil.ReviewCriteria, loc *time.Location) bool {
	if c.Year != 0 || c.Month != 0 {
		if !row.HasWeek || !matchesWeek(row.Week, listutil.WeekCriteria{Year: c.Year, Month: c.Month}, loc) {
			return false
		}
	}
	if c.WeekID != "" && row.Review.WeekID != c.WeekID {
		return false
	}
	if !c.From.IsZero() && !c.To.IsZero() {
		if !row.HasWeek || !row.Week.StartTime.After(c.From) || !row.Week.StartTime.Before(c.To) {
			return false
		}
	}
	if c.Search != "" {
		needle := strings.ToLower(c.Search)
		r := row.Review
		fields := []string{r.WhatWentWell, r.CanImprove, r.ActionPlans, r.Summary, row.Title(loc)}
		if !slices.ContainsFunc(fields, func(f string) bool { return containsFold(f, needle) }) {
			return false
		}
	}
	return true
}

// FilterReviews applies review criteria.
// POST: Result sorted by creation instant descending (newest first)
func FilterReviews(rows []ReviewRow, c listutil.ReviewCriteria, loc *time.Location) []ReviewRow {
	out := make([]ReviewRow, 0, len(rows))
	for _, row := range rows {
		if matchesReview(row, c, loc) {
			out = append(out, row)
		}
	}
	slices.SortStableFunc(out, func(a, b ReviewRow) int {
		return b.Review.CreatedAt.Compare(a.Review.CreatedAt)
	})
	return out
}

// FilterPeople applies search and tag facets, preserving input order.
func FilterPeople(people []person.Person, c listutil.PersonCriteria) []person.Person {
	needle := strings.ToLower(c.Search)
	out := make([]person.Person, 0, len(people))
	for _, p := range people {
		if needle != "" && !containsFold(p.FullName(), needle) && !containsFold(p.Phone, needle) {
			continue
		}
		if c.AgeGroup != "" && !p.HasAgeGroup(c.AgeGroup) {
			continue
		}
		if c.Role != "" && !p.HasRole(c.Role) {
			continue
		}
		out = append(out, p)
	}
	return out
}
