package projections

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/week"
)

// Unassigned labels a service slot with no known minister.
const Unassigned = "Unassigned"

// GetWeekListQuery carries query parameters.
type GetWeekListQuery struct {
	Criteria listutil.WeekCriteria
	// UseDefaultYear preselects DefaultYear when no year was requested.
	UseDefaultYear bool
	Now            time.Time
	Location       *time.Location
}

// ServiceSlot is a service with its minister's display name.
type ServiceSlot struct {
	week.Service
	MinisterName string
}

// WeekRow is one rendered week.
type WeekRow struct {
	Week  week.Week
	Slots []ServiceSlot
}

// GetWeekListResult carries the query result.
type GetWeekListResult struct {
	Weeks     []WeekRow
	Facets    Facets
	Criteria  listutil.WeekCriteria // effective criteria after defaults
	Total     int                   // weeks before filtering
	Ministers []person.Person
}

// GetWeekListDeps holds dependencies for QueryGetWeekList.
type GetWeekListDeps struct {
	WeekStore   WeekStore
	PersonStore PersonStore
}

// QueryGetWeekList loads weeks and ministers concurrently and applies facets.
// PRE: deps stores are non-nil
// POST: Weeks sorted by start ascending; every slot has a MinisterName
func QueryGetWeekList(ctx context.Context, query GetWeekListQuery, deps GetWeekListDeps) (GetWeekListResult, error) {
	var weeks []week.Week
	var ministers []person.Person

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weeks, err = deps.WeekStore.ListWeeks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ministers, err = deps.PersonStore.ListPeopleByType(gctx, person.TypeMinister)
		return err
	})
	if err := g.Wait(); err != nil {
		return GetWeekListResult{}, err
	}

	facets := BuildFacets(weeks, query.Location)
	criteria := query.Criteria
	if query.UseDefaultYear && criteria.IsZero() {
		criteria.Year = DefaultYear(facets, query.Now)
	}

	names := MinisterNames(ministers)
	filtered := FilterWeeks(weeks, criteria, query.Location)
	rows := make([]WeekRow, 0, len(filtered))
	for _, w := range filtered {
		rows = append(rows, WeekRow{Week: w, Slots: Slots(w.Services, names)})
	}

	return GetWeekListResult{
		Weeks:     rows,
		Facets:    facets,
		Criteria:  criteria,
		Total:     len(weeks),
		Ministers: ministers,
	}, nil
}

// MinisterNames maps person IDs to full names.
func MinisterNames(ministers []person.Person) map[string]string {
	names := make(map[string]string, len(ministers))
	for _, m := range ministers {
		names[m.ID] = m.FullName()
	}
	return names
}

// Slots resolves minister names for services.
// POST: Empty or unknown minister IDs are labelled Unassigned
func Slots(services []week.Service, names map[string]string) []ServiceSlot {
	out := make([]ServiceSlot, 0, len(services))
	for _, s := range services {
		name, ok := names[s.MinisterID]
		if s.MinisterID == "" || !ok {
			name = Unassigned
		}
		out = append(out, ServiceSlot{Service: s, MinisterName: name})
	}
	return out
}
