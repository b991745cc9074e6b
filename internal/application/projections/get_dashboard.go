package projections

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// StatusChecker reports backend round-trip latency.
type StatusChecker interface {
	Ping(ctx context.Context) (time.Duration, error)
}

// GetDashboardQuery carries query parameters.
type GetDashboardQuery struct {
	Now time.Time
}

// GetDashboardResult carries the query result.
type GetDashboardResult struct {
	BackendUp      bool
	BackendLatency time.Duration
	Weeks          int
	Reviews        int
	Ministers      int
	Children       int
	CurrentWindow  week.Window
	CurrentWeek    *week.Week // nil when this week has not been created
}

// GetDashboardDeps holds dependencies for QueryGetDashboard.
type GetDashboardDeps struct {
	Status      StatusChecker
	WeekStore   WeekStore
	ReviewStore ReviewStore
	PersonStore PersonStore
}

// QueryGetDashboard gathers headline counts.
// POST: An unreachable backend yields BackendUp=false and zero counts, not an error
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	result := GetDashboardResult{CurrentWindow: week.WindowFor(query.Now)}

	latency, err := deps.Status.Ping(ctx)
	if err != nil {
		slog.Warn("backend_status_failed", "error", err)
		return result, nil
	}
	result.BackendUp = true
	result.BackendLatency = latency

	var weeks []week.Week
	var reviews []review.Review
	var ministers, children []person.Person

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weeks, err = deps.WeekStore.ListWeeks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = deps.ReviewStore.ListReviews(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ministers, err = deps.PersonStore.ListPeopleByType(gctx, person.TypeMinister)
		return err
	})
	g.Go(func() error {
		var err error
		children, err = deps.PersonStore.ListPeopleByType(gctx, person.TypeChildren)
		return err
	})
	if err := g.Wait(); err != nil {
		return GetDashboardResult{}, err
	}

	for _, r := range reviews {
		if !r.Deleted {
			result.Reviews++
		}
	}
	result.Weeks = len(weeks)
	result.Ministers = len(ministers)
	result.Children = len(children)
	for i := range weeks {
		if week.Exists(weeks[i:i+1], result.CurrentWindow) {
			w := weeks[i]
			result.CurrentWeek = &w
			break
		}
	}
	return result, nil
}
