package projections

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// GetReviewListQuery carries query parameters.
type GetReviewListQuery struct {
	Criteria listutil.ReviewCriteria
	Page     listutil.PageParams
	Now      time.Time
	Location *time.Location
}

// ReviewStats are the counters above the review list.
type ReviewStats struct {
	Total     int
	ThisMonth int
	Filtered  int
}

// GetReviewListResult carries the query result.
type GetReviewListResult struct {
	Rows           []ReviewRow // current page only
	PageInfo       listutil.PageInfo
	Stats          ReviewStats
	Facets         Facets
	AvailableWeeks []week.Week
	Criteria       listutil.ReviewCriteria
}

// GetReviewListDeps holds dependencies for QueryGetReviewList.
type GetReviewListDeps struct {
	WeekStore   WeekStore
	ReviewStore ReviewStore
}

// QueryGetReviewList joins all active reviews with their weeks and filters them.
// PRE: deps stores are non-nil
// POST: Rows sorted by creation descending; soft-deleted reviews excluded
// INVARIANT: Either both fetches succeed or the query fails
func QueryGetReviewList(ctx context.Context, query GetReviewListQuery, deps GetReviewListDeps) (GetReviewListResult, error) {
	var weeks []week.Week
	var reviews []review.Review

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
	if err := g.Wait(); err != nil {
		return GetReviewListResult{}, err
	}

	active := make([]review.Review, 0, len(reviews))
	for _, r := range reviews {
		if !r.Deleted {
			active = append(active, r)
		}
	}

	rows := JoinReviews(active, weeks)
	filtered := FilterReviews(rows, query.Criteria, query.Location)
	page, info := listutil.Paginate(filtered, query.Page)

	now := local(query.Now, query.Location)
	thisMonth := 0
	for _, row := range rows {
		if !row.HasWeek {
			continue
		}
		start := local(row.Week.StartTime, query.Location)
		if start.Year() == now.Year() && start.Month() == now.Month() {
			thisMonth++
		}
	}

	return GetReviewListResult{
		Rows:     page,
		PageInfo: info,
		Stats:    ReviewStats{Total: len(rows), ThisMonth: thisMonth, Filtered: len(filtered)},
		Facets:   BuildFacets(weeks, query.Location),
		AvailableWeeks: AvailableWeeks(weeks, listutil.WeekCriteria{
			Year: query.Criteria.Year, Month: query.Criteria.Month,
		}, query.Location),
		Criteria: query.Criteria,
	}, nil
}
