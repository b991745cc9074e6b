package projections

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"eaglekidz/internal/application/lifecycle"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// GetWeekReviewsQuery carries query parameters.
type GetWeekReviewsQuery struct {
	WeekID string
}

// GetWeekReviewsResult carries the query result.
type GetWeekReviewsResult struct {
	Week      week.Week
	Partition lifecycle.Partition[review.Review]
}

// GetWeekReviewsDeps holds dependencies for QueryGetWeekReviews.
type GetWeekReviewsDeps struct {
	WeekStore   WeekStore
	ReviewStore ReviewStore
}

// QueryGetWeekReviews loads a week with its active and deleted reviews.
// PRE: WeekID is non-empty
// POST: Partition.Active holds the week's active reviews
// INVARIANT: A failed deleted-list fetch yields an empty deleted list, not an error
func QueryGetWeekReviews(ctx context.Context, query GetWeekReviewsQuery, deps GetWeekReviewsDeps) (GetWeekReviewsResult, error) {
	var w week.Week
	var active, deleted []review.Review

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		w, err = deps.WeekStore.GetWeek(gctx, query.WeekID)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = deps.ReviewStore.ListReviewsByWeek(gctx, query.WeekID)
		return err
	})
	g.Go(func() error {
		var err error
		deleted, err = deps.ReviewStore.ListDeletedReviewsByWeek(gctx, query.WeekID)
		if err != nil {
			slog.Warn("deleted_reviews_unavailable", "week_id", query.WeekID, "error", err)
			deleted = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return GetWeekReviewsResult{}, err
	}

	return GetWeekReviewsResult{
		Week:      w,
		Partition: lifecycle.NewPartition(active, deleted),
	}, nil
}
