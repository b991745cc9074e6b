package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"eaglekidz/internal/domain/review"
)

// ReviewStoreForSave defines the store interface needed by CreateReview and UpdateReview.
type ReviewStoreForSave interface {
	CreateReview(ctx context.Context, d review.Draft) (review.Review, error)
	UpdateReview(ctx context.Context, id string, d review.Draft) (review.Review, error)
}

// SaveReviewInput carries input for the review orchestrators.
type SaveReviewInput struct {
	ReviewID string // empty on create
	Draft    review.Draft
}

// SaveReviewDeps holds dependencies for CreateReview and UpdateReview.
type SaveReviewDeps struct {
	ReviewStore ReviewStoreForSave
}

// ExecuteCreateReview creates a review for Draft.WeekID.
// PRE: Draft.WeekID non-empty; the three section fields non-blank after trimming
// POST: Review created with trimmed fields
func ExecuteCreateReview(ctx context.Context, input SaveReviewInput, deps SaveReviewDeps) (review.Review, error) {
	d := input.Draft.Normalize()
	if err := d.Validate(true); err != nil {
		return review.Review{}, err
	}
	r, err := deps.ReviewStore.CreateReview(ctx, d)
	if err != nil {
		return review.Review{}, err
	}
	slog.Info("review_event", "event", "review_created", "review_id", r.ID, "week_id", d.WeekID)
	return r, nil
}

// ExecuteUpdateReview sends every trimmed field of the draft.
// PRE: ReviewID non-empty
// POST: Review updated; server copy returned
func ExecuteUpdateReview(ctx context.Context, input SaveReviewInput, deps SaveReviewDeps) (review.Review, error) {
	if input.ReviewID == "" {
		return review.Review{}, errors.New("review ID is required")
	}
	d := input.Draft.Normalize()
	if err := d.Validate(false); err != nil {
		return review.Review{}, err
	}
	r, err := deps.ReviewStore.UpdateReview(ctx, input.ReviewID, d)
	if err != nil {
		return review.Review{}, err
	}
	slog.Info("review_event", "event", "review_updated", "review_id", input.ReviewID)
	return r, nil
}

// Summarizer drafts a summary from review sections.
type Summarizer interface {
	Summarize(ctx context.Context, req review.SummaryRequest) (string, error)
}

// GenerateSummaryDeps holds dependencies for GenerateSummary.
type GenerateSummaryDeps struct {
	Summarizer Summarizer
}

// ExecuteGenerateSummary asks the AI endpoint for a summary.
// PRE: WhatWentWell and CanImprove non-blank
// POST: Returns the raw summary; callers sanitise before rendering
func ExecuteGenerateSummary(ctx context.Context, input review.SummaryRequest, deps GenerateSummaryDeps) (string, error) {
	req := review.SummaryRequest{
		WhatWentWell: trim(input.WhatWentWell),
		CanImprove:   trim(input.CanImprove),
		ActionPlans:  trim(input.ActionPlans),
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	summary, err := deps.Summarizer.Summarize(ctx, req)
	if err != nil {
		slog.Warn("review_summary_failed", "error", err)
		return "", err
	}
	slog.Info("review_event", "event", "review_summary_generated", "chars", len(summary))
	return summary, nil
}
