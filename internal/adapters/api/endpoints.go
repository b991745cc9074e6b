package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// isoMillis matches the instant format the web client has always submitted.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// ErrInvalidSummary is returned when the summariser answers without a summary.
var ErrInvalidSummary = errors.New("invalid summary response")

func seg(id string) string { return url.PathEscape(id) }

// --- Liveness ---

// Health calls GET /health and returns the envelope unmodified.
func (c *Client) Health(ctx context.Context) (Envelope[HealthInfo], error) {
	return fetch[HealthInfo](ctx, c, http.MethodGet, "/health", nil)
}

// Welcome calls GET /api.
func (c *Client) Welcome(ctx context.Context) (Envelope[struct{}], error) {
	return fetch[struct{}](ctx, c, http.MethodGet, "/api", nil)
}

// Status calls GET /api/v1/status.
func (c *Client) Status(ctx context.Context) (Envelope[HealthInfo], error) {
	return fetch[HealthInfo](ctx, c, http.MethodGet, "/api/v1/status", nil)
}

// --- Weeks ---

// CreateWeek submits a window as ISO instants.
func (c *Client) CreateWeek(ctx context.Context, w week.Window, services []week.Service) (week.Week, error) {
	body := createWeekRequest{
		StartTime: w.Start.UTC().Format(isoMillis),
		EndTime:   w.End.UTC().Format(isoMillis),
	}
	if len(services) > 0 {
		body.Services = fromServices(services)
	}
	env, err := fetch[wireWeek](ctx, c, http.MethodPost, "/api/v1/weeks", body)
	got, err := data(env, err)
	if err != nil {
		return week.Week{}, err
	}
	return toWeek(got), nil
}

// ListWeeks returns every week.
func (c *Client) ListWeeks(ctx context.Context) ([]week.Week, error) {
	env, err := fetch[[]wireWeek](ctx, c, http.MethodGet, "/api/v1/weeks", nil)
	weeks, err := list(env, err)
	if err != nil {
		return nil, err
	}
	return mapAll(weeks, toWeek), nil
}

// GetWeek returns one week.
func (c *Client) GetWeek(ctx context.Context, id string) (week.Week, error) {
	env, err := fetch[wireWeek](ctx, c, http.MethodGet, "/api/v1/weeks/"+seg(id), nil)
	got, err := data(env, err)
	if err != nil {
		return week.Week{}, err
	}
	return toWeek(got), nil
}

// DeleteWeek hard-deletes a week.
func (c *Client) DeleteWeek(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/weeks/"+seg(id), nil, nil, nil)
}

// UpdateWeekServices replaces the week's service schedule wholesale.
func (c *Client) UpdateWeekServices(ctx context.Context, id string, services []week.Service) (week.Week, error) {
	env, err := fetch[wireWeek](ctx, c, http.MethodPut, "/api/v1/weeks/"+seg(id)+"/services",
		updateServicesRequest{Services: fromServices(services)})
	if err != nil {
		return week.Week{}, err
	}
	if env.Data == nil {
		// The backend may answer with only a message; the caller re-fetches.
		return week.Week{ID: id, Services: services}, nil
	}
	return toWeek(*env.Data), nil
}

// --- Reviews ---

// CreateReview creates a review for draft.WeekID.
func (c *Client) CreateReview(ctx context.Context, d review.Draft) (review.Review, error) {
	body := createReviewRequest{
		WeekID:       d.WeekID,
		WhatWentWell: d.WhatWentWell,
		CanImprove:   d.CanImprove,
		ActionPlans:  d.ActionPlans,
		Summary:      d.Summary,
	}
	return c.reviewCall(ctx, http.MethodPost, "/api/v1/reviews", body)
}

// ListReviews returns all reviews visible to the default listing.
func (c *Client) ListReviews(ctx context.Context) ([]review.Review, error) {
	return c.reviewList(ctx, "/api/v1/reviews")
}

// GetReview returns one review.
func (c *Client) GetReview(ctx context.Context, id string) (review.Review, error) {
	return c.reviewCall(ctx, http.MethodGet, "/api/v1/reviews/"+seg(id), nil)
}

// ListReviewsByWeek returns the active reviews of a week.
func (c *Client) ListReviewsByWeek(ctx context.Context, weekID string) ([]review.Review, error) {
	return c.reviewList(ctx, "/api/v1/weeks/"+seg(weekID)+"/reviews")
}

// ListDeletedReviewsByWeek returns the soft-deleted reviews of a week.
func (c *Client) ListDeletedReviewsByWeek(ctx context.Context, weekID string) ([]review.Review, error) {
	return c.reviewList(ctx, "/api/v1/weeks/"+seg(weekID)+"/deleted-reviews")
}

// UpdateReview sends every content field.
func (c *Client) UpdateReview(ctx context.Context, id string, d review.Draft) (review.Review, error) {
	body := updateReviewRequest{
		WhatWentWell: &d.WhatWentWell,
		CanImprove:   &d.CanImprove,
		ActionPlans:  &d.ActionPlans,
		Summary:      &d.Summary,
	}
	return c.reviewCall(ctx, http.MethodPut, "/api/v1/reviews/"+seg(id), body)
}

// DeleteReview soft-deletes a review.
func (c *Client) DeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/reviews/"+seg(id), nil, nil, nil)
}

// HardDeleteReview permanently removes a review.
func (c *Client) HardDeleteReview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/reviews/"+seg(id)+"/permanent", nil, nil, nil)
}

// RestoreReview restores a soft-deleted review and returns the server's copy.
func (c *Client) RestoreReview(ctx context.Context, id string) (review.Review, error) {
	return c.reviewCall(ctx, http.MethodPut, "/api/v1/reviews/"+seg(id)+"/restore", nil)
}

func (c *Client) reviewCall(ctx context.Context, method, path string, body any) (review.Review, error) {
	env, err := fetch[wireReview](ctx, c, method, path, body)
	got, err := data(env, err)
	if err != nil {
		return review.Review{}, err
	}
	return toReview(got), nil
}

func (c *Client) reviewList(ctx context.Context, path string) ([]review.Review, error) {
	env, err := fetch[[]wireReview](ctx, c, http.MethodGet, path, nil)
	reviews, err := list(env, err)
	if err != nil {
		return nil, err
	}
	return mapAll(reviews, toReview), nil
}

// --- People ---

// CreatePerson creates a roster entry.
func (c *Client) CreatePerson(ctx context.Context, d person.Draft) (person.Person, error) {
	return c.personCall(ctx, http.MethodPost, "/api/v1/people", fromPersonDraft(d))
}

// ListPeople returns every active person.
func (c *Client) ListPeople(ctx context.Context) ([]person.Person, error) {
	return c.personList(ctx, "/api/v1/people")
}

// ListPeopleByType returns active people of one roster type.
func (c *Client) ListPeopleByType(ctx context.Context, personType string) ([]person.Person, error) {
	return c.personList(ctx, "/api/v1/people/type/"+seg(personType))
}

// GetPerson returns one person.
func (c *Client) GetPerson(ctx context.Context, id string) (person.Person, error) {
	return c.personCall(ctx, http.MethodGet, "/api/v1/people/"+seg(id), nil)
}

// UpdatePerson sends the full draft.
func (c *Client) UpdatePerson(ctx context.Context, id string, d person.Draft) (person.Person, error) {
	return c.personCall(ctx, http.MethodPut, "/api/v1/people/"+seg(id), fromPersonDraft(d))
}

// DeletePerson soft-deletes a person.
func (c *Client) DeletePerson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/people/"+seg(id), nil, nil, nil)
}

// ListDeletedPeople returns every soft-deleted person, all types.
func (c *Client) ListDeletedPeople(ctx context.Context) ([]person.Person, error) {
	return c.personList(ctx, "/api/v1/people/deleted")
}

// HardDeletePerson permanently removes a person.
func (c *Client) HardDeletePerson(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/people/"+seg(id)+"/permanent", nil, nil, nil)
}

// RestorePerson restores a soft-deleted person and returns the server's copy.
func (c *Client) RestorePerson(ctx context.Context, id string) (person.Person, error) {
	return c.personCall(ctx, http.MethodPut, "/api/v1/people/"+seg(id)+"/restore", nil)
}

func (c *Client) personCall(ctx context.Context, method, path string, body any) (person.Person, error) {
	env, err := fetch[wirePerson](ctx, c, method, path, body)
	got, err := data(env, err)
	if err != nil {
		return person.Person{}, err
	}
	return toPerson(got), nil
}

func (c *Client) personList(ctx context.Context, path string) ([]person.Person, error) {
	env, err := fetch[[]wirePerson](ctx, c, http.MethodGet, path, nil)
	people, err := list(env, err)
	if err != nil {
		return nil, err
	}
	return mapAll(people, toPerson), nil
}

// --- AI summary ---

// Summarize asks the backend to draft a review summary.
// The response is {success, data:{summary}} rather than the usual envelope.
func (c *Client) Summarize(ctx context.Context, req review.SummaryRequest) (string, error) {
	var out summarizeResponse
	body := summarizeRequest{
		WhatWentWell: req.WhatWentWell,
		CanImprove:   req.CanImprove,
		ActionPlans:  req.ActionPlans,
	}
	if err := c.do(ctx, http.MethodPost, c.summarizePath, body, nil, &out); err != nil {
		return "", err
	}
	if !out.Success || out.Data == nil || strings.TrimSpace(out.Data.Summary) == "" {
		return "", ErrInvalidSummary
	}
	return out.Data.Summary, nil
}

// Ping reports round-trip time to GET /health.
func (c *Client) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := c.Health(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
