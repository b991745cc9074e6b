package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"time"

	"eaglekidz/internal/adapters/email"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// ReviewLookup fetches what a shared review email needs.
type ReviewLookup interface {
	GetReview(ctx context.Context, id string) (review.Review, error)
	GetWeek(ctx context.Context, id string) (week.Week, error)
}

// ShareReviewInput carries input for ShareReview.
type ShareReviewInput struct {
	ReviewID string
}

// ShareReviewDeps holds dependencies for ShareReview.
type ShareReviewDeps struct {
	Lookup     ReviewLookup
	Sender     email.Sender
	Recipients []string
	// Render turns rich text into safe HTML; nil escapes text as-is.
	Render func(string) template.HTML
	// Location is the zone the week title is shown in; nil keeps the
	// backend's own.
	Location *time.Location
}

var shareTemplate = template.Must(template.New("share").Parse(`<h2>{{.Title}}</h2>
<h3>What went well</h3>{{.WhatWentWell}}
<h3>What can be improved</h3>{{.CanImprove}}
<h3>Action plans</h3>{{.ActionPlans}}
{{if .Summary}}<h3>Summary</h3>{{.Summary}}{{end}}
`))

// ExecuteShareReview emails one review to the configured recipients.
// PRE: ReviewID non-empty; Recipients non-empty
// POST: One message sent to all recipients, subject is the week title
func ExecuteShareReview(ctx context.Context, input ShareReviewInput, deps ShareReviewDeps) (email.Receipt, error) {
	if len(deps.Recipients) == 0 {
		return email.Receipt{}, email.ErrNoRecipients
	}
	if input.ReviewID == "" {
		return email.Receipt{}, errors.New("review ID is required")
	}

	r, err := deps.Lookup.GetReview(ctx, input.ReviewID)
	if err != nil {
		return email.Receipt{}, err
	}
	w, err := deps.Lookup.GetWeek(ctx, r.WeekID)
	if err != nil {
		return email.Receipt{}, err
	}

	render := deps.Render
	if render == nil {
		render = func(s string) template.HTML { return template.HTML(template.HTMLEscapeString(s)) }
	}
	var buf bytes.Buffer
	err = shareTemplate.Execute(&buf, map[string]any{
		"Title":        w.Title(deps.Location),
		"WhatWentWell": render(r.WhatWentWell),
		"CanImprove":   render(r.CanImprove),
		"ActionPlans":  render(r.ActionPlans),
		"Summary":      render(r.Summary),
	})
	if err != nil {
		return email.Receipt{}, err
	}

	receipt, err := deps.Sender.Send(ctx, email.Message{
		To:      deps.Recipients,
		Subject: "EagleKidz review: " + w.Title(deps.Location),
		HTML:    buf.String(),
	})
	if err != nil {
		return email.Receipt{}, err
	}
	slog.Info("review_event", "event", "review_shared", "review_id", r.ID, "recipients", len(deps.Recipients))
	return receipt, nil
}
