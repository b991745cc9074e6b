package review

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrMissingWeek         = errors.New("review must belong to a week")
	ErrEmptyWhatWentWell   = errors.New("Please describe what went well")
	ErrEmptyCanImprove     = errors.New("Please describe what can be improved")
	ErrEmptyActionPlans    = errors.New("Please outline action plans")
	ErrEmptySummary        = errors.New("Please provide a summary")
	ErrSummaryInputMissing = errors.New(`Please fill in "What Went Well" and "What Can Be Improved" fields first`)
)

// Review is a structured weekly reflection owned by exactly one week.
// Summary may carry rich-text markup.
type Review struct {
	ID           string
	WeekID       string
	WhatWentWell string
	CanImprove   string
	ActionPlans  string
	Summary      string
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Key returns the review identifier.
func (r Review) Key() string { return r.ID }

// WithDeleted returns a copy with the deleted flag set to d.
func (r Review) WithDeleted(d bool) Review {
	r.Deleted = d
	return r
}

// Draft carries the four content fields for create and full-field update.
type Draft struct {
	WeekID       string
	WhatWentWell string
	CanImprove   string
	ActionPlans  string
	Summary      string
}

// Normalize returns a copy with every text field trimmed.
// POST: No leading or trailing whitespace remains on any field
func (d Draft) Normalize() Draft {
	return Draft{
		WeekID:       strings.TrimSpace(d.WeekID),
		WhatWentWell: strings.TrimSpace(d.WhatWentWell),
		CanImprove:   strings.TrimSpace(d.CanImprove),
		ActionPlans:  strings.TrimSpace(d.ActionPlans),
		Summary:      strings.TrimSpace(d.Summary),
	}
}

// Validate checks the content fields. WeekID is only required on create.
// PRE: Draft has been normalised
// POST: Returns the first missing-field error, nil otherwise
func (d Draft) Validate(requireWeek bool) error {
	if requireWeek && d.WeekID == "" {
		return ErrMissingWeek
	}
	if d.WhatWentWell == "" {
		return ErrEmptyWhatWentWell
	}
	if d.CanImprove == "" {
		return ErrEmptyCanImprove
	}
	if d.ActionPlans == "" {
		return ErrEmptyActionPlans
	}
	if isBlankRichText(d.Summary) {
		return ErrEmptySummary
	}
	return nil
}

// DraftFrom copies a stored review into a form draft.
func DraftFrom(r Review) Draft {
	return Draft{
		WeekID:       r.WeekID,
		WhatWentWell: r.WhatWentWell,
		CanImprove:   r.CanImprove,
		ActionPlans:  r.ActionPlans,
		Summary:      r.Summary,
	}
}

// SummaryRequest is the input to the AI summarisation call.
type SummaryRequest struct {
	WhatWentWell string
	CanImprove   string
	ActionPlans  string
}

// Validate requires the two sections the summariser cannot work without.
func (s SummaryRequest) Validate() error {
	if strings.TrimSpace(s.WhatWentWell) == "" || strings.TrimSpace(s.CanImprove) == "" {
		return ErrSummaryInputMissing
	}
	return nil
}

// isBlankRichText treats an editor's empty paragraph as blank.
func isBlankRichText(s string) bool {
	t := strings.TrimSpace(s)
	for _, empty := range []string{"<p></p>", "<p><br></p>", "<p><br/></p>"} {
		t = strings.ReplaceAll(t, empty, "")
	}
	return strings.TrimSpace(t) == ""
}
