package review_test

import (
	"testing"

	"eaglekidz/internal/domain/review"
)

// TestDraft_Normalize verifies every field is trimmed before submission.
func TestDraft_Normalize(t *testing.T) {
	d := review.Draft{
		WeekID:       " w1 ",
		WhatWentWell: "  games  ",
		CanImprove:   "\tsetup\n",
		ActionPlans:  " arrive early ",
		Summary:      " <p>ok</p> ",
	}.Normalize()

	if d.WeekID != "w1" || d.WhatWentWell != "games" || d.CanImprove != "setup" ||
		d.ActionPlans != "arrive early" || d.Summary != "<p>ok</p>" {
		t.Errorf("unexpected normalised draft: %+v", d)
	}
}

// TestDraft_Validate verifies required fields.
func TestDraft_Validate(t *testing.T) {
	full := review.Draft{WeekID: "w1", WhatWentWell: "a", CanImprove: "b", ActionPlans: "c", Summary: "d"}

	tests := []struct {
		name        string
		mutate      func(d *review.Draft)
		requireWeek bool
		wantErr     error
	}{
		{name: "complete", mutate: func(d *review.Draft) {}, requireWeek: true, wantErr: nil},
		{name: "missing week on create", mutate: func(d *review.Draft) { d.WeekID = "" }, requireWeek: true, wantErr: review.ErrMissingWeek},
		{name: "missing week on update", mutate: func(d *review.Draft) { d.WeekID = "" }, requireWeek: false, wantErr: nil},
		{name: "missing what went well", mutate: func(d *review.Draft) { d.WhatWentWell = "" }, requireWeek: true, wantErr: review.ErrEmptyWhatWentWell},
		{name: "missing can improve", mutate: func(d *review.Draft) { d.CanImprove = "" }, requireWeek: true, wantErr: review.ErrEmptyCanImprove},
		{name: "missing action plans", mutate: func(d *review.Draft) { d.ActionPlans = "" }, requireWeek: true, wantErr: review.ErrEmptyActionPlans},
		{name: "empty editor paragraph", mutate: func(d *review.Draft) { d.Summary = "<p></p>" }, requireWeek: true, wantErr: review.ErrEmptySummary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := full
			tt.mutate(&d)
			if err := d.Validate(tt.requireWeek); err != tt.wantErr {
				t.Errorf("err=%v want %v", err, tt.wantErr)
			}
		})
	}
}

// TestReview_WithDeleted verifies the flag copy leaves the original untouched.
func TestReview_WithDeleted(t *testing.T) {
	r := review.Review{ID: "r1"}
	d := r.WithDeleted(true)
	if !d.Deleted || r.Deleted {
		t.Errorf("copy deleted=%v original deleted=%v, want true/false", d.Deleted, r.Deleted)
	}
	if d.Key() != "r1" {
		t.Errorf("key=%q want r1", d.Key())
	}
}

// TestSummaryRequest_Validate verifies the summariser needs both core sections.
func TestSummaryRequest_Validate(t *testing.T) {
	if err := (review.SummaryRequest{WhatWentWell: "a", CanImprove: "b"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (review.SummaryRequest{WhatWentWell: "a"}).Validate(); err != review.ErrSummaryInputMissing {
		t.Errorf("err=%v want ErrSummaryInputMissing", err)
	}
}
