package orchestrators

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"

	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

var errNotFound = errors.New("HTTP error! status: 404")

// fakeBackend is an in-memory stand-in for the EagleKidz service.
// Page loads fan out, so every method holds mu.
type fakeBackend struct {
	mu      sync.Mutex
	weeks   []week.Week
	reviews []review.Review
	people  []person.Person
	failOn  map[string]error // method name → error
	calls   []string
	nextID  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{failOn: map[string]error{}}
}

func (f *fakeBackend) hit(name string) error {
	f.calls = append(f.calls, name)
	return f.failOn[name]
}

func (f *fakeBackend) id(prefix string) string {
	f.nextID++
	return prefix + strconv.Itoa(f.nextID)
}

// ListWeeks returns every seeded week.
// PRE: none
// POST: Returns weeks or the configured failure
func (f *fakeBackend) ListWeeks(_ context.Context) ([]week.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListWeeks"); err != nil {
		return nil, err
	}
	return slices.Clone(f.weeks), nil
}

// GetWeek returns a seeded week by ID.
func (f *fakeBackend) GetWeek(_ context.Context, id string) (week.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetWeek"); err != nil {
		return week.Week{}, err
	}
	for _, w := range f.weeks {
		if w.ID == id {
			return w, nil
		}
	}
	return week.Week{}, errNotFound
}

// CreateWeek stores a new week from the window.
func (f *fakeBackend) CreateWeek(_ context.Context, w week.Window, services []week.Service) (week.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateWeek"); err != nil {
		return week.Week{}, err
	}
	created := week.Week{ID: f.id("w"), StartTime: w.Start, EndTime: w.End, Services: services}
	f.weeks = append(f.weeks, created)
	return created, nil
}

// DeleteWeek removes a week.
func (f *fakeBackend) DeleteWeek(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteWeek"); err != nil {
		return err
	}
	f.weeks = slices.DeleteFunc(f.weeks, func(w week.Week) bool { return w.ID == id })
	return nil
}

// UpdateWeekServices replaces services on a week.
func (f *fakeBackend) UpdateWeekServices(_ context.Context, id string, services []week.Service) (week.Week, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdateWeekServices"); err != nil {
		return week.Week{}, err
	}
	for i := range f.weeks {
		if f.weeks[i].ID == id {
			f.weeks[i].Services = services
			return f.weeks[i], nil
		}
	}
	return week.Week{}, errNotFound
}

// CreateReview stores a new review.
func (f *fakeBackend) CreateReview(_ context.Context, d review.Draft) (review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateReview"); err != nil {
		return review.Review{}, err
	}
	r := review.Review{ID: f.id("r"), WeekID: d.WeekID, WhatWentWell: d.WhatWentWell,
		CanImprove: d.CanImprove, ActionPlans: d.ActionPlans, Summary: d.Summary}
	f.reviews = append(f.reviews, r)
	return r, nil
}

// UpdateReview replaces the content fields of a review.
func (f *fakeBackend) UpdateReview(_ context.Context, id string, d review.Draft) (review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdateReview"); err != nil {
		return review.Review{}, err
	}
	for i := range f.reviews {
		if f.reviews[i].ID == id {
			r := &f.reviews[i]
			r.WhatWentWell, r.CanImprove, r.ActionPlans, r.Summary = d.WhatWentWell, d.CanImprove, d.ActionPlans, d.Summary
			return *r, nil
		}
	}
	return review.Review{}, errNotFound
}

// GetReview returns a review by ID.
func (f *fakeBackend) GetReview(_ context.Context, id string) (review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetReview"); err != nil {
		return review.Review{}, err
	}
	for _, r := range f.reviews {
		if r.ID == id {
			return r, nil
		}
	}
	return review.Review{}, errNotFound
}

func (f *fakeBackend) reviewsWhere(keep func(review.Review) bool) []review.Review {
	var out []review.Review
	for _, r := range f.reviews {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// ListReviews returns every review.
func (f *fakeBackend) ListReviews(_ context.Context) ([]review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListReviews"); err != nil {
		return nil, err
	}
	return slices.Clone(f.reviews), nil
}

// ListReviewsByWeek returns active reviews of a week.
func (f *fakeBackend) ListReviewsByWeek(_ context.Context, weekID string) ([]review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListReviewsByWeek"); err != nil {
		return nil, err
	}
	return f.reviewsWhere(func(r review.Review) bool { return r.WeekID == weekID && !r.Deleted }), nil
}

// ListDeletedReviewsByWeek returns soft-deleted reviews of a week.
func (f *fakeBackend) ListDeletedReviewsByWeek(_ context.Context, weekID string) ([]review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListDeletedReviewsByWeek"); err != nil {
		return nil, err
	}
	return f.reviewsWhere(func(r review.Review) bool { return r.WeekID == weekID && r.Deleted }), nil
}

func (f *fakeBackend) setReviewDeleted(id string, deleted bool) (review.Review, error) {
	for i := range f.reviews {
		if f.reviews[i].ID == id && f.reviews[i].Deleted != deleted {
			f.reviews[i].Deleted = deleted
			return f.reviews[i], nil
		}
	}
	return review.Review{}, errNotFound
}

// DeleteReview soft-deletes a review.
func (f *fakeBackend) DeleteReview(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteReview"); err != nil {
		return err
	}
	_, err := f.setReviewDeleted(id, true)
	return err
}

// RestoreReview restores a soft-deleted review.
func (f *fakeBackend) RestoreReview(_ context.Context, id string) (review.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("RestoreReview"); err != nil {
		return review.Review{}, err
	}
	return f.setReviewDeleted(id, false)
}

// HardDeleteReview removes a soft-deleted review.
func (f *fakeBackend) HardDeleteReview(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("HardDeleteReview"); err != nil {
		return err
	}
	f.reviews = slices.DeleteFunc(f.reviews, func(r review.Review) bool { return r.ID == id && r.Deleted })
	return nil
}

// CreatePerson stores a new person.
func (f *fakeBackend) CreatePerson(_ context.Context, d person.Draft) (person.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreatePerson"); err != nil {
		return person.Person{}, err
	}
	p := person.Person{ID: f.id("p"), FirstName: d.FirstName, LastName: d.LastName, Type: d.Type,
		AgeGroup: d.AgeGroup, Roles: d.Roles, Phone: d.Phone, Email: d.Email, Notes: d.Notes}
	f.people = append(f.people, p)
	return p, nil
}

// UpdatePerson replaces a person's fields.
func (f *fakeBackend) UpdatePerson(_ context.Context, id string, d person.Draft) (person.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("UpdatePerson"); err != nil {
		return person.Person{}, err
	}
	for i := range f.people {
		if f.people[i].ID == id {
			f.people[i].FirstName, f.people[i].LastName, f.people[i].Phone = d.FirstName, d.LastName, d.Phone
			return f.people[i], nil
		}
	}
	return person.Person{}, errNotFound
}

// ListPeopleByType returns active people of a type.
func (f *fakeBackend) ListPeopleByType(_ context.Context, t string) ([]person.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListPeopleByType"); err != nil {
		return nil, err
	}
	var out []person.Person
	for _, p := range f.people {
		if p.Type == t && !p.Deleted {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListDeletedPeople returns every soft-deleted person.
func (f *fakeBackend) ListDeletedPeople(_ context.Context) ([]person.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("ListDeletedPeople"); err != nil {
		return nil, err
	}
	var out []person.Person
	for _, p := range f.people {
		if p.Deleted {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeBackend) setPersonDeleted(id string, deleted bool) (person.Person, error) {
	for i := range f.people {
		if f.people[i].ID == id && f.people[i].Deleted != deleted {
			f.people[i].Deleted = deleted
			return f.people[i], nil
		}
	}
	return person.Person{}, errNotFound
}

// DeletePerson soft-deletes a person.
func (f *fakeBackend) DeletePerson(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeletePerson"); err != nil {
		return err
	}
	_, err := f.setPersonDeleted(id, true)
	return err
}

// RestorePerson restores a soft-deleted person.
func (f *fakeBackend) RestorePerson(_ context.Context, id string) (person.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("RestorePerson"); err != nil {
		return person.Person{}, err
	}
	return f.setPersonDeleted(id, false)
}

// HardDeletePerson removes a soft-deleted person.
func (f *fakeBackend) HardDeletePerson(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("HardDeletePerson"); err != nil {
		return err
	}
	f.people = slices.DeleteFunc(f.people, func(p person.Person) bool { return p.ID == id && p.Deleted })
	return nil
}

// Summarize returns a canned summary.
func (f *fakeBackend) Summarize(_ context.Context, req review.SummaryRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("Summarize"); err != nil {
		return "", err
	}
	return "<p>" + req.WhatWentWell + "</p>", nil
}

func (f *fakeBackend) called(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, name)
}
