package browser_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// The fake backend speaks the EagleKidz envelope protocol from memory so the
// browser tests exercise the real API client end to end.

type fakeService struct {
	Name string `json:"name"`
	Time string `json:"time"`
	SIC  string `json:"sic"`
}

type fakeWeek struct {
	ID        string        `json:"id"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Services  []fakeService `json:"services"`
}

type fakeReview struct {
	ID           string    `json:"id"`
	WeekID       string    `json:"week_id"`
	WhatWentWell string    `json:"what_went_well"`
	CanImprove   string    `json:"can_improve"`
	ActionPlans  string    `json:"action_plans"`
	Summary      string    `json:"summary"`
	Deleted      bool      `json:"deleted"`
	CreatedAt    time.Time `json:"created_at"`
}

type fakePerson struct {
	ID        string   `json:"id"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Type      string   `json:"type"`
	AgeGroup  []string `json:"age_group,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Email     string   `json:"email,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Deleted   bool     `json:"deleted"`
}

type fakeBackend struct {
	mu      sync.Mutex
	weeks   []*fakeWeek
	reviews []*fakeReview
	people  []*fakePerson
	next    int
}

func (b *fakeBackend) id(prefix string) string {
	b.next++
	return fmt.Sprintf("%s%d", prefix, b.next)
}

func envelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"status": "success", "message": "ok"}
	if data != nil {
		body["data"] = data
	}
	json.NewEncoder(w).Encode(body)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "Not found"})
}

func (b *fakeBackend) findWeek(id string) *fakeWeek {
	for _, wk := range b.weeks {
		if wk.ID == id {
			return wk
		}
	}
	return nil
}

func (b *fakeBackend) findReview(id string) *fakeReview {
	for _, r := range b.reviews {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (b *fakeBackend) findPerson(id string) *fakePerson {
	for _, p := range b.people {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (b *fakeBackend) reviewsOf(weekID string, deleted bool) []*fakeReview {
	out := []*fakeReview{}
	for _, r := range b.reviews {
		if r.WeekID == weekID && r.Deleted == deleted {
			out = append(out, r)
		}
	}
	return out
}

func (b *fakeBackend) peopleWhere(keep func(*fakePerson) bool) []*fakePerson {
	out := []*fakePerson{}
	for _, p := range b.people {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// handler routes the subset of the backend API the web app calls.
func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	lock := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			defer b.mu.Unlock()
			h(w, r)
		}
	}

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/v1/weeks", lock(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, b.weeks)
	}))
	mux.HandleFunc("POST /api/v1/weeks", lock(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			StartTime time.Time     `json:"start_time"`
			EndTime   time.Time     `json:"end_time"`
			Services  []fakeService `json:"services"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			envelope(w, http.StatusBadRequest, nil)
			return
		}
		wk := &fakeWeek{ID: b.id("w"), StartTime: body.StartTime, EndTime: body.EndTime, Services: body.Services}
		b.weeks = append(b.weeks, wk)
		envelope(w, http.StatusCreated, wk)
	}))
	mux.HandleFunc("GET /api/v1/weeks/{id}", lock(func(w http.ResponseWriter, r *http.Request) {
		if wk := b.findWeek(r.PathValue("id")); wk != nil {
			envelope(w, http.StatusOK, wk)
			return
		}
		notFound(w)
	}))
	mux.HandleFunc("PUT /api/v1/weeks/{id}/services", lock(func(w http.ResponseWriter, r *http.Request) {
		wk := b.findWeek(r.PathValue("id"))
		if wk == nil {
			notFound(w)
			return
		}
		var body struct {
			Services []fakeService `json:"services"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		wk.Services = body.Services
		envelope(w, http.StatusOK, wk)
	}))
	mux.HandleFunc("GET /api/v1/weeks/{id}/reviews", lock(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, b.reviewsOf(r.PathValue("id"), false))
	}))
	mux.HandleFunc("GET /api/v1/weeks/{id}/deleted-reviews", lock(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, b.reviewsOf(r.PathValue("id"), true))
	}))

	mux.HandleFunc("GET /api/v1/reviews", lock(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, b.reviews)
	}))
	mux.HandleFunc("POST /api/v1/reviews", lock(func(w http.ResponseWriter, r *http.Request) {
		var rv fakeReview
		json.NewDecoder(r.Body).Decode(&rv)
		rv.ID, rv.CreatedAt = b.id("r"), time.Now()
		b.reviews = append(b.reviews, &rv)
		envelope(w, http.StatusCreated, rv)
	}))
	mux.HandleFunc("GET /api/v1/reviews/{id}", lock(func(w http.ResponseWriter, r *http.Request) {
		if rv := b.findReview(r.PathValue("id")); rv != nil {
			envelope(w, http.StatusOK, rv)
			return
		}
		notFound(w)
	}))
	mux.HandleFunc("DELETE /api/v1/reviews/{id}", lock(func(w http.ResponseWriter, r *http.Request) {
		rv := b.findReview(r.PathValue("id"))
		if rv == nil || rv.Deleted {
			notFound(w)
			return
		}
		rv.Deleted = true
		envelope(w, http.StatusOK, nil)
	}))
	mux.HandleFunc("PUT /api/v1/reviews/{id}/restore", lock(func(w http.ResponseWriter, r *http.Request) {
		rv := b.findReview(r.PathValue("id"))
		if rv == nil || !rv.Deleted {
			notFound(w)
			return
		}
		rv.Deleted = false
		envelope(w, http.StatusOK, rv)
	}))
	mux.HandleFunc("DELETE /api/v1/reviews/{id}/permanent", lock(func(w http.ResponseWriter, r *http.Request) {
		for i, rv := range b.reviews {
			if rv.ID == r.PathValue("id") && rv.Deleted {
				b.reviews = append(b.reviews[:i], b.reviews[i+1:]...)
				envelope(w, http.StatusOK, nil)
				return
			}
		}
		notFound(w)
	}))

	mux.HandleFunc("GET /api/v1/people/type/{type}", lock(func(w http.ResponseWriter, r *http.Request) {
		t := r.PathValue("type")
		envelope(w, http.StatusOK, b.peopleWhere(func(p *fakePerson) bool { return p.Type == t && !p.Deleted }))
	}))
	mux.HandleFunc("GET /api/v1/people/deleted", lock(func(w http.ResponseWriter, r *http.Request) {
		envelope(w, http.StatusOK, b.peopleWhere(func(p *fakePerson) bool { return p.Deleted }))
	}))
	mux.HandleFunc("POST /api/v1/people", lock(func(w http.ResponseWriter, r *http.Request) {
		var p fakePerson
		json.NewDecoder(r.Body).Decode(&p)
		p.ID = b.id("p")
		b.people = append(b.people, &p)
		envelope(w, http.StatusCreated, p)
	}))
	mux.HandleFunc("GET /api/v1/people/{id}", lock(func(w http.ResponseWriter, r *http.Request) {
		if p := b.findPerson(r.PathValue("id")); p != nil {
			envelope(w, http.StatusOK, p)
			return
		}
		notFound(w)
	}))
	mux.HandleFunc("DELETE /api/v1/people/{id}", lock(func(w http.ResponseWriter, r *http.Request) {
		p := b.findPerson(r.PathValue("id"))
		if p == nil || p.Deleted {
			notFound(w)
			return
		}
		p.Deleted = true
		envelope(w, http.StatusOK, nil)
	}))
	mux.HandleFunc("PUT /api/v1/people/{id}/restore", lock(func(w http.ResponseWriter, r *http.Request) {
		p := b.findPerson(r.PathValue("id"))
		if p == nil || !p.Deleted {
			notFound(w)
			return
		}
		p.Deleted = false
		envelope(w, http.StatusOK, p)
	}))

	mux.HandleFunc("POST /api/v1/ai/summarize", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			WhatWentWell string `json:"what_went_well"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"summary": "<p>Summary: " + body.WhatWentWell + "</p><script>alert(1)</script>"},
		})
	})
	return mux
}
