package web

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"eaglekidz/internal/adapters/email"
	"eaglekidz/internal/adapters/http/middleware"
	"eaglekidz/internal/adapters/http/perf"
	"eaglekidz/internal/application/orchestrators"
	"eaglekidz/internal/application/projections"
	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

// Backend is everything the admin pages need from the EagleKidz service.
// *api.Client satisfies it.
type Backend interface {
	projections.StatusChecker
	orchestrators.WeekStoreForCreate
	orchestrators.WeekStoreForDelete
	orchestrators.WeekStoreForServices
	projections.WeekStore
	orchestrators.ReviewStoreForSave
	orchestrators.ReviewStoreForLifecycle
	orchestrators.PersonStoreForSave
	orchestrators.PersonStoreForLifecycle
	orchestrators.Summarizer
	GetReview(ctx context.Context, id string) (review.Review, error)
	GetPerson(ctx context.Context, id string) (person.Person, error)
}

// Deps holds the collaborators of the web layer.
type Deps struct {
	Backend    Backend
	Sender     email.Sender
	Recipients []string // share-review recipients
	Collector  *perf.Collector
	Location   *time.Location // display time zone; nil means time.Local

	// Templates and Static override the embedded assets when non-nil.
	Templates fs.FS
	Static    fs.FS

	// SummarizeLimiter throttles POST /reviews/summarize; nil disables it.
	SummarizeLimiter *middleware.RateLimiter
	Version          string
}

// Server renders the admin pages.
type Server struct {
	deps   Deps
	loc    *time.Location
	pages  pageSet
	static fs.FS
	now    func() time.Time
}

// New parses the templates and returns a ready Server.
func New(deps Deps) (*Server, error) {
	if deps.Backend == nil {
		return nil, errors.New("web: backend is required")
	}
	if deps.Sender == nil {
		deps.Sender = email.NewNoopSender()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}

	tfs := deps.Templates
	if tfs == nil {
		sub, err := fs.Sub(embeddedTemplates, "templates")
		if err != nil {
			return nil, err
		}
		tfs = sub
	}
	sfs := deps.Static
	if sfs == nil {
		sub, err := fs.Sub(embeddedStatic, "static")
		if err != nil {
			return nil, err
		}
		sfs = sub
	}

	s := &Server{deps: deps, loc: loc, static: sfs, now: time.Now}
	pages, err := parsePages(tfs, s.funcMap())
	if err != nil {
		return nil, err
	}
	s.pages = pages
	return s, nil
}

// Routes wires every admin route onto a new mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /debug/perf", s.handlePerf)

	mux.HandleFunc("GET /weeks", s.handleGetWeeks)
	mux.HandleFunc("GET /weeks/new", s.handleGetWeekNew)
	mux.HandleFunc("POST /weeks", s.handlePostWeeks)
	mux.HandleFunc("POST /weeks/{id}/delete", s.handlePostWeekDelete)
	mux.HandleFunc("GET /weeks/{id}/services", s.handleGetWeekServices)
	mux.HandleFunc("POST /weeks/{id}/services", s.handlePostWeekServices)
	mux.HandleFunc("GET /weeks/{id}/reviews", s.handleGetWeekReviews)
	mux.HandleFunc("GET /weeks/{id}/reviews/new", s.handleGetReviewNew)
	mux.HandleFunc("POST /weeks/{id}/reviews", s.handlePostWeekReviews)

	mux.HandleFunc("GET /reviews", s.handleGetReviews)
	mux.HandleFunc("GET /reviews/{id}/edit", s.handleGetReviewEdit)
	mux.HandleFunc("POST /reviews/{id}", s.handlePostReview)
	mux.HandleFunc("POST /reviews/{id}/share", s.handlePostReviewShare)
	mux.HandleFunc("POST /reviews/{id}/{action}", s.handlePostReviewTransition)
	var summarize http.Handler = http.HandlerFunc(s.handlePostSummarize)
	if s.deps.SummarizeLimiter != nil {
		summarize = middleware.RateLimit(s.deps.SummarizeLimiter)(summarize)
	}
	mux.Handle("POST /reviews/summarize", summarize)

	mux.HandleFunc("GET /ministers", s.rosterPage(person.TypeMinister))
	mux.HandleFunc("GET /children", s.rosterPage(person.TypeChildren))
	mux.HandleFunc("GET /people/new", s.handleGetPersonNew)
	mux.HandleFunc("GET /people/{id}/edit", s.handleGetPersonEdit)
	mux.HandleFunc("POST /people", s.handlePostPeople)
	mux.HandleFunc("POST /people/{id}", s.handlePostPerson)
	mux.HandleFunc("POST /people/{id}/{action}", s.handlePostPersonTransition)
	return mux
}
