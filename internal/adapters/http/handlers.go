// Package web serves the EagleKidz admin pages. Every GET page renders HTML
// for browsers and the same view model as JSON for other clients.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/csrf"

	"eaglekidz/internal/adapters/api"
	"eaglekidz/internal/adapters/email"
	"eaglekidz/internal/application/lifecycle"
	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/application/orchestrators"
	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// Notice kinds.
const (
	NoticeError   = "error"
	NoticeSuccess = "success"
)

// Notice is a transient message shown above the page content.
type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func errorNotice(err error) *Notice { return &Notice{Kind: NoticeError, Message: err.Error()} }

// flashes maps the ?ok= key set by post-redirect-get to its message.
var flashes = map[string]string{
	"week_created":   "Week created",
	"week_deleted":   "Week deleted",
	"services_saved": "Services saved",
	"review_created": "Review added",
	"review_updated": "Review updated",
	"review_shared":  "Review emailed",
	"person_saved":   "Saved",
}

func flashNotice(r *http.Request) *Notice {
	if msg, ok := flashes[r.URL.Query().Get("ok")]; ok {
		return &Notice{Kind: NoticeSuccess, Message: msg}
	}
	return nil
}

// page is the value every template is executed with.
type page struct {
	Title   string
	Nav     string
	Notice  *Notice
	Version string
	Data    any
}

// pageNames lists the page templates; each is parsed together with layout.html.
var pageNames = []string{
	"dashboard.html",
	"weeks.html",
	"week_new.html",
	"week_services.html",
	"week_reviews.html",
	"review_form.html",
	"reviews.html",
	"roster.html",
	"person_form.html",
	"message.html",
}

type pageSet map[string]*template.Template

func parsePages(fsys fs.FS, funcs template.FuncMap) (pageSet, error) {
	set := make(pageSet, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		set[name] = tpl
	}
	return set, nil
}

func (s *Server) funcMap() template.FuncMap {
	inLoc := func(t time.Time) time.Time { return t.In(s.loc) }
	return template.FuncMap{
		"csrfToken": func() string { return "" }, // rebound per request
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return inLoc(t).Format("Jan 2, 2006")
		},
		"dateTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return inLoc(t).Format("Jan 2, 2006 3:04 PM")
		},
		"dayKey":    func(t time.Time) string { return inLoc(t).Format(week.DayLayout) },
		"weekTitle": func(w week.Week) string { return w.Title(s.loc) },
		"weekDays":  func(w week.Week) int { return w.DurationDays(s.loc) },
		"markdown":  renderMarkdown,
		"richText":  sanitizeRichText,
		"add":       func(a, b int) int { return a + b },
		"sub":       func(a, b int) int { return a - b },
		"join":      strings.Join,
		"contains":  func(list []string, v string) bool { return slices.Contains(list, v) },
		"monthNum":  func(m time.Month) int { return int(m) },
		"list":      func(items ...string) []string { return items },
		"ageGroups": func() []string { return person.AgeGroups },
		"roles":     func() []string { return person.Roles },
	}
}

func isHTMLRequest(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") || strings.Contains(accept, "application/xhtml+xml")
}

// render executes a page into a buffer so a template failure never leaves a
// half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	base, ok := s.pages[name]
	if !ok {
		internalError(w, fmt.Errorf("unknown template %q", name))
		return
	}
	tpl, err := base.Clone()
	if err != nil {
		internalError(w, err)
		return
	}
	tpl.Funcs(template.FuncMap{"csrfToken": func() string { return csrf.Token(r) }})

	p.Version = s.deps.Version
	if p.Notice == nil {
		p.Notice = flashNotice(r)
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("page_write_failed", "template", name, "error", err)
	}
}

// respond renders HTML for browsers and JSON otherwise. An error notice
// becomes {"error": message} in JSON.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	if isHTMLRequest(r) {
		s.render(w, r, status, name, p)
		return
	}
	if p.Notice != nil && p.Notice.Kind == NoticeError {
		writeJSON(w, status, map[string]string{"error": p.Notice.Message})
		return
	}
	writeJSON(w, status, p.Data)
}

// fail shows err on a bare message page.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, title string, err error) {
	s.respond(w, r, statusFor(err), "message.html", page{Title: title, Notice: errorNotice(err)})
}

// done finishes a successful write: browsers are redirected with a flash
// key, other clients get data as JSON.
func done(w http.ResponseWriter, r *http.Request, target, flash string, status int, data any) {
	if isHTMLRequest(r) {
		if flash != "" {
			target = withQuery(target, "ok", flash)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, data)
}

func withQuery(target, key, value string) string {
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json_encode_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

var errBadForm = errors.New("Invalid form submission")

func parseForm(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errBadForm
	}
	return nil
}

var validationErrors = []error{
	week.ErrNoDate,
	week.ErrInvalidWindow,
	week.ErrEmptyServiceName,
	week.ErrEmptyServiceTime,
	review.ErrMissingWeek,
	review.ErrEmptyWhatWentWell,
	review.ErrEmptyCanImprove,
	review.ErrEmptyActionPlans,
	review.ErrEmptySummary,
	review.ErrSummaryInputMissing,
	person.ErrInvalidType,
	person.ErrEmptyFirstName,
	person.ErrEmptyLastName,
	person.ErrNameTooLong,
	person.ErrInvalidEmail,
	person.ErrNoAgeGroup,
	person.ErrUnknownTag,
	email.ErrNoRecipients,
}

// statusFor maps an operation error to the response status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, week.ErrAlreadyExists),
		errors.Is(err, lifecycle.ErrNotActive),
		errors.Is(err, lifecycle.ErrNotDeleted),
		errors.Is(err, lifecycle.ErrPurged):
		return http.StatusConflict
	case errors.Is(err, orchestrators.ErrUnknownTransition):
		return http.StatusNotFound
	case errors.Is(err, errBadForm):
		return http.StatusBadRequest
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return http.StatusUnprocessableEntity
		}
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 600 {
			return apiErr.StatusCode
		}
		return http.StatusBadGateway
	}
	if errors.Is(err, api.ErrNoData) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// pageLink is one numbered pagination link.
type pageLink struct {
	Number  int
	URL     string
	Current bool
}

// pagination carries ready-made links for a list page.
type pagination struct {
	listutil.PageInfo
	Links   []pageLink
	PrevURL string
	NextURL string
}

func newPagination(u *url.URL, info listutil.PageInfo) pagination {
	at := func(n int) string {
		q := u.Query()
		q.Set("page", fmt.Sprint(n))
		return u.Path + "?" + q.Encode()
	}
	p := pagination{PageInfo: info}
	for _, n := range info.PageNumbers() {
		p.Links = append(p.Links, pageLink{Number: n, URL: at(n), Current: n == info.Page})
	}
	if info.Page > 1 {
		p.PrevURL = at(info.Page - 1)
	}
	if info.Page < info.TotalPages {
		p.NextURL = at(info.Page + 1)
	}
	return p
}
