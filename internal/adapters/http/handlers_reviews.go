package web

import (
	"net/http"
	"strings"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/application/orchestrators"
	"eaglekidz/internal/application/projections"
	"eaglekidz/internal/domain/review"
	"eaglekidz/internal/domain/week"
)

// handleGetWeekReviews handles GET /weeks/{id}/reviews.
func (s *Server) handleGetWeekReviews(w http.ResponseWriter, r *http.Request) {
	s.renderWeekReviews(w, r, r.PathValue("id"), http.StatusOK, nil)
}

func (s *Server) renderWeekReviews(w http.ResponseWriter, r *http.Request, weekID string, status int, notice *Notice) {
	result, err := projections.QueryGetWeekReviews(r.Context(),
		projections.GetWeekReviewsQuery{WeekID: weekID},
		projections.GetWeekReviewsDeps{WeekStore: s.deps.Backend, ReviewStore: s.deps.Backend})
	if err != nil {
		s.fail(w, r, "Reviews", err)
		return
	}
	s.weekReviewsPage(w, r, result, status, notice)
}

func (s *Server) weekReviewsPage(w http.ResponseWriter, r *http.Request, result projections.GetWeekReviewsResult, status int, notice *Notice) {
	s.respond(w, r, status, "week_reviews.html", page{
		Title:  result.Week.Title(s.loc),
		Nav:    "weeks",
		Notice: notice,
		Data:   result,
	})
}

// reviewFormView backs both the add and the edit form.
type reviewFormView struct {
	Week     week.Week
	ReviewID string // empty when adding
	Draft    review.Draft
	Action   string
}

func (s *Server) renderReviewForm(w http.ResponseWriter, r *http.Request, view reviewFormView, status int, notice *Notice) {
	title := "Add review"
	if view.ReviewID != "" {
		title = "Edit review"
	}
	s.respond(w, r, status, "review_form.html", page{Title: title, Nav: "reviews", Notice: notice, Data: view})
}

// handleGetReviewNew handles GET /weeks/{id}/reviews/new.
func (s *Server) handleGetReviewNew(w http.ResponseWriter, r *http.Request) {
	wk, err := s.deps.Backend.GetWeek(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "Add review", err)
		return
	}
	s.renderReviewForm(w, r, reviewFormView{
		Week:   wk,
		Draft:  review.Draft{WeekID: wk.ID},
		Action: "/weeks/" + wk.ID + "/reviews",
	}, http.StatusOK, nil)
}

// reviewDraftJSON is the JSON body accepted by the review write routes.
type reviewDraftJSON struct {
	WeekID       string `json:"week_id"`
	WhatWentWell string `json:"what_went_well"`
	CanImprove   string `json:"can_improve"`
	ActionPlans  string `json:"action_plans"`
	Summary      string `json:"summary"`
}

func readReviewDraft(r *http.Request) (review.Draft, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body reviewDraftJSON
		if err := strictDecode(r, &body); err != nil {
			return review.Draft{}, errBadForm
		}
		return review.Draft(body), nil
	}
	if err := parseForm(r); err != nil {
		return review.Draft{}, err
	}
	return review.Draft{
		WeekID:       r.FormValue("week_id"),
		WhatWentWell: r.FormValue("what_went_well"),
		CanImprove:   r.FormValue("can_improve"),
		ActionPlans:  r.FormValue("action_plans"),
		Summary:      r.FormValue("summary"),
	}, nil
}

// handlePostWeekReviews handles POST /weeks/{id}/reviews.
func (s *Server) handlePostWeekReviews(w http.ResponseWriter, r *http.Request) {
	weekID := r.PathValue("id")
	draft, err := readReviewDraft(r)
	if err != nil {
		s.fail(w, r, "Add review", err)
		return
	}
	draft.WeekID = weekID

	created, err := orchestrators.ExecuteCreateReview(r.Context(),
		orchestrators.SaveReviewInput{Draft: draft},
		orchestrators.SaveReviewDeps{ReviewStore: s.deps.Backend})
	if err != nil {
		wk, werr := s.deps.Backend.GetWeek(r.Context(), weekID)
		if werr != nil {
			s.fail(w, r, "Add review", err)
			return
		}
		s.renderReviewForm(w, r, reviewFormView{Week: wk, Draft: draft, Action: "/weeks/" + weekID + "/reviews"},
			statusFor(err), errorNotice(err))
		return
	}
	done(w, r, "/weeks/"+weekID+"/reviews", "review_created", http.StatusCreated, created)
}

// handleGetReviewEdit handles GET /reviews/{id}/edit.
func (s *Server) handleGetReviewEdit(w http.ResponseWriter, r *http.Request) {
	rv, err := s.deps.Backend.GetReview(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "Edit review", err)
		return
	}
	wk, err := s.deps.Backend.GetWeek(r.Context(), rv.WeekID)
	if err != nil {
		s.fail(w, r, "Edit review", err)
		return
	}
	s.renderReviewForm(w, r, reviewFormView{
		Week:     wk,
		ReviewID: rv.ID,
		Draft:    review.DraftFrom(rv),
		Action:   "/reviews/" + rv.ID,
	}, http.StatusOK, nil)
}

// handlePostReview handles POST /reviews/{id}: a full-field update.
func (s *Server) handlePostReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	draft, err := readReviewDraft(r)
	if err != nil {
		s.fail(w, r, "Edit review", err)
		return
	}

	updated, err := orchestrators.ExecuteUpdateReview(r.Context(),
		orchestrators.SaveReviewInput{ReviewID: id, Draft: draft},
		orchestrators.SaveReviewDeps{ReviewStore: s.deps.Backend})
	if err != nil {
		view := reviewFormView{ReviewID: id, Draft: draft, Action: "/reviews/" + id}
		if draft.WeekID != "" {
			if wk, werr := s.deps.Backend.GetWeek(r.Context(), draft.WeekID); werr == nil {
				view.Week = wk
			}
		}
		s.renderReviewForm(w, r, view, statusFor(err), errorNotice(err))
		return
	}

	target := "/reviews"
	if weekID := firstNonBlank(updated.WeekID, draft.WeekID); weekID != "" {
		target = "/weeks/" + weekID + "/reviews"
	}
	done(w, r, target, "review_updated", http.StatusOK, updated)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// handlePostReviewTransition handles POST /reviews/{id}/{delete|restore|purge}
// and re-renders the week's review page from the resulting partition.
func (s *Server) handlePostReviewTransition(w http.ResponseWriter, r *http.Request) {
	t, err := orchestrators.ParseTransition(r.PathValue("action"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(r); err != nil {
		s.fail(w, r, "Reviews", err)
		return
	}
	weekID := r.FormValue("week_id")
	if weekID == "" {
		s.fail(w, r, "Reviews", errBadForm)
		return
	}

	result, err := orchestrators.ExecuteTransitionReview(r.Context(),
		orchestrators.TransitionReviewInput{WeekID: weekID, ReviewID: r.PathValue("id"), Transition: t},
		orchestrators.TransitionReviewDeps{WeekStore: s.deps.Backend, ReviewStore: s.deps.Backend})
	if err != nil {
		if result.Week.ID == "" {
			s.fail(w, r, "Reviews", err)
			return
		}
		s.weekReviewsPage(w, r, result, statusFor(err), errorNotice(err))
		return
	}
	s.weekReviewsPage(w, r, result, http.StatusOK, &Notice{Kind: NoticeSuccess, Message: transitionMessages[t]})
}

var transitionMessages = map[orchestrators.Transition]string{
	orchestrators.TransitionDelete:  "Moved to deleted",
	orchestrators.TransitionRestore: "Restored",
	orchestrators.TransitionPurge:   "Permanently deleted",
}

// reviewsView is the all-reviews page.
type reviewsView struct {
	projections.GetReviewListResult
	Pagination     pagination
	PerPageOptions []int
	From, To       string // raw range inputs
}

// handleGetReviews handles GET /reviews.
func (s *Server) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := projections.GetReviewListQuery{
		Criteria: listutil.ParseReviewCriteria(q, s.loc),
		Page:     listutil.ParsePageParams(q),
		Now:      s.now(),
		Location: s.loc,
	}
	result, err := projections.QueryGetReviewList(r.Context(), query, projections.GetReviewListDeps{
		WeekStore:   s.deps.Backend,
		ReviewStore: s.deps.Backend,
	})
	if err != nil {
		s.fail(w, r, "Reviews", err)
		return
	}
	view := reviewsView{
		GetReviewListResult: result,
		Pagination:          newPagination(r.URL, result.PageInfo),
		PerPageOptions:      listutil.PerPageOptions,
		From:                q.Get("from"),
		To:                  q.Get("to"),
	}
	s.respond(w, r, http.StatusOK, "reviews.html", page{Title: "Reviews", Nav: "reviews", Data: view})
}

// summarizeJSON is the body of POST /reviews/summarize.
type summarizeJSON struct {
	WhatWentWell string `json:"what_went_well"`
	CanImprove   string `json:"can_improve"`
	ActionPlans  string `json:"action_plans"`
}

// handlePostSummarize handles POST /reviews/summarize. It always answers
// JSON: {"summary": html} or {"error": message}.
func (s *Server) handlePostSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeJSON
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
			return
		}
	} else {
		if err := parseForm(r); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		body = summarizeJSON{
			WhatWentWell: r.FormValue("what_went_well"),
			CanImprove:   r.FormValue("can_improve"),
			ActionPlans:  r.FormValue("action_plans"),
		}
	}

	summary, err := orchestrators.ExecuteGenerateSummary(r.Context(), review.SummaryRequest(body),
		orchestrators.GenerateSummaryDeps{Summarizer: s.deps.Backend})
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": string(sanitizeRichText(summary))})
}

// handlePostReviewShare handles POST /reviews/{id}/share.
func (s *Server) handlePostReviewShare(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.fail(w, r, "Share review", err)
		return
	}
	weekID := r.FormValue("week_id")
	receipt, err := orchestrators.ExecuteShareReview(r.Context(),
		orchestrators.ShareReviewInput{ReviewID: r.PathValue("id")},
		orchestrators.ShareReviewDeps{
			Lookup:     s.deps.Backend,
			Sender:     s.deps.Sender,
			Recipients: s.deps.Recipients,
			Render:     sanitizeRichText,
			Location:   s.loc,
		})
	if err != nil {
		if weekID == "" || !isHTMLRequest(r) {
			s.fail(w, r, "Share review", err)
			return
		}
		s.renderWeekReviews(w, r, weekID, statusFor(err), errorNotice(err))
		return
	}
	target := "/reviews"
	if weekID != "" {
		target = "/weeks/" + weekID + "/reviews"
	}
	done(w, r, target, "review_shared", http.StatusOK, receipt)
}
