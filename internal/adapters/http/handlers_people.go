package web

import (
	"net/http"
	"net/url"
	"strings"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/application/orchestrators"
	"eaglekidz/internal/application/projections"
	"eaglekidz/internal/domain/person"
)

// rosterView is a minister or children roster page.
type rosterView struct {
	projections.GetRosterResult
	Criteria listutil.PersonCriteria
	Path     string // "/ministers" or "/children"
}

func rosterPath(personType string) string {
	if personType == person.TypeMinister {
		return "/ministers"
	}
	return "/children"
}

func rosterTitle(personType string) string {
	if personType == person.TypeMinister {
		return "Ministers"
	}
	return "Children"
}

// rosterPage returns the GET handler for one roster type.
func (s *Server) rosterPage(personType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria := listutil.ParsePersonCriteria(r.URL.Query())
		result, err := projections.QueryGetRoster(r.Context(),
			projections.GetRosterQuery{Type: personType, Criteria: criteria},
			projections.GetRosterDeps{PersonStore: s.deps.Backend})
		if err != nil {
			s.fail(w, r, rosterTitle(personType), err)
			return
		}
		s.rosterResponse(w, r, result, criteria, http.StatusOK, nil)
	}
}

func (s *Server) rosterResponse(w http.ResponseWriter, r *http.Request, result projections.GetRosterResult, c listutil.PersonCriteria, status int, notice *Notice) {
	view := rosterView{GetRosterResult: result, Criteria: c, Path: rosterPath(result.Type)}
	s.respond(w, r, status, "roster.html", page{
		Title:  rosterTitle(result.Type),
		Nav:    result.Type,
		Notice: notice,
		Data:   view,
	})
}

// personFormView backs the add and edit person forms.
type personFormView struct {
	PersonID string // empty when adding
	Draft    person.Draft
	Action   string
}

func (s *Server) renderPersonForm(w http.ResponseWriter, r *http.Request, view personFormView, status int, notice *Notice) {
	verb := "Add"
	if view.PersonID != "" {
		verb = "Edit"
	}
	noun := "child"
	if view.Draft.Type == person.TypeMinister {
		noun = "minister"
	}
	s.respond(w, r, status, "person_form.html", page{
		Title:  verb + " " + noun,
		Nav:    view.Draft.Type,
		Notice: notice,
		Data:   view,
	})
}

// handleGetPersonNew handles GET /people/new?type=minister|children.
func (s *Server) handleGetPersonNew(w http.ResponseWriter, r *http.Request) {
	t := r.URL.Query().Get("type")
	if !person.IsValidType(t) {
		s.fail(w, r, "Add person", person.ErrInvalidType)
		return
	}
	s.renderPersonForm(w, r, personFormView{Draft: person.Draft{Type: t}, Action: "/people"}, http.StatusOK, nil)
}

// handleGetPersonEdit handles GET /people/{id}/edit.
func (s *Server) handleGetPersonEdit(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Backend.GetPerson(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, "Edit person", err)
		return
	}
	s.renderPersonForm(w, r, personFormView{
		PersonID: p.ID,
		Draft:    person.DraftFrom(p),
		Action:   "/people/" + p.ID,
	}, http.StatusOK, nil)
}

// personDraftJSON is the JSON body accepted by the person write routes.
type personDraftJSON struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Type      string   `json:"type"`
	AgeGroup  []string `json:"age_group"`
	Roles     []string `json:"roles"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Notes     string   `json:"notes"`
}

func readPersonDraft(r *http.Request) (person.Draft, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body personDraftJSON
		if err := strictDecode(r, &body); err != nil {
			return person.Draft{}, errBadForm
		}
		return person.Draft(body), nil
	}
	if err := parseForm(r); err != nil {
		return person.Draft{}, err
	}
	return person.Draft{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Type:      r.FormValue("type"),
		AgeGroup:  r.Form["age_group"],
		Roles:     r.Form["roles"],
		Phone:     r.FormValue("phone"),
		Email:     r.FormValue("email"),
		Notes:     r.FormValue("notes"),
	}, nil
}

func (s *Server) savePerson(w http.ResponseWriter, r *http.Request, id string) {
	draft, err := readPersonDraft(r)
	if err != nil {
		s.fail(w, r, "Save person", err)
		return
	}
	saved, err := orchestrators.ExecuteSavePerson(r.Context(),
		orchestrators.SavePersonInput{PersonID: id, Draft: draft},
		orchestrators.SavePersonDeps{PersonStore: s.deps.Backend})
	if err != nil {
		action := "/people"
		if id != "" {
			action = "/people/" + id
		}
		s.renderPersonForm(w, r, personFormView{PersonID: id, Draft: draft, Action: action}, statusFor(err), errorNotice(err))
		return
	}
	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	done(w, r, rosterPath(saved.Type), "person_saved", status, saved)
}

// handlePostPeople handles POST /people.
func (s *Server) handlePostPeople(w http.ResponseWriter, r *http.Request) {
	s.savePerson(w, r, "")
}

// handlePostPerson handles POST /people/{id}.
func (s *Server) handlePostPerson(w http.ResponseWriter, r *http.Request) {
	s.savePerson(w, r, r.PathValue("id"))
}

// handlePostPersonTransition handles POST /people/{id}/{delete|restore|purge}.
// The form carries the roster type and the active filters so the page
// re-renders as the user left it.
func (s *Server) handlePostPersonTransition(w http.ResponseWriter, r *http.Request) {
	t, err := orchestrators.ParseTransition(r.PathValue("action"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(r); err != nil {
		s.fail(w, r, "People", err)
		return
	}
	personType := r.FormValue("type")
	if !person.IsValidType(personType) {
		s.fail(w, r, "People", person.ErrInvalidType)
		return
	}
	criteria := listutil.ParsePersonCriteria(url.Values{
		"q":         {r.FormValue("q")},
		"age_group": {r.FormValue("age_group")},
		"role":      {r.FormValue("role")},
	})

	result, err := orchestrators.ExecuteTransitionPerson(r.Context(),
		orchestrators.TransitionPersonInput{Type: personType, PersonID: r.PathValue("id"), Transition: t, Criteria: criteria},
		orchestrators.TransitionPersonDeps{PersonStore: s.deps.Backend})
	if err != nil {
		if result.Type == "" {
			s.fail(w, r, rosterTitle(personType), err)
			return
		}
		s.rosterResponse(w, r, result, criteria, statusFor(err), errorNotice(err))
		return
	}
	s.rosterResponse(w, r, result, criteria, http.StatusOK, &Notice{Kind: NoticeSuccess, Message: transitionMessages[t]})
}
