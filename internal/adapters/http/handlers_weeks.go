package web

import (
	"net/http"
	"strings"
	"time"

	"eaglekidz/internal/application/listutil"
	"eaglekidz/internal/application/orchestrators"
	"eaglekidz/internal/application/projections"
	"eaglekidz/internal/domain/person"
	"eaglekidz/internal/domain/week"
)

// weeksView is the week list page with its create form.
type weeksView struct {
	projections.GetWeekListResult
	Date  string // create-form value, kept on error
	Today string
}

// handleGetWeeks handles GET /weeks.
func (s *Server) handleGetWeeks(w http.ResponseWriter, r *http.Request) {
	s.renderWeeks(w, r, http.StatusOK, "", nil)
}

func (s *Server) renderWeeks(w http.ResponseWriter, r *http.Request, status int, date string, notice *Notice) {
	q := r.URL.Query()
	query := projections.GetWeekListQuery{
		Criteria:       listutil.ParseWeekCriteria(q),
		UseDefaultYear: !q.Has("year"),
		Now:            s.now().In(s.loc),
		Location:       s.loc,
	}
	result, err := projections.QueryGetWeekList(r.Context(), query, projections.GetWeekListDeps{
		WeekStore:   s.deps.Backend,
		PersonStore: s.deps.Backend,
	})
	if err != nil {
		s.fail(w, r, "Weeks", err)
		return
	}
	view := weeksView{
		GetWeekListResult: result,
		Date:              date,
		Today:             s.now().In(s.loc).Format(week.DayLayout),
	}
	s.respond(w, r, status, "weeks.html", page{Title: "Weeks", Nav: "weeks", Notice: notice, Data: view})
}

// parseDay reads a YYYY-MM-DD form value in the display zone. Blank or
// malformed input yields the zero time.
func (s *Server) parseDay(v string) time.Time {
	t, err := time.ParseInLocation(week.DayLayout, strings.TrimSpace(v), s.loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// weekNewView previews the window a chosen date falls in.
type weekNewView struct {
	Date   string
	Window week.Window
	Taken  bool
}

// handleGetWeekNew handles GET /weeks/new?date=YYYY-MM-DD.
func (s *Server) handleGetWeekNew(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	day := s.parseDay(date)
	if day.IsZero() {
		day = s.now().In(s.loc)
		date = day.Format(week.DayLayout)
	}
	existing, err := s.deps.Backend.ListWeeks(r.Context())
	if err != nil {
		s.fail(w, r, "New week", err)
		return
	}
	view := weekNewView{Date: date, Window: week.WindowFor(day), Taken: week.IsDateTaken(existing, day)}
	var notice *Notice
	if view.Taken {
		notice = errorNotice(week.ErrAlreadyExists)
	}
	s.respond(w, r, http.StatusOK, "week_new.html", page{Title: "New week", Nav: "weeks", Notice: notice, Data: view})
}

// handlePostWeeks handles POST /weeks.
func (s *Server) handlePostWeeks(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		s.fail(w, r, "Weeks", err)
		return
	}
	date := r.FormValue("date")
	created, err := orchestrators.ExecuteCreateWeek(r.Context(),
		orchestrators.CreateWeekInput{Date: s.parseDay(date)},
		orchestrators.CreateWeekDeps{WeekStore: s.deps.Backend})
	if err != nil {
		s.renderWeeks(w, r, statusFor(err), date, errorNotice(err))
		return
	}
	done(w, r, "/weeks/"+created.ID+"/services", "week_created", http.StatusCreated, created)
}

// handlePostWeekDelete handles POST /weeks/{id}/delete.
func (s *Server) handlePostWeekDelete(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteWeek(r.Context(),
		orchestrators.DeleteWeekInput{WeekID: r.PathValue("id")},
		orchestrators.DeleteWeekDeps{WeekStore: s.deps.Backend})
	if err != nil {
		s.renderWeeks(w, r, statusFor(err), "", errorNotice(err))
		return
	}
	done(w, r, "/weeks", "week_deleted", http.StatusOK, nil)
}

// servicesView is the service-assignment form of one week.
type servicesView struct {
	Week      week.Week
	Services  []week.Service
	Ministers []person.Person
}

// handleGetWeekServices handles GET /weeks/{id}/services.
func (s *Server) handleGetWeekServices(w http.ResponseWriter, r *http.Request) {
	s.renderServices(w, r, r.PathValue("id"), nil, http.StatusOK, nil)
}

// renderServices shows the form; a nil services slice means use what the
// week holds, or the defaults when it holds none.
func (s *Server) renderServices(w http.ResponseWriter, r *http.Request, weekID string, services []week.Service, status int, notice *Notice) {
	wk, err := s.deps.Backend.GetWeek(r.Context(), weekID)
	if err != nil {
		s.fail(w, r, "Services", err)
		return
	}
	ministers, err := s.deps.Backend.ListPeopleByType(r.Context(), person.TypeMinister)
	if err != nil {
		s.fail(w, r, "Services", err)
		return
	}
	if services == nil {
		services = wk.Services
		if len(services) == 0 {
			services = week.DefaultServices()
		}
	}
	view := servicesView{Week: wk, Services: services, Ministers: ministers}
	s.respond(w, r, status, "week_services.html", page{Title: wk.Title(s.loc), Nav: "weeks", Notice: notice, Data: view})
}

// servicesFromForm zips the parallel name/time/minister fields. Rows with
// every field blank are dropped.
func servicesFromForm(r *http.Request) []week.Service {
	names, times, ministers := r.Form["name"], r.Form["time"], r.Form["minister"]
	services := make([]week.Service, 0, len(names))
	for i, name := range names {
		svc := week.Service{Name: strings.TrimSpace(name)}
		if i < len(times) {
			svc.Time = strings.TrimSpace(times[i])
		}
		if i < len(ministers) {
			svc.MinisterID = strings.TrimSpace(ministers[i])
		}
		if svc == (week.Service{}) {
			continue
		}
		services = append(services, svc)
	}
	return services
}

type serviceJSON struct {
	Name       string `json:"name"`
	Time       string `json:"time"`
	MinisterID string `json:"minister_id"`
}

// handlePostWeekServices handles POST /weeks/{id}/services.
func (s *Server) handlePostWeekServices(w http.ResponseWriter, r *http.Request) {
	weekID := r.PathValue("id")
	var services []week.Service
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Services []serviceJSON `json:"services"`
		}
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		services = make([]week.Service, 0, len(body.Services))
		for _, svc := range body.Services {
			services = append(services, week.Service{Name: svc.Name, Time: svc.Time, MinisterID: svc.MinisterID})
		}
	} else {
		if err := parseForm(r); err != nil {
			s.fail(w, r, "Services", err)
			return
		}
		services = servicesFromForm(r)
	}

	updated, err := orchestrators.ExecuteSaveServices(r.Context(),
		orchestrators.SaveServicesInput{WeekID: weekID, Services: services},
		orchestrators.SaveServicesDeps{WeekStore: s.deps.Backend})
	if err != nil {
		s.renderServices(w, r, weekID, services, statusFor(err), errorNotice(err))
		return
	}
	done(w, r, "/weeks", "services_saved", http.StatusOK, updated)
}
