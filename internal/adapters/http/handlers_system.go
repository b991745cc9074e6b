package web

import (
	"net/http"
	"strconv"
	"time"

	"eaglekidz/internal/application/projections"
)

// dashboardView is the landing page.
type dashboardView struct {
	projections.GetDashboardResult
	LatencyMs int64
}

// handleDashboard handles GET /.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryGetDashboard(r.Context(),
		projections.GetDashboardQuery{Now: s.now().In(s.loc)},
		projections.GetDashboardDeps{
			Status:      s.deps.Backend,
			WeekStore:   s.deps.Backend,
			ReviewStore: s.deps.Backend,
			PersonStore: s.deps.Backend,
		})
	if err != nil {
		s.fail(w, r, "Dashboard", err)
		return
	}
	view := dashboardView{GetDashboardResult: result, LatencyMs: result.BackendLatency.Milliseconds()}
	if !isHTMLRequest(r) {
		writeJSON(w, http.StatusOK, view)
		return
	}
	var notice *Notice
	if !result.BackendUp {
		notice = &Notice{Kind: NoticeError, Message: "The EagleKidz service is not reachable"}
	}
	s.render(w, r, http.StatusOK, "dashboard.html", page{Title: "Dashboard", Nav: "dashboard", Notice: notice, Data: view})
}

// handleHealthz handles GET /healthz: liveness of this process only.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.deps.Version})
}

// handlePerf handles GET /debug/perf?minutes=N&top=N.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.deps.Collector == nil {
		http.NotFound(w, r)
		return
	}
	minutes := queryInt(r, "minutes", 60)
	top := queryInt(r, "top", 10)
	writeJSON(w, http.StatusOK, s.deps.Collector.Snapshot(s.now().Add(-time.Duration(minutes)*time.Minute), top))
}

func queryInt(r *http.Request, key string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
