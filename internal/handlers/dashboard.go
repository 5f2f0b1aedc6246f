package handlers

import (
	"errors"
	"net/http"

	"github.com/crucial707/blogfeed/internal/apperr"
	"github.com/crucial707/blogfeed/internal/metrics"
	"github.com/crucial707/blogfeed/internal/service"
)

// DashboardHandler serves the caller's tag-ranked feed.
type DashboardHandler struct {
	Blogs *service.BlogService
}

// Dashboard returns blogs sharing at least one tag with the caller, most shared tags
// first. An empty page is a 404.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	page, limit, ok := pageParams(w, r)
	if !ok {
		return
	}
	ranked, err := h.Blogs.Dashboard(r.Context(), user, page, limit)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.RecordDashboard(true)
		}
		WriteError(w, r, err)
		return
	}
	metrics.RecordDashboard(false)
	writeJSON(w, http.StatusOK, ranked)
}
