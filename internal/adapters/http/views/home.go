package views

import (
	"net/http"

	"github.com/okian/pokerdesk/internal/router"
	"github.com/okian/pokerdesk/pkg/logger"
)

// HomeView lists every table.
type HomeView struct {
	deps   Dependencies
	logger logger.Logger
}

// NewHomeView creates the list view.
func NewHomeView(deps Dependencies, log logger.Logger) *HomeView {
	return &HomeView{deps: deps, logger: log}
}

// Render handles GET / requests.
func (v *HomeView) Render(w http.ResponseWriter, r *http.Request, _ router.Props) {
	summaries, err := v.deps.ListSummaries(r.Context())
	if err != nil {
		v.logger.Warn(r.Context(), "listing tables failed", logger.Error(err))
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
