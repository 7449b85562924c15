package views

import (
	"net/http"

	"github.com/okian/pokerdesk/internal/router"
	"github.com/okian/pokerdesk/pkg/logger"
	"github.com/okian/pokerdesk/pkg/metrics"
)

// TableView shows one table. The route table hands it a coerced id that may
// be the NaN sentinel; rejecting it is this view's job.
type TableView struct {
	deps   Dependencies
	logger logger.Logger
}

// NewTableView creates the detail view.
func NewTableView(deps Dependencies, log logger.Logger) *TableView {
	return &TableView{deps: deps, logger: log}
}

// Render handles GET /{id} requests.
func (v *TableView) Render(w http.ResponseWriter, r *http.Request, props router.Props) {
	id, ok := props.TableID()
	if !ok {
		metrics.RecordInvalidRouteParam(router.RouteTable)
		writeError(w, http.StatusBadRequest, "invalid_table_id", ErrInvalidTableID)
		return
	}
	t, err := v.deps.Get(r.Context(), id)
	if err != nil {
		v.logger.Warn(r.Context(), "fetching table failed", logger.Int("table_id", id), logger.Error(err))
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
