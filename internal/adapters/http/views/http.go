// Package views implements the route table's view components as HTTP
// handlers backed by the tables client.
package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/pokerdesk/internal/adapters/tables"
	"github.com/okian/pokerdesk/internal/domain/table"
	"github.com/okian/pokerdesk/internal/router"
	"github.com/okian/pokerdesk/pkg/logger"
)

// Dependencies required by the views. Using an interface keeps the handler
// layer loosely coupled to the concrete client.
type Dependencies interface {
	ListSummaries(ctx context.Context) ([]table.Summary, error)
	Get(ctx context.Context, id int) (table.Table, error)
}

// Server wires the views and the health endpoint.
type Server struct {
	healthHandler *HealthHandler
	home          *HomeView
	table         *TableView
}

// NewServer creates a new server with all views.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		home:          NewHomeView(deps, log),
		table:         NewTableView(deps, log),
	}
}

// Register attaches the health endpoint and every route of the route table to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) error {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))

	r, err := router.New(
		map[string]router.View{
			router.RouteHome:  s.home,
			router.RouteTable: s.table,
		},
		router.WithMiddleware(MetricsMiddleware),
	)
	if err != nil {
		return fmt.Errorf("views.register: %w", err)
	}
	r.Register(mux)
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeUpstreamError translates a client failure into a gateway response.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var se *tables.StatusError
	switch {
	case errors.As(err, &se) && se.Code == http.StatusNotFound:
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, tables.ErrDecode), errors.Is(err, tables.ErrParse):
		writeError(w, http.StatusBadGateway, "invalid_upstream_payload", fmt.Errorf("%w: %w", ErrUpstream, err))
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "upstream_timeout", fmt.Errorf("%w: %w", ErrUpstream, err))
	default:
		writeError(w, http.StatusBadGateway, "upstream_error", fmt.Errorf("%w: %w", ErrUpstream, err))
	}
}
