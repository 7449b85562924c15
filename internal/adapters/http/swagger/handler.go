// Package swagger serves the OpenAPI description of the HTTP front end.
package swagger

import (
	"context"
	_ "embed"
	"net/http"
)

// OpenAPI is the embedded OpenAPI document.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Path is where the document is served. It sits two segments deep so it
// never collides with the single-segment table route.
const Path = "/api-docs/openapi.yaml"

// Register attaches the OpenAPI document route to mux.
//
//	GET /api-docs/openapi.yaml -> embedded OpenAPI spec
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET "+Path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	})
}
