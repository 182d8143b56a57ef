// Package swagger serves the OpenAPI description of the HTTP API.
package swagger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Path is where the document is served.
const Path = "/openapi.yaml"

// Register attaches the OpenAPI document route to r.
func Register(r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get(Path, Handle)
}

// Handle writes the embedded OpenAPI document.
func Handle(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}
