//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "ct2d/docs"
)

// MountSwagger serves the generated OpenAPI UI at /docs.
func MountSwagger(r chi.Router) {
	r.Get("/docs/*", httpSwagger.Handler())
}
