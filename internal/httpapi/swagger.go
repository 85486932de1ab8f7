//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

// apiDoc is a hand-maintained OpenAPI description of the public surface.
// Run `make swagger-gen` to regenerate it from the handler annotations.
const apiDoc = `{
  "swagger": "2.0",
  "info": {
    "title": "ct2d API",
    "description": "HTTP API for serving CTranslate2 models.",
    "version": "1.0"
  },
  "basePath": "/",
  "paths": {
    "/models": {"get": {"summary": "List models", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/status": {"get": {"summary": "Runner status", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
    "/v1/translate": {"post": {"summary": "Translate a batch", "consumes": ["application/json"], "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
    "/v1/generate": {"post": {"summary": "Generate continuations", "consumes": ["application/json"], "produces": ["application/json", "application/x-ndjson"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}}},
    "/healthz": {"get": {"summary": "Liveness", "responses": {"200": {"description": "OK"}}}},
    "/readyz": {"get": {"summary": "Readiness", "responses": {"200": {"description": "OK"}, "503": {"description": "Draining"}}}}
  }
}`

type apiSpec struct{}

func (apiSpec) ReadDoc() string { return apiDoc }

func init() {
	swag.Register(swag.Name, apiSpec{})
}

// MountSwagger serves the Swagger UI under /swagger/.
func MountSwagger(r chi.Router) {
	r.Get("/swagger/*", httpSwagger.Handler())
}
