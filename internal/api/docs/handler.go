// Package docs serves the OpenAPI document and a Swagger UI that renders it.
package docs

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const specFile = "swagger.yaml"

//go:embed swagger.yaml
var openAPI []byte

var builtAt = time.Now()

// Mount serves the UI under prefix, the raw document at prefix/swagger.yaml,
// and redirects the bare prefix to the UI index.
func Mount(r chi.Router, prefix string) {
	sub := chi.NewRouter()

	sub.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, prefix+"/index.html", http.StatusFound)
	})
	sub.Get("/"+specFile, serveSpec)
	sub.Get("/*", httpSwagger.Handler(
		httpSwagger.URL(prefix+"/"+specFile),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	))

	r.Mount(prefix, sub)
}

func serveSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	http.ServeContent(w, r, specFile, builtAt, bytes.NewReader(openAPI))
}
