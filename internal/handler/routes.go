package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"go-brandsite-app/internal/middleware"
	"go-brandsite-app/internal/store"
)

// NewRouter creates and configures a new chi router. contentRoot is the
// directory the document store and media store share; materialized media
// is served from it under the public path shape the rewriter emits.
func NewRouter(contentHandler *ContentHandler, errorMiddleware func(middleware.AppHandler) http.Handler, contentRoot string) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Admin content API
	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/content/{area}", errorMiddleware(contentHandler.loadHandler))
		r.Method(http.MethodGet, "/content/{area}/{brand}", errorMiddleware(contentHandler.loadHandler))
		r.Method(http.MethodGet, "/content/{area}/{brand}/{slug}", errorMiddleware(contentHandler.loadHandler))

		r.Method(http.MethodPut, "/content/{area}", errorMiddleware(contentHandler.saveHandler))
		r.Method(http.MethodPut, "/content/{area}/{brand}", errorMiddleware(contentHandler.saveHandler))
		r.Method(http.MethodPut, "/content/{area}/{brand}/{slug}", errorMiddleware(contentHandler.saveHandler))

		r.Method(http.MethodPost, "/preview", errorMiddleware(contentHandler.previewHandler))
	})

	// Materialized media: /<area>/<identity>/media/<file> maps straight
	// onto the content tree.
	fileServer := http.FileServer(http.Dir(contentRoot))
	for _, area := range []store.Area{store.AreaProduct, store.AreaBrand, store.AreaHome, store.AreaBlog} {
		r.Handle("/"+string(area)+"/*", fileServer)
	}

	return r
}
