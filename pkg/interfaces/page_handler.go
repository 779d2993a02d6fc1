package interfaces

import (
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/logging"
	"github.com/yair/media-stats/pkg/pages"
	"github.com/yair/media-stats/pkg/views"
)

// PageHandler serves the metadata-only pages and the metadata JSON API.
// Routes listed in skip are left for a dedicated handler.
type PageHandler struct {
	registry *pages.Registry
	skip     map[string]bool
}

func NewPageHandler(registry *pages.Registry, skip ...string) *PageHandler {
	h := &PageHandler{
		registry: registry,
		skip:     make(map[string]bool, len(skip)),
	}
	for _, key := range skip {
		h.skip[key] = true
	}
	return h
}

func (h *PageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/metadata/{route}", h.GetMetadata).Methods("GET")
	for _, route := range h.registry.Routes() {
		if h.skip[route.Key()] {
			continue
		}
		router.Handle(route.Path(), h.pageHandler(route)).Methods("GET")
	}
}

func (h *PageHandler) GetMetadata(w http.ResponseWriter, r *http.Request) {
	route, err := h.registry.ByKey(mux.Vars(r)["route"])
	if err != nil {
		switch err {
		case domain.ErrRouteNotFound:
			respondWithError(w, http.StatusNotFound, "route not found")
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, route.Metadata())
}

func (h *PageHandler) pageHandler(route pages.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := template.HTML(`<main id="` + template.HTMLEscapeString(route.Key()) + `"></main>`)
		renderPage(w, r, route, body)
	}
}

func renderPage(w http.ResponseWriter, r *http.Request, route pages.Route, body template.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := views.Page{
		Metadata: route.Metadata(),
		Body:     route.Layout(body),
	}
	if err := views.RenderPage(w, page); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("route", route.Key()).Msg("failed to render page")
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
