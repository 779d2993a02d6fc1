package interfaces

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/logging"
	"github.com/yair/media-stats/pkg/pages"
	"github.com/yair/media-stats/pkg/views"
)

type CollectionHandler struct {
	service domain.CollectionService
}

func NewCollectionHandler(service domain.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		service: service,
	}
}

func (h *CollectionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc(pages.Collection.Path(), h.GetCollection).Methods("GET")
	router.HandleFunc("/api/releases", h.ListReleases).Methods("GET")
	router.HandleFunc("/api/releases/{id}", h.GetRelease).Methods("GET")
}

// collectionFilter pairs a dropdown with the filter field it controls.
type collectionFilter struct {
	dropdown *views.Dropdown
	field    func(*domain.ReleaseFilter) *string
	options  func(*domain.CollectionView) []string
}

var collectionFilters = []collectionFilter{
	{
		dropdown: views.FormatFilter,
		field:    func(f *domain.ReleaseFilter) *string { return &f.Format },
		options:  func(v *domain.CollectionView) []string { return v.Formats },
	},
	{
		dropdown: views.GenreFilter,
		field:    func(f *domain.ReleaseFilter) *string { return &f.Genre },
		options:  func(v *domain.CollectionView) []string { return v.Genres },
	},
	{
		dropdown: views.StyleFilter,
		field:    func(f *domain.ReleaseFilter) *string { return &f.Style },
		options:  func(v *domain.CollectionView) []string { return v.Styles },
	},
}

// GetCollection renders the collection page. Each query parameter is
// delivered to its dropdown as a change event, and the dropdown's callback
// updates the page filter.
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var filter domain.ReleaseFilter
	query := r.URL.Query()
	for _, cf := range collectionFilters {
		value := query.Get(cf.dropdown.Name())
		if value == "" {
			continue
		}
		field := cf.field(&filter)
		props := domain.FilterProps{
			OnChange: func(ev *domain.ChangeEvent) { *field = ev.Target.Value },
		}
		cf.dropdown.Change(props, &domain.ChangeEvent{
			Target: domain.ChangeTarget{Name: cf.dropdown.Name(), Value: value},
		})
	}

	view, err := h.service.View(ctx, filter)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to load collection")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	fragments := make([]template.HTML, 0, len(collectionFilters))
	for _, cf := range collectionFilters {
		selected := *cf.field(&view.Filter)
		if selected == "" {
			selected = AllOption
		}
		html, err := cf.dropdown.Render(domain.FilterProps{
			SelectedValue:   selected,
			AvailableValues: cf.options(view),
		})
		if err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("filter", cf.dropdown.Name()).Msg("failed to render filter")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		fragments = append(fragments, html)
	}

	body, err := views.RenderCollection(view, fragments...)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to render collection")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	renderPage(w, r, pages.Collection, body)
}

func (h *CollectionHandler) ListReleases(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	query := r.URL.Query()
	releases, err := h.service.Releases(ctx, domain.ReleaseFilter{
		Format: query.Get("format"),
		Genre:  query.Get("genre"),
		Style:  query.Get("style"),
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, releases)
}

func (h *CollectionHandler) GetRelease(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	release, err := h.service.Release(ctx, mux.Vars(r)["id"])
	if err != nil {
		switch err {
		case domain.ErrInvalidRequest:
			respondWithError(w, http.StatusBadRequest, "release id is required")
		case domain.ErrReleaseNotFound:
			respondWithError(w, http.StatusNotFound, "release not found")
		default:
			logging.Ctx(ctx).Error().Err(err).Msg("failed to get release")
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, release)
}
