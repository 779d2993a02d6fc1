package pages

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/yair/media-stats/pkg/domain"
)

// Registry indexes routes by key and path, keeping registration order.
type Registry struct {
	routes []Route
	byKey  map[string]Route
	byPath map[string]Route
}

func NewRegistry(routes ...Route) (*Registry, error) {
	r := &Registry{
		byKey:  make(map[string]Route, len(routes)),
		byPath: make(map[string]Route, len(routes)),
	}
	for _, route := range routes {
		if route == nil {
			return nil, fmt.Errorf("route cannot be nil")
		}
		if _, ok := r.byKey[route.Key()]; ok {
			return nil, fmt.Errorf("duplicate route key %q", route.Key())
		}
		if _, ok := r.byPath[route.Path()]; ok {
			return nil, fmt.Errorf("duplicate route path %q", route.Path())
		}
		r.routes = append(r.routes, route)
		r.byKey[route.Key()] = route
		r.byPath[route.Path()] = route
	}
	return r, nil
}

// DefaultRegistry returns every route of the site.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Collection, GuessGame, Library, PlaylistCover, Recommendations)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

func (r *Registry) ByKey(key string) (Route, error) {
	route, ok := r.byKey[key]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return route, nil
}

func (r *Registry) ByPath(path string) (Route, error) {
	route, ok := r.byPath[path]
	if !ok {
		return nil, domain.ErrRouteNotFound
	}
	return route, nil
}

// ImageHosts is the set of hosts remote images may be loaded from.
type ImageHosts []string

func (h ImageHosts) Allows(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	for _, host := range h {
		if strings.EqualFold(u.Hostname(), host) {
			return true
		}
	}
	return false
}

// Validate checks every route's metadata against the image allow-list and the
// card enum.
func (r *Registry) Validate(allowed ImageHosts) error {
	var errs []error
	for _, route := range r.routes {
		meta := route.Metadata()
		if !meta.Twitter.Card.Valid() {
			errs = append(errs, fmt.Errorf("route %s: invalid twitter card %q", route.Key(), meta.Twitter.Card))
		}
		for _, image := range meta.ImageURLs() {
			if !allowed.Allows(image) {
				errs = append(errs, fmt.Errorf("route %s: %w: %s", route.Key(), domain.ErrImageHostNotAllowed, image))
			}
		}
	}
	return errors.Join(errs...)
}
