package interfaces

import (
	"context"
	"fmt"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/integrations"
)

// TopArtistsService asks the source for one user's weekly chart.
type TopArtistsService struct {
	source   domain.TopArtistsSource
	username string
}

// NewTopArtistsService accepts a nil source; every call then fails with
// ErrUpstreamUnavailable so the site still starts without Last.fm credentials.
func NewTopArtistsService(source domain.TopArtistsSource, username string) *TopArtistsService {
	return &TopArtistsService{
		source:   source,
		username: username,
	}
}

func (s *TopArtistsService) TopArtists(ctx context.Context) ([]domain.Artist, error) {
	if s.source == nil || s.username == "" {
		return nil, fmt.Errorf("%w: last.fm credentials not configured", domain.ErrUpstreamUnavailable)
	}

	return s.source.TopArtists(ctx, domain.TopArtistsRequest{
		Username: s.username,
		Period:   integrations.TopArtistsPeriod,
		Limit:    integrations.TopArtistsLimit,
	})
}
