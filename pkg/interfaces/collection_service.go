package interfaces

import (
	"context"
	"fmt"
	"strings"

	"github.com/yair/media-stats/pkg/domain"
)

// AllOption is the first entry of every collection filter and means "no
// filter" on that field.
const AllOption = "All"

type CollectionService struct {
	repository domain.ReleaseRepository
}

func NewCollectionService(repository domain.ReleaseRepository) *CollectionService {
	return &CollectionService{
		repository: repository,
	}
}

// View loads the whole collection once for the stats and option lists, then
// narrows the release list with the filter.
func (s *CollectionService) View(ctx context.Context, filter domain.ReleaseFilter) (*domain.CollectionView, error) {
	filter = normalizeFilter(filter)

	all, err := s.repository.List(ctx, domain.ReleaseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}
	total, err := s.repository.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count collection: %w", err)
	}

	formats, err := s.repository.DistinctFormats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}
	genres, err := s.repository.DistinctGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	styles, err := s.repository.DistinctStyles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list styles: %w", err)
	}

	view := &domain.CollectionView{
		Releases: []domain.Release{},
		Stats: domain.CollectionStats{
			TotalReleases: total,
			ByFormat:      make(map[string]int),
		},
		Formats: withAll(formats),
		Genres:  withAll(genres),
		Styles:  withAll(styles),
		Filter:  filter,
	}
	for _, release := range all {
		view.Stats.ByFormat[release.Format]++
		if filter.Matches(release) {
			view.Releases = append(view.Releases, release)
		}
	}

	return view, nil
}

func (s *CollectionService) Releases(ctx context.Context, filter domain.ReleaseFilter) ([]domain.Release, error) {
	releases, err := s.repository.List(ctx, normalizeFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}
	return releases, nil
}

func (s *CollectionService) Release(ctx context.Context, id string) (*domain.Release, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrInvalidRequest
	}
	return s.repository.GetByID(ctx, id)
}

func normalizeFilter(filter domain.ReleaseFilter) domain.ReleaseFilter {
	return domain.ReleaseFilter{
		Format: unlessAll(filter.Format),
		Genre:  unlessAll(filter.Genre),
		Style:  unlessAll(filter.Style),
	}
}

func unlessAll(value string) string {
	if value == AllOption {
		return ""
	}
	return value
}

func withAll(values []string) []string {
	return append([]string{AllOption}, values...)
}
