package domain

import (
	"context"
)

type ReleaseRepository interface {
	Create(ctx context.Context, release *Release) error
	GetByID(ctx context.Context, id string) (*Release, error)
	List(ctx context.Context, filter ReleaseFilter) ([]Release, error)
	DistinctFormats(ctx context.Context) ([]string, error)
	DistinctGenres(ctx context.Context) ([]string, error)
	DistinctStyles(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
}

type TopArtistsSource interface {
	TopArtists(ctx context.Context, req TopArtistsRequest) ([]Artist, error)
}

type TopArtistsService interface {
	TopArtists(ctx context.Context) ([]Artist, error)
}

type CollectionService interface {
	View(ctx context.Context, filter ReleaseFilter) (*CollectionView, error)
	Releases(ctx context.Context, filter ReleaseFilter) ([]Release, error)
	Release(ctx context.Context, id string) (*Release, error)
}
