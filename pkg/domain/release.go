package domain

import (
	"time"
)

// Release is one item of the physical media collection.
type Release struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Year      int       `json:"year,omitempty"`
	Format    string    `json:"format"`
	Genres    []string  `json:"genres,omitempty"`
	Styles    []string  `json:"styles,omitempty"`
	CoverURL  string    `json:"cover_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReleaseFilter narrows a collection listing. Empty fields match everything.
type ReleaseFilter struct {
	Format string
	Genre  string
	Style  string
}

func (f ReleaseFilter) Matches(r Release) bool {
	if f.Format != "" && r.Format != f.Format {
		return false
	}
	if f.Genre != "" && !contains(r.Genres, f.Genre) {
		return false
	}
	if f.Style != "" && !contains(r.Styles, f.Style) {
		return false
	}
	return true
}

type CollectionStats struct {
	TotalReleases int            `json:"total_releases"`
	ByFormat      map[string]int `json:"by_format"`
}

type CollectionView struct {
	Releases []Release
	Stats    CollectionStats
	Formats  []string
	Genres   []string
	Styles   []string
	Filter   ReleaseFilter
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
