// Package pages holds the static head metadata and layout of every site route.
package pages

import (
	"html/template"

	"github.com/yair/media-stats/pkg/domain"
)

const imageBase = "https://file.elezea.com/"

// Route is one page of the site. Metadata and Layout are pure: they may be
// called any number of times, in any order, and always return the same value.
type Route interface {
	Key() string
	Path() string
	Metadata() domain.PageMetadata
	Layout(children template.HTML) template.HTML
}

type staticRoute struct {
	key      string
	path     string
	metadata func() domain.PageMetadata
}

func (r staticRoute) Key() string  { return r.key }
func (r staticRoute) Path() string { return r.path }

// Metadata builds a fresh value on every call so callers cannot mutate
// another request's copy through shared slices.
func (r staticRoute) Metadata() domain.PageMetadata { return r.metadata() }

func (r staticRoute) Layout(children template.HTML) template.HTML { return children }

// simpleMetadata is the common shape: one text block repeated at top level, in
// Open Graph and in Twitter, with the same image URL for both cards.
func simpleMetadata(title, description string, card domain.Card, image string) func() domain.PageMetadata {
	return func() domain.PageMetadata {
		return domain.PageMetadata{
			Title:       title,
			Description: description,
			OpenGraph: domain.OpenGraph{
				Title:       title,
				Description: description,
				Images:      domain.ImageURL(image),
			},
			Twitter: domain.Twitter{
				Card:        card,
				Title:       title,
				Description: description,
				Images:      domain.ImageURL(image),
			},
		}
	}
}

var Collection Route = staticRoute{
	key:  "collection",
	path: "/collection",
	metadata: simpleMetadata(
		"My Music Collection",
		"Stats and filters for my vinyl, CD and cassette collection.",
		domain.CardSummaryLargeImage,
		imageBase+"collection-card.png",
	),
}

var GuessGame Route = staticRoute{
	key:  "guessgame",
	path: "/guessgame",
	metadata: simpleMetadata(
		"Guess the Album",
		"How well do you know my record collection? Guess the album from its cover.",
		domain.CardSummaryLargeImage,
		imageBase+"guessgame-card.png",
	),
}

var Library Route = staticRoute{
	key:  "library",
	path: "/library",
	metadata: simpleMetadata(
		"Digital Library",
		"Everything in my digital music library, sorted and searchable.",
		domain.CardSummary,
		imageBase+"library-card.png",
	),
}

var PlaylistCover Route = staticRoute{
	key:  "playlist-cover",
	path: "/playlist-cover",
	metadata: simpleMetadata(
		"Playlist Cover Generator",
		"Generate a simple, good-looking cover image for your playlists.",
		domain.CardSummaryLargeImage,
		imageBase+"playlist-cover-card.png",
	),
}

const (
	recommendationsTitle       = "Music Recommendations"
	recommendationsDescription = "Albums I think you should listen to, based on what I have been playing."
	recommendationsImage       = imageBase + "recommendations-card.png"
)

// Recommendations uses a sized image descriptor for Open Graph and a plain URL
// for Twitter.
var Recommendations Route = staticRoute{
	key:  "recommendations",
	path: "/recommendations",
	metadata: func() domain.PageMetadata {
		return domain.PageMetadata{
			Title:       recommendationsTitle,
			Description: recommendationsDescription,
			OpenGraph: domain.OpenGraph{
				Title:       recommendationsTitle,
				Description: recommendationsDescription,
				Images: domain.ImageList(domain.ImageDescriptor{
					URL:    recommendationsImage,
					Width:  1200,
					Height: 630,
					Alt:    "Recommendation card image",
				}),
			},
			Twitter: domain.Twitter{
				Card:        domain.CardSummaryLargeImage,
				Title:       recommendationsTitle,
				Description: recommendationsDescription,
				Images:      domain.ImageURL(recommendationsImage),
			},
		}
	},
}
