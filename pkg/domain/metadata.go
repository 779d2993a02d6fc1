package domain

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

type Card string

const (
	CardSummary           Card = "summary"
	CardSummaryLargeImage Card = "summary_large_image"
)

func (c Card) Valid() bool {
	return c == CardSummary || c == CardSummaryLargeImage
}

// PageMetadata describes the <head> tags and social preview cards of one route.
type PageMetadata struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OpenGraph   OpenGraph `json:"openGraph"`
	Twitter     Twitter   `json:"twitter"`
}

type OpenGraph struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Images      Images `json:"images"`
}

type Twitter struct {
	Card        Card   `json:"card"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Images      Images `json:"images"`
}

type ImageDescriptor struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// Images is either a single URL or a list of descriptors. The two forms are
// encoded differently: a JSON string or a JSON array of objects.
type Images struct {
	URL         string
	Descriptors []ImageDescriptor
}

func ImageURL(url string) Images {
	return Images{URL: url}
}

// ImageList always yields the list form, even with no descriptors.
func ImageList(descriptors ...ImageDescriptor) Images {
	if descriptors == nil {
		descriptors = []ImageDescriptor{}
	}
	return Images{Descriptors: descriptors}
}

func (i Images) IsList() bool {
	return i.Descriptors != nil
}

// URLs returns every image URL in declaration order.
func (i Images) URLs() []string {
	if !i.IsList() {
		if i.URL == "" {
			return nil
		}
		return []string{i.URL}
	}
	urls := make([]string, 0, len(i.Descriptors))
	for _, d := range i.Descriptors {
		urls = append(urls, d.URL)
	}
	return urls
}

func (i Images) MarshalJSON() ([]byte, error) {
	if i.IsList() {
		return json.Marshal(i.Descriptors)
	}
	return json.Marshal(i.URL)
}

func (i *Images) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty images value")
	}
	switch trimmed[0] {
	case '"':
		var url string
		if err := json.Unmarshal(trimmed, &url); err != nil {
			return err
		}
		*i = ImageURL(url)
		return nil
	case '[':
		descriptors := []ImageDescriptor{}
		if err := json.Unmarshal(trimmed, &descriptors); err != nil {
			return err
		}
		*i = ImageList(descriptors...)
		return nil
	default:
		return fmt.Errorf("images must be a string or a list, got %s", trimmed)
	}
}

// ImageURLs collects every image URL referenced by the metadata.
func (m PageMetadata) ImageURLs() []string {
	urls := m.OpenGraph.Images.URLs()
	return append(urls, m.Twitter.Images.URLs()...)
}
