package domain

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
)

// Artist is one entry of a user's top-artists chart.
type Artist struct {
	Name      string    `json:"name"`
	Playcount PlayCount `json:"playcount"`
	URL       string    `json:"url"`
	MBID      string    `json:"mbid"`
}

type artistJSON struct {
	Name      string     `json:"name"`
	Playcount *PlayCount `json:"playcount,omitempty"`
	URL       string     `json:"url"`
	MBID      string     `json:"mbid"`
}

// MarshalJSON leaves out playcount when upstream did not send one. An
// explicit null is kept.
func (a Artist) MarshalJSON() ([]byte, error) {
	out := artistJSON{Name: a.Name, URL: a.URL, MBID: a.MBID}
	if a.Playcount != "" {
		playcount := a.Playcount
		out.Playcount = &playcount
	}
	return json.Marshal(out)
}

// PlayCount holds the raw JSON token of an upstream play count. Last.fm sends
// it as a string, but numbers and null are accepted and re-encoded unchanged.
// The zero value means the field was absent.
type PlayCount string

func PlayCountString(s string) PlayCount {
	return PlayCount(strconv.Quote(s))
}

func PlayCountNumber(n int64) PlayCount {
	return PlayCount(strconv.FormatInt(n, 10))
}

func (p PlayCount) MarshalJSON() ([]byte, error) {
	if p == "" {
		return []byte("null"), nil
	}
	return []byte(p), nil
}

func (p *PlayCount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty playcount")
	}
	switch trimmed[0] {
	case '"', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return fmt.Errorf("playcount must be a string or number, got %s", trimmed)
		}
	default:
		return fmt.Errorf("playcount must be a string or number, got %s", trimmed)
	}
	*p = PlayCount(trimmed)
	return nil
}

// String returns the count without JSON quoting.
func (p PlayCount) String() string {
	if unquoted, err := strconv.Unquote(string(p)); err == nil {
		return unquoted
	}
	return string(p)
}

type TopArtistsRequest struct {
	Username string
	Period   string
	Limit    int
}
