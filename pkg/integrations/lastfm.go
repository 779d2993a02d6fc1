package integrations

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/metrics"
)

const (
	DefaultLastFMBaseURL = "https://ws.audioscrobbler.com/2.0"

	// Fixed chart window and size served by the top-artists proxy.
	TopArtistsPeriod = "7day"
	TopArtistsLimit  = 6

	maxResponseBytes = 1 << 20
)

type LastFMClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type LastFMConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

func NewLastFMClient(config LastFMConfig) (*LastFMClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("last.fm API key is required")
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultLastFMBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = 5
	}

	return &LastFMClient{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
	}, nil
}

type lastFMTopArtist struct {
	Name      string           `json:"name"`
	Playcount domain.PlayCount `json:"playcount"`
	URL       string           `json:"url"`
	MBID      string           `json:"mbid"`
}

type lastFMTopArtistsResponse struct {
	TopArtists *struct {
		Artist json.RawMessage `json:"artist"`
	} `json:"topartists"`
}

type lastFMErrorResponse struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// TopArtists performs a single user.gettopartists call. It never retries and
// never truncates: the upstream limit parameter bounds the result.
func (c *LastFMClient) TopArtists(ctx context.Context, req domain.TopArtistsRequest) ([]domain.Artist, error) {
	start := time.Now()
	artists, err := c.topArtists(ctx, req)
	metrics.RecordUpstreamRequest("lastfm", outcome(err), time.Since(start))
	return artists, err
}

func (c *LastFMClient) topArtists(ctx context.Context, req domain.TopArtistsRequest) ([]domain.Artist, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &domain.UpstreamError{Kind: domain.UpstreamTransport, Err: err}
		}
	}

	params := url.Values{}
	params.Set("method", "user.gettopartists")
	params.Set("user", req.Username)
	params.Set("api_key", c.apiKey)
	params.Set("period", req.Period)
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("format", "json")
	topURL := c.baseURL + "/?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, topURL, nil)
	if err != nil {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamTransport, Err: fmt.Errorf("failed to create top artists request: %w", err)}
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		redactURLError(err)
		return nil, &domain.UpstreamError{Kind: domain.UpstreamTransport, Err: fmt.Errorf("failed to get top artists: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read top artists response: %w", err)}
	}

	if apiErr := decodeAPIError(body, resp.StatusCode); apiErr != nil {
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamStatus, StatusCode: resp.StatusCode}
	}

	return decodeTopArtists(body)
}

// decodeAPIError recognises Last.fm's {"error": N, "message": "..."} body,
// which can arrive with any status code.
func decodeAPIError(body []byte, statusCode int) error {
	var errResp lastFMErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == 0 {
		return nil
	}
	return &domain.UpstreamError{
		Kind:       domain.UpstreamAPI,
		StatusCode: statusCode,
		Code:       errResp.Error,
		Message:    errResp.Message,
	}
}

func decodeTopArtists(body []byte) ([]domain.Artist, error) {
	var topResp lastFMTopArtistsResponse
	if err := json.Unmarshal(body, &topResp); err != nil {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformed, Err: fmt.Errorf("failed to decode top artists response: %w", err)}
	}
	if topResp.TopArtists == nil {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformed, Message: "missing topartists"}
	}

	raw := bytes.TrimSpace(topResp.TopArtists.Artist)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformed, Message: "missing topartists.artist"}
	}

	var entries []lastFMTopArtist
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformed, Err: fmt.Errorf("failed to decode artist list: %w", err)}
		}
	case '{':
		// a chart with a single entry is sometimes sent as an object
		var single lastFMTopArtist
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformed, Err: fmt.Errorf("failed to decode artist: %w", err)}
		}
		entries = []lastFMTopArtist{single}
	default:
		return nil, &domain.UpstreamError{Kind: domain.UpstreamMalformed, Message: "topartists.artist is not a list"}
	}

	artists := make([]domain.Artist, 0, len(entries))
	for _, entry := range entries {
		artists = append(artists, domain.Artist{
			Name:      entry.Name,
			Playcount: entry.Playcount,
			URL:       entry.URL,
			MBID:      entry.MBID,
		})
	}

	return artists, nil
}

// redactURLError hides the API key carried in the query string of transport
// errors so it never reaches logs or responses.
func redactURLError(err error) {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		urlErr.URL = "<redacted>"
		return
	}
	q := u.Query()
	if q.Has("api_key") {
		q.Set("api_key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	urlErr.URL = u.String()
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var upstreamErr *domain.UpstreamError
	if errors.As(err, &upstreamErr) {
		return string(upstreamErr.Kind)
	}
	return "error"
}
