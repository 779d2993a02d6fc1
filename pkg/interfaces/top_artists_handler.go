package interfaces

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/logging"
)

const topArtistsTimeout = 15 * time.Second

// TopArtistsHeaders are set on every proxy response, errors included.
var TopArtistsHeaders = map[string]string{
	"Content-Type":                "application/json",
	"Access-Control-Allow-Origin": "*",
}

// TopArtistsHandler proxies the Last.fm weekly top artists chart. The method,
// path and body of the incoming request are ignored.
type TopArtistsHandler struct {
	service domain.TopArtistsService
}

func NewTopArtistsHandler(service domain.TopArtistsService) *TopArtistsHandler {
	return &TopArtistsHandler{
		service: service,
	}
}

func (h *TopArtistsHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/api/top-artists", h)
}

func (h *TopArtistsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), topArtistsTimeout)
	defer cancel()

	status, body := TopArtistsResponse(ctx, h.service)

	for k, v := range TopArtistsHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(status)
	w.Write(body)
}

// TopArtistsResponse runs one proxy request and returns the status and JSON
// body to send. Shared by the site handler and the Lambda function.
func TopArtistsResponse(ctx context.Context, service domain.TopArtistsService) (int, []byte) {
	artists, err := service.TopArtists(ctx)
	if err != nil {
		status, resp := topArtistsError(err)
		logging.Ctx(ctx).Warn().Err(err).Int("status", status).Str("kind", resp.Kind).Msg("top artists request failed")
		body, _ := json.Marshal(resp)
		return status, body
	}

	if artists == nil {
		artists = []domain.Artist{}
	}
	body, err := json.Marshal(artists)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to encode top artists")
		return http.StatusInternalServerError, []byte(`{"error":"internal server error","kind":"internal"}`)
	}
	return http.StatusOK, body
}

func topArtistsError(err error) (int, errorResponse) {
	var upstreamErr *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, errorResponse{Error: "top artists temporarily unavailable", Kind: "unavailable"}
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, errorResponse{Error: "failed to fetch top artists", Kind: string(upstreamErr.Kind)}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: "internal"}
	}
}
