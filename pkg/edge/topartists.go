// Package edge adapts the top-artists proxy to API Gateway Lambda events.
package edge

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/interfaces"
	"github.com/yair/media-stats/pkg/logging"
)

type TopArtistsFunction struct {
	service domain.TopArtistsService
}

func NewTopArtistsFunction(service domain.TopArtistsService) *TopArtistsFunction {
	return &TopArtistsFunction{
		service: service,
	}
}

// Handle answers every request the same way; method, path and body are
// ignored. Failures are reported in the response, never as a Lambda error.
func (f *TopArtistsFunction) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if id := request.RequestContext.RequestID; id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	logging.Ctx(ctx).Debug().Str("method", request.HTTPMethod).Str("path", request.Path).Msg("top artists request")

	status, body := interfaces.TopArtistsResponse(ctx, f.service)

	headers := make(map[string]string, len(interfaces.TopArtistsHeaders))
	for k, v := range interfaces.TopArtistsHeaders {
		headers[k] = v
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
