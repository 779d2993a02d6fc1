package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/yair/media-stats/pkg/config"
	"github.com/yair/media-stats/pkg/edge"
	"github.com/yair/media-stats/pkg/integrations"
	"github.com/yair/media-stats/pkg/interfaces"
	"github.com/yair/media-stats/pkg/logging"
)

func main() {
	cfg, err := config.LoadValidated("")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if !cfg.LastFM.HasCredentials() {
		logging.Fatal().Msg("LASTFM_API_KEY and LASTFM_USERNAME are required")
	}

	client, err := integrations.NewLastFMClient(integrations.LastFMConfig{
		APIKey:            cfg.LastFM.APIKey,
		BaseURL:           cfg.LastFM.BaseURL,
		Timeout:           cfg.LastFM.Timeout,
		RequestsPerSecond: cfg.LastFM.RequestsPerSec,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create last.fm client")
	}

	// Warm containers keep the breaker state between invocations.
	source := integrations.NewCircuitBreakerSource(client, integrations.DefaultBreakerConfig("lastfm"))
	fn := edge.NewTopArtistsFunction(interfaces.NewTopArtistsService(source, cfg.LastFM.Username))

	lambda.Start(fn.Handle)
}
