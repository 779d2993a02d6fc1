package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/yair/media-stats/pkg/collectors"
	"github.com/yair/media-stats/pkg/config"
	"github.com/yair/media-stats/pkg/domain"
	"github.com/yair/media-stats/pkg/integrations"
	"github.com/yair/media-stats/pkg/interfaces"
	"github.com/yair/media-stats/pkg/logging"
	"github.com/yair/media-stats/pkg/pages"
)

func main() {
	// .env.local is optional; real environment variables win.
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.Warn().Err(err).Msg("failed to read .env.local")
	}

	cfg, err := config.LoadValidated("")
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("starting media-stats")

	registry := pages.DefaultRegistry()
	if err := registry.Validate(pages.ImageHosts(cfg.Images.AllowedHosts)); err != nil {
		logging.Fatal().Err(err).Msg("page metadata failed validation")
	}

	db, err := collectors.NewSQLiteDB(cfg.Database.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open database")
	}
	defer db.Close()

	releaseRepo, err := collectors.NewReleaseRepository(db)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create release repository")
	}

	if cfg.Collection.SeedFile != "" {
		result, err := collectors.ImportFile(context.Background(), releaseRepo, cfg.Collection.SeedFile)
		if err != nil {
			logging.Fatal().Err(err).Str("file", cfg.Collection.SeedFile).Msg("failed to import collection")
		}
		logging.Info().
			Int("imported", result.Imported).
			Int("duplicates", result.Duplicates).
			Msg("collection imported")
	}

	// The proxy answers 503 until credentials are configured.
	var source domain.TopArtistsSource
	if cfg.LastFM.HasCredentials() {
		client, err := integrations.NewLastFMClient(integrations.LastFMConfig{
			APIKey:            cfg.LastFM.APIKey,
			BaseURL:           cfg.LastFM.BaseURL,
			Timeout:           cfg.LastFM.Timeout,
			RequestsPerSecond: cfg.LastFM.RequestsPerSec,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to create last.fm client")
		}
		source = integrations.NewCircuitBreakerSource(client, integrations.DefaultBreakerConfig("lastfm"))
	} else {
		logging.Warn().Msg("LASTFM_API_KEY or LASTFM_USERNAME not set, top artists disabled")
	}

	router := interfaces.NewRouter(
		interfaces.NewSystemHandler(),
		interfaces.NewPageHandler(registry, pages.Collection.Key()),
		interfaces.NewCollectionHandler(interfaces.NewCollectionService(releaseRepo)),
		interfaces.NewTopArtistsHandler(interfaces.NewTopArtistsService(source, cfg.LastFM.Username)),
	)

	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		logging.Debug().Strs("methods", methods).Str("path", path).Msg("route registered")
		return nil
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("server forced to shutdown")
	}

	logging.Info().Msg("server stopped")
}
