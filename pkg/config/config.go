package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when no explicit path is given.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/media-stats/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config holds all configuration for the site and the top-artists function
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	LastFM     LastFMConfig     `koanf:"lastfm"`
	Images     ImagesConfig     `koanf:"images"`
	Collection CollectionConfig `koanf:"collection"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"gt=0"`
}

// DatabaseConfig for the SQLite collection store
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LastFMConfig for the Last.fm top-artists proxy
type LastFMConfig struct {
	APIKey         string        `koanf:"api_key"`
	Username       string        `koanf:"username"`
	BaseURL        string        `koanf:"base_url" validate:"required,url"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSec float64       `koanf:"requests_per_second" validate:"gt=0"`
}

// ImagesConfig lists the remote hosts pages may load images from
type ImagesConfig struct {
	AllowedHosts []string `koanf:"allowed_hosts" validate:"min=1,dive,hostname"`
}

// CollectionConfig for seeding the media collection
type CollectionConfig struct {
	SeedFile string `koanf:"seed_file"`
}

// LoggingConfig for the zerolog logger
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "./media-stats.db",
		},
		LastFM: LastFMConfig{
			BaseURL:        "https://ws.audioscrobbler.com/2.0",
			Timeout:        10 * time.Second,
			RequestsPerSec: 5,
		},
		Images: ImagesConfig{
			AllowedHosts: []string{"file.elezea.com", "i.discogs.com"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variables (lower-cased) to config keys.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"server_port":          "server.port",
	"server_read_timeout":  "server.read_timeout",
	"server_write_timeout": "server.write_timeout",
	"database_path":        "database.path",
	"lastfm_api_key":       "lastfm.api_key",
	"lastfm_username":      "lastfm.username",
	"lastfm_base_url":      "lastfm.base_url",
	"lastfm_timeout":       "lastfm.timeout",
	"lastfm_rps":           "lastfm.requests_per_second",
	"images_allowed_hosts": "images.allowed_hosts",
	"collection_seed_file": "collection.seed_file",
	"log_level":            "logging.level",
	"log_format":           "logging.format",
	"log_caller":           "logging.caller",
}

var sliceConfigPaths = []string{
	"images.allowed_hosts",
}

// Load layers defaults, an optional YAML (or JSON) file and environment
// variables, in that order. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		_, err := os.Stat(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadValidated is Load followed by Validate. Every binary starts from it.
func LoadValidated(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		return envPath
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// processSliceFields splits comma separated strings coming from the
// environment into proper lists.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort("", c.Port)
}

// HasCredentials reports whether both Last.fm secrets are present
func (c *LastFMConfig) HasCredentials() bool {
	return c.APIKey != "" && c.Username != ""
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints. Last.fm credentials are not required
// here: the site runs without them and the proxy reports upstream errors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	invalid := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		invalid = append(invalid, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gt":
		return field + " must be positive"
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s (%s)", field, fe.Tag(), strconv.Quote(fmt.Sprint(fe.Value())))
	}
}
