package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("loads from file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		data := `
server:
  port: "9090"
  read_timeout: 5s
lastfm:
  api_key: file-key
  username: file-user
images:
  allowed_hosts:
    - file.elezea.com
`
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := Load(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != "9090" {
			t.Errorf("expected port 9090, got %s", config.Server.Port)
		}
		if config.Server.ReadTimeout != 5*time.Second {
			t.Errorf("expected read timeout 5s, got %v", config.Server.ReadTimeout)
		}
		if config.LastFM.APIKey != "file-key" {
			t.Errorf("expected api key file-key, got %s", config.LastFM.APIKey)
		}
		if len(config.Images.AllowedHosts) != 1 || config.Images.AllowedHosts[0] != "file.elezea.com" {
			t.Errorf("expected one allowed host, got %v", config.Images.AllowedHosts)
		}
	})

	t.Run("loads json file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		if err := os.WriteFile(configPath, []byte(`{"database": {"path": "/tmp/stats.db"}}`), 0644); err != nil {
			t.Fatal(err)
		}

		config, err := Load(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
		if config.Database.Path != "/tmp/stats.db" {
			t.Errorf("expected database path /tmp/stats.db, got %s", config.Database.Path)
		}
	})

	t.Run("applies defaults", func(t *testing.T) {
		config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", config.Server.Port)
		}
		if config.Server.ReadTimeout != 30*time.Second {
			t.Errorf("expected default read timeout 30s, got %v", config.Server.ReadTimeout)
		}
		if config.LastFM.BaseURL != "https://ws.audioscrobbler.com/2.0" {
			t.Errorf("expected default Last.fm base URL, got %s", config.LastFM.BaseURL)
		}
		if config.LastFM.Timeout != 10*time.Second {
			t.Errorf("expected default Last.fm timeout 10s, got %v", config.LastFM.Timeout)
		}
		if len(config.Images.AllowedHosts) != 2 {
			t.Errorf("expected two default allowed hosts, got %v", config.Images.AllowedHosts)
		}
		if config.Logging.Format != "json" {
			t.Errorf("expected default log format json, got %s", config.Logging.Format)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "7070")
		t.Setenv("LASTFM_API_KEY", "env-key")
		t.Setenv("LASTFM_USERNAME", "env-user")
		t.Setenv("LASTFM_TIMEOUT", "3s")
		t.Setenv("IMAGES_ALLOWED_HOSTS", "a.example.com, b.example.com")
		t.Setenv("LOG_LEVEL", "debug")

		config, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Server.Port != "7070" {
			t.Errorf("expected env port 7070, got %s", config.Server.Port)
		}
		if config.LastFM.APIKey != "env-key" || config.LastFM.Username != "env-user" {
			t.Errorf("expected env credentials, got %+v", config.LastFM)
		}
		if config.LastFM.Timeout != 3*time.Second {
			t.Errorf("expected env timeout 3s, got %v", config.LastFM.Timeout)
		}
		if len(config.Images.AllowedHosts) != 2 || config.Images.AllowedHosts[1] != "b.example.com" {
			t.Errorf("expected env hosts split on commas, got %v", config.Images.AllowedHosts)
		}
		if config.Logging.Level != "debug" {
			t.Errorf("expected env log level debug, got %s", config.Logging.Level)
		}
	})

	t.Run("ignores unrelated environment", func(t *testing.T) {
		t.Setenv("LASTFM_SOMETHING_ELSE", "x")

		if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
			t.Fatalf("failed to load config: %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(configPath, []byte("server: [unterminated"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := Load(configPath); err == nil {
			t.Error("expected error for malformed config file")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		if err := defaultConfig().Validate(); err != nil {
			t.Errorf("expected valid config, got error: %v", err)
		}
	})

	t.Run("missing credentials are allowed", func(t *testing.T) {
		config := defaultConfig()
		config.LastFM.APIKey = ""
		config.LastFM.Username = ""

		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got error: %v", err)
		}
		if config.LastFM.HasCredentials() {
			t.Error("expected HasCredentials to be false")
		}
	})

	t.Run("invalid values are reported together", func(t *testing.T) {
		config := defaultConfig()
		config.Server.Port = "http"
		config.LastFM.BaseURL = ""
		config.Logging.Format = "xml"

		err := config.Validate()
		if err == nil {
			t.Fatal("expected validation error")
		}
		for _, want := range []string{"Server.Port", "LastFM.BaseURL is required", "Logging.Format must be one of"} {
			if !strings.Contains(err.Error(), want) {
				t.Errorf("expected %q in error, got %v", want, err)
			}
		}
	})

	t.Run("empty allow-list", func(t *testing.T) {
		config := defaultConfig()
		config.Images.AllowedHosts = nil

		if err := config.Validate(); err == nil {
			t.Error("expected validation error for empty allow-list")
		}
	})
}

func TestServerConfig_Addr(t *testing.T) {
	c := ServerConfig{Port: "8080"}
	if got := c.Addr(); got != ":8080" {
		t.Errorf("expected :8080, got %s", got)
	}
}

func TestLoadValidated(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	t.Run("defaults", func(t *testing.T) {
		if _, err := LoadValidated(""); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("invalid environment is rejected", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")

		if _, err := Load(""); err != nil {
			t.Fatalf("expected Load to succeed, got %v", err)
		}
		_, err := LoadValidated("")
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("expected invalid configuration error, got %v", err)
		}
	})
}
