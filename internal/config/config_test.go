package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/projetproduits/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {

	t.Run("Success - Full Config File", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
env: "prod"
services:
  AUTH_URL: "http://auth.internal:8080"
  HOMME_URL: "http://homme.internal:8081"
  FEMME_URL: "http://femme.internal:8082"
  ML_URL: "http://ml.internal:8000"
http:
  TIMEOUT: "5s"
storage:
  DIR: "/var/lib/storefront"
browse:
  SAMPLE_RATE: 0.5
telemetry:
  OTLP_ENDPOINT: "http://otel.internal:4318"
`)
		t.Setenv("CONFIG_PATH", path)

		// Act
		cfg := config.MustLoad()

		// Assert
		assert.Equal(t, "prod", cfg.Env)
		assert.Equal(t, "http://auth.internal:8080", cfg.Services.AuthURL)
		assert.Equal(t, "http://homme.internal:8081", cfg.Services.HommeURL)
		assert.Equal(t, "http://femme.internal:8082", cfg.Services.FemmeURL)
		assert.Equal(t, "http://ml.internal:8000", cfg.Services.MLURL)
		assert.Equal(t, 5*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, "/var/lib/storefront", cfg.Storage.Dir)
		assert.Equal(t, 0.5, cfg.Browse.SampleRate)
		assert.Equal(t, "http://otel.internal:4318", cfg.Telemetry.OTLPEndpoint)
	})

	t.Run("Success - Defaults Fill The Gaps", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
env: "local"
`)
		t.Setenv("CONFIG_PATH", path)

		// Act
		cfg := config.MustLoad()

		// Assert
		assert.Equal(t, "http://localhost:8080", cfg.Services.AuthURL)
		assert.Equal(t, "http://localhost:8080", cfg.Services.HommeURL)
		assert.Equal(t, "http://localhost:8000", cfg.Services.MLURL)
		assert.Equal(t, 10*time.Second, cfg.HTTP.Timeout)
		assert.Equal(t, 0.2, cfg.Browse.SampleRate)
		assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
	})

	t.Run("Success - Empty Storage Dir Defaults Under Home", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
env: "local"
`)
		t.Setenv("CONFIG_PATH", path)

		// Act
		cfg := config.MustLoad()

		// Assert
		assert.NotEmpty(t, cfg.Storage.Dir)
		assert.Equal(t, ".storefront", filepath.Base(cfg.Storage.Dir))
	})

	t.Run("Success - Environment Overrides File", func(t *testing.T) {
		// Arrange
		path := writeConfigFile(t, `
env: "local"
services:
  AUTH_URL: "http://from-file:8080"
`)
		t.Setenv("CONFIG_PATH", path)
		t.Setenv("AUTH_URL", "http://from-env:9090")

		// Act
		cfg := config.MustLoad()

		// Assert
		assert.Equal(t, "http://from-env:9090", cfg.Services.AuthURL)
	})
}
