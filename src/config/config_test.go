package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JENKINS_URL", "JENKINS_USER", "JENKINS_TOKEN", "CISLEUTH_CACHE_DIR",
		"CISLEUTH_CACHE_BACKEND", "REDIS_ADDR", "POSTGRES_DSN", "REDPANDA_BROKERS",
		"CISLEUTH_CONCURRENCY",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, DefaultJenkinsURL, cfg.JenkinsURL)
		assert.Equal(t, BackendDir, cfg.CacheBackend)
		assert.Equal(t, DefaultConcurrency, cfg.Concurrency)
		assert.Regexp(t, `cisleuth$`, cfg.CacheDir)
	})

	t.Run("trailing slash added", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("JENKINS_URL", "https://jenkins.example.com")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "https://jenkins.example.com/", cfg.JenkinsURL)
	})

	t.Run("brokers split", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REDPANDA_BROKERS", "localhost:19092, other:9092,")

		cfg, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, []string{"localhost:19092", "other:9092"}, cfg.RedpandaBrokers)
	})

	errorCases := []struct {
		name  string
		key   string
		value string
	}{
		{"invalid concurrency", "CISLEUTH_CONCURRENCY", "zero"},
		{"redis backend without address", "CISLEUTH_CACHE_BACKEND", BackendRedis},
		{"user without token", "JENKINS_USER", "someone"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := &Config{CacheBackend: "s3"}
	assert.Error(t, cfg.Validate())
}
