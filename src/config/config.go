// Package config provides configuration management for cisleuth.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DefaultJenkinsURL is the Jenkins instance builds are resolved against.
	DefaultJenkinsURL = "https://ci.nodejs.org/"

	// DefaultConcurrency bounds how many child builds are resolved at once.
	DefaultConcurrency = 8
)

// Cache backends understood by CacheBackend.
const (
	BackendDir      = "dir"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	// JenkinsURL is the base URL of the Jenkins server, always ending in "/".
	JenkinsURL string
	// JenkinsUser and JenkinsToken enable basic auth when both are set.
	JenkinsUser  string
	JenkinsToken string

	// CacheDir is where the dir backend stores entries.
	CacheDir string
	// CacheBackend is one of dir, memory, redis, postgres.
	CacheBackend string

	RedisAddr   string
	PostgresDSN string

	// RedpandaBrokers enables report publishing when non-empty.
	RedpandaBrokers []string

	// Concurrency is the fan-out limit for child resolutions.
	Concurrency int
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		JenkinsURL:   os.Getenv("JENKINS_URL"),
		JenkinsUser:  os.Getenv("JENKINS_USER"),
		JenkinsToken: os.Getenv("JENKINS_TOKEN"),
		CacheDir:     os.Getenv("CISLEUTH_CACHE_DIR"),
		CacheBackend: os.Getenv("CISLEUTH_CACHE_BACKEND"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		Concurrency:  DefaultConcurrency,
	}

	if cfg.JenkinsURL == "" {
		cfg.JenkinsURL = DefaultJenkinsURL
	}
	if !strings.HasSuffix(cfg.JenkinsURL, "/") {
		cfg.JenkinsURL += "/"
	}

	if cfg.CacheBackend == "" {
		cfg.CacheBackend = BackendDir
	}

	if cfg.CacheDir == "" {
		dir, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		cfg.CacheDir = dir
	}

	if brokers := os.Getenv("REDPANDA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.RedpandaBrokers = append(cfg.RedpandaBrokers, b)
			}
		}
	}

	if v := os.Getenv("CISLEUTH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("CISLEUTH_CONCURRENCY must be a positive integer, got %q", v)
		}
		cfg.Concurrency = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MustLoadFromEnv loads configuration from environment variables and panics on error.
// This is useful for initialization in main() where configuration errors should be fatal.
func MustLoadFromEnv() *Config {
	cfg, err := LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks that the selected cache backend has what it needs.
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case BackendDir, BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the %s cache backend", BackendRedis)
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the %s cache backend", BackendPostgres)
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want dir, memory, redis or postgres)", c.CacheBackend)
	}
	if (c.JenkinsUser == "") != (c.JenkinsToken == "") {
		return fmt.Errorf("JENKINS_USER and JENKINS_TOKEN must be set together")
	}
	return nil
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cisleuth"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate cache directory: %w", err)
	}
	return filepath.Join(base, "cisleuth"), nil
}
