package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the analysis API.
type Config struct {
	DatabaseURL  string
	RegistryPath string
	RegionTags   []string
	Epoch        time.Time
	CacheTTL     time.Duration
	MinSample    int
	Port         int
	BearerToken  string
}

const defaultEpoch = "2021-01-01"

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		RegionTags: []string{"云南", "云南省"},
		CacheTTL:   time.Hour,
		MinSample:  10,
		Port:       8080,
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	cfg.RegistryPath = os.Getenv("REGISTRY_PATH")
	if cfg.RegistryPath == "" {
		return cfg, errors.New("REGISTRY_PATH is required")
	}

	if tags := os.Getenv("REGION_TAGS"); tags != "" {
		cfg.RegionTags = cfg.RegionTags[:0]
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				cfg.RegionTags = append(cfg.RegionTags, tag)
			}
		}
		if len(cfg.RegionTags) == 0 {
			return cfg, errors.New("REGION_TAGS must name at least one region")
		}
	}

	epochStr := os.Getenv("ANALYSIS_EPOCH")
	if epochStr == "" {
		epochStr = defaultEpoch
	}
	epoch, err := time.ParseInLocation("2006-01-02", epochStr, time.UTC)
	if err != nil {
		return cfg, fmt.Errorf("invalid ANALYSIS_EPOCH: %s", epochStr)
	}
	cfg.Epoch = epoch

	if ttlStr := os.Getenv("CACHE_TTL_MINUTES"); ttlStr != "" {
		if ttl, err := strconv.Atoi(ttlStr); err == nil && ttl > 0 {
			cfg.CacheTTL = time.Duration(ttl) * time.Minute
		} else {
			return cfg, fmt.Errorf("invalid CACHE_TTL_MINUTES: %s", ttlStr)
		}
	}

	if sampleStr := os.Getenv("MIN_SAMPLE"); sampleStr != "" {
		if sample, err := strconv.Atoi(sampleStr); err == nil && sample > 0 {
			cfg.MinSample = sample
		} else {
			return cfg, fmt.Errorf("invalid MIN_SAMPLE: %s", sampleStr)
		}
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
	} else if portStr := os.Getenv("API_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			cfg.Port = port
		} else {
			return cfg, fmt.Errorf("invalid API_PORT: %s", portStr)
		}
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
