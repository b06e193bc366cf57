// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by the Loader.
const (
	EnvProvider          = "TVGUIDE_PROVIDER"
	EnvCacheDir          = "TVGUIDE_CACHE_DIR"
	EnvLocation          = "TVGUIDE_LOCATION"
	EnvLogLevel          = "LOG_LEVEL"
	EnvHTTPTimeout       = "TVGUIDE_HTTP_TIMEOUT"
	EnvHTTPRateLimit     = "TVGUIDE_HTTP_RATE_LIMIT"
	EnvDrDkBaseURL       = "TVGUIDE_DRDK_BASE_URL"
	EnvYouSeeTVBaseURL   = "TVGUIDE_YOUSEETV_BASE_URL"
	EnvYouSeeTVCategory  = "TVGUIDE_YOUSEETV_CATEGORY"
	EnvYouSeeTVAPIKey    = "TVGUIDE_YOUSEETV_API_KEY"
	EnvTvTidBaseURL      = "TVGUIDE_TVTID_BASE_URL"
	EnvXMLTVFile         = "TVGUIDE_XMLTV_FILE"
	EnvListen            = "TVGUIDE_LISTEN"
	EnvAPIRateLimit      = "TVGUIDE_API_RATE_LIMIT"
	EnvTelemetryEnabled  = "TVGUIDE_TELEMETRY_ENABLED"
	EnvTelemetryExporter = "TVGUIDE_TELEMETRY_EXPORTER"
	EnvTelemetryEndpoint = "TVGUIDE_TELEMETRY_ENDPOINT"
	EnvTelemetrySampling = "TVGUIDE_TELEMETRY_SAMPLING_RATE"
	EnvEnvironment       = "TVGUIDE_ENVIRONMENT"
)

// Defaults.
const (
	DefaultProvider    = ProviderDrDk
	DefaultHTTPTimeout = 30 * time.Second
	DefaultListenAddr  = ":8080"
	DefaultAPIRate     = 120
	DefaultLogLevel    = "info"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// Order: defaults -> strict file parse -> env -> validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}
	l.setDefaults(&cfg)

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		mergeFileConfig(&cfg, fileCfg)
	}

	l.mergeEnvConfig(&cfg)

	if cfg.CacheDir != "" {
		if abs, err := filepath.Abs(cfg.CacheDir); err == nil {
			cfg.CacheDir = abs
		}
	}
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) setDefaults(cfg *AppConfig) {
	cfg.Provider = DefaultProvider
	cfg.CacheDir = defaultCacheDir()
	cfg.LogLevel = DefaultLogLevel
	cfg.HTTP.Timeout = DefaultHTTPTimeout
	cfg.API.ListenAddr = DefaultListenAddr
	cfg.API.RateLimit = DefaultAPIRate
	cfg.Telemetry.ExporterType = "grpc"
	cfg.Telemetry.Endpoint = "localhost:4317"
	cfg.Telemetry.SamplingRate = 1.0
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "tvguide")
	}
	return filepath.Join(os.TempDir(), "tvguide")
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields cause an error wrapping ErrUnknownConfigField.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func mergeFileConfig(dst *AppConfig, src *FileConfig) {
	setString(&dst.Provider, src.Provider)
	setString(&dst.CacheDir, expandEnv(src.CacheDir))
	setString(&dst.Location, src.Location)
	setString(&dst.LogLevel, src.LogLevel)

	if src.HTTP.Timeout > 0 {
		dst.HTTP.Timeout = src.HTTP.Timeout
	}
	if src.HTTP.RateLimit != nil {
		dst.HTTP.RateLimit = *src.HTTP.RateLimit
	}
	setString(&dst.HTTP.UserAgent, src.HTTP.UserAgent)

	setString(&dst.DrDk.BaseURL, src.DrDk.BaseURL)
	setString(&dst.YouSeeTV.BaseURL, src.YouSeeTV.BaseURL)
	setString(&dst.YouSeeTV.Category, src.YouSeeTV.Category)
	setString(&dst.YouSeeTV.APIKey, expandEnv(src.YouSeeTV.APIKey))
	setString(&dst.TvTid.BaseURL, src.TvTid.BaseURL)
	setString(&dst.XMLTV.File, expandEnv(src.XMLTV.File))

	setString(&dst.API.ListenAddr, src.API.ListenAddr)
	if src.API.RateLimit != nil {
		dst.API.RateLimit = *src.API.RateLimit
	}

	if src.Telemetry.Enabled != nil {
		dst.Telemetry.Enabled = *src.Telemetry.Enabled
	}
	setString(&dst.Telemetry.Environment, src.Telemetry.Environment)
	setString(&dst.Telemetry.ExporterType, src.Telemetry.ExporterType)
	setString(&dst.Telemetry.Endpoint, src.Telemetry.Endpoint)
	if src.Telemetry.SamplingRate != nil {
		dst.Telemetry.SamplingRate = *src.Telemetry.SamplingRate
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// mergeEnvConfig applies environment overrides; ENV has the highest precedence.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.Provider = l.envString(EnvProvider, cfg.Provider)
	cfg.CacheDir = l.envString(EnvCacheDir, cfg.CacheDir)
	cfg.Location = l.envString(EnvLocation, cfg.Location)
	cfg.LogLevel = l.envString(EnvLogLevel, cfg.LogLevel)

	cfg.HTTP.Timeout = l.envDuration(EnvHTTPTimeout, cfg.HTTP.Timeout)
	cfg.HTTP.RateLimit = l.envFloat(EnvHTTPRateLimit, cfg.HTTP.RateLimit)

	cfg.DrDk.BaseURL = l.envString(EnvDrDkBaseURL, cfg.DrDk.BaseURL)
	cfg.YouSeeTV.BaseURL = l.envString(EnvYouSeeTVBaseURL, cfg.YouSeeTV.BaseURL)
	cfg.YouSeeTV.Category = l.envString(EnvYouSeeTVCategory, cfg.YouSeeTV.Category)
	cfg.YouSeeTV.APIKey = l.envString(EnvYouSeeTVAPIKey, cfg.YouSeeTV.APIKey)
	cfg.TvTid.BaseURL = l.envString(EnvTvTidBaseURL, cfg.TvTid.BaseURL)
	cfg.XMLTV.File = l.envString(EnvXMLTVFile, cfg.XMLTV.File)

	cfg.API.ListenAddr = l.envString(EnvListen, cfg.API.ListenAddr)
	cfg.API.RateLimit = l.envInt(EnvAPIRateLimit, cfg.API.RateLimit)

	cfg.Telemetry.Enabled = l.envBool(EnvTelemetryEnabled, cfg.Telemetry.Enabled)
	cfg.Telemetry.ExporterType = l.envString(EnvTelemetryExporter, cfg.Telemetry.ExporterType)
	cfg.Telemetry.Endpoint = l.envString(EnvTelemetryEndpoint, cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat(EnvTelemetrySampling, cfg.Telemetry.SamplingRate)
	cfg.Telemetry.Environment = l.envString(EnvEnvironment, cfg.Telemetry.Environment)
}
