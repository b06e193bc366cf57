// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config provides configuration management for tvguide.
package config

import (
	"fmt"
	"time"
)

// Provider keys accepted by the "provider" setting.
const (
	ProviderDrDk     = "drdk"
	ProviderYouSeeTV = "youseetv"
	ProviderTvTid    = "tvtiddk"
	ProviderXMLTV    = "xmltv"
)

// Providers lists every supported provider key.
var Providers = []string{ProviderDrDk, ProviderYouSeeTV, ProviderTvTid, ProviderXMLTV}

// AppConfig is the fully resolved runtime configuration.
type AppConfig struct {
	Version string

	Provider string
	CacheDir string
	// Location is an IANA zone name used for provider wall-clock times; empty means the host zone.
	Location string
	LogLevel string

	HTTP      HTTPConfig
	DrDk      DrDkConfig
	YouSeeTV  YouSeeTVConfig
	TvTid     TvTidConfig
	XMLTV     XMLTVConfig
	API       APIConfig
	Telemetry TelemetryConfig
}

// HTTPConfig governs outbound provider requests.
type HTTPConfig struct {
	Timeout time.Duration
	// RateLimit is the maximum number of outbound requests per second; 0 disables it.
	RateLimit float64
	UserAgent string
}

// DrDkConfig configures the drdk provider. An empty BaseURL selects the public endpoint.
type DrDkConfig struct {
	BaseURL string `yaml:"baseURL,omitempty"`
}

// YouSeeTVConfig configures the youseetv provider.
type YouSeeTVConfig struct {
	BaseURL  string
	Category string
	APIKey   string
}

// TvTidConfig configures the tvtiddk provider.
type TvTidConfig struct {
	BaseURL string `yaml:"baseURL,omitempty"`
}

// XMLTVConfig configures the xmltv provider.
type XMLTVConfig struct {
	File string `yaml:"file,omitempty"`
}

// APIConfig configures the read-only guide server.
type APIConfig struct {
	ListenAddr string
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Environment  string
	ExporterType string
	Endpoint     string
	SamplingRate float64
}

// TimeLocation resolves Location, falling back to time.Local when unset.
func (c AppConfig) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", c.Location, err)
	}
	return loc, nil
}

// FileConfig is the YAML shape of the configuration file. Zero values mean "not set".
type FileConfig struct {
	Provider  string              `yaml:"provider,omitempty"`
	CacheDir  string              `yaml:"cacheDir,omitempty"`
	Location  string              `yaml:"location,omitempty"`
	LogLevel  string              `yaml:"logLevel,omitempty"`
	HTTP      FileHTTPConfig      `yaml:"http,omitempty"`
	DrDk      DrDkConfig          `yaml:"drdk,omitempty"`
	YouSeeTV  FileYouSeeTVConfig  `yaml:"youseetv,omitempty"`
	TvTid     TvTidConfig         `yaml:"tvtid,omitempty"`
	XMLTV     XMLTVConfig         `yaml:"xmltv,omitempty"`
	API       FileAPIConfig       `yaml:"api,omitempty"`
	Telemetry FileTelemetryConfig `yaml:"telemetry,omitempty"`
}

// FileHTTPConfig is the YAML shape of HTTPConfig.
type FileHTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout,omitempty"`
	RateLimit *float64      `yaml:"rateLimit,omitempty"`
	UserAgent string        `yaml:"userAgent,omitempty"`
}

// FileYouSeeTVConfig is the YAML shape of YouSeeTVConfig.
type FileYouSeeTVConfig struct {
	BaseURL  string `yaml:"baseURL,omitempty"`
	Category string `yaml:"category,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty"`
}

// FileAPIConfig is the YAML shape of APIConfig.
type FileAPIConfig struct {
	ListenAddr string `yaml:"listenAddr,omitempty"`
	RateLimit  *int   `yaml:"rateLimit,omitempty"`
}

// FileTelemetryConfig is the YAML shape of TelemetryConfig.
type FileTelemetryConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Environment  string   `yaml:"environment,omitempty"`
	ExporterType string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
