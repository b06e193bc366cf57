// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

// LoadFileConfig loads a YAML config file without applying defaults or env overrides.
func LoadFileConfig(path string) (*FileConfig, error) {
	return NewLoader(path, "").loadFile(path)
}

// redacted replaces secrets in dumped configuration.
const redacted = "***"

// ToFileConfig renders the resolved configuration in file shape, so it can be
// dumped and loaded back. Secrets are masked.
func (c AppConfig) ToFileConfig() FileConfig {
	httpRate := c.HTTP.RateLimit
	apiRate := c.API.RateLimit
	enabled := c.Telemetry.Enabled
	sampling := c.Telemetry.SamplingRate

	fc := FileConfig{
		Provider: c.Provider,
		CacheDir: c.CacheDir,
		Location: c.Location,
		LogLevel: c.LogLevel,
		HTTP: FileHTTPConfig{
			Timeout:   c.HTTP.Timeout,
			RateLimit: &httpRate,
			UserAgent: c.HTTP.UserAgent,
		},
		DrDk: c.DrDk,
		YouSeeTV: FileYouSeeTVConfig{
			BaseURL:  c.YouSeeTV.BaseURL,
			Category: c.YouSeeTV.Category,
		},
		TvTid: c.TvTid,
		XMLTV: c.XMLTV,
		API: FileAPIConfig{
			ListenAddr: c.API.ListenAddr,
			RateLimit:  &apiRate,
		},
		Telemetry: FileTelemetryConfig{
			Enabled:      &enabled,
			Environment:  c.Telemetry.Environment,
			ExporterType: c.Telemetry.ExporterType,
			Endpoint:     c.Telemetry.Endpoint,
			SamplingRate: &sampling,
		},
	}
	if c.YouSeeTV.APIKey != "" {
		fc.YouSeeTV.APIKey = redacted
	}
	return fc
}
