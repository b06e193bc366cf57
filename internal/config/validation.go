// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/tvguide/internal/validate"
)

var httpSchemes = []string{"http", "https"}

// Validate checks a resolved AppConfig and reports every problem at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("provider", cfg.Provider, Providers)
	v.Directory("cacheDir", cfg.CacheDir, false)
	v.Location("location", cfg.Location)
	if cfg.LogLevel != "" {
		if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
			v.AddError("logLevel", "must be one of trace, debug, info, warn, error", cfg.LogLevel)
		}
	}

	v.PositiveDuration("http.timeout", cfg.HTTP.Timeout)
	v.FloatRange("http.rateLimit", cfg.HTTP.RateLimit, 0, 1000)

	optionalURL(v, "drdk.baseURL", cfg.DrDk.BaseURL)
	optionalURL(v, "youseetv.baseURL", cfg.YouSeeTV.BaseURL)
	optionalURL(v, "tvtid.baseURL", cfg.TvTid.BaseURL)

	switch cfg.Provider {
	case ProviderYouSeeTV:
		v.NotEmpty("youseetv.category", cfg.YouSeeTV.Category)
	case ProviderXMLTV:
		v.File("xmltv.file", cfg.XMLTV.File)
	}

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.NonNegative("api.rateLimit", cfg.API.RateLimit)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.ExporterType, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}

func optionalURL(v *validate.Validator, field, value string) {
	if value != "" {
		v.URL(field, value, httpSchemes)
	}
}
