// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics exposes the Prometheus instruments of the guide pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	diskCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvguide_disk_cache_lookups_total",
		Help: "Disk cache lookups by result",
	}, []string{"result"}) // result=hit|refresh|error

	logoCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvguide_logo_cache_total",
		Help: "Logo cache lookups by result",
	}, []string{"result"}) // result=hit_disk|downloaded|unavailable|write_error

	sourceFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvguide_source_fetch_total",
		Help: "Provider fetches that missed the in-process memo, by outcome",
	}, []string{"provider", "kind", "outcome"}) // kind=channels|programs, outcome=success|failure

	sourceFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tvguide_source_fetch_duration_seconds",
		Help:    "Duration of provider fetches that missed the in-process memo",
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 1, 2.5, 10, 30},
	}, []string{"provider", "kind"})

	sourceItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tvguide_source_items",
		Help: "Number of records returned by the last successful fetch",
	}, []string{"provider", "kind"})
)

// Disk cache results.
const (
	CacheHit     = "hit"
	CacheRefresh = "refresh"
	CacheError   = "error"
)

// Logo cache results.
const (
	LogoHitDisk     = "hit_disk"
	LogoDownloaded  = "downloaded"
	LogoUnavailable = "unavailable"
	LogoWriteError  = "write_error"
)

// IncDiskCache records one disk cache lookup.
func IncDiskCache(result string) {
	diskCacheLookups.WithLabelValues(result).Inc()
}

// IncLogoCache records one logo cache lookup.
func IncLogoCache(result string) {
	logoCacheLookups.WithLabelValues(result).Inc()
}

// ObserveSourceFetch records one provider fetch.
func ObserveSourceFetch(provider, kind string, items int, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	sourceFetches.WithLabelValues(provider, kind, outcome).Inc()
	sourceFetchDuration.WithLabelValues(provider, kind).Observe(d.Seconds())
	if err == nil {
		sourceItems.WithLabelValues(provider, kind).Set(float64(items))
	}
}
