// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	// Guide attributes
	GuideProviderKey  = "guide.provider"
	GuideKindKey      = "guide.kind"
	GuideChannelIDKey = "guide.channel_id"
	GuideItemsKey     = "guide.items"

	// Cache attributes
	CacheNameKey   = "cache.name"
	CacheResultKey = "cache.result"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// SourceAttributes describes one provider fetch. channelID is omitted when empty.
func SourceAttributes(provider, kind, channelID string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	attrs = append(attrs,
		attribute.String(GuideProviderKey, provider),
		attribute.String(GuideKindKey, kind),
	)
	if channelID != "" {
		attrs = append(attrs, attribute.String(GuideChannelIDKey, channelID))
	}
	return attrs
}

// ItemsAttribute records how many channels or programmes a fetch returned.
func ItemsAttribute(n int) attribute.KeyValue {
	return attribute.Int(GuideItemsKey, n)
}

// CacheAttributes describes a disk or logo cache lookup.
func CacheAttributes(name, result string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(CacheNameKey, name),
		attribute.String(CacheResultKey, result),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
