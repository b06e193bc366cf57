// SPDX-License-Identifier: MIT
package telemetry

import (
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/api/v1/channels", "http://localhost:8080/api/v1/channels", 200)

	if len(attrs) != 4 {
		t.Fatalf("Expected 4 attributes, got %d", len(attrs))
	}
	verifyAttribute(t, attrs, HTTPMethodKey, "GET")
	verifyAttribute(t, attrs, HTTPRouteKey, "/api/v1/channels")
	verifyAttribute(t, attrs, HTTPURLKey, "http://localhost:8080/api/v1/channels")
	verifyIntAttribute(t, attrs, HTTPStatusCodeKey, 200)
}

func TestSourceAttributes(t *testing.T) {
	tests := []struct {
		name      string
		channelID string
		wantLen   int
	}{
		{name: "channel list", channelID: "", wantLen: 2},
		{name: "programme list", channelID: "dr1", wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := SourceAttributes("drdk", "programs", tt.channelID)
			if len(attrs) != tt.wantLen {
				t.Fatalf("Expected %d attributes, got %d", tt.wantLen, len(attrs))
			}
			verifyAttribute(t, attrs, GuideProviderKey, "drdk")
			verifyAttribute(t, attrs, GuideKindKey, "programs")
			if tt.channelID != "" {
				verifyAttribute(t, attrs, GuideChannelIDKey, tt.channelID)
			}
		})
	}
}

func TestItemsAttribute(t *testing.T) {
	verifyIntAttribute(t, []attribute.KeyValue{ItemsAttribute(42)}, GuideItemsKey, 42)
}

func TestCacheAttributes(t *testing.T) {
	attrs := CacheAttributes("drdk-channels.json", "hit")
	verifyAttribute(t, attrs, CacheNameKey, "drdk-channels.json")
	verifyAttribute(t, attrs, CacheResultKey, "hit")
}

func TestErrorAttributes(t *testing.T) {
	attrs := ErrorAttributes("upstream")
	verifyBoolAttribute(t, attrs, ErrorKey, true)
	verifyAttribute(t, attrs, ErrorTypeKey, "upstream")
}

func verifyAttribute(t *testing.T, attrs []attribute.KeyValue, key, expectedValue string) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsString() != expectedValue {
				t.Errorf("Expected %s=%s, got %s", key, expectedValue, attr.Value.AsString())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyIntAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue int) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsInt64() != int64(expectedValue) {
				t.Errorf("Expected %s=%d, got %d", key, expectedValue, attr.Value.AsInt64())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}

func verifyBoolAttribute(t *testing.T, attrs []attribute.KeyValue, key string, expectedValue bool) {
	t.Helper()
	for _, attr := range attrs {
		if string(attr.Key) == key {
			if attr.Value.AsBool() != expectedValue {
				t.Errorf("Expected %s=%t, got %t", key, expectedValue, attr.Value.AsBool())
			}
			return
		}
	}
	t.Errorf("Attribute %s not found", key)
}
