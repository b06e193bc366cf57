// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Guide fields
	FieldProvider  = "provider"
	FieldChannelID = "channel_id"
	FieldCount     = "count"
	FieldKind      = "kind"

	// Cache fields
	FieldCacheName = "cache_name"
	FieldCachePath = "cache_path"
	FieldCachedOn  = "cached_on"
	FieldAge       = "age"

	// Network / file fields
	FieldURL    = "url"
	FieldPath   = "path"
	FieldStatus = "status"
	FieldBytes  = "bytes"
)
