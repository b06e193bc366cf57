// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package timeutil holds the date conventions shared by guide providers.
package timeutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FloorHour rounds t down to a whole hour of Unix time, keeping t's
// location. Zones with a half-hour offset therefore floor to :30 on the
// wall clock.
func FloorHour(t time.Time) time.Time {
	return t.Truncate(time.Hour)
}

// LocationOrLocal returns loc, or time.Local when loc is nil.
func LocationOrLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}

// EpochSeconds is a Unix timestamp that decodes from a JSON number or a
// numeric string. Fractional seconds are truncated.
type EpochSeconds int64

// UnmarshalJSON implements json.Unmarshaler.
func (e *EpochSeconds) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("epoch timestamp is null")
	}
	if len(b) > 1 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(strings.TrimSpace(s))
	}
	s := string(b)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*e = EpochSeconds(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid epoch timestamp %q", s)
	}
	*e = EpochSeconds(int64(f))
	return nil
}

// In returns the timestamp as a wall-clock time in loc (time.Local if nil).
func (e EpochSeconds) In(loc *time.Location) time.Time {
	return time.Unix(int64(e), 0).In(LocationOrLocal(loc))
}
