// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloorHour(t *testing.T) {
	cph := time.FixedZone("CET", 3600)
	in := time.Date(2011, 1, 15, 20, 47, 13, 999, cph)
	assert.Equal(t, time.Date(2011, 1, 15, 20, 0, 0, 0, cph), FloorHour(in))
	assert.Equal(t, FloorHour(in), FloorHour(FloorHour(in)))
}

func TestFloorHour_AbsoluteHour(t *testing.T) {
	tests := []struct {
		name string
		loc  *time.Location
	}{
		{"utc", time.UTC},
		{"whole hour offset", time.FixedZone("CET", 3600)},
		{"half hour offset", time.FixedZone("IST", 5*3600+30*60)},
		{"quarter hour offset", time.FixedZone("NPT", 5*3600+45*60)},
		{"negative half hour offset", time.FixedZone("NST", -(3*3600 + 30*60))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FloorHour(time.Unix(1295120600, 0).In(tt.loc))
			assert.Equal(t, int64(1295118000), got.Unix())
			assert.Zero(t, got.Unix()%3600)
			assert.Equal(t, tt.loc, got.Location())
		})
	}
}

func TestFloorHour_RepeatedDSTHour(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 2011-10-30 02:30 CET, the second pass through the repeated hour.
	second := time.Unix(1319938200, 0).In(loc)
	got := FloorHour(second)
	assert.Equal(t, int64(1319936400), got.Unix())
	assert.Equal(t, 2, got.Hour())
	_, offset := got.Zone()
	assert.Equal(t, 3600, offset)
}

func TestEpochSeconds_Unmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    EpochSeconds
		wantErr bool
	}{
		{"number", `1295120600`, 1295120600, false},
		{"string", `"1295120600"`, 1295120600, false},
		{"float", `1295120600.0`, 1295120600, false},
		{"null", `null`, 0, true},
		{"garbage", `"soon"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got EpochSeconds
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEpochSeconds_In(t *testing.T) {
	cph := time.FixedZone("CET", 3600)
	got := EpochSeconds(1295120600).In(cph)
	assert.Equal(t, time.Date(2011, 1, 15, 20, 43, 20, 0, cph), got)
	assert.True(t, got.Equal(time.Unix(1295120600, 0)))
}
