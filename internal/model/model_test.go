// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgram_RejectsInvalidInterval(t *testing.T) {
	ch := Channel{ID: "dr1", Title: "DR1"}
	at := time.Date(2011, 1, 15, 20, 30, 0, 0, time.Local)

	_, err := NewProgram(ch, "News", at, at, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInterval))

	_, err = NewProgram(ch, "News", at.Add(time.Hour), at, "")
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestNewProgram_DescriptionPlaceholder(t *testing.T) {
	ch := Channel{ID: "dr1"}
	start := time.Date(2011, 1, 15, 9, 0, 0, 0, time.Local)

	for _, desc := range []string{"", "   ", "\n"} {
		p, err := NewProgram(ch, "Show", start, start.Add(time.Hour), desc)
		require.NoError(t, err)
		assert.Equal(t, NoDescription, p.Description)
	}

	p, err := NewProgram(ch, "Show", start, start.Add(time.Hour), "Evening news")
	require.NoError(t, err)
	assert.Equal(t, "Evening news", p.Description)
	assert.Equal(t, ch, p.Channel)
	assert.Equal(t, time.Hour, p.Duration())
}

func TestProgram_AiringAt(t *testing.T) {
	day := time.Date(2011, 1, 15, 0, 0, 0, 0, time.Local)
	p := Program{Start: day.Add(9 * time.Hour), End: day.Add(10 * time.Hour)}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before", day.Add(8 * time.Hour), false},
		{"at start", day.Add(9 * time.Hour), false},
		{"inside", day.Add(9*time.Hour + 30*time.Minute), true},
		{"at end", day.Add(10 * time.Hour), false},
		{"after", day.Add(11 * time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.AiringAt(tt.at))
		})
	}
}

func TestChannel_HasLogo(t *testing.T) {
	assert.False(t, Channel{ID: "a"}.HasLogo())
	assert.True(t, Channel{ID: "a", Logo: "/cache/tvtiddk-1.jpg"}.HasLogo())
}
