// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package model holds the canonical channel and programme records shared by
// every guide provider.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NoDescription replaces programme descriptions the provider did not supply.
const NoDescription = "No description available"

// ErrInvalidInterval is returned when a programme does not start before it ends.
var ErrInvalidInterval = errors.New("programme start must be before end")

// ErrChannelNotFound is returned when a channel ID is not part of a provider's listing.
var ErrChannelNotFound = errors.New("channel not found")

// Channel is a broadcast stream within one provider.
// Logo is either a local cache path or a provider reference; empty means absent.
type Channel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Logo  string `json:"logo,omitempty"`
}

// HasLogo reports whether the channel carries a logo reference.
func (c Channel) HasLogo() bool { return c.Logo != "" }

func (c Channel) String() string {
	return fmt.Sprintf("Channel(id=%s, title=%s, logo=%s)", c.ID, c.Title, c.Logo)
}

// Program is one scheduled broadcast on a channel.
type Program struct {
	Channel     Channel   `json:"-"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

// NewProgram builds a Program, enforcing Start < End and the description placeholder.
func NewProgram(ch Channel, title string, start, end time.Time, description string) (Program, error) {
	if !start.Before(end) {
		return Program{}, fmt.Errorf("%w: %q on %s (%s - %s)", ErrInvalidInterval, title, ch.ID,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return Program{
		Channel:     ch,
		Title:       title,
		Start:       start,
		End:         end,
		Description: DescriptionOrPlaceholder(description),
	}, nil
}

// AiringAt reports whether t falls strictly inside the programme interval.
// Both boundaries are excluded.
func (p Program) AiringAt(t time.Time) bool {
	return p.Start.Before(t) && p.End.After(t)
}

// Duration returns the scheduled length of the programme.
func (p Program) Duration() time.Duration { return p.End.Sub(p.Start) }

func (p Program) String() string {
	return fmt.Sprintf("Program(channel=%s, title=%s, start=%s, end=%s)",
		p.Channel.ID, p.Title, p.Start.Format(time.RFC3339), p.End.Format(time.RFC3339))
}

// DescriptionOrPlaceholder returns d, or NoDescription when d is blank.
func DescriptionOrPlaceholder(d string) string {
	if strings.TrimSpace(d) == "" {
		return NoDescription
	}
	return d
}
