// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package epg

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/tvguide/internal/model"
	"github.com/ManuGH/tvguide/internal/timeutil"
)

// TimeLayout is the XMLTV timestamp layout without the offset.
const TimeLayout = "20060102150405"

// ErrBadTime is returned for timestamps that are not in XMLTV form.
var ErrBadTime = errors.New("xmltv: malformed timestamp")

// FormatTime formats t as YYYYMMDDHHMMSS +ZZZZ.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout + " -0700")
}

// ParseTime parses an XMLTV timestamp as a naive wall-clock time in loc.
// Any trailing timezone offset is stripped, not applied.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(value)
	if i := strings.IndexAny(s, " +-"); i >= 0 {
		s = s[:i]
	}
	t, err := time.ParseInLocation(TimeLayout, s, timeutil.LocationOrLocal(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadTime, value)
	}
	return t, nil
}

// FromModel builds an XMLTV document from canonical records. Programmes are
// keyed by the channel ID of their back-reference.
func FromModel(channels []model.Channel, programmes []model.Program) TV {
	tv := TV{
		Generator: "tvguide",
		Channels:  make([]Channel, 0, len(channels)),
		Programs:  make([]Programme, 0, len(programmes)),
	}
	for _, ch := range channels {
		c := Channel{ID: ch.ID, DisplayName: []string{ch.Title}}
		if ch.HasLogo() {
			c.Icon = &Icon{Src: ch.Logo}
		}
		tv.Channels = append(tv.Channels, c)
	}
	for _, p := range programmes {
		prog := Programme{
			Start:   FormatTime(p.Start),
			Stop:    FormatTime(p.End),
			Channel: p.Channel.ID,
			Titles:  []Text{{Value: p.Title}},
		}
		if p.Description != "" && p.Description != model.NoDescription {
			prog.Descs = []Text{{Value: p.Description}}
		}
		tv.Programs = append(tv.Programs, prog)
	}
	return tv
}
