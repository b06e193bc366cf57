// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package epg

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	xglog "github.com/ManuGH/tvguide/internal/log"
	"github.com/google/renameio/v2"
)

// TV is the root element of an XMLTV document.
type TV struct {
	XMLName   xml.Name    `xml:"tv"`
	Generator string      `xml:"generator-info-name,attr,omitempty"`
	Channels  []Channel   `xml:"channel"`
	Programs  []Programme `xml:"programme"`
}

type Channel struct {
	ID          string   `xml:"id,attr"`
	DisplayName []string `xml:"display-name"`
	Icon        *Icon    `xml:"icon,omitempty"`
}

type Icon struct {
	Src string `xml:"src,attr"`
}

type Programme struct {
	Start   string `xml:"start,attr"`
	Stop    string `xml:"stop,attr"`
	Channel string `xml:"channel,attr"`
	Titles  []Text `xml:"title"`
	Descs   []Text `xml:"desc,omitempty"`
}

// Text is a possibly language-tagged character data element.
type Text struct {
	// Lang contains the language code (optional).
	Lang string `xml:"lang,attr,omitempty"`
	// Value is the character data of the element.
	Value string `xml:",chardata"`
}

// FirstDisplayName returns the first display name, or "" if there is none.
func (c Channel) FirstDisplayName() string {
	if len(c.DisplayName) == 0 {
		return ""
	}
	return c.DisplayName[0]
}

// Title returns the first title, or "" if there is none.
func (p Programme) Title() string { return firstText(p.Titles) }

// Desc returns the first description, or "" if there is none.
func (p Programme) Desc() string { return firstText(p.Descs) }

func firstText(ts []Text) string {
	if len(ts) == 0 {
		return ""
	}
	return ts[0].Value
}

// Encode renders tv as an indented XMLTV document including the XML header.
func Encode(tv TV) ([]byte, error) {
	if tv.Generator == "" {
		tv.Generator = "tvguide"
	}
	out, err := xml.MarshalIndent(tv, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode xmltv: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(`<!DOCTYPE tv SYSTEM "xmltv.dtd">` + "\n")
	buf.Write(out)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile writes tv to path atomically: fsync before rename, so readers
// never observe a partial guide.
func WriteFile(ctx context.Context, path string, tv TV) error {
	logger := xglog.FromContext(ctx)

	data, err := Encode(tv)
	if err != nil {
		return err
	}

	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending XMLTV file: %w", err)
	}
	defer func() {
		// no-op once committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending XMLTV file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write XMLTV data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace XMLTV file: %w", err)
	}
	return nil
}
