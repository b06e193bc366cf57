// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package epg reads and writes XMLTV guide documents.
package epg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	unorm "golang.org/x/text/unicode/norm"
)

// MaxDocumentSize caps decoded XMLTV input.
const MaxDocumentSize = 50 * 1024 * 1024

var space = regexp.MustCompile(`\s+`)

// Decode parses an XMLTV document. Decoding is strict, entity expansion is
// disabled, and input beyond MaxDocumentSize is cut off. Non-UTF-8 documents
// are transcoded according to their XML declaration.
func Decode(r io.Reader) (*TV, error) {
	var doc TV
	dec := xml.NewDecoder(io.LimitReader(r, MaxDocumentSize))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	dec.CharsetReader = charset.NewReaderLabel

	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode xmltv: empty document")
		}
		return nil, fmt.Errorf("decode xmltv: %w", err)
	}
	return &doc, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(b []byte) (*TV, error) {
	return Decode(bytes.NewReader(b))
}

// CleanText NFC-normalizes s and collapses runs of whitespace.
func CleanText(s string) string {
	s = unorm.NFC.String(s)
	s = space.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NameKey generates a normalized key from a channel name for matching.
func NameKey(s string) string {
	s = unorm.NFC.String(strings.ToLower(strings.TrimSpace(s)))
	s = space.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
