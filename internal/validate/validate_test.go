// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with port", "http://example.com:8080", []string{"http"}, false},
		{"with path", "http://www.dr.dk/tjenester/programoversigt/dbservice.ashx", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"all interfaces", ":8080", false},
		{"loopback", "127.0.0.1:8080", false},
		{"ephemeral", "localhost:0", false},
		{"missing port", "localhost", true},
		{"port out of range", ":70000", true},
		{"port not numeric", ":http", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.ListenAddr("listenAddr", tt.addr)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Directory(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(tmp, "later")

	tests := []struct {
		name      string
		path      string
		mustExist bool
		wantErr   bool
	}{
		{"existing dir", tmp, true, false},
		{"missing allowed", missing, false, false},
		{"missing required", missing, true, true},
		{"file not dir", file, false, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Directory("cacheDir", tt.path, tt.mustExist)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}

	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Error("Directory must not create missing directories")
	}
}

func TestValidator_File(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "guide.xml")
	if err := os.WriteFile(file, []byte("<tv/>"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing file", file, false},
		{"directory", tmp, true},
		{"missing", filepath.Join(tmp, "nope.xml"), true},
		{"empty", " ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.File("xmltv.file", tt.path)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_NotEmpty(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"non-empty", "Danske kanaler", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab and newline", "\t\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.NotEmpty("category", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"drdk", "youseetv", "tvtiddk", "xmltv"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"valid drdk", "drdk", false},
		{"valid xmltv", "xmltv", false},
		{"case sensitive", "DRDK", true},
		{"unknown", "zattoo", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.OneOf("provider", tt.value, allowed)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Location(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty means local", "", false},
		{"copenhagen", "Europe/Copenhagen", false},
		{"utc", "UTC", false},
		{"unknown", "Mars/Olympus_Mons", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Location("location", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Numeric(t *testing.T) {
	v := New()
	v.PositiveDuration("http.timeout", 30*time.Second)
	v.FloatRange("telemetry.samplingRate", 0.5, 0, 1)
	v.NonNegative("api.rateLimit", 0)
	if !v.IsValid() {
		t.Fatalf("unexpected errors: %v", v.Err())
	}

	v = New()
	v.PositiveDuration("http.timeout", 0)
	v.FloatRange("telemetry.samplingRate", 1.5, 0, 1)
	v.NonNegative("api.rateLimit", -1)
	if got := len(v.Errors()); got != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", got, v.Err())
	}
}

func TestValidator_MultipleErrors(t *testing.T) {
	v := New()

	v.ListenAddr("listen", "nope")
	v.URL("url", "", []string{"http"})
	v.NotEmpty("name", "")

	if v.IsValid() {
		t.Fatal("expected errors, got none")
	}
	if len(v.Errors()) != 3 {
		t.Errorf("expected 3 errors, got %d", len(v.Errors()))
	}

	err := v.Err()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var verr ValidationError
	if !errors.As(err, &verr) || len(verr.Errors()) != 3 {
		t.Fatalf("expected ValidationError with 3 entries, got %v", err)
	}
	for _, field := range []string{"listen", "url", "name"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error message should mention %q", field)
		}
	}
}

func TestValidator_ErrNilWhenValid(t *testing.T) {
	v := New()
	v.URL("baseURL", "http://example.com", []string{"http", "https"})
	v.OneOf("provider", "drdk", []string{"drdk"})
	if err := v.Err(); err != nil {
		t.Errorf("unexpected errors: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    LogLevel
		wantErr bool
	}{
		{"trace", LogLevelTrace, false},
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{" warn ", LogLevelWarn, false},
		{"error", LogLevelError, false},
		{"invalid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLogLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
