// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLog swaps the default logger for a JSON one writing into the
// returned buffer until the test ends.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
		t.Fatalf("decode log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusCreated, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusConflict, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			buf := captureLog(t)
			h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/content-categories", nil))

			if rr.Code != tt.status {
				t.Errorf("status passed through: got %d, want %d", rr.Code, tt.status)
			}
			entry := lastLogLine(t, buf)
			if entry["level"] != tt.level {
				t.Errorf("level: got %v, want %s", entry["level"], tt.level)
			}
			if entry["status"] != float64(tt.status) {
				t.Errorf("status field: got %v", entry["status"])
			}
		})
	}
}

func TestLoggerFields(t *testing.T) {
	buf := captureLog(t)

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":1}]`))
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/content-categories/tree?type=blog", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogLine(t, buf)
	want := map[string]any{
		"msg":        "http request",
		"method":     "GET",
		"path":       "/api/content-categories/tree",
		"status":     float64(200),
		"bytes":      float64(10),
		"request_id": "req-abc",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s: got %v, want %v", k, entry[k], v)
		}
	}
	if _, ok := entry["duration"]; !ok {
		t.Error("missing duration field")
	}
}

func TestResponseWriterStatus(t *testing.T) {
	t.Run("first WriteHeader wins", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}
		rw.WriteHeader(http.StatusBadRequest)
		rw.WriteHeader(http.StatusInternalServerError)

		if rw.statusCode != http.StatusBadRequest {
			t.Errorf("statusCode: got %d, want 400", rw.statusCode)
		}
	})

	t.Run("Write implies 200 and counts bytes", func(t *testing.T) {
		rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusTeapot}
		rw.Write([]byte(`{"error":`))
		rw.Write([]byte(`"x"}`))

		if rw.statusCode != http.StatusOK || !rw.written {
			t.Errorf("statusCode: got %d (written=%v), want 200", rw.statusCode, rw.written)
		}
		if rw.bytes != 13 {
			t.Errorf("bytes: got %d, want 13", rw.bytes)
		}
	})
}
