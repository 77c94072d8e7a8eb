// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"portfolio/internal/models"
)

// fakeSettings is a map-backed SettingStore.
type fakeSettings struct {
	values map[string]json.RawMessage
}

func (f *fakeSettings) Get(_ context.Context, key string) (json.RawMessage, error) {
	return f.values[key], nil
}

func (f *fakeSettings) Set(_ context.Context, key string, value json.RawMessage) error {
	f.values[key] = value
	return nil
}

type fakeStats struct {
	stats models.Stats
	err   error
}

func (f fakeStats) Counts(context.Context) (models.Stats, error) { return f.stats, f.err }

// fakeUploader records uploads in memory.
type fakeUploader struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeUploader) Upload(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = b
	f.types[key] = contentType
	return nil
}

func (f *fakeUploader) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return f.err
}

func (f *fakeUploader) FileURL(key string) string { return "https://cdn.test/" + key }

func (f *fakeUploader) ExtractKey(rawURL string) (string, bool) {
	key, ok := strings.CutPrefix(rawURL, "https://cdn.test/")
	return key, ok && key != ""
}

func TestProfile(t *testing.T) {
	settings := &fakeSettings{values: map[string]json.RawMessage{}}
	h := NewSite(settings, fakeStats{}, nil)

	rr := serve(h.Profile, jsonRequest(t, http.MethodGet, "/api/profile", nil))
	if rr.Code != http.StatusOK || strings.TrimSpace(rr.Body.String()) != "{}" {
		t.Fatalf("unset profile: got %d %q", rr.Code, rr.Body.String())
	}

	rr = serve(h.UpdateProfile, jsonRequest(t, http.MethodPut, "/api/profile", map[string]any{
		"name": "Ada", "socials": map[string]string{"github": "ada"},
	}))
	if rr.Code != http.StatusOK {
		t.Fatalf("update: got %d %s", rr.Code, rr.Body.String())
	}

	rr = serve(h.Profile, jsonRequest(t, http.MethodGet, "/api/profile", nil))
	var got map[string]any
	decodeBody(t, rr, &got)
	want := map[string]any{"name": "Ada", "socials": map[string]any{"github": "ada"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateProfileRejectsNonObject(t *testing.T) {
	h := NewSite(&fakeSettings{values: map[string]json.RawMessage{}}, fakeStats{}, nil)
	for _, body := range []string{`[1,2]`, `"text"`, `null`, `{`} {
		t.Run(body, func(t *testing.T) {
			rr := serve(h.UpdateProfile, jsonRequest(t, http.MethodPut, "/api/profile", body))
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rr.Code)
			}
		})
	}
}

func TestStats(t *testing.T) {
	want := models.Stats{Projects: 3, Skills: 12, Blog: 5, Experience: 2}
	rr := serve(NewSite(nil, fakeStats{stats: want}, nil).Stats, jsonRequest(t, http.MethodGet, "/api/stats", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var got models.Stats
	decodeBody(t, rr, &got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}

	rr = serve(NewSite(nil, fakeStats{err: errors.New("db down")}, nil).Stats, jsonRequest(t, http.MethodGet, "/api/stats", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("failing counter: got %d, want 500", rr.Code)
	}
}

// multipartUpload builds a POST /api/upload request with one file field.
func multipartUpload(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUpload(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		h := NewSite(nil, fakeStats{}, nil)
		rr := serve(h.Upload, multipartUpload(t, "file", "a.png", pngHeader))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("status: got %d, want 503", rr.Code)
		}
	})

	t.Run("stores png under dated key", func(t *testing.T) {
		up := newFakeUploader()
		h := NewSite(nil, fakeStats{}, up)
		h.now = func() time.Time { return time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC) }

		rr := serve(h.Upload, multipartUpload(t, "file", "My Screenshot.PNG", pngHeader))
		if rr.Code != http.StatusCreated {
			t.Fatalf("status: got %d, want 201: %s", rr.Code, rr.Body.String())
		}

		var body map[string]string
		decodeBody(t, rr, &body)
		key := body["key"]
		if !strings.HasPrefix(key, "uploads/2026/02/my-screenshot-") || !strings.HasSuffix(key, ".png") {
			t.Errorf("key: got %q", key)
		}
		if body["url"] != "https://cdn.test/"+key {
			t.Errorf("url: got %q", body["url"])
		}
		if up.types[key] != "image/png" {
			t.Errorf("content type: got %q", up.types[key])
		}
		if !bytes.Equal(up.objects[key], pngHeader) {
			t.Error("uploaded bytes differ from the original")
		}
	})

	t.Run("rejects disallowed type", func(t *testing.T) {
		h := NewSite(nil, fakeStats{}, newFakeUploader())
		rr := serve(h.Upload, multipartUpload(t, "file", "run.sh", []byte("#!/bin/sh\necho hi\n")))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		h := NewSite(nil, fakeStats{}, newFakeUploader())
		rr := serve(h.Upload, multipartUpload(t, "image", "a.png", pngHeader))
		if rr.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rr.Code)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		up := newFakeUploader()
		up.err = errors.New("s3 down")
		h := NewSite(nil, fakeStats{}, up)
		rr := serve(h.Upload, multipartUpload(t, "file", "a.png", pngHeader))
		if rr.Code != http.StatusInternalServerError {
			t.Errorf("status: got %d, want 500", rr.Code)
		}
	})
}

func TestDeleteUpload(t *testing.T) {
	up := newFakeUploader()
	up.objects["uploads/2026/01/a.png"] = pngHeader
	h := NewSite(nil, fakeStats{}, up)

	rr := serve(h.DeleteUpload, jsonRequest(t, http.MethodDelete, "/api/upload", map[string]string{"url": "https://elsewhere.test/a.png"}))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("foreign url: got %d, want 400", rr.Code)
	}

	rr = serve(h.DeleteUpload, jsonRequest(t, http.MethodDelete, "/api/upload", map[string]string{"url": "https://cdn.test/uploads/2026/01/a.png"}))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	if _, ok := up.objects["uploads/2026/01/a.png"]; ok {
		t.Error("object still present after delete")
	}
}

func TestSniffContentType(t *testing.T) {
	tests := []struct {
		filename string
		head     []byte
		want     string
	}{
		{"a.png", pngHeader, "image/png"},
		{"logo.svg", []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"></svg>`), "image/svg+xml"},
		{"notes.txt", []byte("plain words"), "text/plain; charset=utf-8"},
		{"doc.pdf", []byte("%PDF-1.7\n"), "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := sniffContentType(tt.filename, tt.head); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
