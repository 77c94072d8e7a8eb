// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

const (
	// maxUploadSize is the maximum allowed file upload size (10 MB).
	maxUploadSize = 10 << 20

	// emptyProfile is served before the profile was ever saved.
	emptyProfile = `{}`
)

// allowedUploadTypes defines MIME types accepted for upload.
var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/svg+xml":   true,
	"application/pdf": true,
}

// SettingStore reads and writes JSON settings documents.
type SettingStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
}

// StatsCounter returns the dashboard counters.
type StatsCounter interface {
	Counts(ctx context.Context) (models.Stats, error)
}

// Uploader stores public files. A nil Uploader disables the upload
// endpoints.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	FileURL(key string) string
	ExtractKey(rawURL string) (string, bool)
}

// Site serves the profile, dashboard stats and uploads.
type Site struct {
	settings SettingStore
	stats    StatsCounter
	uploader Uploader
	now      func() time.Time
}

// NewSite creates the site handler group. uploader may be nil when S3 is
// not configured.
func NewSite(settings SettingStore, stats StatsCounter, uploader Uploader) *Site {
	return &Site{settings: settings, stats: stats, uploader: uploader, now: time.Now}
}

// Profile handles GET /api/profile.
func (h *Site) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.settings.Get(r.Context(), store.SettingKeyProfile)
	if err != nil {
		storeError(w, "fetch profile", err)
		return
	}
	if profile == nil {
		profile = json.RawMessage(emptyProfile)
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile. The body must be a JSON object
// and is stored as is.
func (h *Site) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile map[string]json.RawMessage
	if err := decodeJSON(w, r, &profile); err != nil || profile == nil {
		writeError(w, http.StatusBadRequest, "Profile must be a JSON object.")
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Profile must be a JSON object.")
		return
	}
	if err := h.settings.Set(r.Context(), store.SettingKeyProfile, raw); err != nil {
		storeError(w, "update profile", err)
		return
	}
	writeSuccess(w)
}

// Stats handles GET /api/stats.
func (h *Site) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Counts(r.Context())
	if err != nil {
		storeError(w, "fetch stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Upload handles POST /api/upload with a multipart "file" field and
// answers with the public URL and object key.
func (h *Site) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "File storage is not configured.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided.")
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return
	}

	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		writeError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}
	contentType := sniffContentType(header.Filename, sniffBuf[:n])
	if !allowedUploadTypes[contentType] {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("File type %q is not allowed.", contentType))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process file.")
		return
	}

	name := header.Filename
	if custom := strings.TrimSpace(r.FormValue("filename")); custom != "" {
		name = custom
	}
	key := storage.ObjectKey(name, h.now())

	if err := h.uploader.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "Failed to upload file.")
		return
	}

	slog.Info("file uploaded", "key", key, "type", contentType, "size", header.Size)
	writeJSON(w, http.StatusCreated, map[string]string{
		"url": h.uploader.FileURL(key),
		"key": key,
	})
}

// DeleteUpload handles DELETE /api/upload with {"url": "..."}; only URLs
// that point into the configured bucket are accepted.
func (h *Site) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "File storage is not configured.")
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	key, ok := h.uploader.ExtractKey(req.URL)
	if !ok {
		writeError(w, http.StatusBadRequest, "URL does not belong to this storage.")
		return
	}

	if err := h.uploader.Delete(r.Context(), key); err != nil {
		slog.Error("s3 delete failed", "error", err, "key", key)
		writeError(w, http.StatusInternalServerError, "Failed to delete file.")
		return
	}
	writeSuccess(w)
}

// sniffContentType detects the type from the leading bytes. SVG sniffs as
// XML or text, so the extension decides there.
func sniffContentType(filename string, head []byte) string {
	contentType := http.DetectContentType(head)
	if strings.HasSuffix(strings.ToLower(filename), ".svg") &&
		(strings.Contains(contentType, "xml") || strings.Contains(contentType, "text/plain")) {
		return "image/svg+xml"
	}
	return contentType
}
