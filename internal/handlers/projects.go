// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// ProjectStore is the persistence surface the project handlers need.
type ProjectStore interface {
	List(ctx context.Context) ([]models.Project, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	Create(ctx context.Context, p *models.Project, categoryIDs []int64) (*models.Project, error)
	Update(ctx context.Context, p *models.Project, categoryIDs []int64) (*models.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Projects serves /api/projects.
type Projects struct {
	store ProjectStore
	now   func() time.Time
}

// NewProjects creates the project handler group.
func NewProjects(s ProjectStore) *Projects {
	return &Projects{store: s, now: time.Now}
}

// projectRequest carries the project fields plus the category set to
// attach.
type projectRequest struct {
	models.Project
	CategoryIDs []int64 `json:"categoryIds"`
}

// List handles GET /api/projects.
func (h *Projects) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.List(r.Context())
	if err != nil {
		storeError(w, "fetch projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get handles GET /api/projects/{id}.
func (h *Projects) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID.")
		return
	}

	p, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, "fetch project", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Project not found.")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create handles POST /api/projects.
func (h *Projects) Create(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProject(&req.Project); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	applyProjectDefaults(&req.Project, h.now().Year())

	p, err := h.store.Create(r.Context(), &req.Project, req.CategoryIDs)
	if err != nil {
		storeError(w, "create project", err)
		return
	}

	slog.Info("project created", "id", p.ID, "categories", len(p.Categories))
	writeJSON(w, http.StatusCreated, p)
}

// Update handles PUT /api/projects/{id}. The category set is replaced by
// categoryIds in the same transaction as the row.
func (h *Projects) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID.")
		return
	}

	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateProject(&req.Project); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	applyProjectDefaults(&req.Project, h.now().Year())
	req.ID = id

	p, err := h.store.Update(r.Context(), &req.Project, req.CategoryIDs)
	if err != nil {
		storeError(w, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/projects/{id}.
func (h *Projects) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid project ID.")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		storeError(w, "delete project", err)
		return
	}

	slog.Info("project deleted", "id", id)
	writeSuccess(w)
}
