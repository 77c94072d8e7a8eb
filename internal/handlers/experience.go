// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"portfolio/internal/models"
)

// ExperienceStore is the persistence surface the experience handlers need.
type ExperienceStore interface {
	List(ctx context.Context) ([]models.Experience, error)
	FindByID(ctx context.Context, id int64) (*models.Experience, error)
	Create(ctx context.Context, e *models.Experience) (*models.Experience, error)
	Update(ctx context.Context, e *models.Experience) (*models.Experience, error)
	Delete(ctx context.Context, id int64) error
}

// Experience serves /api/experience.
type Experience struct {
	store ExperienceStore
}

// NewExperience creates the experience handler group.
func NewExperience(s ExperienceStore) *Experience {
	return &Experience{store: s}
}

// List handles GET /api/experience, newest first.
func (h *Experience) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		storeError(w, "fetch experience", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/experience/{id}.
func (h *Experience) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid experience ID.")
		return
	}

	e, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		storeError(w, "fetch experience", err)
		return
	}
	if e == nil {
		writeError(w, http.StatusNotFound, "Experience not found.")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Create handles POST /api/experience. categoryId, when set, must name an
// experience category.
func (h *Experience) Create(w http.ResponseWriter, r *http.Request) {
	var e models.Experience
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateExperience(&e); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.store.Create(r.Context(), &e)
	if err != nil {
		storeError(w, "create experience", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/experience/{id}.
func (h *Experience) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid experience ID.")
		return
	}

	var e models.Experience
	if err := decodeJSON(w, r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateExperience(&e); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	e.ID = id

	updated, err := h.store.Update(r.Context(), &e)
	if err != nil {
		storeError(w, "update experience", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/experience/{id}.
func (h *Experience) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid experience ID.")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		storeError(w, "delete experience", err)
		return
	}
	writeSuccess(w)
}
