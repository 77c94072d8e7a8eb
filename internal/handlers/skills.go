// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"portfolio/internal/models"
)

// defaultSkillLevel applies when a skill payload omits level.
const defaultSkillLevel = 50

// SkillStore is the persistence surface for skills.
type SkillStore interface {
	List(ctx context.Context) ([]models.Skill, error)
	Create(ctx context.Context, sk *models.Skill) (*models.Skill, error)
	Update(ctx context.Context, sk *models.Skill) (*models.Skill, error)
	Delete(ctx context.Context, id int64) error
}

// SkillCategoryStore is the persistence surface for the flat skill groups.
type SkillCategoryStore interface {
	List(ctx context.Context) ([]models.SkillCategory, error)
	Create(ctx context.Context, sc *models.SkillCategory) (*models.SkillCategory, error)
	Update(ctx context.Context, sc *models.SkillCategory) (*models.SkillCategory, error)
	Delete(ctx context.Context, id int64) error
}

// Skills serves /api/skills and the skill groups at /api/categories.
type Skills struct {
	skills     SkillStore
	categories SkillCategoryStore
}

// NewSkills creates the skills handler group.
func NewSkills(skills SkillStore, categories SkillCategoryStore) *Skills {
	return &Skills{skills: skills, categories: categories}
}

// skillRequest uses a pointer level so an omitted level can be defaulted.
type skillRequest struct {
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"categoryId"`
	Level       *int    `json:"level"`
}

func (req skillRequest) skill() *models.Skill {
	sk := &models.Skill{
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Level:       defaultSkillLevel,
	}
	if req.Level != nil {
		sk.Level = *req.Level
	}
	return sk
}

// List handles GET /api/skills.
func (h *Skills) List(w http.ResponseWriter, r *http.Request) {
	skills, err := h.skills.List(r.Context())
	if err != nil {
		storeError(w, "fetch skills", err)
		return
	}
	writeJSON(w, http.StatusOK, skills)
}

// Create handles POST /api/skills.
func (h *Skills) Create(w http.ResponseWriter, r *http.Request) {
	var req skillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sk, err := h.skills.Create(r.Context(), req.skill())
	if err != nil {
		storeError(w, "create skill", err)
		return
	}
	writeJSON(w, http.StatusCreated, sk)
}

// Update handles PUT /api/skills/{id}.
func (h *Skills) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid skill ID.")
		return
	}

	var req skillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sk := req.skill()
	sk.ID = id

	updated, err := h.skills.Update(r.Context(), sk)
	if err != nil {
		storeError(w, "update skill", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/skills/{id}.
func (h *Skills) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid skill ID.")
		return
	}
	if err := h.skills.Delete(r.Context(), id); err != nil {
		storeError(w, "delete skill", err)
		return
	}
	writeSuccess(w)
}

// ListCategories handles GET /api/categories.
func (h *Skills) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.categories.List(r.Context())
	if err != nil {
		storeError(w, "fetch categories", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CreateCategory handles POST /api/categories.
func (h *Skills) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var sc models.SkillCategory
	if err := decodeJSON(w, r, &sc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.categories.Create(r.Context(), &sc)
	if err != nil {
		storeError(w, "create category", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *Skills) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	var sc models.SkillCategory
	if err := decodeJSON(w, r, &sc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sc.ID = id

	updated, err := h.categories.Update(r.Context(), &sc)
	if err != nil {
		storeError(w, "update category", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory handles DELETE /api/categories/{id}. Groups that still
// hold skills are refused.
func (h *Skills) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category ID.")
		return
	}
	if err := h.categories.Delete(r.Context(), id); err != nil {
		storeError(w, "delete category", err)
		return
	}
	writeSuccess(w)
}
