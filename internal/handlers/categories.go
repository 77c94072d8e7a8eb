// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/store"
	"portfolio/internal/tree"
)

// CategoryStore is the persistence surface the category handlers need.
type CategoryStore interface {
	List(ctx context.Context, typ models.CategoryType) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
	Reorder(ctx context.Context, items []store.ReorderItem) error
}

// CategoryCache caches category lists by type.
type CategoryCache interface {
	Get(ctx context.Context, typ models.CategoryType) ([]models.Category, bool)
	Set(ctx context.Context, typ models.CategoryType, cats []models.Category)
	InvalidateAll(ctx context.Context)
}

// Categories serves the typed content category endpoints.
type Categories struct {
	store CategoryStore
	cache CategoryCache
}

// NewCategories creates the content category handler group.
func NewCategories(s CategoryStore, c CategoryCache) *Categories {
	return &Categories{store: s, cache: c}
}

// categoryRequest is the create/update payload.
type categoryRequest struct {
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Type        models.CategoryType `json:"type"`
	ParentID    *int64              `json:"parentId"`
	SortOrder   int                 `json:"sortOrder"`
}

func (req categoryRequest) category() *models.Category {
	return &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Type:        req.Type,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
	}
}

// list returns categories of typ, consulting the cache first.
func (h *Categories) list(ctx context.Context, typ models.CategoryType) ([]models.Category, error) {
	if cats, ok := h.cache.Get(ctx, typ); ok {
		return cats, nil
	}
	cats, err := h.store.List(ctx, typ)
	if err != nil {
		return nil, err
	}
	h.cache.Set(ctx, typ, cats)
	return cats, nil
}

// List handles GET /api/content-categories?type=.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	typ, ok := parseCategoryType(r.URL.Query().Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category type.")
		return
	}

	cats, err := h.list(r.Context(), typ)
	if err != nil {
		storeError(w, "fetch categories", err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Tree handles GET /api/content-categories/tree?type=&q=&expanded=1,2,3.
// Rows come back in display order with depth and expansion state.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	typ, ok := parseCategoryType(query.Get("type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category type.")
		return
	}

	cats, err := h.list(r.Context(), typ)
	if err != nil {
		storeError(w, "fetch categories", err)
		return
	}

	for _, p := range tree.Validate(cats) {
		slog.Warn("category forest problem", "problem", p.String())
	}

	filtered, matched := tree.Filter(cats, tree.Query{Type: typ, Search: query.Get("q")})

	expanded, all := parseExpanded(query.Get("expanded"))
	if all {
		expanded = make(map[int64]bool, len(filtered))
		for _, c := range filtered {
			expanded[c.ID] = true
		}
	}

	writeJSON(w, http.StatusOK, tree.Build(filtered, expanded, matched))
}

// Create handles POST /api/content-categories.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := h.store.Create(r.Context(), req.category())
	if err != nil {
		storeError(w, "create category", err)
		return
	}
	h.cache.InvalidateAll(r.Context())

	slog.Info("category created", "id", c.ID, "type", c.Type, "slug", c.Slug)
	writeJSON(w, http.StatusCreated, c)
}

// Update handles PUT /api/content-categories/{id}. Every field is
// overwritten with the payload.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c := req.category()
	c.ID = id
	updated, err := h.store.Update(r.Context(), c)
	if err != nil {
		storeError(w, "update category", err)
		return
	}
	h.cache.InvalidateAll(r.Context())

	slog.Info("category updated", "id", id)
	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/content-categories/{id}. A category with
// subcategories is refused.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid category ID.")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		storeError(w, "delete category", err)
		return
	}
	h.cache.InvalidateAll(r.Context())

	slog.Info("category deleted", "id", id)
	writeSuccess(w)
}

// Reorder handles PUT /api/content-categories/reorder with a list of
// {id, parentId, sortOrder} moves applied atomically.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	var items []store.ReorderItem
	if err := decodeJSON(w, r, &items); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(items) == 0 {
		writeError(w, http.StatusBadRequest, "No categories to reorder.")
		return
	}

	if err := h.store.Reorder(r.Context(), items); err != nil {
		storeError(w, "reorder categories", err)
		return
	}
	h.cache.InvalidateAll(r.Context())

	writeSuccess(w)
}
