// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"portfolio/internal/models"
)

// BlogStore is the persistence surface the blog handlers need.
type BlogStore interface {
	List(ctx context.Context) ([]models.BlogPost, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, b *models.BlogPost, categoryIDs []int64) (*models.BlogPost, error)
	Update(ctx context.Context, b *models.BlogPost, categoryIDs []int64) (*models.BlogPost, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Blog serves /api/blog.
type Blog struct {
	store BlogStore
}

// NewBlog creates the blog handler group.
func NewBlog(s BlogStore) *Blog {
	return &Blog{store: s}
}

type blogRequest struct {
	models.BlogPost
	CategoryIDs []int64 `json:"categoryIds"`
}

// List handles GET /api/blog.
func (h *Blog) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.List(r.Context())
	if err != nil {
		storeError(w, "fetch blog posts", err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get handles GET /api/blog/{ref}, where ref is a post id or slug.
func (h *Blog) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	var (
		post *models.BlogPost
		err  error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		post, err = h.store.FindByID(r.Context(), id)
	} else {
		post, err = h.store.FindBySlug(r.Context(), ref)
	}
	if err != nil {
		storeError(w, "fetch blog post", err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Blog post not found.")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Create handles POST /api/blog. The slug is derived from the title when
// omitted.
func (h *Blog) Create(w http.ResponseWriter, r *http.Request) {
	var req blogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateBlogPost(&req.BlogPost); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	post, err := h.store.Create(r.Context(), &req.BlogPost, req.CategoryIDs)
	if err != nil {
		storeError(w, "create blog post", err)
		return
	}

	slog.Info("blog post created", "id", post.ID, "slug", post.Slug)
	writeJSON(w, http.StatusCreated, post)
}

// Update handles PUT /api/blog/{ref}. Only ids are accepted here.
func (h *Blog) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "ref")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid blog post ID.")
		return
	}

	var req blogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateBlogPost(&req.BlogPost); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	req.ID = id

	post, err := h.store.Update(r.Context(), &req.BlogPost, req.CategoryIDs)
	if err != nil {
		storeError(w, "update blog post", err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/blog/{ref}.
func (h *Blog) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "ref")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid blog post ID.")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		storeError(w, "delete blog post", err)
		return
	}

	slog.Info("blog post deleted", "id", id)
	writeSuccess(w)
}
