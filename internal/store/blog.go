// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
	"portfolio/internal/slug"
)

// BlogStore handles blog post persistence.
type BlogStore struct {
	db    *sql.DB
	assoc *AssociationStore
}

// NewBlogStore creates a new BlogStore.
func NewBlogStore(db *sql.DB, assoc *AssociationStore) *BlogStore {
	return &BlogStore{db: db, assoc: assoc}
}

const blogColumns = `id, title, slug, excerpt, content, image_url, read_time,
	meta_title, meta_description, focus_keyword, og_image_url, published_at`

func scanBlogPost(scanner interface{ Scan(...any) error }) (*models.BlogPost, error) {
	var b models.BlogPost
	err := scanner.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Excerpt, &b.Content, &b.ImageURL, &b.ReadTime,
		&b.MetaTitle, &b.MetaDescription, &b.FocusKeyword, &b.OGImageURL, &b.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Categories = []models.Category{}
	return &b, nil
}

// List returns all posts, newest first, with categories resolved in batch.
func (s *BlogStore) List(ctx context.Context) ([]models.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+blogColumns+` FROM blog_posts ORDER BY published_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	defer rows.Close()

	items := []models.BlogPost{}
	var ids []uuid.UUID
	for rows.Next() {
		b, err := scanBlogPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog post: %w", err)
		}
		items = append(items, *b)
		ids = append(ids, b.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}

	byID, err := s.assoc.ResolveForMany(ctx, models.CategoryTypeBlog, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if cats, ok := byID[items[i].ID]; ok {
			items[i].Categories = cats
		}
	}
	return items, nil
}

// FindByID retrieves a post with its categories. Returns nil if not found.
func (s *BlogStore) FindByID(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	return s.findOne(ctx, `id = $1`, id)
}

// FindBySlug retrieves a post by its URL slug. Returns nil if not found.
func (s *BlogStore) FindBySlug(ctx context.Context, postSlug string) (*models.BlogPost, error) {
	return s.findOne(ctx, `slug = $1`, postSlug)
}

func (s *BlogStore) findOne(ctx context.Context, where string, arg any) (*models.BlogPost, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blog_posts WHERE `+where, arg)
	b, err := scanBlogPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find blog post: %w", err)
	}

	b.Categories, err = s.assoc.ResolveForContent(ctx, models.CategoryTypeBlog, b.ID)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create inserts a post and its category links atomically. The slug is
// derived from the title when empty.
func (s *BlogStore) Create(ctx context.Context, b *models.BlogPost, categoryIDs []int64) (*models.BlogPost, error) {
	if err := prepareBlogPost(b); err != nil {
		return nil, err
	}
	b.ID = uuid.New()
	if b.PublishedAt.IsZero() {
		b.PublishedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blog_posts (`+blogColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.Title, b.Slug, b.Excerpt, b.Content, b.ImageURL, b.ReadTime,
		b.MetaTitle, b.MetaDescription, b.FocusKeyword, b.OGImageURL, b.PublishedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create blog post: %w", err)
	}

	if err := s.assoc.AttachAll(ctx, tx, models.CategoryTypeBlog, b.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create blog post: %w", err)
	}
	return s.FindByID(ctx, b.ID)
}

// Update overwrites a post and replaces its category set atomically.
// Returns ErrNotFound if the post does not exist.
func (s *BlogStore) Update(ctx context.Context, b *models.BlogPost, categoryIDs []int64) (*models.BlogPost, error) {
	if err := prepareBlogPost(b); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE blog_posts SET
			title = $1, slug = $2, excerpt = $3, content = $4, image_url = $5, read_time = $6,
			meta_title = $7, meta_description = $8, focus_keyword = $9, og_image_url = $10
		WHERE id = $11`,
		b.Title, b.Slug, b.Excerpt, b.Content, b.ImageURL, b.ReadTime,
		b.MetaTitle, b.MetaDescription, b.FocusKeyword, b.OGImageURL, b.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update blog post: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	if err := s.assoc.AttachAll(ctx, tx, models.CategoryTypeBlog, b.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update blog post: %w", err)
	}
	return s.FindByID(ctx, b.ID)
}

// Delete removes a post. Its category links cascade with it.
func (s *BlogStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog post: %w", err)
	}
	return requireAffected(res)
}

func prepareBlogPost(b *models.BlogPost) error {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return invalid("Title is required.")
	}
	if strings.TrimSpace(b.Slug) == "" {
		b.Slug = slug.Generate(b.Title)
	} else {
		b.Slug = slug.Generate(b.Slug)
	}
	if b.Slug == "" {
		return invalid("Slug cannot be empty. Use letters or digits in the title.")
	}
	return nil
}
