// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// ProjectStore handles portfolio project persistence. Category membership
// is written through the AssociationStore in the same transaction.
type ProjectStore struct {
	db    *sql.DB
	assoc *AssociationStore
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *sql.DB, assoc *AssociationStore) *ProjectStore {
	return &ProjectStore{db: db, assoc: assoc}
}

const projectColumns = `id, title, description, long_description, tags, image_url,
	demo_url, github_url, features, gallery, role, year, published_at`

func scanProject(scanner interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	var tags, features, gallery stringList
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Description, &p.LongDescription, &tags, &p.ImageURL,
		&p.DemoURL, &p.GithubURL, &features, &gallery, &p.Role, &p.Year, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Tags, p.Features, p.Gallery = tags, features, gallery
	p.Categories = []models.Category{}
	return &p, nil
}

// List returns all projects, newest first, with their categories resolved
// in one batched query.
func (s *ProjectStore) List(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY published_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	items := []models.Project{}
	var ids []uuid.UUID
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		items = append(items, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	byID, err := s.assoc.ResolveForMany(ctx, models.CategoryTypeProject, ids)
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

// FindByID retrieves a project with its categories. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project by id: %w", err)
	}

	p.Categories, err = s.assoc.ResolveForContent(ctx, models.CategoryTypeProject, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a project and its category links atomically.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project, categoryIDs []int64) (*models.Project, error) {
	p.ID = uuid.New()
	if p.PublishedAt.IsZero() {
		p.PublishedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Title, p.Description, p.LongDescription, stringList(p.Tags), p.ImageURL,
		p.DemoURL, p.GithubURL, stringList(p.Features), stringList(p.Gallery), p.Role, p.Year, p.PublishedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := s.assoc.AttachAll(ctx, tx, models.CategoryTypeProject, p.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create project: %w", err)
	}
	return s.FindByID(ctx, p.ID)
}

// Update overwrites a project and replaces its category set atomically.
// Returns ErrNotFound if the project does not exist.
func (s *ProjectStore) Update(ctx context.Context, p *models.Project, categoryIDs []int64) (*models.Project, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE projects SET
			title = $1, description = $2, long_description = $3, tags = $4, image_url = $5,
			demo_url = $6, github_url = $7, features = $8, gallery = $9, role = $10, year = $11
		WHERE id = $12`,
		p.Title, p.Description, p.LongDescription, stringList(p.Tags), p.ImageURL,
		p.DemoURL, p.GithubURL, stringList(p.Features), stringList(p.Gallery), p.Role, p.Year, p.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}

	if err := s.assoc.AttachAll(ctx, tx, models.CategoryTypeProject, p.ID, categoryIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update project: %w", err)
	}
	return s.FindByID(ctx, p.ID)
}

// Delete removes a project. Its category links cascade with it.
func (s *ProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return requireAffected(res)
}

// requireAffected turns a zero-row write into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
