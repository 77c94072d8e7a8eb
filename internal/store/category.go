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
	"unicode/utf8"

	"portfolio/internal/models"
	"portfolio/internal/slug"
)

// Validation limits for category fields.
const (
	maxCategoryNameLen = 200
	maxCategorySlugLen = 200
	maxCategoryDescLen = 2_000
)

// reparentLockKey is the advisory lock taken by every write that changes a
// parent link, so two concurrent moves cannot close a cycle between them.
const reparentLockKey = 7_412_001

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CategoryStore manages typed, hierarchical content categories.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, type, parent_id, sort_order, created_at, updated_at`

// categoryColumnsC is categoryColumns qualified with the "c" table alias.
const categoryColumnsC = `c.id, c.name, c.slug, c.description, c.type, c.parent_id, c.sort_order, c.created_at, c.updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Type,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// collectCategories drains rows produced by a categoryColumns query.
func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns categories ordered by parent, sort order and name. Roots
// come first. An empty type returns every type intermixed.
func (s *CategoryStore) List(ctx context.Context, typ models.CategoryType) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories`
	var args []any
	if typ != "" {
		query += ` WHERE type = $1`
		args = append(args, typ)
	}
	query += ` ORDER BY parent_id ASC NULLS FIRST, sort_order ASC, name ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	items, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create validates and inserts a new category, returning the stored row.
// The slug is derived from the name when left empty.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := prepareCategory(c); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := checkParent(ctx, tx, c); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, type, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Type, c.ParentID, c.SortOrder,
	)
	created, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err, "categories_type_slug_key") {
			return nil, ErrSlugTaken
		}
		if isForeignKeyViolation(err) {
			return nil, invalid("Parent category does not exist.")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create category: %w", err)
	}
	return created, nil
}

// Update overwrites every editable field of an existing category. The type
// cannot change, and the new parent must not be the category itself or one
// of its descendants. Returns ErrNotFound if the ID does not exist.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := prepareCategory(c); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if c.ParentID != nil {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, reparentLockKey); err != nil {
			return nil, fmt.Errorf("lock reparent: %w", err)
		}
	}

	var current models.CategoryType
	err = tx.QueryRowContext(ctx, `SELECT type FROM categories WHERE id = $1 FOR UPDATE`, c.ID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	if current != c.Type {
		return nil, invalid("Category type cannot be changed.")
	}

	if err := checkParent(ctx, tx, c); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, type = $4,
			parent_id = $5, sort_order = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.Type, c.ParentID, c.SortOrder, c.ID,
	)
	updated, err := scanCategory(row)
	if err != nil {
		if isUniqueViolation(err, "categories_type_slug_key") {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update category: %w", err)
	}
	return updated, nil
}

// Delete removes a category that has no subcategories. Association rows and
// experience references are cleared in the same transaction as the delete.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Row lock makes concurrent child inserts wait for this transaction.
	var locked int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}

	var children int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&children); err != nil {
		return fmt.Errorf("count child categories: %w", err)
	}
	if children > 0 {
		return ErrChildrenExist
	}

	for _, stmt := range []string{
		`DELETE FROM project_categories WHERE category_id = $1`,
		`DELETE FROM blog_categories WHERE category_id = $1`,
		`UPDATE experiences SET category_id = NULL WHERE category_id = $1`,
		`DELETE FROM categories WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete category %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete category: %w", err)
	}
	return nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID        int64  `json:"id"`
	ParentID  *int64 `json:"parentId"`
	SortOrder int    `json:"sortOrder"`
}

// Reorder updates sort_order and parent_id for multiple categories in a
// transaction. Each move is validated against the state left by the moves
// before it, so a batch cannot introduce a cycle.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, reparentLockKey); err != nil {
		return fmt.Errorf("lock reparent: %w", err)
	}

	for _, item := range items {
		var typ models.CategoryType
		err := tx.QueryRowContext(ctx, `SELECT type FROM categories WHERE id = $1 FOR UPDATE`, item.ID).Scan(&typ)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load category %d: %w", item.ID, err)
		}

		c := &models.Category{ID: item.ID, Type: typ, ParentID: item.ParentID}
		if err := checkParent(ctx, tx, c); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = NOW()
			WHERE id = $3`, item.ParentID, item.SortOrder, item.ID); err != nil {
			return fmt.Errorf("reorder category %d: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// ExistsOfType reports whether id names a category of the given type.
func (s *CategoryStore) ExistsOfType(ctx context.Context, id int64, typ models.CategoryType) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND type = $2)`, id, typ,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check category type: %w", err)
	}
	return ok, nil
}

// prepareCategory trims and validates caller input, deriving the slug from
// the name when it is empty.
func prepareCategory(c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)

	if c.Name == "" {
		return invalid("Name is required.")
	}
	if utf8.RuneCountInString(c.Name) > maxCategoryNameLen {
		return invalid("Name is too long (max 200 characters).")
	}
	if !c.Type.Valid() {
		return invalid("Type must be one of project, blog or experience.")
	}
	if utf8.RuneCountInString(c.Description) > maxCategoryDescLen {
		return invalid("Description is too long (max 2,000 characters).")
	}

	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = slug.Generate(c.Name)
	} else {
		c.Slug = slug.Generate(c.Slug)
	}
	if c.Slug == "" {
		return invalid("Slug cannot be empty. Use letters or digits in the name.")
	}
	if utf8.RuneCountInString(c.Slug) > maxCategorySlugLen {
		return invalid("Slug is too long (max 200 characters).")
	}
	return nil
}

// checkParent enforces the forest invariants for c's parent link: the
// parent exists, shares c's type, and (for existing categories) is neither
// c itself nor one of its descendants.
func checkParent(ctx context.Context, q querier, c *models.Category) error {
	if c.ParentID == nil {
		return nil
	}
	parentID := *c.ParentID

	if c.ID != 0 && parentID == c.ID {
		return invalid("A category cannot be its own parent.")
	}

	var parentType models.CategoryType
	err := q.QueryRowContext(ctx, `SELECT type FROM categories WHERE id = $1`, parentID).Scan(&parentType)
	if errors.Is(err, sql.ErrNoRows) {
		return invalid("Parent category does not exist.")
	}
	if err != nil {
		return fmt.Errorf("load parent category: %w", err)
	}
	if parentType != c.Type {
		return invalid("Parent category must have the same type.")
	}

	if c.ID == 0 {
		return nil
	}

	// Walk up from the proposed parent; reaching c means the move closes a loop.
	var cyclic bool
	err = q.QueryRowContext(ctx, `
		WITH RECURSIVE ancestors(id, parent_id) AS (
			SELECT id, parent_id FROM categories WHERE id = $1
			UNION
			SELECT p.id, p.parent_id FROM categories p
			JOIN ancestors a ON p.id = a.parent_id
		)
		SELECT EXISTS (SELECT 1 FROM ancestors WHERE id = $2)`,
		parentID, c.ID,
	).Scan(&cyclic)
	if err != nil {
		return fmt.Errorf("check category ancestry: %w", err)
	}
	if cyclic {
		return invalid("A category cannot be moved under one of its own subcategories.")
	}
	return nil
}
