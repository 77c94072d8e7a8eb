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

	"portfolio/internal/models"
)

// SkillCategoryStore manages the flat list of groups shown on the skills
// page. It is unrelated to the hierarchical content categories.
type SkillCategoryStore struct {
	db *sql.DB
}

// NewSkillCategoryStore creates a new SkillCategoryStore.
func NewSkillCategoryStore(db *sql.DB) *SkillCategoryStore {
	return &SkillCategoryStore{db: db}
}

const skillCategoryColumns = `id, name, icon, sort_order, created_at`

func scanSkillCategory(scanner interface{ Scan(...any) error }) (*models.SkillCategory, error) {
	var sc models.SkillCategory
	if err := scanner.Scan(&sc.ID, &sc.Name, &sc.Icon, &sc.SortOrder, &sc.CreatedAt); err != nil {
		return nil, err
	}
	return &sc, nil
}

// List returns every skill category by sort order.
func (s *SkillCategoryStore) List(ctx context.Context) ([]models.SkillCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+skillCategoryColumns+` FROM skill_categories ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skill categories: %w", err)
	}
	defer rows.Close()

	items := []models.SkillCategory{}
	for rows.Next() {
		sc, err := scanSkillCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill category: %w", err)
		}
		items = append(items, *sc)
	}
	return items, rows.Err()
}

// Create inserts a skill category.
func (s *SkillCategoryStore) Create(ctx context.Context, sc *models.SkillCategory) (*models.SkillCategory, error) {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		return nil, invalid("Name is required.")
	}
	created, err := scanSkillCategory(s.db.QueryRowContext(ctx, `
		INSERT INTO skill_categories (name, icon, sort_order)
		VALUES ($1, $2, $3)
		RETURNING `+skillCategoryColumns,
		sc.Name, sc.Icon, sc.SortOrder,
	))
	if err != nil {
		return nil, fmt.Errorf("create skill category: %w", err)
	}
	return created, nil
}

// Update overwrites a skill category. Returns ErrNotFound if missing.
func (s *SkillCategoryStore) Update(ctx context.Context, sc *models.SkillCategory) (*models.SkillCategory, error) {
	sc.Name = strings.TrimSpace(sc.Name)
	if sc.Name == "" {
		return nil, invalid("Name is required.")
	}
	updated, err := scanSkillCategory(s.db.QueryRowContext(ctx, `
		UPDATE skill_categories SET name = $1, icon = $2, sort_order = $3
		WHERE id = $4
		RETURNING `+skillCategoryColumns,
		sc.Name, sc.Icon, sc.SortOrder, sc.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update skill category: %w", err)
	}
	return updated, nil
}

// Delete removes a skill category. It refuses with ErrCategoryInUse while
// any skill still references it.
func (s *SkillCategoryStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var inUse bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM skills WHERE category_id = $1)`, id,
	).Scan(&inUse); err != nil {
		return fmt.Errorf("check skill category usage: %w", err)
	}
	if inUse {
		return ErrCategoryInUse
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM skill_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCategoryInUse
		}
		return fmt.Errorf("delete skill category: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	return tx.Commit()
}
