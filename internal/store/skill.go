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

// SkillStore handles skills and their proficiency levels.
type SkillStore struct {
	db *sql.DB
}

// NewSkillStore creates a new SkillStore.
func NewSkillStore(db *sql.DB) *SkillStore {
	return &SkillStore{db: db}
}

const skillColumns = `id, name, icon, description, category_id, level`

func scanSkill(scanner interface{ Scan(...any) error }) (*models.Skill, error) {
	var sk models.Skill
	if err := scanner.Scan(&sk.ID, &sk.Name, &sk.Icon, &sk.Description, &sk.CategoryID, &sk.Level); err != nil {
		return nil, err
	}
	return &sk, nil
}

// List returns all skills, highest level first.
func (s *SkillStore) List(ctx context.Context) ([]models.Skill, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+skillColumns+` FROM skills ORDER BY level DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	items := []models.Skill{}
	for rows.Next() {
		sk, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		items = append(items, *sk)
	}
	return items, rows.Err()
}

// FindByID retrieves a skill. Returns nil if not found.
func (s *SkillStore) FindByID(ctx context.Context, id int64) (*models.Skill, error) {
	sk, err := scanSkill(s.db.QueryRowContext(ctx, `SELECT `+skillColumns+` FROM skills WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find skill by id: %w", err)
	}
	return sk, nil
}

// Create inserts a new skill.
func (s *SkillStore) Create(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	if err := prepareSkill(sk); err != nil {
		return nil, err
	}
	created, err := scanSkill(s.db.QueryRowContext(ctx, `
		INSERT INTO skills (name, icon, description, category_id, level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+skillColumns,
		sk.Name, sk.Icon, sk.Description, sk.CategoryID, sk.Level,
	))
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, invalid("Skill category does not exist.")
		}
		return nil, fmt.Errorf("create skill: %w", err)
	}
	return created, nil
}

// Update overwrites a skill. Returns ErrNotFound if missing.
func (s *SkillStore) Update(ctx context.Context, sk *models.Skill) (*models.Skill, error) {
	if err := prepareSkill(sk); err != nil {
		return nil, err
	}
	updated, err := scanSkill(s.db.QueryRowContext(ctx, `
		UPDATE skills SET name = $1, icon = $2, description = $3, category_id = $4, level = $5
		WHERE id = $6
		RETURNING `+skillColumns,
		sk.Name, sk.Icon, sk.Description, sk.CategoryID, sk.Level, sk.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, invalid("Skill category does not exist.")
		}
		return nil, fmt.Errorf("update skill: %w", err)
	}
	return updated, nil
}

// Delete removes a skill.
func (s *SkillStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete skill: %w", err)
	}
	return requireAffected(res)
}

func prepareSkill(sk *models.Skill) error {
	sk.Name = strings.TrimSpace(sk.Name)
	if sk.Name == "" {
		return invalid("Name is required.")
	}
	if sk.Level < 0 || sk.Level > 100 {
		return invalid("Level must be between 0 and 100.")
	}
	return nil
}
