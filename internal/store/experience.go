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

	"portfolio/internal/models"
)

// ExperienceStore handles work history entries.
type ExperienceStore struct {
	db *sql.DB
}

// NewExperienceStore creates a new ExperienceStore.
func NewExperienceStore(db *sql.DB) *ExperienceStore {
	return &ExperienceStore{db: db}
}

// experienceSelect joins the optional category so a single query returns
// the decorated entry.
const experienceSelect = `
	SELECT e.id, e.company, e.position, e.period, e.description, e.logo, e.category_id,
		c.id, c.name, c.slug, c.description, c.type, c.parent_id, c.sort_order, c.created_at, c.updated_at
	FROM experiences e
	LEFT JOIN categories c ON c.id = e.category_id`

func scanExperience(scanner interface{ Scan(...any) error }) (*models.Experience, error) {
	var e models.Experience
	var desc stringList

	// Category columns are all NULL when the entry is uncategorised.
	var (
		cID                 sql.NullInt64
		cName, cSlug, cDesc sql.NullString
		cType               sql.NullString
		cParent             sql.NullInt64
		cSort               sql.NullInt64
		cCreated, cUpdated  sql.NullTime
	)
	err := scanner.Scan(
		&e.ID, &e.Company, &e.Position, &e.Period, &desc, &e.Logo, &e.CategoryID,
		&cID, &cName, &cSlug, &cDesc, &cType, &cParent, &cSort, &cCreated, &cUpdated,
	)
	if err != nil {
		return nil, err
	}
	e.Description = desc

	if cID.Valid {
		c := &models.Category{
			ID:          cID.Int64,
			Name:        cName.String,
			Slug:        cSlug.String,
			Description: cDesc.String,
			Type:        models.CategoryType(cType.String),
			SortOrder:   int(cSort.Int64),
			CreatedAt:   cCreated.Time,
			UpdatedAt:   cUpdated.Time,
		}
		if cParent.Valid {
			p := cParent.Int64
			c.ParentID = &p
		}
		e.Category = c
	}
	return &e, nil
}

// List returns every experience entry in display order.
func (s *ExperienceStore) List(ctx context.Context) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, experienceSelect+` ORDER BY e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	defer rows.Close()

	items := []models.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("scan experience: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// FindByID retrieves an experience entry. Returns nil if not found.
func (s *ExperienceStore) FindByID(ctx context.Context, id int64) (*models.Experience, error) {
	row := s.db.QueryRowContext(ctx, experienceSelect+` WHERE e.id = $1`, id)
	e, err := scanExperience(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find experience by id: %w", err)
	}
	return e, nil
}

// Create inserts a new experience entry.
func (s *ExperienceStore) Create(ctx context.Context, e *models.Experience) (*models.Experience, error) {
	if err := s.prepare(ctx, e); err != nil {
		return nil, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO experiences (company, position, period, description, logo, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		e.Company, e.Position, e.Period, stringList(e.Description), e.Logo, e.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create experience: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Update overwrites an experience entry. Returns ErrNotFound if missing.
func (s *ExperienceStore) Update(ctx context.Context, e *models.Experience) (*models.Experience, error) {
	if err := s.prepare(ctx, e); err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE experiences SET
			company = $1, position = $2, period = $3, description = $4,
			logo = $5, category_id = $6, updated_at = $7
		WHERE id = $8`,
		e.Company, e.Position, e.Period, stringList(e.Description),
		e.Logo, e.CategoryID, time.Now(), e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update experience: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return nil, err
	}
	return s.FindByID(ctx, e.ID)
}

// Delete removes an experience entry.
func (s *ExperienceStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM experiences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete experience: %w", err)
	}
	return requireAffected(res)
}

// prepare validates required fields and that a referenced category is of
// the experience type.
func (s *ExperienceStore) prepare(ctx context.Context, e *models.Experience) error {
	e.Company = strings.TrimSpace(e.Company)
	e.Position = strings.TrimSpace(e.Position)
	if e.Company == "" || e.Position == "" {
		return invalid("Company and position are required.")
	}
	if e.CategoryID == nil {
		return nil
	}

	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND type = $2)`,
		*e.CategoryID, models.CategoryTypeExperience,
	).Scan(&ok)
	if err != nil {
		return fmt.Errorf("check experience category: %w", err)
	}
	if !ok {
		return invalid("Category must exist and be of type experience.")
	}
	return nil
}
