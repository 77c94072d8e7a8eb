// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"portfolio/internal/slug"
)

//go:embed fixtures/categories.yaml
var defaultCategoryFixture []byte

// CategoryFixture is the YAML shape of a seeded category tree.
type CategoryFixture struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Description string            `yaml:"description"`
	Children    []CategoryFixture `yaml:"children"`
}

type fixtureFile struct {
	Categories []CategoryFixture `yaml:"categories"`
}

// LoadCategoryFixture reads a category fixture from path, or the embedded
// default when path is empty.
func LoadCategoryFixture(path string) ([]CategoryFixture, error) {
	data := defaultCategoryFixture
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return f.Categories, nil
}

// Seed populates an empty database with a default admin user and the
// category fixture at fixturePath (embedded default when empty). Each part
// is skipped when its table already has rows.
func Seed(ctx context.Context, db *sql.DB, fixturePath string) error {
	if err := seedAdmin(ctx, db); err != nil {
		return err
	}

	fixture, err := LoadCategoryFixture(fixturePath)
	if err != nil {
		return err
	}
	return seedCategories(ctx, db, fixture)
}

func seedAdmin(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("users already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@portfolio.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@portfolio.local",
		"password", "admin",
	)
	return nil
}

func seedCategories(ctx context.Context, db *sql.DB, fixture []CategoryFixture) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("categories already seeded, skipping")
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var inserted int
	var insert func(nodes []CategoryFixture, typ string, parentID *int64) error
	insert = func(nodes []CategoryFixture, typ string, parentID *int64) error {
		for i, n := range nodes {
			t := n.Type
			if parentID != nil {
				t = typ
			}
			var id int64
			err := tx.QueryRowContext(ctx, `
				INSERT INTO categories (name, slug, description, type, parent_id, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				n.Name, slug.Generate(n.Name), n.Description, t, parentID, i,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed category %q: %w", n.Name, err)
			}
			inserted++
			if err := insert(n.Children, t, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert(fixture, "", nil); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}
	slog.Info("database seeded with categories", "count", inserted)
	return nil
}
