// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"portfolio/internal/models"
)

// joinTable names the association table and content column for one
// content kind.
type joinTable struct {
	table  string
	column string
}

// joinTables maps a content type to its many-to-many table. Experience
// entries reference their category directly and have no entry here.
var joinTables = map[models.CategoryType]joinTable{
	models.CategoryTypeProject: {table: "project_categories", column: "project_id"},
	models.CategoryTypeBlog:    {table: "blog_categories", column: "blog_post_id"},
}

func joinTableFor(typ models.CategoryType) (joinTable, error) {
	jt, ok := joinTables[typ]
	if !ok {
		return joinTable{}, fmt.Errorf("no association table for content type %q", typ)
	}
	return jt, nil
}

// AssociationStore maintains the links between content items and their
// categories.
type AssociationStore struct {
	db *sql.DB
}

// NewAssociationStore returns a new AssociationStore.
func NewAssociationStore(db *sql.DB) *AssociationStore {
	return &AssociationStore{db: db}
}

// AttachAll replaces the full category set of a content item: every
// existing row is deleted, then one row per distinct ID is inserted. Pass
// the caller's transaction as q so the swap commits with the content write.
// Every ID must name a category of the matching type.
func (s *AssociationStore) AttachAll(ctx context.Context, q querier, typ models.CategoryType, contentID uuid.UUID, categoryIDs []int64) error {
	jt, err := joinTableFor(typ)
	if err != nil {
		return err
	}
	if q == nil {
		q = s.db
	}

	ids := dedupeIDs(categoryIDs)
	if len(ids) > 0 {
		var matched int
		err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categories WHERE id = ANY($1::bigint[]) AND type = $2`, ids, typ,
		).Scan(&matched)
		if err != nil {
			return fmt.Errorf("check categories: %w", err)
		}
		if matched != len(ids) {
			return invalid(fmt.Sprintf("Every category must exist and be of type %s.", typ))
		}
	}

	if _, err := q.ExecContext(ctx,
		`DELETE FROM `+jt.table+` WHERE `+jt.column+` = $1`, contentID,
	); err != nil {
		return fmt.Errorf("clear %s: %w", jt.table, err)
	}

	if len(ids) == 0 {
		return nil
	}
	if _, err := q.ExecContext(ctx,
		`INSERT INTO `+jt.table+` (`+jt.column+`, category_id) SELECT $1, unnest($2::bigint[])`,
		contentID, ids,
	); err != nil {
		return fmt.Errorf("insert %s: %w", jt.table, err)
	}
	return nil
}

// ResolveForContent returns the categories attached to one content item,
// ordered by sort order and name.
func (s *AssociationStore) ResolveForContent(ctx context.Context, typ models.CategoryType, contentID uuid.UUID) ([]models.Category, error) {
	jt, err := joinTableFor(typ)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumnsC+`
		FROM categories c
		JOIN `+jt.table+` a ON a.category_id = c.id
		WHERE a.`+jt.column+` = $1
		ORDER BY c.sort_order, c.name`, contentID)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	items, err := collectCategories(rows)
	if err != nil {
		return nil, fmt.Errorf("resolve categories: %w", err)
	}
	return items, nil
}

// ResolveForMany fetches the categories of many content items with a
// single join and groups them by content ID. Items without categories are
// absent from the map.
func (s *AssociationStore) ResolveForMany(ctx context.Context, typ models.CategoryType, contentIDs []uuid.UUID) (map[uuid.UUID][]models.Category, error) {
	jt, err := joinTableFor(typ)
	if err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID][]models.Category)
	if len(contentIDs) == 0 {
		return result, nil
	}

	ids := make([]string, len(contentIDs))
	for i, id := range contentIDs {
		ids[i] = id.String()
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.`+jt.column+`, `+categoryColumnsC+`
		FROM categories c
		JOIN `+jt.table+` a ON a.category_id = c.id
		WHERE a.`+jt.column+` = ANY($1::uuid[])
		ORDER BY c.sort_order, c.name`, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve categories batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var contentID uuid.UUID
		var c models.Category
		if err := rows.Scan(
			&contentID,
			&c.ID, &c.Name, &c.Slug, &c.Description, &c.Type,
			&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category batch: %w", err)
		}
		result[contentID] = append(result[contentID], c)
	}
	return result, rows.Err()
}

// dedupeIDs drops repeated IDs, keeping first-seen order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
