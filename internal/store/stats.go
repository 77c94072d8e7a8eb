// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/models"
)

// StatsStore computes the dashboard counters.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore returns a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Counts runs one COUNT per content table concurrently.
func (s *StatsStore) Counts(ctx context.Context) (models.Stats, error) {
	var st models.Stats
	g, ctx := errgroup.WithContext(ctx)

	for table, dst := range map[string]*int{
		"projects":    &st.Projects,
		"skills":      &st.Skills,
		"blog_posts":  &st.Blog,
		"experiences": &st.Experience,
	} {
		g.Go(func() error {
			if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(dst); err != nil {
				return fmt.Errorf("count %s: %w", table, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return models.Stats{}, err
	}
	return st, nil
}
