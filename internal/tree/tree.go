// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree turns a flat category list into the indented, collapsible
// rows shown by the admin category manager.
package tree

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"portfolio/internal/models"
)

// Row is one visible line of the category tree.
type Row struct {
	models.Category
	Depth       int  `json:"depth"`
	HasChildren bool `json:"hasChildren"`
	Expanded    bool `json:"expanded"`
	// Matched is false for ancestors that are only present so a matching
	// descendant stays reachable.
	Matched bool `json:"matched"`
}

// Query narrows the categories fed to Build.
type Query struct {
	Type   models.CategoryType
	Search string
}

// Filter keeps categories of q.Type (all types when empty) whose name or
// slug contains q.Search, case-insensitively. Ancestors of every match are
// kept too. The second return value holds the IDs that matched directly.
func Filter(cats []models.Category, q Query) ([]models.Category, map[int64]bool) {
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	byID := make(map[int64]models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	matched := make(map[int64]bool)
	keep := make(map[int64]bool)
	for _, c := range cats {
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Slug), needle) {
			continue
		}
		matched[c.ID] = true

		// Walk up, stopping at anything already kept. The hop limit guards
		// against a corrupt parent chain.
		for cur, hops := c, 0; hops <= len(cats); hops++ {
			if keep[cur.ID] {
				break
			}
			keep[cur.ID] = true
			if cur.ParentID == nil {
				break
			}
			parent, ok := byID[*cur.ParentID]
			if !ok {
				break
			}
			cur = parent
		}
	}

	out := make([]models.Category, 0, len(keep))
	for _, c := range cats {
		if keep[c.ID] {
			out = append(out, c)
		}
	}
	return out, matched
}

// Build emits rows depth-first from the roots. A category's children are
// emitted only when its ID is in expanded. Siblings are ordered by sort
// order, then name. When matched is nil every row counts as matched.
func Build(cats []models.Category, expanded map[int64]bool, matched map[int64]bool) []Row {
	children := make(map[int64][]models.Category)
	var roots []models.Category
	for _, c := range cats {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	rows := []Row{}
	var walk func(level []models.Category, depth int)
	walk = func(level []models.Category, depth int) {
		slices.SortStableFunc(level, compareSiblings)
		for _, c := range level {
			kids := children[c.ID]
			open := expanded[c.ID] && len(kids) > 0
			rows = append(rows, Row{
				Category:    c,
				Depth:       depth,
				HasChildren: len(kids) > 0,
				Expanded:    open,
				Matched:     matched == nil || matched[c.ID],
			})
			if open {
				walk(kids, depth+1)
			}
		}
	}
	walk(roots, 0)
	return rows
}

func compareSiblings(a, b models.Category) int {
	if n := cmp.Compare(a.SortOrder, b.SortOrder); n != 0 {
		return n
	}
	return cmp.Compare(a.Name, b.Name)
}

// Problem describes one violation of the forest invariants.
type Problem struct {
	ID     int64
	Reason string
}

func (p Problem) String() string {
	return fmt.Sprintf("category %d: %s", p.ID, p.Reason)
}

// Validate reports dangling parents, parents of another type and cycles.
// A valid set yields no problems.
func Validate(cats []models.Category) []Problem {
	byID := make(map[int64]models.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	var problems []Problem
	for _, c := range cats {
		if c.ParentID == nil {
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok {
			problems = append(problems, Problem{c.ID, fmt.Sprintf("parent %d does not exist", *c.ParentID)})
			continue
		}
		if parent.Type != c.Type {
			problems = append(problems, Problem{c.ID, fmt.Sprintf("parent %d has type %s, want %s", parent.ID, parent.Type, c.Type)})
		}
	}

	// Each category is on a cycle iff walking up from it returns to it.
	for _, c := range cats {
		seen := map[int64]bool{c.ID: true}
		for cur := c; cur.ParentID != nil; {
			next, ok := byID[*cur.ParentID]
			if !ok {
				break
			}
			if next.ID == c.ID {
				problems = append(problems, Problem{c.ID, "is its own ancestor"})
				break
			}
			if seen[next.ID] {
				break
			}
			seen[next.ID] = true
			cur = next
		}
	}
	return problems
}
