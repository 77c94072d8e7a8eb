// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// CategoryType partitions the category namespace. A category keeps its type
// for its whole lifetime and may only classify content of the same kind.
type CategoryType string

const (
	CategoryTypeProject    CategoryType = "project"
	CategoryTypeBlog       CategoryType = "blog"
	CategoryTypeExperience CategoryType = "experience"
)

// CategoryTypes lists every valid category type in display order.
var CategoryTypes = []CategoryType{
	CategoryTypeProject,
	CategoryTypeBlog,
	CategoryTypeExperience,
}

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	for _, v := range CategoryTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Category represents a hierarchical, typed content category. Parent links
// form a forest; a child always shares its parent's type.
type Category struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Type        CategoryType `json:"type"`
	ParentID    *int64       `json:"parentId"`
	SortOrder   int          `json:"sortOrder"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// IsRoot returns true if the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// SkillCategory groups skills on the public skills section. It is a flat
// list, unrelated to the typed content categories.
type SkillCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Icon      *string   `json:"icon"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
}
