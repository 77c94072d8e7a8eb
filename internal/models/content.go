// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Project is a portfolio project. Tags, Features and Gallery are stored as
// JSON arrays. Categories is populated from the project_categories join.
type Project struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	LongDescription *string    `json:"longDescription"`
	Tags            []string   `json:"tags"`
	ImageURL        string     `json:"imageUrl"`
	DemoURL         string     `json:"demoUrl"`
	GithubURL       string     `json:"githubUrl"`
	Features        []string   `json:"features"`
	Gallery         []string   `json:"gallery"`
	Role            string     `json:"role"`
	Year            string     `json:"year"`
	PublishedAt     time.Time  `json:"publishedAt"`
	Categories      []Category `json:"categories"`
}

// BlogPost is a blog article. Content holds the editor's HTML output.
type BlogPost struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Content         *string    `json:"content"`
	ImageURL        string     `json:"imageUrl"`
	ReadTime        string     `json:"readTime"`
	MetaTitle       *string    `json:"metaTitle"`
	MetaDescription *string    `json:"metaDescription"`
	FocusKeyword    *string    `json:"focusKeyword"`
	OGImageURL      *string    `json:"ogImageUrl"`
	PublishedAt     time.Time  `json:"date"`
	Categories      []Category `json:"categories"`
}

// Experience is a work history entry. Unlike projects and blog posts it
// references at most one experience-type category by direct foreign key.
type Experience struct {
	ID          int64     `json:"id"`
	Company     string    `json:"company"`
	Position    string    `json:"position"`
	Period      string    `json:"period"`
	Description []string  `json:"description"`
	Logo        *string   `json:"logo"`
	CategoryID  *int64    `json:"categoryId"`
	Category    *Category `json:"category,omitempty"`
}

// Skill is a single skill with a proficiency level from 0 to 100.
type Skill struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	CategoryID  *int64  `json:"categoryId"`
	Level       int     `json:"level"`
}

// Stats holds the dashboard counters.
type Stats struct {
	Projects   int `json:"projects"`
	Skills     int `json:"skills"`
	Blog       int `json:"blog"`
	Experience int `json:"experience"`
}
