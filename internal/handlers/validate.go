// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"portfolio/internal/models"
)

// Validation limits for content fields.
const (
	maxTitleLen       = 300
	maxSlugLen        = 300
	maxBodyLen        = 100_000
	maxExcerptLen     = 1_000
	maxMetaDescLen    = 500
	maxListItems      = 50
	maxListItemLen    = 500
	maxCompanyNameLen = 200
)

// validateProject checks project input and returns the first error found.
func validateProject(p *models.Project) string {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if p.LongDescription != nil && utf8.RuneCountInString(*p.LongDescription) > maxBodyLen {
		return "Long description is too long (max 100,000 characters)."
	}
	for _, list := range []struct {
		name  string
		items []string
	}{{"Tags", p.Tags}, {"Features", p.Features}, {"Gallery", p.Gallery}} {
		if msg := validateList(list.name, list.items); msg != "" {
			return msg
		}
	}
	return ""
}

// applyProjectDefaults fills the fields the public site expects to be set.
func applyProjectDefaults(p *models.Project, year int) {
	if p.DemoURL == "" {
		p.DemoURL = "#"
	}
	if p.GithubURL == "" {
		p.GithubURL = "#"
	}
	if p.Role == "" {
		p.Role = "Developer"
	}
	if p.Year == "" {
		p.Year = strconv.Itoa(year)
	}
}

// validateBlogPost checks post input. Title presence and slug derivation
// are left to the store.
func validateBlogPost(b *models.BlogPost) string {
	if utf8.RuneCountInString(b.Title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(b.Slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if b.Content != nil && utf8.RuneCountInString(*b.Content) > maxBodyLen {
		return "Content is too long (max 100,000 characters)."
	}
	if utf8.RuneCountInString(b.Excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if b.MetaDescription != nil && utf8.RuneCountInString(*b.MetaDescription) > maxMetaDescLen {
		return "Meta description is too long (max 500 characters)."
	}
	return ""
}

// validateExperience checks the length limits of an experience entry.
func validateExperience(e *models.Experience) string {
	if utf8.RuneCountInString(e.Company) > maxCompanyNameLen {
		return "Company is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(e.Position) > maxCompanyNameLen {
		return "Position is too long (max 200 characters)."
	}
	return validateList("Description", e.Description)
}

func validateList(name string, items []string) string {
	if len(items) > maxListItems {
		return name + " has too many entries (max 50)."
	}
	for _, item := range items {
		if utf8.RuneCountInString(item) > maxListItemLen {
			return name + " entry is too long (max 500 characters)."
		}
	}
	return ""
}

// parseCategoryType validates an optional ?type= value. The empty string
// means all types.
func parseCategoryType(raw string) (models.CategoryType, bool) {
	typ := models.CategoryType(strings.TrimSpace(raw))
	if typ == "" {
		return "", true
	}
	return typ, typ.Valid()
}

// parseExpanded reads a comma-separated id list. The value "all" expands
// every row and is reported through the second result.
func parseExpanded(raw string) (map[int64]bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "all" {
		return nil, true
	}
	ids := make(map[int64]bool)
	for part := range strings.SplitSeq(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err == nil && id > 0 {
			ids[id] = true
		}
	}
	return ids, false
}
