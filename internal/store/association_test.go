// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"portfolio/internal/models"
)

func TestAssociationAttachAllReplacesSet(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	assoc := NewAssociationStore(db)
	posts := NewBlogStore(db, assoc)

	c1 := mustCategory(t, db, "Assoc One", models.CategoryTypeBlog, nil)
	c2 := mustCategory(t, db, "Assoc Two", models.CategoryTypeBlog, nil)
	c3 := mustCategory(t, db, "Assoc Three", models.CategoryTypeBlog, nil)

	post, err := posts.Create(ctx, &models.BlogPost{Title: uniqueName("Assoc Post")}, []int64{c1.ID, c2.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() { cleanBlogPosts(t, db, post.ID) })

	if err := assoc.AttachAll(ctx, nil, models.CategoryTypeBlog, post.ID, []int64{c3.ID, c2.ID, c3.ID}); err != nil {
		t.Fatalf("AttachAll: %v", err)
	}

	got, err := assoc.ResolveForContent(ctx, models.CategoryTypeBlog, post.ID)
	if err != nil {
		t.Fatalf("ResolveForContent: %v", err)
	}
	gotIDs := categoryIDs(got)
	sort.Slice(gotIDs, func(i, j int) bool { return gotIDs[i] < gotIDs[j] })
	want := []int64{c2.ID, c3.ID}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if diff := cmp.Diff(want, gotIDs); diff != "" {
		t.Errorf("category set mismatch (-want +got):\n%s", diff)
	}

	if err := assoc.AttachAll(ctx, nil, models.CategoryTypeBlog, post.ID, nil); err != nil {
		t.Fatalf("AttachAll empty: %v", err)
	}
	got, err = assoc.ResolveForContent(ctx, models.CategoryTypeBlog, post.ID)
	if err != nil {
		t.Fatalf("ResolveForContent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no categories after empty attach, got %v", categoryIDs(got))
	}
}

func TestAssociationAttachAllRejectsWrongType(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	assoc := NewAssociationStore(db)
	projects := NewProjectStore(db, assoc)

	projCat := mustCategory(t, db, "Right Type", models.CategoryTypeProject, nil)
	blogCat := mustCategory(t, db, "Wrong Type", models.CategoryTypeBlog, nil)

	p, err := projects.Create(ctx, &models.Project{Title: "Typed"}, []int64{projCat.ID})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	t.Cleanup(func() { cleanProjects(t, db, p.ID) })

	tests := []struct {
		name string
		ids  []int64
	}{
		{"other type", []int64{projCat.ID, blogCat.ID}},
		{"missing id", []int64{-5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assoc.AttachAll(ctx, nil, models.CategoryTypeProject, p.ID, tt.ids)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}

			// Nothing may be written on rejection.
			got, err := assoc.ResolveForContent(ctx, models.CategoryTypeProject, p.ID)
			if err != nil {
				t.Fatalf("ResolveForContent: %v", err)
			}
			if ids := categoryIDs(got); len(ids) != 1 || ids[0] != projCat.ID {
				t.Errorf("set changed after rejected attach: %v", ids)
			}
		})
	}
}

func TestAssociationExperienceHasNoJoinTable(t *testing.T) {
	db := testDB(t)
	assoc := NewAssociationStore(db)

	if err := assoc.AttachAll(context.Background(), nil, models.CategoryTypeExperience, uuid.New(), nil); err == nil {
		t.Error("expected error for experience content type")
	}
	if _, err := assoc.ResolveForContent(context.Background(), models.CategoryTypeExperience, uuid.New()); err == nil {
		t.Error("expected error for experience content type")
	}
}

func TestAssociationResolveForMany(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	assoc := NewAssociationStore(db)
	projects := NewProjectStore(db, assoc)

	c1 := mustCategory(t, db, "Many One", models.CategoryTypeProject, nil)
	c2 := mustCategory(t, db, "Many Two", models.CategoryTypeProject, nil)

	p1, err := projects.Create(ctx, &models.Project{Title: "Many P1"}, []int64{c1.ID, c2.ID})
	if err != nil {
		t.Fatalf("create p1: %v", err)
	}
	p2, err := projects.Create(ctx, &models.Project{Title: "Many P2"}, nil)
	if err != nil {
		t.Fatalf("create p2: %v", err)
	}
	t.Cleanup(func() { cleanProjects(t, db, p1.ID, p2.ID) })

	got, err := assoc.ResolveForMany(ctx, models.CategoryTypeProject, []uuid.UUID{p1.ID, p2.ID})
	if err != nil {
		t.Fatalf("ResolveForMany: %v", err)
	}
	if len(got[p1.ID]) != 2 {
		t.Errorf("p1 categories: got %d, want 2", len(got[p1.ID]))
	}
	if _, ok := got[p2.ID]; ok {
		t.Errorf("p2 should be absent, got %v", got[p2.ID])
	}

	empty, err := assoc.ResolveForMany(ctx, models.CategoryTypeProject, nil)
	if err != nil {
		t.Fatalf("ResolveForMany empty: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map, got %v", empty)
	}
}
