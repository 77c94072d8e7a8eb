// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure: in-memory fakes for
// the store interfaces and request helpers. Integration tests that need
// PostgreSQL or Valkey skip when the services are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/database"
	"portfolio/internal/middleware"
	"portfolio/internal/models"
	"portfolio/internal/session"
	"portfolio/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "postgres://" + envOr("POSTGRES_USER", "portfolio") + ":" + envOr("POSTGRES_PASSWORD", "changeme") +
		"@" + envOr("POSTGRES_HOST", "localhost") + ":" + envOr("POSTGRES_PORT", "5432") +
		"/" + envOr("POSTGRES_DB", "portfolio") + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "categories:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// ---------- request helpers ----------

// jsonRequest builds a request with an optional JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, r)
	return rr
}

// decodeBody unmarshals the recorder body into dst.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

// errorMessage returns the "error" field of a JSON error body.
func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rr, &body)
	msg, _ := body["error"].(string)
	return msg
}

// ---------- fakes ----------

// fakeCategoryStore records calls and returns canned results.
type fakeCategoryStore struct {
	cats      []models.Category
	err       error
	listCalls int
	lastType  models.CategoryType
	written   *models.Category
	deleted   int64
	reordered []store.ReorderItem
}

func (f *fakeCategoryStore) List(_ context.Context, typ models.CategoryType) ([]models.Category, error) {
	f.listCalls++
	f.lastType = typ
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Category{}
	for _, c := range f.cats {
		if typ == "" || c.Type == typ {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategoryStore) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c.ID = int64(len(f.cats) + 100)
	f.written = c
	return c, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, c *models.Category) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.written = c
	return c, nil
}

func (f *fakeCategoryStore) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = id
	return nil
}

func (f *fakeCategoryStore) Reorder(_ context.Context, items []store.ReorderItem) error {
	if f.err != nil {
		return f.err
	}
	f.reordered = items
	return nil
}

// fakeCategoryCache is a map-backed CategoryCache.
type fakeCategoryCache struct {
	mu          sync.Mutex
	lists       map[models.CategoryType][]models.Category
	invalidated int
}

func newFakeCategoryCache() *fakeCategoryCache {
	return &fakeCategoryCache{lists: make(map[models.CategoryType][]models.Category)}
}

func (c *fakeCategoryCache) Get(_ context.Context, typ models.CategoryType) ([]models.Category, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cats, ok := c.lists[typ]
	return cats, ok
}

func (c *fakeCategoryCache) Set(_ context.Context, typ models.CategoryType, cats []models.Category) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists[typ] = cats
}

func (c *fakeCategoryCache) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists = make(map[models.CategoryType][]models.Category)
	c.invalidated++
}

// fakeProjectStore keeps projects in a map.
type fakeProjectStore struct {
	projects map[uuid.UUID]*models.Project
	attached map[uuid.UUID][]int64
	err      error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[uuid.UUID]*models.Project{}, attached: map[uuid.UUID][]int64{}}
}

func (f *fakeProjectStore) List(context.Context) ([]models.Project, error) {
	out := []models.Project{}
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, f.err
}

func (f *fakeProjectStore) FindByID(_ context.Context, id uuid.UUID) (*models.Project, error) {
	return f.projects[id], f.err
}

func (f *fakeProjectStore) Create(_ context.Context, p *models.Project, ids []int64) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = uuid.New()
	f.projects[p.ID] = p
	f.attached[p.ID] = ids
	return p, nil
}

func (f *fakeProjectStore) Update(_ context.Context, p *models.Project, ids []int64) (*models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.projects[p.ID]; !ok {
		return nil, store.ErrNotFound
	}
	f.projects[p.ID] = p
	f.attached[p.ID] = ids
	return p, nil
}

func (f *fakeProjectStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.projects[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.projects, id)
	return nil
}
