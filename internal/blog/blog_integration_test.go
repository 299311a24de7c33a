package blog_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/devfolio/portfolio-backend/internal/blog"
	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

// testTokens mints tokens with the same secret the mounted handler uses.
var testTokens *token.Service

func TestMain(m *testing.M) {
	// Load .env.local relative to the repo root (two directories up).
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	db.Connect(databaseURL)
	dbAvailable = true

	// Set up blog tables (idempotent).
	blog.Init()

	testTokens = token.NewService("integration-test-secret", 0)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Mount("/blogs", blog.SetupRoutes(&blog.Handler{Tokens: testTokens}))

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// newAuthor mints a token for a fresh author id and registers a cleanup that
// removes every blog the author created.
func newAuthor(t *testing.T) (authorID, bearer string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	authorID = uuid.New().String()
	tok, err := testTokens.Issue(authorID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	t.Cleanup(func() {
		db.DB.Where("author_id = ?", authorID).Delete(&blog.Blog{})
	})
	return authorID, tok
}

func doJSON(t *testing.T, method, path, bearer string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, testServer.URL+path, body)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// decodeEnvelope reads and closes the response body and unmarshals the
// uniform response envelope.
func decodeEnvelope(t *testing.T, resp *http.Response) httpx.Envelope {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env httpx.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("invalid envelope: %s", b)
	}
	return env
}

// createBlog posts a blog and returns its id and slug.
func createBlog(t *testing.T, bearer, title string) (id, slug string) {
	t.Helper()
	resp := doJSON(t, http.MethodPost, "/blogs/create", bearer, map[string]any{
		"title": title, "content": "body for " + title,
	})
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create blog %q: expected 201, got %d (%s)", title, resp.StatusCode, env.Message)
	}
	data := env.Data.(map[string]any)
	return data["id"].(string), data["slug"].(string)
}

// TestSlugCollisionOnCreate verifies that two posts with the same title
// resolve to first-wins plus Conflict.
func TestSlugCollisionOnCreate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	_, bearer := newAuthor(t)

	title := "Collision Test " + uuid.New().String()[:8]
	createBlog(t, bearer, title)

	resp := doJSON(t, http.MethodPost, "/blogs/create", bearer, map[string]any{
		"title": title, "content": "second body",
	})
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate title: expected 409, got %d (%s)", resp.StatusCode, env.Message)
	}
}

// TestSlugCollisionOnUpdate verifies that retitling one post to collide with
// another's slug fails Conflict and leaves the slug unchanged, while the
// self-exclusion lets a post keep its own title.
func TestSlugCollisionOnUpdate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	_, bearer := newAuthor(t)

	suffix := uuid.New().String()[:8]
	firstID, firstSlug := createBlog(t, bearer, "First Post "+suffix)
	_, _ = createBlog(t, bearer, "Second Post "+suffix)

	resp := doJSON(t, http.MethodPut, "/blogs/update/"+firstID, bearer, map[string]any{
		"title": "Second Post " + suffix,
	})
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("colliding retitle: expected 409, got %d (%s)", resp.StatusCode, env.Message)
	}

	var stored blog.Blog
	if err := db.DB.First(&stored, "id = ?", firstID).Error; err != nil {
		t.Fatalf("reload first post: %v", err)
	}
	if stored.Slug != firstSlug {
		t.Errorf("first post slug changed to %q after failed update, want %q", stored.Slug, firstSlug)
	}
}

// TestUpdateByNonOwnerForbidden verifies the ownership guard: a different
// caller gets Forbidden and the record is unmodified.
func TestUpdateByNonOwnerForbidden(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	_, ownerBearer := newAuthor(t)
	_, strangerBearer := newAuthor(t)

	id, _ := createBlog(t, ownerBearer, "Owned Post "+uuid.New().String()[:8])

	resp := doJSON(t, http.MethodPut, "/blogs/update/"+id, strangerBearer, map[string]any{
		"content": "hijacked",
	})
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-owner update: expected 403, got %d (%s)", resp.StatusCode, env.Message)
	}

	var stored blog.Blog
	if err := db.DB.First(&stored, "id = ?", id).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if stored.Content == "hijacked" {
		t.Error("non-owner update modified the record")
	}

	delResp := doJSON(t, http.MethodDelete, "/blogs/delete/"+id, strangerBearer, nil)
	delEnv := decodeEnvelope(t, delResp)
	if delResp.StatusCode != http.StatusForbidden {
		t.Errorf("non-owner delete: expected 403, got %d (%s)", delResp.StatusCode, delEnv.Message)
	}
}

// TestDeleteThenFetchNotFound verifies that an owner-deleted post is gone.
func TestDeleteThenFetchNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	_, bearer := newAuthor(t)

	id, slug := createBlog(t, bearer, "Ephemeral Post "+uuid.New().String()[:8])

	delResp := doJSON(t, http.MethodDelete, "/blogs/delete/"+id, bearer, nil)
	delEnv := decodeEnvelope(t, delResp)
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d (%s)", delResp.StatusCode, delEnv.Message)
	}

	getResp, err := http.Get(testServer.URL + "/blogs/get/" + slug)
	if err != nil {
		t.Fatalf("GET deleted post: %v", err)
	}
	getEnv := decodeEnvelope(t, getResp)
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("fetch after delete: expected 404, got %d (%s)", getResp.StatusCode, getEnv.Message)
	}
}
