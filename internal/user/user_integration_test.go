package user_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/devfolio/portfolio-backend/internal/db"
	"github.com/devfolio/portfolio-backend/internal/httpx"
	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/storage"
	"github.com/devfolio/portfolio-backend/internal/token"
	"github.com/devfolio/portfolio-backend/internal/user"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

// testTokens mints and validates tokens with the same secret the mounted
// handler uses.
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

	// Set up user tables (idempotent).
	user.Init()

	uploadDir, err := os.MkdirTemp("", "uploads")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create upload dir:", err)
		os.Exit(1)
	}
	defer os.RemoveAll(uploadDir)

	files, err := storage.NewDiskStore(uploadDir, "")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create disk store:", err)
		os.Exit(1)
	}

	testTokens = token.NewService("integration-test-secret", 0)

	// Mount user routes on a chi router, matching production setup in main.go.
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Mount("/user", user.SetupRoutes(&user.Handler{Tokens: testTokens, Files: files}))

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// freshEmail returns a unique email and registers a cleanup that removes any
// account created with it.
func freshEmail(t *testing.T) string {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	email := fmt.Sprintf("itest_%s@example.com", uuid.New().String()[:8])
	t.Cleanup(func() {
		db.DB.Where("email = ?", email).Delete(&user.User{})
	})
	return email
}

func postJSON(t *testing.T, path string, payload any) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := http.Post(testServer.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
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

// TestRegisterLoginRoundTrip verifies that registration returns a token that
// resolves to the created account, and that login with the same credentials
// returns the same user id while a wrong password is rejected.
func TestRegisterLoginRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	email := freshEmail(t)
	password := "Secret1!"

	resp := postJSON(t, "/user/register", map[string]string{
		"name": "Integration Tester", "email": email, "password": password,
	})
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", resp.StatusCode, env.Message)
	}

	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("register: unexpected data shape %T", env.Data)
	}
	tok, _ := data["token"].(string)
	if tok == "" {
		t.Fatal("register: expected a token in the response")
	}
	registeredID, err := testTokens.Validate(tok)
	if err != nil {
		t.Fatalf("register: token failed validation: %v", err)
	}

	loginResp := postJSON(t, "/user/login", map[string]string{
		"email": email, "password": password,
	})
	loginEnv := decodeEnvelope(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", loginResp.StatusCode, loginEnv.Message)
	}
	loginData := loginEnv.Data.(map[string]any)
	loginUser := loginData["user"].(map[string]any)
	if loginUser["id"] != registeredID {
		t.Errorf("login returned user id %v, registration token carried %v", loginUser["id"], registeredID)
	}

	wrongResp := postJSON(t, "/user/login", map[string]string{
		"email": email, "password": "WrongPass1!",
	})
	wrongEnv := decodeEnvelope(t, wrongResp)
	if wrongResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login with wrong password: expected 401, got %d (%s)", wrongResp.StatusCode, wrongEnv.Message)
	}
}

// TestRegisterDuplicateEmailConflict verifies that reusing an email yields
// Conflict and never a second record.
func TestRegisterDuplicateEmailConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	email := freshEmail(t)

	first := postJSON(t, "/user/register", map[string]string{
		"name": "First", "email": email, "password": "Secret1!",
	})
	firstEnv := decodeEnvelope(t, first)
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d (%s)", first.StatusCode, firstEnv.Message)
	}

	second := postJSON(t, "/user/register", map[string]string{
		"name": "Second", "email": email, "password": "Secret1!",
	})
	secondEnv := decodeEnvelope(t, second)
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d (%s)", second.StatusCode, secondEnv.Message)
	}

	var count int64
	if err := db.DB.Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 account with email %s, found %d", email, count)
	}
}

// TestUserManagementRequiresAdmin verifies that a plain registered user
// cannot reach the account-management routes.
func TestUserManagementRequiresAdmin(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	email := freshEmail(t)

	resp := postJSON(t, "/user/register", map[string]string{
		"name": "Plain User", "email": email, "password": "Secret1!",
	})
	env := decodeEnvelope(t, resp)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", resp.StatusCode, env.Message)
	}
	tok := env.Data.(map[string]any)["token"].(string)

	req, _ := http.NewRequest(http.MethodGet, testServer.URL+"/user/get-all", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	getAll, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /user/get-all: %v", err)
	}
	getAllEnv := decodeEnvelope(t, getAll)
	if getAll.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-admin, got %d (%s)", getAll.StatusCode, getAllEnv.Message)
	}
}
