package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/devfolio/portfolio-backend/internal/middleware"
	"github.com/devfolio/portfolio-backend/internal/utils"
)

// mockValidator implements middleware.TokenValidator without any signing key.
type mockValidator struct {
	userID string
	err    error
}

func (m mockValidator) Validate(token string) (string, error) {
	return m.userID, m.err
}

// mockRoleFetcher implements middleware.RoleFetcher without a database.
type mockRoleFetcher struct {
	role string
	err  error
}

func (m mockRoleFetcher) FindRoleByUserID(id string) (string, error) {
	return m.role, m.err
}

// callWithAuth wraps a 200-OK inner handler in the provided middleware,
// optionally setting an Authorization header, and returns the response.
func callWithAuth(t *testing.T, mw func(http.Handler) http.Handler, header string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := mw(inner)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestAuth_MissingHeader verifies that a request with no Authorization
// header receives a 401 response.
func TestAuth_MissingHeader(t *testing.T) {
	mw := middleware.Auth(mockValidator{userID: "ignored"})

	rec := callWithAuth(t, mw, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestAuth_NonBearerHeader verifies that a non-bearer credential is rejected
// before the validator runs.
func TestAuth_NonBearerHeader(t *testing.T) {
	mw := middleware.Auth(mockValidator{userID: "ignored"})

	rec := callWithAuth(t, mw, "Basic dXNlcjpwYXNz")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// TestAuth_ValidatorError verifies that a validator failure (bad signature,
// expired token) results in a 401 response.
func TestAuth_ValidatorError(t *testing.T) {
	mw := middleware.Auth(mockValidator{err: errors.New("token expired")})

	rec := callWithAuth(t, mw, "Bearer some-expired-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "token failed") {
		t.Errorf("expected body to mention token failure, got: %q", rec.Body.String())
	}
}

// TestAuth_ValidToken verifies that a valid token yields 200 and that the
// userID lands in the request context.
func TestAuth_ValidToken(t *testing.T) {
	const wantUserID = "test-user-123"

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "userID not in context", http.StatusInternalServerError)
			return
		}
		if gotUserID != wantUserID {
			http.Error(w, "wrong userID in context: "+gotUserID, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mw := middleware.Auth(mockValidator{userID: wantUserID})
	handler := mw(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

// TestAdmin_MissingUserID verifies that Admin returns 401 when no userID is
// present in the request context (i.e. Auth did not run).
func TestAdmin_MissingUserID(t *testing.T) {
	mw := middleware.Admin(mockRoleFetcher{})

	rec := callWithAuth(t, mw, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// adminRequest sends a request through Admin with a userID pre-set in the
// context, the way Auth would leave it.
func adminRequest(t *testing.T, fetcher middleware.RoleFetcher) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.Admin(fetcher)(inner)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	ctx := context.WithValue(req.Context(), utils.ContextUserIDKey, "some-user")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func TestAdmin_NonAdminRole(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{role: "user"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestAdmin_AdminRole(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{role: "admin"})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestAdmin_FetcherError(t *testing.T) {
	rec := adminRequest(t, mockRoleFetcher{err: errors.New("user not found")})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
