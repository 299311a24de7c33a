package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/devfolio/portfolio-backend/internal/token"
)

func TestIssueValidateRoundTrip(t *testing.T) {
	svc := token.NewService("test-secret", time.Hour)

	tok, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	userID, err := svc.Validate(tok)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("got userID %q, want %q", userID, "user-123")
	}
}

func TestValidateNearLifetimeBoundary(t *testing.T) {
	// A token good for 30 days must still validate when 29 days remain and
	// fail once the embedded expiry has passed. Simulated by shifting the
	// lifetime instead of the clock.
	still := token.NewService("s", 24*time.Hour) // T+29d on a 30d token
	tok, err := still.Issue("u")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := still.Validate(tok); err != nil {
		t.Errorf("token with remaining lifetime failed: %v", err)
	}

	expired := token.NewService("s", -24*time.Hour) // T+31d on a 30d token
	tok, err = expired.Issue("u")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := expired.Validate(tok); !errors.Is(err, token.ErrExpired) {
		t.Errorf("got %v, want ErrExpired", err)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	a := token.NewService("secret-a", time.Hour)
	b := token.NewService("secret-b", time.Hour)

	tok, err := a.Issue("u")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Validate(tok); !errors.Is(err, token.ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}

func TestValidateMalformed(t *testing.T) {
	svc := token.NewService("s", time.Hour)
	for _, bad := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Validate(bad); !errors.Is(err, token.ErrInvalid) {
			t.Errorf("Validate(%q) = %v, want ErrInvalid", bad, err)
		}
	}
}

func TestIssueIsRemintable(t *testing.T) {
	svc := token.NewService("s", time.Hour)
	t1, err := svc.Issue("u")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	t2, err := svc.Issue("u")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	for _, tok := range []string{t1, t2} {
		if id, err := svc.Validate(tok); err != nil || id != "u" {
			t.Errorf("reminted token failed: id=%q err=%v", id, err)
		}
	}
}
