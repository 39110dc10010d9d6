package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(t *testing.T, clock func() time.Time) *SessionManager {
	t.Helper()
	manager, err := NewSessionManager(SessionManagerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "quaver-test",
		CookieName:    "quaver_session",
		SessionTTL:    time.Hour,
		Clock:         clock,
	})
	if err != nil {
		t.Fatalf("failed to build session manager: %v", err)
	}
	return manager
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	manager := newTestManager(t, nil)

	token, err := manager.IssueSessionToken(42)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	userID, err := manager.ValidateSessionToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("unexpected subject: got %d, want 42", userID)
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := newTestManager(t, func() time.Time { return issuedAt })

	token, err := issuer.IssueSessionToken(7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	later := newTestManager(t, func() time.Time { return issuedAt.Add(2 * time.Hour) })
	if _, err := later.ValidateSessionToken(token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected invalid token error for expired token, got %v", err)
	}
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	manager := newTestManager(t, nil)
	other, err := NewSessionManager(SessionManagerConfig{
		SigningSecret: []byte("different-secret"),
		Issuer:        "quaver-test",
		CookieName:    "quaver_session",
	})
	if err != nil {
		t.Fatalf("failed to build session manager: %v", err)
	}

	token, err := other.IssueSessionToken(7)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := manager.ValidateSessionToken(token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestValidateRejectsEmptyToken(t *testing.T) {
	manager := newTestManager(t, nil)
	if _, err := manager.ValidateSessionToken("   "); !errors.Is(err, ErrMissingSessionToken) {
		t.Fatalf("expected missing token error, got %v", err)
	}
}

func TestManagerRequiresConfiguration(t *testing.T) {
	if _, err := NewSessionManager(SessionManagerConfig{Issuer: "x", CookieName: "y"}); !errors.Is(err, ErrMissingSigningSecret) {
		t.Fatalf("expected missing secret error, got %v", err)
	}
	if _, err := NewSessionManager(SessionManagerConfig{SigningSecret: []byte("s"), CookieName: "y"}); !errors.Is(err, ErrMissingIssuer) {
		t.Fatalf("expected missing issuer error, got %v", err)
	}
	if _, err := NewSessionManager(SessionManagerConfig{SigningSecret: []byte("s"), Issuer: "x"}); !errors.Is(err, ErrMissingCookieName) {
		t.Fatalf("expected missing cookie name error, got %v", err)
	}
}
