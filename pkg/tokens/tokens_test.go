package tokens

import (
	"errors"
	"testing"
	"time"
)

func TestAccessRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", "etkinlik", time.Hour, 24*time.Hour)

	raw, expiresAt, err := issuer.IssueAccess(42, "owner@example.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if !expiresAt.After(time.Now()) {
		t.Fatalf("expiresAt should be in the future, got %v", expiresAt)
	}

	claims, err := issuer.ParseAccess(raw)
	if err != nil {
		t.Fatalf("ParseAccess: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "owner@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRSVPTokenIsNotAnAccessToken(t *testing.T) {
	issuer := NewIssuer("secret", "etkinlik", time.Hour, time.Hour)

	raw, err := issuer.IssueRSVP(7)
	if err != nil {
		t.Fatalf("IssueRSVP: %v", err)
	}
	if id, err := issuer.ParseRSVP(raw); err != nil || id != 7 {
		t.Fatalf("ParseRSVP = %d, %v", id, err)
	}
	if _, err := issuer.ParseAccess(raw); !errors.Is(err, ErrWrongPurpose) {
		t.Fatalf("expected ErrWrongPurpose, got %v", err)
	}
}

func TestRejectsForeignSignatureAndExpiry(t *testing.T) {
	issuer := NewIssuer("secret", "etkinlik", time.Hour, time.Hour)
	other := NewIssuer("other-secret", "etkinlik", time.Hour, time.Hour)

	raw, _, err := other.IssueAccess(1, "a@example.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := issuer.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	expired := NewIssuer("secret", "etkinlik", time.Minute, time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	raw, _, err = expired.IssueAccess(1, "a@example.com")
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if _, err := issuer.ParseAccess(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
