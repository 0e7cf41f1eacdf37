package token

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour, "auth-service")

	raw, expiresAt, err := mgr.Generate("alice", "BUYER")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expected expiry in the future")
	}

	claims, err := mgr.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "alice")
	}
	if claims.Role != "BUYER" {
		t.Errorf("Role = %q, want %q", claims.Role, "BUYER")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	raw, _, err := NewManager("secret-a", time.Hour, "auth-service").Generate("alice", "BUYER")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour, "auth-service").Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	mgr := NewManager("test-secret", -time.Minute, "auth-service")
	raw, _, err := mgr.Generate("alice", "BUYER")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := mgr.Parse(raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour, "auth-service")

	if _, err := mgr.Parse("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}
