package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	id := uuid.New()

	token, err := m.GenerateToken(id, "ana@example.com", "ana", "EMPLOYEE", []string{"invoice:create"}, "v1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != id || claims.UserName != "ana" || claims.TokenVersion != "v1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.Subject != id.String() {
		t.Errorf("subject = %q, want %q", claims.Subject, id.String())
	}
}

func TestValidateToken_wrongSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateToken(uuid.New(), "", "", "", nil, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewManager("two", time.Hour).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateToken_expired(t *testing.T) {
	m := NewManager("s", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.GenerateToken(uuid.New(), "", "", "", nil, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewManager("s", time.Minute).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestValidateToken_missing(t *testing.T) {
	if _, err := NewManager("s", time.Minute).ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
