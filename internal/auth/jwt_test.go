package auth

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestJWTManager(t *testing.T) {
	issuedAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	manager := NewJWTManager("test-secret-key-0123456789abcdef", "finboard-test", time.Hour)
	manager.now = func() time.Time { return issuedAt }

	identity := Identity{
		Subject:     "u1",
		Email:       "ana@example.com",
		Name:        "Ana",
		Role:        "member",
		Permissions: []string{PermTransactionsRead, "portfolio:read"},
		Audience:    []string{"dashboard"},
	}

	token, err := manager.Generate(identity)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("Validate returns minted claims", func(t *testing.T) {
		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Subject != "u1" || claims.Email != "ana@example.com" || claims.Name != "Ana" || claims.Role != "member" {
			t.Errorf("unexpected identity: %+v", claims)
		}
		if !reflect.DeepEqual([]string(claims.Permissions), identity.Permissions) {
			t.Errorf("permissions = %v, want %v", claims.Permissions, identity.Permissions)
		}
		if claims.ID == "" {
			t.Error("expected a token id")
		}
		if got := claims.ExpiresAt.Time; !got.Equal(issuedAt.Add(time.Hour)) {
			t.Errorf("expires at %v, want %v", got, issuedAt.Add(time.Hour))
		}
	})

	t.Run("Decode agrees with Validate", func(t *testing.T) {
		decoded, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if decoded.Subject != "u1" || !decoded.HasAll(PermTransactionsRead, "portfolio:read") {
			t.Errorf("unexpected decoded claims: %+v", decoded)
		}
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		other := NewJWTManager("another-secret", "finboard-test", time.Hour)
		other.now = manager.now
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("wrong issuer is rejected", func(t *testing.T) {
		other := NewJWTManager("test-secret-key-0123456789abcdef", "someone-else", time.Hour)
		other.now = manager.now
		if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		later := NewJWTManager("test-secret-key-0123456789abcdef", "finboard-test", time.Hour)
		later.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
		if _, err := later.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("tampered payload is rejected", func(t *testing.T) {
		forged := fakeToken(`{"sub":"u1","permissions":["transactions:write"],"exp":1893456000}`)
		if _, err := manager.Validate(forged); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("empty subject cannot be signed", func(t *testing.T) {
		if _, err := manager.Generate(Identity{Email: "x@example.com"}); err == nil {
			t.Error("expected error for empty subject")
		}
	})

	t.Run("no permissions encodes an empty list", func(t *testing.T) {
		tok, err := manager.Generate(Identity{Subject: "u2"})
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		claims, err := Decode(tok)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if claims.Permissions == nil || len(claims.Permissions) != 0 {
			t.Errorf("permissions = %#v, want empty list", claims.Permissions)
		}
		if !claims.HasAll() {
			t.Error("HasAll() over an empty list should be true")
		}
	})
}
