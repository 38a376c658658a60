package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newJWTManagerForTest(t *testing.T, secret string, ttl time.Duration) *JWTManager {
	t.Helper()

	manager, err := NewJWTManager(secret, ttl)
	if err != nil {
		t.Fatalf("failed creating jwt manager: %v", err)
	}
	return manager
}

func TestNewJWTManager(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		if _, err := NewJWTManager("", time.Hour); err == nil {
			t.Fatal("expected error for empty secret")
		}
	})

	t.Run("falls back to one day for non-positive ttl", func(t *testing.T) {
		manager := newJWTManagerForTest(t, "secret", 0)
		if manager.TTL() != 24*time.Hour {
			t.Fatalf("expected ttl 24h, got %v", manager.TTL())
		}
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Run("round trips identity and role", func(t *testing.T) {
		manager := newJWTManagerForTest(t, "roundtrip-secret", time.Hour)
		subject := TokenSubject{ID: uuid.New(), Email: "user@example.com", Role: "manager"}

		token, err := manager.GenerateToken(subject)
		if err != nil {
			t.Fatalf("expected token generation to succeed, got error: %v", err)
		}

		claims, err := manager.ValidateToken(token)
		if err != nil {
			t.Fatalf("expected token validation to succeed, got error: %v", err)
		}

		if claims.UserID != subject.ID {
			t.Fatalf("expected claims userID %s, got %s", subject.ID, claims.UserID)
		}
		if claims.Email != subject.Email {
			t.Fatalf("expected claims email %q, got %q", subject.Email, claims.Email)
		}
		if claims.Role != subject.Role {
			t.Fatalf("expected claims role %q, got %q", subject.Role, claims.Role)
		}
		if claims.Subject != subject.ID.String() {
			t.Fatalf("expected subject %q, got %q", subject.ID.String(), claims.Subject)
		}
		if claims.IssuedAt == nil {
			t.Fatal("expected issued-at claim")
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
			t.Fatalf("expected token to have a future expiration, got %v", claims.ExpiresAt)
		}
	})

	t.Run("rejects expired token", func(t *testing.T) {
		manager := newJWTManagerForTest(t, "expired-secret", time.Hour)
		manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

		token, err := manager.GenerateToken(TokenSubject{ID: uuid.New(), Email: "expired@example.com", Role: "user"})
		if err != nil {
			t.Fatalf("failed to sign token for test: %v", err)
		}

		manager.now = time.Now
		if _, err := manager.ValidateToken(token); err == nil {
			t.Fatal("expected expired token validation to fail, but it succeeded")
		}
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		issuer := newJWTManagerForTest(t, "issuer-secret", time.Hour)
		verifier := newJWTManagerForTest(t, "verifier-secret", time.Hour)

		token, err := issuer.GenerateToken(TokenSubject{ID: uuid.New(), Email: "a@x.com", Role: "user"})
		if err != nil {
			t.Fatalf("failed to sign token for test: %v", err)
		}
		if _, err := verifier.ValidateToken(token); err == nil {
			t.Fatal("expected validation with a different secret to fail")
		}
	})

	t.Run("rejects token without expiry", func(t *testing.T) {
		manager := newJWTManagerForTest(t, "no-exp-secret", time.Hour)

		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: uuid.New()}).SignedString(manager.secret)
		if err != nil {
			t.Fatalf("failed to sign token for test: %v", err)
		}
		if _, err := manager.ValidateToken(token); err == nil {
			t.Fatal("expected token without exp to be rejected")
		}
	})

	t.Run("rejects malformed token string", func(t *testing.T) {
		manager := newJWTManagerForTest(t, "malformed-secret", time.Hour)

		if _, err := manager.ValidateToken("not-a-jwt"); err == nil {
			t.Fatal("expected malformed token validation to fail, but it succeeded")
		}
	})

	t.Run("rejects token signed with unexpected method", func(t *testing.T) {
		manager := newJWTManagerForTest(t, "wrong-method-secret", time.Hour)

		privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			t.Fatalf("failed to generate rsa key for test: %v", err)
		}

		rsaToken := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
			UserID: uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
				Subject:   uuid.New().String(),
			},
		})

		signedToken, err := rsaToken.SignedString(privateKey)
		if err != nil {
			t.Fatalf("failed to sign rsa token for test: %v", err)
		}

		_, err = manager.ValidateToken(signedToken)
		if err == nil {
			t.Fatal("expected validation to fail for token with unexpected signing method")
		}
		if !strings.Contains(err.Error(), "unexpected signing method") {
			t.Fatalf("expected signing method error, got: %v", err)
		}
	})
}
