package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backend/internal/models"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("test-secret"))

	tok, err := codec.Issue("u1", "a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := codec.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "u1" {
		t.Errorf("subject: got %q want %q", claims.Subject, "u1")
	}
	if claims.Email != "a@b.com" {
		t.Errorf("email: got %q want %q", claims.Email, "a@b.com")
	}

	wantExp := claims.IssuedAt.Add(Validity)
	if !claims.ExpiresAt.Time.Equal(wantExp) {
		t.Errorf("expiry: got %v want issued-at + %v", claims.ExpiresAt.Time, Validity)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")

	// Well-formed token with exp in the past, signed with the right secret.
	past := time.Now().Add(-time.Hour)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		Email: "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(past.Add(-Validity)),
			ExpiresAt: jwt.NewNumericDate(past),
		},
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = NewCodec(secret).Verify(expired)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewCodec([]byte("right-secret")).Issue("u2", "b@c.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = NewCodec([]byte("wrong-secret")).Verify(tok)
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	codec := NewCodec([]byte("k"))
	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerify_UnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	// alg=none token must be rejected even though it parses structurally.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	if _, err := NewCodec([]byte("k")).Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}
