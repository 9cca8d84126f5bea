package services

import (
	"errors"
	"testing"
	"time"

	"github.com/freshtrio/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func testUser() *models.User {
	subject := "google-sub-123"
	return &models.User{
		Email:    "user@example.com",
		Role:     models.RoleCustomer,
		GoogleID: &subject,
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}

	if !svc.IsValid(token) {
		t.Fatalf("expected freshly issued token to be valid")
	}
	if svc.IsExpired(token) {
		t.Fatalf("expected freshly issued token to be unexpired")
	}

	email, err := svc.ExtractEmail(token)
	if err != nil {
		t.Fatalf("extract email: %v", err)
	}
	if email != "user@example.com" {
		t.Fatalf("unexpected subject %q", email)
	}

	role, err := svc.ExtractRole(token)
	if err != nil {
		t.Fatalf("extract role: %v", err)
	}
	if role != "CUSTOMER" {
		t.Fatalf("unexpected role %q", role)
	}
}

func TestJWTService_BearerPrefix(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, err := svc.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	email, err := svc.ExtractEmail("Bearer " + token)
	if err != nil {
		t.Fatalf("extract email with bearer prefix: %v", err)
	}
	if email != "user@example.com" {
		t.Fatalf("unexpected subject %q", email)
	}
	if !svc.IsValid("Bearer " + token) {
		t.Fatalf("expected bearer-prefixed token to validate")
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	now := time.Now().UTC()
	claims := SessionClaims{
		Role: "CUSTOMER",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "user@example.com",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	if svc.IsValid(token) {
		t.Fatalf("expected expired token to be invalid")
	}
	if !svc.IsExpired(token) {
		t.Fatalf("expected expired token to report expired")
	}
	if _, err := svc.ExtractEmail(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	if svc.IsValid("not-a-token") {
		t.Fatalf("expected garbage token to be invalid")
	}
	if !svc.IsExpired("not-a-token") {
		t.Fatalf("undecodable token should default to expired")
	}
	if _, err := svc.ExtractEmail("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret", time.Hour)
	other := NewJWTService("different-secret", time.Hour)

	token, err := issuer.GenerateToken(testUser())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if other.IsValid(token) {
		t.Fatalf("expected token signed with another secret to be invalid")
	}
	if !other.IsExpired(token) {
		t.Fatalf("signature mismatch should default to expired")
	}
}
