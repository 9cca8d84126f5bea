package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGoogleVerifier_RejectsWithoutClientID(t *testing.T) {
	v := NewGoogleVerifier("")
	if _, err := v.Verify(context.Background(), "any-token"); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("Verify without client id: err = %v, want ErrVerificationFailed", err)
	}
}

func TestGoogleVerifier_Verify(t *testing.T) {
	key, server := newJWKSFixture(t)
	v := &GoogleVerifier{jwks: NewJWKSClient(server.URL), clientID: "client-123"}

	baseClaims := func() map[string]interface{} {
		return map[string]interface{}{
			"iss":   "https://accounts.google.com",
			"sub":   "google-uid-1",
			"aud":   "client-123",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"email": "jane@example.com",
			"name":  "Jane Doe",
		}
	}

	claims, err := v.Verify(context.Background(), signTestToken(t, key, "test-kid", baseClaims()))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.SubjectID != "google-uid-1" || claims.Email != "jane@example.com" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ProviderName != "google.com" {
		t.Errorf("provider = %q, want google.com", claims.ProviderName)
	}

	// A token minted for a different application must not pass.
	foreign := baseClaims()
	foreign["aud"] = "some-other-app"
	if _, err := v.Verify(context.Background(), signTestToken(t, key, "test-kid", foreign)); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("foreign audience: err = %v, want ErrVerificationFailed", err)
	}

	badIssuer := baseClaims()
	badIssuer["iss"] = "https://evil.example.com"
	if _, err := v.Verify(context.Background(), signTestToken(t, key, "test-kid", badIssuer)); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("wrong issuer: err = %v, want ErrVerificationFailed", err)
	}

	expired := baseClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	if _, err := v.Verify(context.Background(), signTestToken(t, key, "test-kid", expired)); !errors.Is(err, ErrVerificationFailed) {
		t.Fatalf("expired token: err = %v, want ErrVerificationFailed", err)
	}
}
