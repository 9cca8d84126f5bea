package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

type googleClaims struct {
	Iss        string `json:"iss"`
	Sub        string `json:"sub"`
	Aud        string `json:"aud"`
	Exp        int64  `json:"exp"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// GoogleVerifier verifies Google Sign-In ID tokens against Google's OAuth2
// certificate endpoint. The claim set always reports provider "google.com".
// The audience check requires a configured OAuth client id; without one,
// every verification fails rather than accepting tokens minted for other
// applications.
type GoogleVerifier struct {
	jwks     *JWKSClient
	clientID string
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		jwks:     NewJWKSClient(googleJWKSURL),
		clientID: clientID,
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (*ClaimSet, error) {
	if v.clientID == "" {
		return nil, fmt.Errorf("%w: google client id not configured", ErrVerificationFailed)
	}

	claimsBytes, err := v.jwks.VerifySignature(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	var claims googleClaims
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, fmt.Errorf("%w: failed to parse claims: %v", ErrVerificationFailed, err)
	}

	if claims.Iss != "accounts.google.com" && claims.Iss != "https://accounts.google.com" {
		return nil, fmt.Errorf("%w: invalid issuer: %s", ErrVerificationFailed, claims.Iss)
	}
	if claims.Aud != v.clientID {
		return nil, fmt.Errorf("%w: invalid audience: %s", ErrVerificationFailed, claims.Aud)
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("%w: token expired", ErrVerificationFailed)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrVerificationFailed)
	}

	return &ClaimSet{
		SubjectID:    claims.Sub,
		Email:        claims.Email,
		DisplayName:  claims.Name,
		ProviderName: "google.com",
	}, nil
}
