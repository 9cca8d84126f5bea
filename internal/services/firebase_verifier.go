package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const firebaseJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

type firebaseClaims struct {
	Iss         string `json:"iss"`
	Sub         string `json:"sub"`
	Aud         string `json:"aud"`
	Iat         int64  `json:"iat"`
	Exp         int64  `json:"exp"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Firebase    struct {
		SignInProvider string                 `json:"sign_in_provider"`
		Identities     map[string]interface{} `json:"identities"`
	} `json:"firebase"`
}

// FirebaseVerifier verifies Firebase Auth ID tokens against Google's
// securetoken signing keys. The provider reported in the claim set is the
// sign-in provider Firebase recorded ("google.com", "facebook.com", ...),
// falling back to "email" for password accounts.
type FirebaseVerifier struct {
	jwks      *JWKSClient
	projectID string
}

func NewFirebaseVerifier(projectID string) *FirebaseVerifier {
	return &FirebaseVerifier{
		jwks:      NewJWKSClient(firebaseJWKSURL),
		projectID: projectID,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, rawToken string) (*ClaimSet, error) {
	claimsBytes, err := v.jwks.VerifySignature(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	var claims firebaseClaims
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return nil, fmt.Errorf("%w: failed to parse claims: %v", ErrVerificationFailed, err)
	}

	if claims.Iss != "https://securetoken.google.com/"+v.projectID {
		return nil, fmt.Errorf("%w: invalid issuer: %s", ErrVerificationFailed, claims.Iss)
	}
	if claims.Aud != v.projectID {
		return nil, fmt.Errorf("%w: invalid audience: %s", ErrVerificationFailed, claims.Aud)
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("%w: token expired", ErrVerificationFailed)
	}
	if claims.Sub == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrVerificationFailed)
	}

	provider := claims.Firebase.SignInProvider
	if provider == "" {
		for name := range claims.Firebase.Identities {
			provider = name
			break
		}
	}
	if provider == "" {
		provider = "email"
	}

	return &ClaimSet{
		SubjectID:    claims.Sub,
		Email:        claims.Email,
		DisplayName:  claims.Name,
		PhoneNumber:  claims.PhoneNumber,
		ProviderName: provider,
	}, nil
}
