package services

import "context"

// ClaimSet holds the verified identity facts extracted from a federated
// identity token. Email may be empty for providers that withhold it;
// reconciliation rejects such claims because email is the join key.
type ClaimSet struct {
	SubjectID    string
	Email        string
	DisplayName  string
	PhoneNumber  string
	ProviderName string // raw provider identifier, e.g. "google.com"; empty means email
}

// TokenVerifier verifies an opaque identity-provider token and returns the
// claims it vouches for. Implementations call out to a trusted remote
// service once: no retries, no circuit breaking. Every failure mode
// (malformed token, expired, bad signature, provider unreachable) wraps
// ErrVerificationFailed.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*ClaimSet, error)
}
