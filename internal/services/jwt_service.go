package services

import (
	"strings"
	"time"

	"github.com/freshtrio/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "freshtrio-api"

// SessionClaims is the payload of an issued session token. Subject is the
// user's email; Role carries the uppercase enum name; GoogleID the federated
// provider subject id, omitted for plain password accounts.
type SessionClaims struct {
	Role     string `json:"role"`
	GoogleID string `json:"googleid,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and validates session tokens. Signing is symmetric
// HS256 over a single configured secret; there is no algorithm negotiation
// and no revocation store, tokens simply expire.
type JWTService struct {
	secret []byte
	expiry time.Duration
}

func NewJWTService(secret string, expiry time.Duration) *JWTService {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &JWTService{secret: []byte(secret), expiry: expiry}
}

// GenerateToken issues a signed session token for a reconciled user.
func (s *JWTService) GenerateToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := SessionClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	if user.GoogleID != nil {
		claims.GoogleID = *user.GoogleID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ExtractEmail returns the subject of a fully validated token. An optional
// "Bearer " prefix is stripped first. Any decode, signature or expiry
// failure surfaces as ErrInvalidToken.
func (s *JWTService) ExtractEmail(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ExtractRole returns the role claim of a fully validated token.
func (s *JWTService) ExtractRole(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	return claims.Role, nil
}

// IsValid reports whether the token decodes, is correctly signed and has
// not expired. Decode failure is simply invalid, never an error.
func (s *JWTService) IsValid(token string) bool {
	_, err := s.parse(token)
	return err == nil
}

// IsExpired reports whether the token's expiry is in the past. A token
// that cannot be decoded at all counts as expired.
func (s *JWTService) IsExpired(token string) bool {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	var claims SessionClaims
	_, err := parser.ParseWithClaims(StripBearer(token), &claims, s.keyFunc)
	if err != nil {
		return true
	}
	return claims.ExpiresAt == nil || claims.ExpiresAt.Before(time.Now())
}

func (s *JWTService) parse(token string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	var claims SessionClaims
	parsed, err := parser.ParseWithClaims(StripBearer(token), &claims, s.keyFunc)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (s *JWTService) keyFunc(_ *jwt.Token) (interface{}, error) {
	return s.secret, nil
}

// StripBearer removes an optional "Bearer " scheme prefix from a token as
// received in an Authorization header.
func StripBearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return strings.TrimSpace(token[len("Bearer "):])
	}
	return token
}
