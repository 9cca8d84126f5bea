package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role values assignable to a user. Every signup path creates CUSTOMER;
// DRIVER and ADMIN are only ever set by operators directly in the database.
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleDriver   Role = "DRIVER"
	RoleAdmin    Role = "ADMIN"
)

// AuthProvider identifies which identity provider vouched for the account.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "EMAIL"
	ProviderGoogle   AuthProvider = "GOOGLE"
	ProviderFacebook AuthProvider = "FACEBOOK"
	ProviderApple    AuthProvider = "APPLE"
)

// MapProvider converts a raw provider identifier from a federated identity
// token ("google.com", "facebook.com", "apple.com") into the internal
// vocabulary. Matching is case-insensitive; anything unrecognized, including
// the "email"/"password" fallbacks Firebase reports for non-federated
// sign-ins, maps to ProviderEmail.
func MapProvider(raw string) AuthProvider {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "google.com":
		return ProviderGoogle
	case "facebook.com":
		return ProviderFacebook
	case "apple.com":
		return ProviderApple
	default:
		return ProviderEmail
	}
}

// User is the single account record shared by all signup paths. Email is
// the global join key: password, Google and Firebase sign-ins for the same
// address all resolve to one row.
type User struct {
	ID              uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email           string       `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Phone           string       `gorm:"size:30" json:"phone,omitempty"`
	Password        string       `gorm:"column:password_hash" json:"-"`
	FirstName       string       `gorm:"size:100" json:"first_name"`
	LastName        string       `gorm:"size:100" json:"last_name"`
	GoogleID        *string      `gorm:"size:255;index" json:"-"`
	AuthProvider    AuthProvider `gorm:"size:20;default:'EMAIL'" json:"-"`
	Role            Role         `gorm:"size:20;default:'CUSTOMER'" json:"role"`
	IsVerified      bool         `gorm:"default:false" json:"is_verified"`
	GdprConsent     bool         `gorm:"default:false" json:"gdpr_consent"`
	GdprConsentDate *time.Time   `json:"gdpr_consent_date,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// Linked reports whether a federated provider subject has been attached.
func (u *User) Linked() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}
