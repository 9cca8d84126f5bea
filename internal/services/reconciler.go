package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// IdentityReconciler maps incoming credentials and federated claims to
// exactly one persisted user per email. Email is the join key on every
// path: a second login via a different provider attaches to the existing
// record instead of creating a duplicate.
type IdentityReconciler struct {
	store repository.UserStore
}

func NewIdentityReconciler(store repository.UserStore) *IdentityReconciler {
	return &IdentityReconciler{store: store}
}

// RegistrationInput carries the fields collected by the signup form.
type RegistrationInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Phone       string
	GdprConsent bool
}

// ClientProfile is the optional name data a client supplies alongside a
// federated token, used only when the token itself carries no display name.
type ClientProfile struct {
	FirstName string
	LastName  string
}

// RegisterEmailPassword creates a new password account. Registration is
// create-only: an existing email fails with ErrEmailTaken whether caught by
// the pre-check or by the store's unique index when two registrations race.
func (r *IdentityReconciler) RegisterEmailPassword(ctx context.Context, input RegistrationInput) (*models.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	if _, err := r.store.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Email:        input.Email,
		Password:     string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		AuthProvider: models.ProviderEmail,
		Role:         models.RoleCustomer,
		// Auto-verify policy: password signups are trusted without an
		// email round trip.
		IsVerified:      true,
		GdprConsent:     input.GdprConsent,
		GdprConsentDate: &now,
	}

	if err := r.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// LoginEmailPassword authenticates a password account. Unknown email and
// wrong password both fail with ErrInvalidCredentials so callers cannot
// probe which addresses are registered. No mutation on success.
func (r *IdentityReconciler) LoginEmailPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Federated-only accounts have no password credential.
	if user.Password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ReconcileFederated finds or creates the user for a verified federated
// claim set. An unseen email creates a pre-verified customer account; a
// known email without provider linkage gets the subject id attached; a
// known email already linked passes through untouched, whichever provider
// signed this login.
func (r *IdentityReconciler) ReconcileFederated(ctx context.Context, claims *ClaimSet, profile *ClientProfile) (*models.User, error) {
	if claims == nil || claims.Email == "" {
		return nil, ErrMissingEmail
	}

	firstName, lastName := SplitDisplayName(claims.DisplayName)
	if firstName == "" && lastName == "" && profile != nil {
		firstName = profile.FirstName
		lastName = profile.LastName
	}
	provider := models.MapProvider(claims.ProviderName)

	user, err := r.store.FindByEmail(ctx, claims.Email)
	if errors.Is(err, repository.ErrNotFound) {
		now := time.Now().UTC()
		subject := claims.SubjectID
		user = &models.User{
			Email:           claims.Email,
			FirstName:       firstName,
			LastName:        lastName,
			Phone:           claims.PhoneNumber,
			GoogleID:        &subject,
			AuthProvider:    provider,
			Role:            models.RoleCustomer,
			IsVerified:      true, // the provider vouches for the email
			GdprConsent:     true,
			GdprConsentDate: &now,
		}
		err = r.store.Create(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		// Lost a creation race; reload and fall through to linking.
		user, err = r.store.FindByEmail(ctx, claims.Email)
	}
	if err != nil {
		return nil, err
	}

	if !user.Linked() {
		subject := claims.SubjectID
		user.GoogleID = &subject
		user.AuthProvider = provider
		user.UpdatedAt = time.Now().UTC()
		if err := r.store.Save(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// FindBySubject resolves a session token subject (the user's email) back to
// a user record for refresh.
func (r *IdentityReconciler) FindBySubject(ctx context.Context, email string) (*models.User, error) {
	user, err := r.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// SplitDisplayName splits a full display name on its first whitespace run:
// "Jane Doe" gives ("Jane", "Doe"), "Madonna" gives ("Madonna", "").
func SplitDisplayName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	idx := strings.IndexFunc(name, unicode.IsSpace)
	if idx < 0 {
		return name, ""
	}
	return name[:idx], strings.TrimLeftFunc(name[idx:], unicode.IsSpace)
}
