package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/freshtrio/backend/internal/models"
	"github.com/freshtrio/backend/internal/repository"
)

func TestReconciler_RegisterThenLogin(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)
	ctx := context.Background()

	created, err := r.RegisterEmailPassword(ctx, RegistrationInput{
		Email:       "jane@example.com",
		Password:    "correct horse",
		FirstName:   "Jane",
		LastName:    "Doe",
		GdprConsent: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Role != models.RoleCustomer {
		t.Fatalf("expected customer role, got %v", created.Role)
	}
	if !created.IsVerified {
		t.Fatalf("expected auto-verified account")
	}
	if created.AuthProvider != models.ProviderEmail {
		t.Fatalf("expected email provider, got %v", created.AuthProvider)
	}
	if created.Password == "correct horse" {
		t.Fatalf("raw password must never be stored")
	}

	user, err := r.LoginEmailPassword(ctx, "jane@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != created.ID {
		t.Fatalf("login resolved a different user")
	}

	if _, err := r.LoginEmailPassword(ctx, "jane@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := r.LoginEmailPassword(ctx, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestReconciler_DuplicateRegister(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)
	ctx := context.Background()

	input := RegistrationInput{Email: "jane@example.com", Password: "password1"}
	if _, err := r.RegisterEmailPassword(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := r.RegisterEmailPassword(ctx, input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if store.Count() != 1 {
		t.Fatalf("expected exactly one stored user, got %d", store.Count())
	}
}

func TestReconciler_ConcurrentRegister(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)
	ctx := context.Background()

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.RegisterEmailPassword(ctx, RegistrationInput{
				Email:    "race@example.com",
				Password: "password1",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrEmailTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("expected exactly one successful registration, got %d", wins)
	}
	if conflicts != callers-1 {
		t.Fatalf("expected %d conflicts, got %d", callers-1, conflicts)
	}
	if store.Count() != 1 {
		t.Fatalf("expected exactly one stored user, got %d", store.Count())
	}
}

func TestReconciler_FederatedCreatesOnce(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)
	ctx := context.Background()

	first, err := r.ReconcileFederated(ctx, &ClaimSet{
		SubjectID:    "fb-uid-1",
		Email:        "jane@example.com",
		DisplayName:  "Jane Doe",
		ProviderName: "facebook.com",
	}, nil)
	if err != nil {
		t.Fatalf("first federated login: %v", err)
	}
	if first.AuthProvider != models.ProviderFacebook {
		t.Fatalf("expected FACEBOOK provider, got %v", first.AuthProvider)
	}
	if first.FirstName != "Jane" || first.LastName != "Doe" {
		t.Fatalf("unexpected name split: %q %q", first.FirstName, first.LastName)
	}
	if !first.IsVerified {
		t.Fatalf("federated signups are provider-verified")
	}
	if first.Role != models.RoleCustomer {
		t.Fatalf("expected customer role, got %v", first.Role)
	}

	// A later login for the same email via a different provider must not
	// rewrite the established linkage.
	second, err := r.ReconcileFederated(ctx, &ClaimSet{
		SubjectID:    "google-sub-2",
		Email:        "jane@example.com",
		DisplayName:  "Janet Doe",
		ProviderName: "google.com",
	}, nil)
	if err != nil {
		t.Fatalf("second federated login: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("second login created a duplicate user")
	}
	if second.AuthProvider != models.ProviderFacebook {
		t.Fatalf("provider linkage was overwritten: %v", second.AuthProvider)
	}
	if second.GoogleID == nil || *second.GoogleID != "fb-uid-1" {
		t.Fatalf("subject linkage was overwritten")
	}
	if second.FirstName != "Jane" {
		t.Fatalf("existing profile fields must stay untouched")
	}
	if store.Count() != 1 {
		t.Fatalf("expected one stored user, got %d", store.Count())
	}
}

func TestReconciler_FederatedLinksExistingPasswordAccount(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)
	ctx := context.Background()

	created, err := r.RegisterEmailPassword(ctx, RegistrationInput{
		Email:     "jane@example.com",
		Password:  "password1",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	linked, err := r.ReconcileFederated(ctx, &ClaimSet{
		SubjectID:    "google-sub-1",
		Email:        "jane@example.com",
		DisplayName:  "Completely Different",
		ProviderName: "google.com",
	}, nil)
	if err != nil {
		t.Fatalf("federated login: %v", err)
	}
	if linked.ID != created.ID {
		t.Fatalf("expected existing account, got a new one")
	}
	if linked.GoogleID == nil || *linked.GoogleID != "google-sub-1" {
		t.Fatalf("expected subject linkage to be attached")
	}
	if linked.AuthProvider != models.ProviderGoogle {
		t.Fatalf("expected provider GOOGLE after linking, got %v", linked.AuthProvider)
	}
	if linked.FirstName != "Jane" || linked.LastName != "Doe" {
		t.Fatalf("linking must not overwrite the existing name")
	}

	// The password credential survives linking.
	if _, err := r.LoginEmailPassword(ctx, "jane@example.com", "password1"); err != nil {
		t.Fatalf("password login after linking: %v", err)
	}
}

func TestReconciler_FederatedRequiresEmail(t *testing.T) {
	r := NewIdentityReconciler(repository.NewMemoryUserStore())

	_, err := r.ReconcileFederated(context.Background(), &ClaimSet{
		SubjectID:    "sub-1",
		ProviderName: "google.com",
	}, nil)
	if !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("expected ErrMissingEmail, got %v", err)
	}
}

func TestReconciler_FederatedClientProfileFallback(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)

	user, err := r.ReconcileFederated(context.Background(), &ClaimSet{
		SubjectID:    "sub-1",
		Email:        "a@example.com",
		ProviderName: "google.com",
	}, &ClientProfile{FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("federated login: %v", err)
	}
	if user.FirstName != "A" || user.LastName != "B" {
		t.Fatalf("expected client profile names, got %q %q", user.FirstName, user.LastName)
	}
}

func TestReconciler_FederatedOnlyAccountRejectsPasswordLogin(t *testing.T) {
	store := repository.NewMemoryUserStore()
	r := NewIdentityReconciler(store)
	ctx := context.Background()

	if _, err := r.ReconcileFederated(ctx, &ClaimSet{
		SubjectID:    "sub-1",
		Email:        "jane@example.com",
		ProviderName: "google.com",
	}, nil); err != nil {
		t.Fatalf("federated login: %v", err)
	}

	if _, err := r.LoginEmailPassword(ctx, "jane@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for federated-only account, got %v", err)
	}
}

func TestSplitDisplayName(t *testing.T) {
	cases := []struct {
		name  string
		first string
		last  string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Madonna", "Madonna", ""},
		{"", "", ""},
		{"  Jane   Doe  ", "Jane", "Doe"},
		{"Jane Mary Doe", "Jane", "Mary Doe"},
	}

	for _, tc := range cases {
		first, last := SplitDisplayName(tc.name)
		if first != tc.first || last != tc.last {
			t.Errorf("SplitDisplayName(%q) = (%q, %q), want (%q, %q)", tc.name, first, last, tc.first, tc.last)
		}
	}
}
