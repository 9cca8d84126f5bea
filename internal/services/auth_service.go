package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/freshtrio/backend/internal/dto"
	"github.com/freshtrio/backend/internal/models"
)

// AuthService sequences the identity reconciler, the token verifiers and
// the session issuer behind the public auth entry points. It is stateless
// per call: all collaborators are plain values passed in at construction.
type AuthService struct {
	reconciler *IdentityReconciler
	jwt        *JWTService
	google     TokenVerifier
	firebase   TokenVerifier
}

func NewAuthService(reconciler *IdentityReconciler, jwtService *JWTService, google, firebase TokenVerifier) *AuthService {
	return &AuthService{
		reconciler: reconciler,
		jwt:        jwtService,
		google:     google,
		firebase:   firebase,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	user, err := s.reconciler.RegisterEmailPassword(ctx, RegistrationInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		GdprConsent: req.GdprConsent,
	})
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.reconciler.LoginEmailPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// GoogleLogin verifies a Google ID token and reconciles the claims into a
// local account. The client-supplied names only fill in when the token
// carries no display name.
func (s *AuthService) GoogleLogin(ctx context.Context, req *dto.GoogleAuthRequest) (*dto.AuthResponse, error) {
	claims, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, err
	}

	user, err := s.reconciler.ReconcileFederated(ctx, claims, &ClientProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// FirebaseLogin verifies a Firebase ID token and reconciles the claims into
// a local account. Firebase reports which upstream provider signed the user
// in; that provider name drives the stored linkage.
func (s *AuthService) FirebaseLogin(ctx context.Context, req *dto.FirebaseAuthRequest) (*dto.AuthResponse, error) {
	claims, err := s.firebase.Verify(ctx, req.IDToken)
	if err != nil {
		slog.Error("firebase token verification failed", "error", err)
		return nil, err
	}

	user, err := s.reconciler.ReconcileFederated(ctx, claims, nil)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// Refresh issues a fresh token for the subject of an existing one. The
// presented token must still be fully valid, signature and expiry included;
// an expired token cannot be traded for a new one.
func (s *AuthService) Refresh(ctx context.Context, token string) (*dto.AuthResponse, error) {
	email, err := s.jwt.ExtractEmail(token)
	if err != nil {
		return nil, err
	}

	user, err := s.reconciler.FindBySubject(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// Logout is a no-op: session tokens are stateless and expire naturally.
// There is no revocation store.
func (s *AuthService) Logout(_ context.Context, _ string) error {
	return nil
}

func (s *AuthService) respond(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		AccessToken: token,
		User:        ToUserSummary(user),
	}, nil
}

// ToUserSummary projects a user record into its wire shape.
func ToUserSummary(user *models.User) dto.UserSummary {
	return dto.UserSummary{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      strings.ToLower(string(user.Role)),
	}
}
