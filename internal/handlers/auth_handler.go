package handlers

import (
	"errors"

	"github.com/freshtrio/backend/internal/dto"
	"github.com/freshtrio/backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if !parseBody(c, &req) {
		return nil
	}

	resp, err := h.authService.Register(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if !parseBody(c, &req) {
		return nil
	}

	resp, err := h.authService.Login(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) GoogleAuth(c *fiber.Ctx) error {
	var req dto.GoogleAuthRequest
	if !parseBody(c, &req) {
		return nil
	}

	resp, err := h.authService.GoogleLogin(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) FirebaseAuth(c *fiber.Ctx) error {
	var req dto.FirebaseAuthRequest
	if !parseBody(c, &req) {
		return nil
	}

	resp, err := h.authService.FirebaseLogin(c.Context(), &req)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

// Refresh reads the current token from the Authorization header, with or
// without a Bearer prefix, and trades it for a fresh one.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token := c.Get(fiber.HeaderAuthorization)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Authorization header required",
		})
	}

	resp, err := h.authService.Refresh(c.Context(), token)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(resp)
}

// Logout always succeeds: tokens are stateless and expire on their own.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	_ = h.authService.Logout(c.Context(), c.Get(fiber.HeaderAuthorization))
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

// authError maps each auth error kind to its own status code instead of
// collapsing everything to a generic failure.
func authError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrEmailTaken):
		status, message = fiber.StatusConflict, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrUserNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrMissingEmail):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrVerificationFailed):
		status, message = fiber.StatusUnauthorized, services.ErrVerificationFailed.Error()
	case errors.Is(err, services.ErrInvalidToken):
		status, message = fiber.StatusUnauthorized, err.Error()
	}

	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}
