package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bloodbound-service/internal/api/dto"
	"github.com/spec-kit/bloodbound-service/internal/authprovider"
	"github.com/spec-kit/bloodbound-service/internal/service"
	apperrors "github.com/spec-kit/bloodbound-service/pkg/util"
)

// AuthHandler exposes the login/signup proxy endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    result.User,
	})
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := h.auth.Signup(c.UserContext(), authprovider.SignupParams{
		Email:     req.Email,
		Password:  req.Password,
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.SignupResponse{
		Message: "User created successfully",
		User:    user,
	})
}
