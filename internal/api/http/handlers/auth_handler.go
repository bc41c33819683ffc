package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/charting-service/internal/api/dto"
	"github.com/spec-kit/charting-service/internal/auth"
	"github.com/spec-kit/charting-service/internal/domain"
	"github.com/spec-kit/charting-service/internal/service"
	apperrors "github.com/spec-kit/charting-service/pkg/util/errorutil"
)

// AccountService is the subset of *service.AccountService the auth endpoints use.
type AccountService interface {
	Register(ctx context.Context, in service.RegistrationInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	GetCurrentUser(ctx context.Context, token string) (*domain.Account, error)
	ValidateToken(ctx context.Context, token string) (*domain.Account, error)
	Logout(ctx context.Context, token string) error
	SetActive(ctx context.Context, email string, active bool) (*domain.Account, error)
}

// AuthHandler exposes registration, login and token endpoints. Responses
// use the {success, message} envelope rather than the error middleware.
type AuthHandler struct {
	accounts AccountService
	recorder auth.OutcomeRecorder
	logger   *zap.Logger
}

// NewAuthHandler constructs handler. recorder may be nil.
func NewAuthHandler(accounts AccountService, recorder auth.OutcomeRecorder, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{accounts: accounts, recorder: recorder, logger: logger}
}

// Register handles POST /auth/register and logs the new account in.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return authFailure(c, http.StatusBadRequest, messageOf(err))
	}

	ctx := c.UserContext()
	if _, err := h.accounts.Register(ctx, req.ToInput()); err != nil {
		if isClientError(err) {
			h.record("register", "rejected")
			return authFailure(c, http.StatusBadRequest, messageOf(err))
		}
		h.logger.Error("registration failed", zap.Error(err))
		h.record("register", "error")
		return authFailure(c, http.StatusInternalServerError, "Registration failed: "+err.Error())
	}

	result, err := h.accounts.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("auto-login after registration failed", zap.Error(err))
		h.record("register", "error")
		return authFailure(c, http.StatusInternalServerError, "Registration failed: "+err.Error())
	}

	h.record("register", "success")
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "User registered successfully",
		Data:    dto.NewAuthData(result),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		h.record("login", "invalid_credentials")
		return authFailure(c, http.StatusUnauthorized, messageOf(service.ErrInvalidCredentials))
	}

	result, err := h.accounts.Login(c.UserContext(), req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		h.record("login", "invalid_credentials")
		return authFailure(c, http.StatusUnauthorized, messageOf(err))
	case errors.Is(err, service.ErrAccountDeactivated):
		h.record("login", "deactivated")
		return authFailure(c, http.StatusUnauthorized, messageOf(err))
	case err != nil:
		h.logger.Error("login failed", zap.Error(err))
		h.record("login", "error")
		return authFailure(c, http.StatusInternalServerError, "Login failed: "+err.Error())
	}

	h.record("login", "success")
	return c.JSON(dto.AuthResponse{
		Success: true,
		Message: "Login successful",
		Data:    dto.NewAuthData(result),
	})
}

// Validate handles POST /auth/validate.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(dto.ValidateResponse{Message: "Invalid token"})
	}

	account, err := h.accounts.ValidateToken(c.UserContext(), token)
	if err != nil {
		message := "Invalid token"
		if !errors.Is(err, auth.ErrInvalidToken) {
			message = "Token validation failed: " + messageOf(err)
		}
		return c.Status(http.StatusUnauthorized).JSON(dto.ValidateResponse{Message: message})
	}

	user := dto.NewUserResponse(account.Public())
	return c.JSON(dto.ValidateResponse{Success: true, Valid: true, User: &user})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(dto.UserEnvelope{Message: "Failed to get user: missing bearer token"})
	}

	account, err := h.accounts.GetCurrentUser(c.UserContext(), token)
	if err != nil {
		return c.Status(http.StatusUnauthorized).JSON(dto.UserEnvelope{Message: "Failed to get user: " + messageOf(err)})
	}

	user := dto.NewUserResponse(account.Public())
	return c.JSON(dto.UserEnvelope{Success: true, User: &user})
}

// Logout handles POST /auth/logout by deny-listing the presented token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := auth.BearerToken(c)
	if !ok {
		return authFailure(c, http.StatusUnauthorized, "Invalid token")
	}

	if err := h.accounts.Logout(c.UserContext(), token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return authFailure(c, http.StatusUnauthorized, "Invalid token")
		}
		h.logger.Error("logout failed", zap.Error(err))
		return authFailure(c, http.StatusInternalServerError, "Logout failed: "+err.Error())
	}

	h.record("logout", "success")
	return c.JSON(dto.AuthResponse{Success: true, Message: "Logged out"})
}

// SetActive handles PATCH /auth/accounts/:email/active. Admin only.
func (h *AuthHandler) SetActive(c *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.SetActive(c.UserContext(), c.Params("email"), *req.Active)
	if err != nil {
		return err
	}

	user := dto.NewUserResponse(account.Public())
	return c.JSON(dto.UserEnvelope{Success: true, User: &user})
}

func (h *AuthHandler) record(event, outcome string) {
	if h.recorder != nil {
		h.recorder.RecordAuth(event, outcome)
	}
}

func authFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(dto.AuthResponse{Success: false, Message: message})
}

// isClientError reports failures caused by the request, such as a duplicate
// email or a missing field.
func isClientError(err error) bool {
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.HTTPStatus >= 400 && domainErr.HTTPStatus < 500
}

func messageOf(err error) string {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
