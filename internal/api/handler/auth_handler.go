package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readstack/library-system/internal/core/domain"
	"github.com/readstack/library-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=admin editor user"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Signin completes authentication. The Auth middleware has already resolved
// the caller and minted a session token; this handler only renders it.
func (h *AuthHandler) Signin(c echo.Context) error {
	return c.JSON(http.StatusOK, tokenResponse{Token: "Bearer " + issuedToken(c)})
}

// Signup registers a new account explicitly. Provisioning is its own
// endpoint, decoupled from sign-in.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserExists):
			return c.JSON(http.StatusConflict, errorResponse{Error: "user already exists"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid signup details"})
		}
		return err
	}

	token, err := h.authService.IssueToken(user, "")
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tokenResponse{Token: "Bearer " + token})
}
