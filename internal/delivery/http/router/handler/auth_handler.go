// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"tasker/config"
	"tasker/internal/delivery/http/middleware"
	"tasker/internal/delivery/http/response"
	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// RefreshCookieName is the cookie carrying the refresh token. The token never
// appears in a JSON body; the cookie is its only channel to the client.
const RefreshCookieName = "refresh_token"

// refreshCookiePath scopes the cookie to the auth endpoints so it is not
// replayed on every API call.
const refreshCookiePath = "/api/auth"

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc         usecase.AuthUsecase
	logger     *slog.Logger
	refreshTTL time.Duration
	production bool
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		uc:         uc,
		logger:     logger,
		refreshTTL: cfg.RefreshTokenTTL(),
		production: cfg.IsProduction(),
	}
}

// Register handles the registration request. A fresh account comes back with
// a token pair, so the client is logged in immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed registration body")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, output.RefreshToken)

	return response.Success(c, http.StatusCreated, map[string]any{
		"user":  output.User,
		"token": output.AccessToken,
	}, "User registered successfully")
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed login body")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, output.RefreshToken)

	return response.Success(c, http.StatusOK, map[string]any{
		"user":  output.User,
		"token": output.AccessToken,
	}, "Login successful")
}

// Refresh exchanges the refresh cookie for a new token pair. The rotated
// refresh token replaces the cookie; the old one is dead on arrival from
// here on.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return domainerrors.ErrRefreshTokenInvalid
	}

	output, err := h.uc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return errors.WithStack(err)
	}

	h.setRefreshCookie(c, output.RefreshToken)

	return response.Success(c, http.StatusOK, map[string]any{
		"accessToken": output.AccessToken,
	}, "Token refreshed successfully")
}

// Logout revokes the session behind the refresh cookie and clears it.
// It answers 200 whether or not a valid cookie was presented.
func (h *AuthHandler) Logout(c echo.Context) error {
	refreshToken := ""
	if cookie, err := c.Cookie(RefreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.uc.Logout(c.Request().Context(), refreshToken); err != nil {
		return errors.WithStack(err)
	}

	h.clearRefreshCookie(c)

	return response.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// Me returns the authenticated user's own record.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return domainerrors.ErrTokenInvalid
	}

	user, err := h.uc.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"user": user,
	}, "User retrieved successfully")
}

// setRefreshCookie writes the refresh token cookie. The attributes are part
// of the API contract: HttpOnly keeps the token away from scripts, Strict
// same-site plus the narrow path keep it off cross-site requests.
func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: http.SameSiteStrictMode,
	})
}
