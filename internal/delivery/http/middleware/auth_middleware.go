package middleware

import (
	"strings"

	domainerrors "tasker/internal/domain/errors"
	"tasker/internal/domain/repository"
	"tasker/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is where Authenticate stores the resolved user id for
// downstream handlers.
const ContextKeyUserID = "userID"

// AuthMiddleware gates every protected route. It fails closed: a missing
// token, a token that does not verify, and a user deleted after issuance all
// end the request with a 401 before the handler runs.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	userRepo repository.UserRepository
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, userRepo: userRepo}
}

// Authenticate validates the bearer access token and resolves its subject
// against the user store. Storage faults during resolution are folded into
// the same 401 as a bad token; an auth failure never surfaces as a 5xx.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrTokenMissing
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return domainerrors.ErrTokenMissing
		}

		userID, err := m.tokenSvc.VerifyAccessToken(tokenString)
		if err != nil {
			return domainerrors.ErrTokenInvalid
		}

		user, err := m.userRepo.FindByID(c.Request().Context(), userID)
		if err != nil {
			return domainerrors.ErrAccountNotFound
		}

		// Identity travels on the request context; no token is consulted
		// again for the remainder of the request.
		c.Set(ContextKeyUserID, user.ID)

		return next(c)
	}
}
