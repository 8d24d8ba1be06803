package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"rental-market/internal/api"
	"rental-market/internal/database"
	"rental-market/internal/service"
	"rental-market/internal/store"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

var getUserByID = store.GetUserByID

// TokenVerifier 驗證 access token
type TokenVerifier interface {
	VerifyAccessToken(token string) (*service.CustomClaims, error)
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg})
}

func extractClaims(c echo.Context, tokens TokenVerifier) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header format")
	}
	claims, err := tokens.VerifyAccessToken(parts[1])
	if err != nil {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer token，並以資料庫中目前的角色覆寫 claims.Role，
// 讓降權立即生效
func RequireAuth(tokens TokenVerifier, db database.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, tokens)
			if err != nil {
				return unauthorized(c, err.Error())
			}
			user, err := getUserByID(c.Request().Context(), db, claims.UserID)
			if errors.Is(err, store.ErrNotFound) {
				return unauthorized(c, "user no longer exists")
			}
			if err != nil {
				slog.ErrorContext(c.Request().Context(), "load current user", "user_id", claims.UserID, "err", err)
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
			}
			claims.Role = user.Role
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireStaff 須在 RequireAuth 之後
func RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return unauthorized(c, "invalid or missing token")
		}
		if !claims.IsStaff() {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "staff privileges required"})
		}
		return next(c)
	}
}

// RequireAdmin 須在 RequireAuth 之後
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := Claims(c)
		if !ok {
			return unauthorized(c, "invalid or missing token")
		}
		if !claims.IsAdmin() {
			return c.JSON(http.StatusForbidden, api.ErrorResponse{Error: "admin privileges required"})
		}
		return next(c)
	}
}

// Claims 取出 RequireAuth 放入的 claims
func Claims(c echo.Context) (*service.CustomClaims, bool) {
	claims, ok := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims, ok && claims != nil
}
