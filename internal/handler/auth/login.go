package auth

import (
	"errors"
	"net/http"

	"rental-market/internal/api"
	"rental-market/internal/database"
	"rental-market/internal/handler"
	"rental-market/internal/model"
	"rental-market/internal/service"
	"rental-market/internal/store"

	"github.com/labstack/echo/v4"
)

func issueTokens(c echo.Context, tokens *service.Tokens, user *model.User, withRefresh bool) error {
	access, err := tokens.IssueAccessToken(*user)
	if err != nil {
		return handler.Internal(c, "issue access token", err)
	}
	resp := api.TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(tokens.AccessTTL().Seconds()),
	}
	if withRefresh {
		refresh, err := tokens.IssueRefreshToken(c.Request().Context(), user.ID)
		if err != nil {
			return handler.Internal(c, "issue refresh token", err)
		}
		resp.RefreshToken = refresh
	}
	return c.JSON(http.StatusOK, resp)
}

// LoginHandler 使用 Username/Password 驗證並回傳 JWT 與 refresh token
// @Summary     登入使用者
// @Description 使用 Username 與 Password 進行驗證，回傳存取令牌與到期時間
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.LoginRequest true "登入資料"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, tokens *service.Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}

		ctx := c.Request().Context()
		user, err := getUserByUsername(ctx, db, req.Username)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		if err != nil {
			return handler.Internal(c, "load user", err)
		}
		if err := authenticateUser(ctx, *user, req.Password); err != nil {
			return handler.Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return issueTokens(c, tokens, user, true)
	}
}

// RefreshHandler 以 refresh token 換發新的 access token，角色取自資料庫
// @Summary     Refresh access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RefreshRequest true "refresh token"
// @Success     200  {object} api.TokenResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, tokens *service.Tokens) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}

		ctx := c.Request().Context()
		data, err := tokens.ValidateRefreshToken(ctx, req.RefreshToken)
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			return handler.Error(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err != nil {
			return handler.Internal(c, "validate refresh token", err)
		}

		user, err := getUserByID(ctx, db, data.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusUnauthorized, "invalid refresh token")
		}
		if err != nil {
			return handler.Internal(c, "load user", err)
		}
		return issueTokens(c, tokens, user, false)
	}
}
