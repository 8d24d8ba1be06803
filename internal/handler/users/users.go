package users

import (
	"errors"
	"net/http"

	"rental-market/internal/api"
	"rental-market/internal/database"
	"rental-market/internal/handler"
	"rental-market/internal/middleware"
	"rental-market/internal/model"
	"rental-market/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByID = store.GetUserByID
	updateUser  = store.UpdateUser
)

// GetMeHandler 取得當前使用者資訊
// @Summary     Get current user info
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return handler.Error(c, http.StatusUnauthorized, "invalid or missing token")
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusUnauthorized, "user no longer exists")
		}
		if err != nil {
			return handler.Internal(c, "load current user", err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// GetUserHandler 管理員依 ID 查詢使用者
// @Summary     Get a user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     int true "使用者 ID"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		user, err := getUserByID(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "user not found")
		}
		if err != nil {
			return handler.Internal(c, "load user", err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// UpdateRoleHandler 變更使用者角色，is_staff 隨之重算
// @Summary     Update a user's role
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     int                   true "使用者 ID"
// @Param       body body     api.UpdateRoleRequest true "新角色"
// @Success     200  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /users/{id}/role [put]
func UpdateRoleHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		var req api.UpdateRoleRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}
		role := model.Role(req.Role)
		if !role.Valid() {
			return handler.FieldError(c, "role", "must be one of: admin user")
		}

		ctx := c.Request().Context()
		user, err := getUserByID(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "user not found")
		}
		if err != nil {
			return handler.Internal(c, "load user", err)
		}

		user.SetRole(role)
		if err := updateUser(ctx, db, user); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return handler.Error(c, http.StatusNotFound, "user not found")
			}
			return handler.Internal(c, "update user", err)
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}
