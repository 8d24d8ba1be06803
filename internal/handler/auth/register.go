package auth

import (
	"errors"
	"net/http"

	"rental-market/internal/api"
	"rental-market/internal/database"
	"rental-market/internal/handler"
	"rental-market/internal/model"
	"rental-market/internal/store"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 公開註冊，角色固定為 user
// @Summary     Register
// @Description 建立一般使用者帳號 (Email 會自動轉小寫)
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Router      /register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return handler.Internal(c, "hash password", err)
		}

		user := &model.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		}
		user.SetRole(model.RoleUser)

		created, err := createUser(c.Request().Context(), db, user)
		if errors.Is(err, store.ErrConflict) {
			return handler.FieldError(c, "username", "a user with that username already exists")
		}
		if err != nil {
			return handler.Internal(c, "create user", err)
		}
		return c.JSON(http.StatusCreated, api.NewUserResponse(created))
	}
}
