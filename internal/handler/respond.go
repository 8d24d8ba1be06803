package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"rental-market/internal/api"
	"rental-market/internal/validation"

	"github.com/labstack/echo/v4"
)

// Error 寫出錯誤訊息
func Error(c echo.Context, status int, msg string) error {
	return c.JSON(status, api.ErrorResponse{Error: msg})
}

// FieldError 單一欄位的驗證錯誤
func FieldError(c echo.Context, field, msg string) error {
	return c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:  "validation failed",
		Fields: map[string]string{field: msg},
	})
}

// Internal 記錄錯誤並回傳不含細節的 500
func Internal(c echo.Context, op string, err error) error {
	slog.ErrorContext(c.Request().Context(), op, "err", err,
		"req_id", c.Response().Header().Get(echo.HeaderXRequestID))
	return Error(c, http.StatusInternalServerError, "internal server error")
}

// normalizer 在驗證前整理輸入，例如去除前後空白
type normalizer interface {
	Normalize()
}

// BindAndValidate 綁定、整理並驗證請求；失敗時已寫出 400，ok 為 false
func BindAndValidate(c echo.Context, req any) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, Error(c, http.StatusBadRequest, "invalid request body")
	}
	if n, isNormalizer := req.(normalizer); isNormalizer {
		n.Normalize()
	}
	if err := c.Validate(req); err != nil {
		resp := api.ErrorResponse{Error: "validation failed", Fields: validation.FieldErrors(err)}
		if resp.Fields == nil {
			resp.Error = err.Error()
		}
		return false, c.JSON(http.StatusBadRequest, resp)
	}
	return true, nil
}

// ParamID 解析正整數路徑參數；失敗時已寫出 400
func ParamID(c echo.Context, name string) (id int, ok bool, err error) {
	id, convErr := strconv.Atoi(c.Param(name))
	if convErr != nil || id <= 0 {
		return 0, false, Error(c, http.StatusBadRequest, "invalid "+name)
	}
	return id, true, nil
}
