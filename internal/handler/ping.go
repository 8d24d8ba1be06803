package handler

import (
	"net/http"
	"time"

	"rental-market/internal/api"
	"rental-market/internal/cache"
	"rental-market/internal/database"

	"github.com/labstack/echo/v4"
)

// PingHandler 健康檢查（需通過認證）
// @Summary     Health Check
// @Description 回傳 pong，並檢查資料庫與快取是否正常
// @Tags        health
// @Produce     json
// @Success     200 {object} api.MessageResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /ping [get]
func PingHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			return Error(c, http.StatusInternalServerError, "database unhealthy")
		}
		if err := cch.Set(ctx, "ping", "pong", time.Minute).Err(); err != nil {
			return Error(c, http.StatusInternalServerError, "cache unhealthy")
		}
		return c.JSON(http.StatusOK, api.MessageResponse{Message: "pong"})
	}
}
