package router

import (
	"rental-market/internal/cache"
	"rental-market/internal/database"
	"rental-market/internal/handler"
	"rental-market/internal/handler/auth"
	"rental-market/internal/handler/categories"
	"rental-market/internal/handler/products"
	"rental-market/internal/handler/rentals"
	"rental-market/internal/handler/users"
	"rental-market/internal/middleware"
	"rental-market/internal/service"
	"rental-market/internal/worker"

	"github.com/labstack/echo/v4"
)

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, db database.DB, cch cache.Cache, tokens *service.Tokens, reports *service.Reports, pool worker.Pool) {
	api := e.Group("/api")
	authed := middleware.RequireAuth(tokens, db)

	// 公開
	api.POST("/register", auth.RegisterHandler(db))
	api.POST("/auth/login", auth.LoginHandler(db, tokens))
	api.POST("/auth/refresh", auth.RefreshHandler(db, tokens))

	// 健康檢查（需登入）
	api.GET("/ping", handler.PingHandler(db, cch), authed)

	apiUsers := api.Group("/users", authed)
	apiUsers.GET("/me", users.GetMeHandler(db))
	apiUsers.GET("/:id", users.GetUserHandler(db), middleware.RequireAdmin)
	apiUsers.PUT("/:id/role", users.UpdateRoleHandler(db), middleware.RequireAdmin)

	apiCategories := api.Group("/categories", authed)
	apiCategories.GET("", categories.ListHandler(db))
	apiCategories.POST("", categories.CreateHandler(db), middleware.RequireStaff)
	apiCategories.GET("/:id/products", categories.ProductsHandler(db))

	apiProducts := api.Group("/products", authed)
	apiProducts.GET("", products.ListHandler(db))
	apiProducts.POST("", products.CreateHandler(db), middleware.RequireStaff)
	apiProducts.GET("/search/:query", products.SearchHandler(db))
	apiProducts.DELETE("/delete/:id", products.ForceDeleteHandler(db), middleware.RequireAdmin)
	apiProducts.GET("/:id", products.GetHandler(db))
	apiProducts.PUT("/:id", products.UpdateHandler(db), middleware.RequireStaff)
	apiProducts.DELETE("/:id", products.DeleteHandler(db), middleware.RequireStaff)

	apiRentals := api.Group("/rentals", authed)
	apiRentals.GET("", rentals.ListHandler(db))
	apiRentals.POST("", rentals.CreateHandler(db, reports, pool))
	apiRentals.GET("/report/monthly", rentals.MonthlyReportHandler(reports), middleware.RequireAdmin)
	apiRentals.GET("/:id", rentals.GetHandler(db))
	apiRentals.PATCH("/:id/status", rentals.UpdateStatusHandler(db, reports, pool), middleware.RequireAdmin)
}
