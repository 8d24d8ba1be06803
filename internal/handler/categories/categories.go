package categories

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
	listCategories       = store.ListCategories
	createCategory       = store.CreateCategory
	getCategoryByID      = store.GetCategoryByID
	listCategoryProducts = store.ListCategoryProducts
)

// ListHandler 列出所有分類
// @Summary     List categories
// @Tags        categories
// @Produce     json
// @Success     200 {array} api.CategoryResponse
// @Security    ApiKeyAuth
// @Router      /categories [get]
func ListHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		cs, err := listCategories(c.Request().Context(), db)
		if err != nil {
			return handler.Internal(c, "list categories", err)
		}
		resp := make([]api.CategoryResponse, len(cs))
		for i := range cs {
			resp[i] = api.NewCategoryResponse(&cs[i])
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// CreateHandler 建立分類（僅 staff）
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       body body     api.CategoryRequest true "分類資料"
// @Success     201  {object} api.CategoryResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /categories [post]
func CreateHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CategoryRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}
		cat := &model.Category{Name: req.Name, Description: req.Description}
		if err := createCategory(c.Request().Context(), db, cat); err != nil {
			return handler.Internal(c, "create category", err)
		}
		return c.JSON(http.StatusCreated, api.NewCategoryResponse(cat))
	}
}

// ProductsHandler 列出分類內可見且可租借的商品
// @Summary     List products in a category
// @Tags        categories
// @Produce     json
// @Param       id  path     int true "分類 ID"
// @Success     200 {array}  api.ProductResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /categories/{id}/products [get]
func ProductsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return handler.Error(c, http.StatusUnauthorized, "invalid or missing token")
		}
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		ctx := c.Request().Context()
		if _, err := getCategoryByID(ctx, db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return handler.Error(c, http.StatusNotFound, "category not found")
			}
			return handler.Internal(c, "load category", err)
		}
		ps, err := listCategoryProducts(ctx, db, store.ScopeFor(claims.UserID, claims.Role), id)
		if err != nil {
			return handler.Internal(c, "list category products", err)
		}
		return c.JSON(http.StatusOK, api.NewProductList(ps))
	}
}
