package products

import (
	"errors"
	"net/http"

	"rental-market/internal/api"
	"rental-market/internal/database"
	"rental-market/internal/handler"
	"rental-market/internal/middleware"
	"rental-market/internal/model"
	"rental-market/internal/service"
	"rental-market/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listProducts    = store.ListProducts
	searchProducts  = store.SearchProducts
	getProduct      = store.GetProduct
	createProduct   = store.CreateProduct
	updateProduct   = store.UpdateProduct
	deleteProduct   = store.DeleteProduct
	getCategoryByID = store.GetCategoryByID
	getUserByID     = store.GetUserByID
)

func caller(c echo.Context) (*service.CustomClaims, bool, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, false, handler.Error(c, http.StatusUnauthorized, "invalid or missing token")
	}
	return claims, true, nil
}

// ListHandler 列出可見且可租借的商品，依名稱排序
// @Summary     List products
// @Description 管理員可見全部商品，一般使用者僅見自己擁有的商品
// @Tags        products
// @Produce     json
// @Success     200 {array}  api.ProductResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products [get]
func ListHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok, err := caller(c)
		if !ok {
			return err
		}
		ps, err := listProducts(c.Request().Context(), db, store.ScopeFor(claims.UserID, claims.Role))
		if err != nil {
			return handler.Internal(c, "list products", err)
		}
		return c.JSON(http.StatusOK, api.NewProductList(ps))
	}
}

// SearchHandler 名稱不分大小寫的子字串搜尋
// @Summary     Search products by name
// @Tags        products
// @Produce     json
// @Param       query path     string true "搜尋字串"
// @Success     200   {array}  api.ProductResponse
// @Failure     401   {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/search/{query} [get]
func SearchHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok, err := caller(c)
		if !ok {
			return err
		}
		ps, err := searchProducts(c.Request().Context(), db, store.ScopeFor(claims.UserID, claims.Role), c.Param("query"))
		if err != nil {
			return handler.Internal(c, "search products", err)
		}
		return c.JSON(http.StatusOK, api.NewProductList(ps))
	}
}

// GetHandler 取得單一商品；無權查看時與不存在相同回傳 404
// @Summary     Get a product
// @Tags        products
// @Produce     json
// @Param       id  path     int true "商品 ID"
// @Success     200 {object} api.ProductResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/{id} [get]
func GetHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok, err := caller(c)
		if !ok {
			return err
		}
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		p, err := getProduct(c.Request().Context(), db, store.ScopeFor(claims.UserID, claims.Role), id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "product not found")
		}
		if err != nil {
			return handler.Internal(c, "get product", err)
		}
		return c.JSON(http.StatusOK, api.NewProductResponse(p))
	}
}

// applyRequest 驗證參照並把請求寫入 p；失敗時已寫出回應，ok 為 false
func applyRequest(c echo.Context, db database.DB, claims *service.CustomClaims, req *api.ProductRequest, p *model.Product) (bool, error) {
	ctx := c.Request().Context()

	if _, err := getCategoryByID(ctx, db, req.Category); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, handler.FieldError(c, "category", "category does not exist")
		}
		return false, handler.Internal(c, "load category", err)
	}

	owner := claims.UserID
	if req.Owner != nil {
		owner = *req.Owner
	} else if p.OwnerID != 0 {
		owner = p.OwnerID
	}
	if owner != claims.UserID {
		if _, err := getUserByID(ctx, db, owner); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return false, handler.FieldError(c, "owner", "user does not exist")
			}
			return false, handler.Internal(c, "load owner", err)
		}
	}

	p.Name = req.Name
	p.Description = req.Description
	p.CategoryID = req.Category
	p.OwnerID = owner
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	return true, nil
}

// CreateHandler 建立商品（僅 staff）
// @Summary     Create a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       body body     api.ProductRequest true "商品資料"
// @Success     201  {object} api.ProductResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products [post]
func CreateHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok, err := caller(c)
		if !ok {
			return err
		}
		var req api.ProductRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}
		p := &model.Product{IsAvailable: true}
		if ok, err := applyRequest(c, db, claims, &req, p); !ok {
			return err
		}
		if err := createProduct(c.Request().Context(), db, p); err != nil {
			if errors.Is(err, store.ErrInvalidReference) {
				return handler.Error(c, http.StatusBadRequest, "category or owner does not exist")
			}
			return handler.Internal(c, "create product", err)
		}
		return c.JSON(http.StatusCreated, api.NewProductResponse(p))
	}
}

// UpdateHandler 更新商品（僅 staff）
// @Summary     Update a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id   path     int                true "商品 ID"
// @Param       body body     api.ProductRequest true "商品資料"
// @Success     200  {object} api.ProductResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/{id} [put]
func UpdateHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok, err := caller(c)
		if !ok {
			return err
		}
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		ctx := c.Request().Context()
		p, err := getProduct(ctx, db, store.ScopeFor(claims.UserID, claims.Role), id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "product not found")
		}
		if err != nil {
			return handler.Internal(c, "get product", err)
		}

		var req api.ProductRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}
		if ok, err := applyRequest(c, db, claims, &req, p); !ok {
			return err
		}
		if err := updateProduct(ctx, db, p); err != nil {
			switch {
			case errors.Is(err, store.ErrNotFound):
				return handler.Error(c, http.StatusNotFound, "product not found")
			case errors.Is(err, store.ErrInvalidReference):
				return handler.Error(c, http.StatusBadRequest, "category or owner does not exist")
			}
			return handler.Internal(c, "update product", err)
		}
		return c.JSON(http.StatusOK, api.NewProductResponse(p))
	}
}

func deleteByID(c echo.Context, db database.DB) error {
	id, ok, err := handler.ParamID(c, "id")
	if !ok {
		return err
	}
	if err := deleteProduct(c.Request().Context(), db, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "product not found")
		}
		return handler.Internal(c, "delete product", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteHandler 刪除商品（僅 staff）
// @Summary     Delete a product
// @Tags        products
// @Param       id path int true "商品 ID"
// @Success     204 "No Content"
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/{id} [delete]
func DeleteHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		return deleteByID(c, db)
	}
}

// ForceDeleteHandler 管理員強制刪除，不論擁有者
// @Summary     Force delete a product (admin)
// @Tags        products
// @Param       id path int true "商品 ID"
// @Success     204 "No Content"
// @Failure     403 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /products/delete/{id} [delete]
func ForceDeleteHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok, err := caller(c)
		if !ok {
			return err
		}
		if !claims.IsAdmin() {
			return handler.Error(c, http.StatusForbidden, "admin privileges required")
		}
		return deleteByID(c, db)
	}
}
