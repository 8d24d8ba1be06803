package rentals

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
	"rental-market/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	listRentalsByUser  = store.ListRentalsByUser
	getRentalForUser   = store.GetRentalForUser
	getRentalByID      = store.GetRentalByID
	createRental       = store.CreateRental
	updateRentalStatus = store.UpdateRentalStatus
	getProduct         = store.GetProduct
)

// ListHandler 僅列出呼叫者自己的租借，新到舊
// @Summary     List my rentals
// @Tags        rentals
// @Produce     json
// @Success     200 {array}  api.RentalResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /rentals [get]
func ListHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return handler.Error(c, http.StatusUnauthorized, "invalid or missing token")
		}
		rs, err := listRentalsByUser(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return handler.Internal(c, "list rentals", err)
		}
		resp := make([]api.RentalResponse, len(rs))
		for i := range rs {
			resp[i] = api.NewRentalResponse(&rs[i])
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// GetHandler 取得呼叫者自己的租借
// @Summary     Get one of my rentals
// @Tags        rentals
// @Produce     json
// @Param       id  path     int true "租借 ID"
// @Success     200 {object} api.RentalResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /rentals/{id} [get]
func GetHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return handler.Error(c, http.StatusUnauthorized, "invalid or missing token")
		}
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		r, err := getRentalForUser(c.Request().Context(), db, id, claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "rental not found")
		}
		if err != nil {
			return handler.Internal(c, "get rental", err)
		}
		return c.JSON(http.StatusOK, api.NewRentalResponse(r))
	}
}

// CreateHandler 建立租借；user 一律為呼叫者，請求中的 user 欄位忽略
// @Summary     Rent a product
// @Tags        rentals
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateRentalRequest true "租借資料"
// @Success     201  {object} api.RentalResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /rentals [post]
func CreateHandler(db database.DB, reports *service.Reports, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := middleware.Claims(c)
		if !ok {
			return handler.Error(c, http.StatusUnauthorized, "invalid or missing token")
		}
		var req api.CreateRentalRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}

		ctx := c.Request().Context()
		p, err := getProduct(ctx, db, store.ProductScope{All: true}, req.Product)
		if errors.Is(err, store.ErrNotFound) {
			return handler.FieldError(c, "product", "product does not exist")
		}
		if err != nil {
			return handler.Internal(c, "load product", err)
		}
		if !p.IsAvailable {
			return handler.FieldError(c, "product", "product is not available")
		}

		r := &model.Rental{UserID: claims.UserID, ProductID: p.ID}
		if err := createRental(ctx, db, r); err != nil {
			if errors.Is(err, store.ErrInvalidReference) {
				return handler.FieldError(c, "product", "product does not exist")
			}
			return handler.Internal(c, "create rental", err)
		}
		reports.InvalidateAsync(pool, r.StartDate)
		return c.JSON(http.StatusCreated, api.NewRentalResponse(r))
	}
}

// UpdateStatusHandler 管理員推進租借狀態：pending→approved→returned
// @Summary     Update rental status (admin)
// @Tags        rentals
// @Accept      json
// @Produce     json
// @Param       id   path     int                           true "租借 ID"
// @Param       body body     api.UpdateRentalStatusRequest true "新狀態"
// @Success     200  {object} api.RentalResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /rentals/{id}/status [patch]
func UpdateStatusHandler(db database.DB, reports *service.Reports, pool worker.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok, err := handler.ParamID(c, "id")
		if !ok {
			return err
		}
		var req api.UpdateRentalStatusRequest
		if ok, err := handler.BindAndValidate(c, &req); !ok {
			return err
		}
		next := model.RentalStatus(req.Status)

		ctx := c.Request().Context()
		r, err := getRentalByID(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return handler.Error(c, http.StatusNotFound, "rental not found")
		}
		if err != nil {
			return handler.Internal(c, "get rental", err)
		}
		if !r.Status.CanTransitionTo(next) {
			return handler.FieldError(c, "status", "cannot change status from "+string(r.Status)+" to "+string(next))
		}
		if err := updateRentalStatus(ctx, db, r, next); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return handler.FieldError(c, "status", "rental status changed concurrently, reload and retry")
			}
			return handler.Internal(c, "update rental status", err)
		}
		reports.InvalidateAsync(pool, r.StartDate)
		return c.JSON(http.StatusOK, api.NewRentalResponse(r))
	}
}

// MonthlyReportHandler 本月（含年份）每日租借數
// @Summary     Monthly rental report (admin)
// @Tags        rentals
// @Produce     json
// @Success     200 {array}  api.DailyCountResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /rentals/report/monthly [get]
func MonthlyReportHandler(reports *service.Reports) echo.HandlerFunc {
	return func(c echo.Context) error {
		rows, err := reports.Monthly(c.Request().Context())
		if err != nil {
			return handler.Internal(c, "monthly report", err)
		}
		return c.JSON(http.StatusOK, api.NewDailyCounts(rows))
	}
}
