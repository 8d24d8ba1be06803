package api

import (
	"time"

	"rental-market/internal/model"
)

// CreateRentalRequest 不接受 user；請求中的 user 不論型別皆忽略，租借者一律為登入者
// swagger:model api.CreateRentalRequest
type CreateRentalRequest struct {
	Product int `json:"product" form:"product" validate:"required,gt=0" example:"3"`
}

// swagger:model api.UpdateRentalStatusRequest
type UpdateRentalStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=pending approved returned" example:"approved"`
}

// swagger:model api.RentalResponse
type RentalResponse struct {
	ID        int       `json:"id" example:"1"`
	User      int       `json:"user" example:"2"`
	Product   int       `json:"product" example:"3"`
	Status    string    `json:"status" example:"pending"`
	StartDate time.Time `json:"start_date"`
}

func NewRentalResponse(r *model.Rental) RentalResponse {
	return RentalResponse{
		ID:        r.ID,
		User:      r.UserID,
		Product:   r.ProductID,
		Status:    string(r.Status),
		StartDate: r.StartDate,
	}
}

// swagger:model api.DailyCountResponse
type DailyCountResponse struct {
	Day   string `json:"day" example:"2026-10-03"`
	Count int    `json:"count" example:"2"`
}

func NewDailyCounts(rows []model.DailyCount) []DailyCountResponse {
	resp := make([]DailyCountResponse, len(rows))
	for i, r := range rows {
		resp[i] = DailyCountResponse{Day: r.Day.Format(time.DateOnly), Count: r.Count}
	}
	return resp
}
