package api

import (
	"strings"
	"time"

	"rental-market/internal/model"
)

// swagger:model api.CategoryRequest
type CategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=100" example:"Tools"`
	Description string `json:"description" form:"description" example:"Hand and power tools"`
}

// Normalize 去除前後空白，全空白視為空值
func (r *CategoryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

// swagger:model api.CategoryResponse
type CategoryResponse struct {
	ID          int    `json:"id" example:"1"`
	Name        string `json:"name" example:"Tools"`
	Description string `json:"description" example:"Hand and power tools"`
}

func NewCategoryResponse(c *model.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description}
}

// ProductRequest 建立與更新共用；IsAvailable 未給時為 true，Owner 未給時為呼叫者
// swagger:model api.ProductRequest
type ProductRequest struct {
	Name        string `json:"name" form:"name" validate:"required,min=3,max=100" example:"Cordless drill"`
	Description string `json:"description" form:"description" validate:"required" example:"18V, two batteries"`
	Category    int    `json:"category" form:"category" validate:"required,gt=0" example:"1"`
	IsAvailable *bool  `json:"is_available" form:"is_available" example:"true"`
	Owner       *int   `json:"owner" form:"owner" validate:"omitempty,gt=0" example:"2"`
}

// Normalize 去除前後空白，讓 min 與 required 只計算實際內容
func (r *ProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
}

// swagger:model api.ProductResponse
type ProductResponse struct {
	ID          int       `json:"id" example:"1"`
	Name        string    `json:"name" example:"Cordless drill"`
	Description string    `json:"description" example:"18V, two batteries"`
	Category    int       `json:"category" example:"1"`
	IsAvailable bool      `json:"is_available" example:"true"`
	DateAdded   time.Time `json:"date_added"`
	Owner       int       `json:"owner" example:"2"`
}

func NewProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.CategoryID,
		IsAvailable: p.IsAvailable,
		DateAdded:   p.DateAdded,
		Owner:       p.OwnerID,
	}
}

func NewProductList(ps []model.Product) []ProductResponse {
	resp := make([]ProductResponse, len(ps))
	for i := range ps {
		resp[i] = NewProductResponse(&ps[i])
	}
	return resp
}
