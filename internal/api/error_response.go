package api

// ErrorResponse 全域錯誤回應
// swagger:model api.ErrorResponse
type ErrorResponse struct {
	Error  string            `json:"error" example:"product not found"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse 簡單訊息回應
// swagger:model api.MessageResponse
type MessageResponse struct {
	Message string `json:"message" example:"pong"`
}
