package handler

import "github.com/coursebridge/backend/internal/interfaces/http/dto"

// APIResponse represents a generic API response for OpenAPI documentation
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// DuplicateData is the payload of a successful duplicate_admin_product call
// @Description Duplicated product
type DuplicateData struct {
	NewProductID int64 `json:"new_product_id" example:"1042"`
}

// ListData is the payload of a successful fetch_products_lists call
// @Description Rendered listing page
type ListData struct {
	ListingMarkup    string `json:"listing_markup"`
	PaginationMarkup string `json:"pagination_markup"`
	Page             int    `json:"page" example:"1"`
	TotalPages       int    `json:"total_pages" example:"3"`
}
