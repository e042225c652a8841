package v1

import (
	ps_uuid "github.com/plantstock/backend/internal/uuid"
)

type URIID struct {
	ID ps_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// Pagination is embedded in every list response.
type Pagination struct {
	Total      int64 `json:"total" example:"831"`    // Total number of resources matching the filter
	Page       int   `json:"page" example:"1"`       // The current page, starting at 1
	Limit      int   `json:"limit" example:"10"`     // Maximum number of resources per page
	TotalPages int   `json:"totalPages" example:"84"` // Number of pages for the current limit
}

// newPagination calculates the pagination data for a list response.
func newPagination(total int64, page int, limit int) Pagination {
	totalPages := int(total) / limit
	if int(total)%limit != 0 {
		totalPages++
	}

	return Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// paginate sanitizes the page and limit query parameters and returns the
// resulting database offset. Defaults are page 1 and limit 10, the limit
// is capped at 100.
func paginate(page int, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}

	if limit < 1 {
		limit = 10
	}

	if limit > 100 {
		limit = 100
	}

	return page, limit, (page - 1) * limit
}
