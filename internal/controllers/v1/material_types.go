package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/models"
	"github.com/shopspring/decimal"
)

type MaterialEditable struct {
	Name         string          `json:"name" example:"Steel rods 8mm" default:""`                    // Name of the material. Must be unique and set on creation.
	Note         string          `json:"note" example:"Supplied in bundles of 50" default:""`         // A note
	Unit         string          `json:"unit" example:"kg" default:""`                                // Unit the stock is counted in
	UnitPrice    decimal.Decimal `json:"unitPrice" example:"12.50" default:"0"`                       // Price per unit
	CurrentStock int             `json:"currentStock" example:"400" default:"0"`                      // Stock currently available for allocation
}

// model returns the database resource for the API representation of the editable fields
func (editable MaterialEditable) model() models.Material {
	return models.Material{
		Name:         editable.Name,
		Note:         editable.Note,
		Unit:         editable.Unit,
		UnitPrice:    editable.UnitPrice,
		CurrentStock: editable.CurrentStock,
	}
}

type MaterialLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/materials/491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"`                    // The material itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations/material/491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"` // Allocations of this material
	History     string `json:"history" example:"https://example.com/api/v1/materials/491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f/history"`        // Stock history of this material
}

// Material is the API representation of a material.
type Material struct {
	models.DefaultModel
	MaterialEditable
	Links MaterialLinks `json:"links"`
}

// newMaterial returns the API representation of the resource
func newMaterial(c *gin.Context, model models.Material) Material {
	url := c.GetString(string(models.DBContextURL))

	return Material{
		DefaultModel: model.DefaultModel,
		MaterialEditable: MaterialEditable{
			Name:         model.Name,
			Note:         model.Note,
			Unit:         model.Unit,
			UnitPrice:    model.UnitPrice,
			CurrentStock: model.CurrentStock,
		},
		Links: MaterialLinks{
			Self:        fmt.Sprintf("%s/v1/materials/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations/material/%s", url, model.ID),
			History:     fmt.Sprintf("%s/v1/materials/%s/history", url, model.ID),
		},
	}
}

// MaterialHistoryEntry is the API representation of one stock change of a material.
type MaterialHistoryEntry struct {
	Date        time.Time `json:"date" example:"2024-03-12T09:20:00Z"`                      // When the stock changed
	Description string    `json:"description" example:"Allocated 50 units to 2 machines"`   // What happened
	ChangedBy   uuid.UUID `json:"changedBy" example:"d7ee7734-1d2f-4a29-8b8d-6bf272cbc46b"` // Who made the change. Can be empty.
}

// newMaterialHistoryEntry returns the API representation of the resource
func newMaterialHistoryEntry(model models.MaterialHistoryEntry) MaterialHistoryEntry {
	changedBy := uuid.Nil
	if model.ChangedBy != nil {
		changedBy = *model.ChangedBy
	}

	return MaterialHistoryEntry{
		Date:        model.Date,
		Description: model.Description,
		ChangedBy:   changedBy,
	}
}

type MaterialHistoryResponse struct {
	Error *string                `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []MaterialHistoryEntry `json:"data"`                                                          // Stock history, oldest entry first
}

type MaterialListResponse struct {
	Pagination
	Data  []Material `json:"data"`                                                          // List of materials
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MaterialCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []MaterialResponse `json:"data"`                                                          // List of created materials
}

func (m *MaterialCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MaterialResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MaterialResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this material
	Data  *Material `json:"data"`                                                          // The material data, if the request was successful
}

type MaterialQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Filter by name
	Note   string `form:"note" filterField:"false"`   // Filter by note
	Search string `form:"search" filterField:"false"` // Search in name and note
	Unit   string `form:"unit" filterField:"false"`   // Filter by unit
	Page   int    `form:"page" filterField:"false"`   // The page to return. Defaults to 1.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of materials per page. Defaults to 10.
}
