package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/models"
)

type FactoryEditable struct {
	Name     string `json:"name" example:"Plant North" default:""`          // Name of the factory. Must be set on creation.
	Location string `json:"location" example:"Hamburg" default:""`                    // Where the factory is located
	Note     string `json:"note" example:"Main production site" default:""`           // A note
}

// model returns the database resource for the API representation of the editable fields
func (editable FactoryEditable) model() models.Factory {
	return models.Factory{
		Name:     editable.Name,
		Location: editable.Location,
		Note:     editable.Note,
	}
}

type FactoryLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/factories/d430d7c3-d14c-4712-9336-ee56965a6673"`                // The factory itself
	Machines    string `json:"machines" example:"https://example.com/api/v1/machines?factory=d430d7c3-d14c-4712-9336-ee56965a6673"`     // Machines in this factory
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations/factory/d430d7c3-d14c-4712-9336-ee56965a6673"` // Allocations scoped to this factory
}

// Factory is the API representation of a factory.
type Factory struct {
	models.DefaultModel
	FactoryEditable
	Links FactoryLinks `json:"links"`
}

// newFactory returns the API representation of the resource
func newFactory(c *gin.Context, model models.Factory) Factory {
	url := c.GetString(string(models.DBContextURL))

	return Factory{
		DefaultModel: model.DefaultModel,
		FactoryEditable: FactoryEditable{
			Name:     model.Name,
			Location: model.Location,
			Note:     model.Note,
		},
		Links: FactoryLinks{
			Self:        fmt.Sprintf("%s/v1/factories/%s", url, model.ID),
			Machines:    fmt.Sprintf("%s/v1/machines?factory=%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations/factory/%s", url, model.ID),
		},
	}
}

type FactoryListResponse struct {
	Pagination
	Data  []Factory `json:"data"`                                                          // List of factories
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type FactoryCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []FactoryResponse `json:"data"`                                                          // List of created factories
}

func (f *FactoryCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	f.Data = append(f.Data, FactoryResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type FactoryResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this factory
	Data  *Factory `json:"data"`                                                          // The factory data, if the request was successful
}

type FactoryQueryFilter struct {
	Name     string `form:"name" filterField:"false"`     // Filter by name
	Location string `form:"location" filterField:"false"` // Filter by location
	Search   string `form:"search" filterField:"false"`   // Search in name and note
	Page     int    `form:"page" filterField:"false"`     // The page to return. Defaults to 1.
	Limit    int    `form:"limit" filterField:"false"`    // Maximum number of factories per page. Defaults to 10.
}
