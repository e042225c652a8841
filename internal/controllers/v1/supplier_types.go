package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/plantstock/backend/internal/models"
)

type SupplierEditable struct {
	Name  string `json:"name" example:"Acme Metals" default:""`                 // Name of the supplier. Must be set on creation.
	Email string `json:"email" example:"orders@acme-metals.example" default:""`    // Contact email address
	Phone string `json:"phone" example:"+49 40 123456" default:""`                 // Contact phone number
	Note  string `json:"note" example:"Net 30 payment terms" default:""`           // A note
}

// model returns the database resource for the API representation of the editable fields
func (editable SupplierEditable) model() models.Supplier {
	return models.Supplier{
		Name:  editable.Name,
		Email: editable.Email,
		Phone: editable.Phone,
		Note:  editable.Note,
	}
}

type SupplierLinks struct {
	Self           string `json:"self" example:"https://example.com/api/v1/suppliers/7e7f2f54-c14c-4a4d-bd51-6c9f0e8f3b27"`                          // The supplier itself
	PurchaseOrders string `json:"purchaseOrders" example:"https://example.com/api/v1/orders?supplier=7e7f2f54-c14c-4a4d-bd51-6c9f0e8f3b27"` // Purchase orders for this supplier
}

// Supplier is the API representation of a supplier.
type Supplier struct {
	models.DefaultModel
	SupplierEditable
	Links SupplierLinks `json:"links"`
}

// newSupplier returns the API representation of the resource
func newSupplier(c *gin.Context, model models.Supplier) Supplier {
	url := c.GetString(string(models.DBContextURL))

	return Supplier{
		DefaultModel: model.DefaultModel,
		SupplierEditable: SupplierEditable{
			Name:  model.Name,
			Email: model.Email,
			Phone: model.Phone,
			Note:  model.Note,
		},
		Links: SupplierLinks{
			Self:           fmt.Sprintf("%s/v1/suppliers/%s", url, model.ID),
			PurchaseOrders: fmt.Sprintf("%s/v1/orders?supplier=%s", url, model.ID),
		},
	}
}

type SupplierListResponse struct {
	Pagination
	Data  []Supplier `json:"data"`                                                          // List of suppliers
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SupplierCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []SupplierResponse `json:"data"`                                                          // List of created suppliers
}

func (s *SupplierCreateResponse) appendError(err error, currentStatus int) int {
	e := err.Error()
	s.Data = append(s.Data, SupplierResponse{Error: &e})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type SupplierResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this supplier
	Data  *Supplier `json:"data"`                                                          // The supplier data, if the request was successful
}

type SupplierQueryFilter struct {
	Name   string `form:"name" filterField:"false"`   // Filter by name
	Note   string `form:"note" filterField:"false"`   // Filter by note
	Search string `form:"search" filterField:"false"` // Search in name and note
	Page   int    `form:"page" filterField:"false"`   // The page to return. Defaults to 1.
	Limit  int    `form:"limit" filterField:"false"`  // Maximum number of suppliers per page. Defaults to 10.
}
