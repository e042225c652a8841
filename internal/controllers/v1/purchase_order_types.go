package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/models"
	ps_uuid "github.com/plantstock/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrderLineEditable struct {
	MaterialID uuid.UUID       `json:"materialId" binding:"required" example:"491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"` // ID of the ordered material
	Quantity   int             `json:"quantity" binding:"required,min=1" example:"200" minimum:"1"`                  // Ordered quantity
	UnitPrice  decimal.Decimal `json:"unitPrice" example:"11.80" default:"0"`                                        // Negotiated price per unit
}

func (editable PurchaseOrderLineEditable) model() models.PurchaseOrderLine {
	return models.PurchaseOrderLine{
		MaterialID: editable.MaterialID,
		Quantity:   editable.Quantity,
		UnitPrice:  editable.UnitPrice,
	}
}

type PurchaseOrderEditable struct {
	SupplierID uuid.UUID                   `json:"supplierId" example:"7e7f2f54-c14c-4a4d-bd51-6c9f0e8f3b27"` // ID of the supplier. Must be set on creation.
	Status     models.OrderStatus          `json:"status" example:"DRAFT" default:"DRAFT"`                                       // One of DRAFT, ORDERED, RECEIVED, CANCELLED
	OrderDate  time.Time                   `json:"orderDate" example:"2024-03-01T00:00:00Z"`                                     // When the order was placed. Defaults to now.
	Note       string                      `json:"note" example:"Call before delivery" default:""`                               // A note
	Lines      []PurchaseOrderLineEditable `json:"lines"`                                                                        // Ordered materials
}

// model returns the database resource for the API representation of the editable fields
func (editable PurchaseOrderEditable) model() models.PurchaseOrder {
	lines := make([]models.PurchaseOrderLine, 0, len(editable.Lines))
	for _, line := range editable.Lines {
		lines = append(lines, line.model())
	}

	return models.PurchaseOrder{
		SupplierID: editable.SupplierID,
		Status:     editable.Status,
		OrderDate:  editable.OrderDate,
		Note:       editable.Note,
		Lines:      lines,
	}
}

// PurchaseOrderLine is the API representation of one line of a purchase order.
type PurchaseOrderLine struct {
	models.DefaultModel
	MaterialID uuid.UUID       `json:"materialId" example:"491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"` // ID of the ordered material
	Quantity   int             `json:"quantity" example:"200"`                                    // Ordered quantity
	UnitPrice  decimal.Decimal `json:"unitPrice" example:"11.80"`                                 // Negotiated price per unit
}

func newPurchaseOrderLine(model models.PurchaseOrderLine) PurchaseOrderLine {
	return PurchaseOrderLine{
		DefaultModel: model.DefaultModel,
		MaterialID:   model.MaterialID,
		Quantity:     model.Quantity,
		UnitPrice:    model.UnitPrice,
	}
}

type PurchaseOrderLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/orders/5c1dd4c5-0f3a-4b78-8a27-a9bf29a6b10e"`       // The order itself
	Supplier string `json:"supplier" example:"https://example.com/api/v1/suppliers/7e7f2f54-c14c-4a4d-bd51-6c9f0e8f3b27"` // The supplier of the order
}

// PurchaseOrder is the API representation of a purchase order.
type PurchaseOrder struct {
	models.DefaultModel
	SupplierID uuid.UUID           `json:"supplierId" example:"7e7f2f54-c14c-4a4d-bd51-6c9f0e8f3b27"` // ID of the supplier
	Status     models.OrderStatus  `json:"status" example:"ORDERED"`                                  // Status of the order
	OrderDate  time.Time           `json:"orderDate" example:"2024-03-01T00:00:00Z"`                  // When the order was placed
	Note       string              `json:"note" example:"Call before delivery"`                       // A note
	Lines      []PurchaseOrderLine `json:"lines"`                                                     // Ordered materials
	Links      PurchaseOrderLinks  `json:"links"`
}

// newPurchaseOrder returns the API representation of the resource
func newPurchaseOrder(c *gin.Context, model models.PurchaseOrder) PurchaseOrder {
	url := c.GetString(string(models.DBContextURL))

	lines := make([]PurchaseOrderLine, 0, len(model.Lines))
	for _, line := range model.Lines {
		lines = append(lines, newPurchaseOrderLine(line))
	}

	return PurchaseOrder{
		DefaultModel: model.DefaultModel,
		SupplierID:   model.SupplierID,
		Status:       model.Status,
		OrderDate:    model.OrderDate,
		Note:         model.Note,
		Lines:        lines,
		Links: PurchaseOrderLinks{
			Self:     fmt.Sprintf("%s/v1/orders/%s", url, model.ID),
			Supplier: fmt.Sprintf("%s/v1/suppliers/%s", url, model.SupplierID),
		},
	}
}

type PurchaseOrderListResponse struct {
	Pagination
	Data  []PurchaseOrder `json:"data"`                                                          // List of purchase orders
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PurchaseOrderCreateResponse struct {
	Error *string                 `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []PurchaseOrderResponse `json:"data"`                                                          // List of created purchase orders
}

func (p *PurchaseOrderCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	p.Data = append(p.Data, PurchaseOrderResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PurchaseOrderResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this purchase order
	Data  *PurchaseOrder `json:"data"`                                                          // The purchase order data, if the request was successful
}

type PurchaseOrderQueryFilter struct {
	Supplier ps_uuid.UUID       `form:"supplier" filterField:"false"` // Filter by supplier ID
	Status   models.OrderStatus `form:"status" filterField:"false"`   // Filter by status
	Note     string             `form:"note" filterField:"false"`     // Filter by note
	Search   string             `form:"search" filterField:"false"`   // Search in note
	Page     int                `form:"page" filterField:"false"`     // The page to return. Defaults to 1.
	Limit    int                `form:"limit" filterField:"false"`    // Maximum number of purchase orders per page. Defaults to 10.
}
