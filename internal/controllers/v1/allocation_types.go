package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/models"
	ps_uuid "github.com/plantstock/backend/internal/uuid"
)

// AllocationRequestItem is one (machine, quantity) pair of an allocation request.
type AllocationRequestItem struct {
	MachineID      uuid.UUID `json:"machineId" binding:"required" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // ID of the machine to allocate to
	AllocatedStock int       `json:"allocatedStock" binding:"required,min=1" example:"50" minimum:"1"`            // Quantity to allocate. Replaces an existing allocation for the pair.
}

// AllocationRequest is the body for allocating stock of one material.
type AllocationRequest struct {
	MaterialID  uuid.UUID               `json:"materialId" binding:"required" example:"491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"` // ID of the material to allocate
	Allocations []AllocationRequestItem `json:"allocations" binding:"required"`                                               // Machines and quantities
	UserID      uuid.UUID               `json:"userId" example:"d7ee7734-1d2f-4a29-8b8d-6bf272cbc46b"`                        // Who performs the allocation. Optional.
	FactoryID   uuid.UUID               `json:"factoryId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`                     // Factory scope. When set, all machines must belong to it.
}

// items converts the request body into engine input.
func (r AllocationRequest) items() []models.AllocationItem {
	items := make([]models.AllocationItem, 0, len(r.Allocations))
	for _, item := range r.Allocations {
		items = append(items, models.AllocationItem{
			MachineID: item.MachineID,
			Quantity:  item.AllocatedStock,
		})
	}

	return items
}

// AllocationUpdateRequest is the body for setting an allocation to a new quantity.
type AllocationUpdateRequest struct {
	AllocatedStock int       `json:"allocatedStock" binding:"required,min=1" example:"30" minimum:"1"` // The new quantity
	UserID         uuid.UUID `json:"userId" example:"d7ee7734-1d2f-4a29-8b8d-6bf272cbc46b"`            // Who performs the update. Optional.
	Comment        string    `json:"comment" example:"Rebalanced after maintenance" default:""`        // Comment for the history entry
	FactoryID      uuid.UUID `json:"factoryId" example:"d430d7c3-d14c-4712-9336-ee56965a6673"`         // Factory scope. When set, the allocation's machine must belong to it.
}

// AllocationHistoryEntry is the API representation of one change of an allocation.
type AllocationHistoryEntry struct {
	PreviousStock int       `json:"previousStock" example:"20"`                               // Allocated stock before the change
	NewStock      int       `json:"newStock" example:"50"`                                    // Allocated stock after the change
	Date          time.Time `json:"date" example:"2024-03-12T09:20:00Z"`                      // When the change happened
	Comment       string    `json:"comment" example:"Stock updated to 50"`                    // Comment for the change
	ChangedBy     uuid.UUID `json:"changedBy" example:"d7ee7734-1d2f-4a29-8b8d-6bf272cbc46b"` // Who made the change. Can be empty.
}

func newAllocationHistoryEntry(model models.AllocationHistoryEntry) AllocationHistoryEntry {
	changedBy := uuid.Nil
	if model.ChangedBy != nil {
		changedBy = *model.ChangedBy
	}

	return AllocationHistoryEntry{
		PreviousStock: model.PreviousStock,
		NewStock:      model.NewStock,
		Date:          model.Date,
		Comment:       model.Comment,
		ChangedBy:     changedBy,
	}
}

// AllocationMaterial is the material summary embedded in allocation responses.
type AllocationMaterial struct {
	ID           uuid.UUID `json:"id" example:"491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"` // ID of the material
	Name         string    `json:"name" example:"Steel rods 8mm"`                     // Name of the material
	Unit         string    `json:"unit" example:"kg"`                                 // Unit the stock is counted in
	CurrentStock int       `json:"currentStock" example:"400"`                        // Stock currently available for allocation
}

// AllocationMachine is the machine summary embedded in allocation responses.
type AllocationMachine struct {
	ID   uuid.UUID `json:"id" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"` // ID of the machine
	Name string    `json:"name" example:"CNC Mill 3"`                         // Name of the machine
}

type AllocationLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/allocations/036b21cc-f222-44ab-a1a7-354a2f40d102"`       // The allocation itself
	Material string `json:"material" example:"https://example.com/api/v1/materials/491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"`     // The allocated material
	Machine  string `json:"machine" example:"https://example.com/api/v1/machines/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`       // The machine the stock is allocated to
}

// Allocation is the API representation of an allocation.
type Allocation struct {
	models.DefaultModel
	MaterialID     uuid.UUID                `json:"materialId" example:"491a2a9b-e85a-4ea9-9b0d-b4bba42eda8f"` // ID of the allocated material
	MachineID      uuid.UUID                `json:"machineId" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`  // ID of the machine the stock is allocated to
	AllocatedStock int                      `json:"allocatedStock" example:"50"`                               // Currently allocated quantity
	Material       *AllocationMaterial      `json:"material,omitempty"`                                        // Material summary, when loaded
	Machine        *AllocationMachine       `json:"machine,omitempty"`                                         // Machine summary, when loaded
	History        []AllocationHistoryEntry `json:"history,omitempty"`                                         // Change log, oldest entry first, when loaded
	Links          AllocationLinks          `json:"links"`
}

// newAllocation returns the API representation of the resource. Material,
// machine and history are only set when they were preloaded.
func newAllocation(c *gin.Context, model models.Allocation) Allocation {
	url := c.GetString(string(models.DBContextURL))

	allocation := Allocation{
		DefaultModel:   model.DefaultModel,
		MaterialID:     model.MaterialID,
		MachineID:      model.MachineID,
		AllocatedStock: model.AllocatedStock,
		Links: AllocationLinks{
			Self:     fmt.Sprintf("%s/v1/allocations/%s", url, model.ID),
			Material: fmt.Sprintf("%s/v1/materials/%s", url, model.MaterialID),
			Machine:  fmt.Sprintf("%s/v1/machines/%s", url, model.MachineID),
		},
	}

	if model.Material.ID != uuid.Nil {
		allocation.Material = &AllocationMaterial{
			ID:           model.Material.ID,
			Name:         model.Material.Name,
			Unit:         model.Material.Unit,
			CurrentStock: model.Material.CurrentStock,
		}
	}

	if model.Machine.ID != uuid.Nil {
		allocation.Machine = &AllocationMachine{
			ID:   model.Machine.ID,
			Name: model.Machine.Name,
		}
	}

	if len(model.History) > 0 {
		history := make([]AllocationHistoryEntry, 0, len(model.History))
		for _, entry := range model.History {
			history = append(history, newAllocationHistoryEntry(entry))
		}
		allocation.History = history
	}

	return allocation
}

// AllocateResponse is returned after allocating stock.
type AllocateResponse struct {
	Message      string `json:"message" example:"Stock allocated successfully"` // Result of the allocation
	UpdatedStock int    `json:"updatedStock" example:"350"`                     // The material's stock after the allocation
}

// AllocationUpdateResponse is returned after updating an allocation.
type AllocationUpdateResponse struct {
	Message              string     `json:"message" example:"Allocation updated successfully"` // Result of the update
	Allocation           Allocation `json:"allocation"`                                        // The updated allocation
	UpdatedMaterialStock int        `json:"updatedMaterialStock" example:"370"`                // The material's stock after the update
}

// AllocationDeleteResponse is returned after deleting an allocation.
type AllocationDeleteResponse struct {
	Message string `json:"message" example:"Allocation deleted and stock returned"` // Result of the deletion
}

type AllocationListResponse struct {
	Pagination
	Data  []Allocation `json:"data"`                                                          // List of allocations
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AllocationQueryFilter struct {
	Factory ps_uuid.UUID `form:"factory"` // Filter by factory ID
	Page    int          `form:"page"`    // The page to return. Defaults to 1.
	Limit   int          `form:"limit"`   // Maximum number of allocations per page. Defaults to 10.
}

// filter converts the query parameters into the repository filter.
func (f AllocationQueryFilter) filter() models.AllocationFilter {
	var factoryID *uuid.UUID
	if f.Factory != ps_uuid.Nil {
		factoryID = &f.Factory.UUID
	}

	return models.AllocationFilter{
		FactoryID: factoryID,
		Page:      f.Page,
		Limit:     f.Limit,
	}
}
