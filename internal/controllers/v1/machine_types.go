package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/models"
	ps_uuid "github.com/plantstock/backend/internal/uuid"
)

type MachineEditable struct {
	Name      string    `json:"name" example:"CNC Mill 3" default:""`                                 // Name of the machine. Must be set on creation.
	Note      string    `json:"note" example:"Maintenance due in March" default:""`                   // A note
	FactoryID uuid.UUID `json:"factoryId" example:"d430d7c3-d14c-4712-9336-ee56965a6673" default:""` // ID of the factory the machine belongs to. Can be empty.
}

// model returns the database resource for the API representation of the editable fields
func (editable MachineEditable) model() models.Machine {
	var factoryID *uuid.UUID
	if editable.FactoryID != uuid.Nil {
		factoryID = &editable.FactoryID
	}

	return models.Machine{
		Name:      editable.Name,
		Note:      editable.Note,
		FactoryID: factoryID,
	}
}

type MachineLinks struct {
	Self    string `json:"self" example:"https://example.com/api/v1/machines/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9"`                 // The machine itself
	History string `json:"history" example:"https://example.com/api/v1/allocations/machine/af892e10-7e0a-4fb8-b1bc-4b6d88401ed9/history"` // Allocation history for this machine
}

// Machine is the API representation of a machine.
type Machine struct {
	models.DefaultModel
	MachineEditable
	Links MachineLinks `json:"links"`
}

// newMachine returns the API representation of the resource
func newMachine(c *gin.Context, model models.Machine) Machine {
	url := c.GetString(string(models.DBContextURL))

	factoryID := uuid.Nil
	if model.FactoryID != nil {
		factoryID = *model.FactoryID
	}

	return Machine{
		DefaultModel: model.DefaultModel,
		MachineEditable: MachineEditable{
			Name:      model.Name,
			Note:      model.Note,
			FactoryID: factoryID,
		},
		Links: MachineLinks{
			Self:    fmt.Sprintf("%s/v1/machines/%s", url, model.ID),
			History: fmt.Sprintf("%s/v1/allocations/machine/%s/history", url, model.ID),
		},
	}
}

type MachineListResponse struct {
	Pagination
	Data  []Machine `json:"data"`                                                          // List of machines
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type MachineCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []MachineResponse `json:"data"`                                                          // List of created machines
}

func (m *MachineCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	m.Data = append(m.Data, MachineResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type MachineResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred for this machine
	Data  *Machine `json:"data"`                                                          // The machine data, if the request was successful
}

type MachineQueryFilter struct {
	Name    string       `form:"name" filterField:"false"`   // Filter by name
	Note    string       `form:"note" filterField:"false"`   // Filter by note
	Search  string       `form:"search" filterField:"false"` // Search in name and note
	Factory ps_uuid.UUID `form:"factory" filterField:"false"` // Filter by factory ID
	Page    int          `form:"page" filterField:"false"`   // The page to return. Defaults to 1.
	Limit   int          `form:"limit" filterField:"false"`  // Maximum number of machines per page. Defaults to 10.
}
