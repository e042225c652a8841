package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	v1 "github.com/plantstock/backend/internal/controllers/v1"
	"github.com/plantstock/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allocateStock allocates stock via the API and asserts the expected status.
func allocateStock(t *testing.T, request v1.AllocationRequest, expectedStatus ...int) v1.AllocateResponse {
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusOK)
	}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/allocations", request)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.AllocateResponse
	if r.Code == http.StatusOK {
		test.DecodeResponse(t, &r, &response)
	}

	return response
}

// listAllocations fetches the allocation list.
func listAllocations(t *testing.T, path string) v1.AllocationListResponse {
	r := test.Request(t, http.MethodGet, path, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.AllocationListResponse
	test.DecodeResponse(t, &r, &response)

	return response
}

func (suite *TestSuiteStandard) TestAllocationsOptions() {
	t := suite.T()

	r := test.Request(t, http.MethodOptions, "http://example.com/v1/allocations", "")
	test.AssertHTTPStatus(t, &r, http.StatusNoContent)
	assert.Equal(t, "GET, POST", r.Header().Get("allow"))

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	machine := createTestMachine(t, v1.MachineEditable{})
	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 10},
		},
	})

	allocations := listAllocations(t, "http://example.com/v1/allocations")
	require.Len(t, allocations.Data, 1)

	r = test.Request(t, http.MethodOptions, allocations.Data[0].Links.Self, "")
	test.AssertHTTPStatus(t, &r, http.StatusNoContent)
	assert.Equal(t, "PUT, DELETE", r.Header().Get("allow"))

	// Unknown allocations return the error
	r = test.Request(t, http.MethodOptions, fmt.Sprintf("http://example.com/v1/allocations/%s", uuid.New()), "")
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAllocationsCreate() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	mill := createTestMachine(t, v1.MachineEditable{})
	lathe := createTestMachine(t, v1.MachineEditable{})

	response := allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: mill.Data.ID, AllocatedStock: 30},
			{MachineID: lathe.Data.ID, AllocatedStock: 20},
		},
	})

	assert.Equal(t, "Stock allocated successfully", response.Message)
	assert.Equal(t, 50, response.UpdatedStock)

	allocations := listAllocations(t, "http://example.com/v1/allocations")
	assert.Len(t, allocations.Data, 2)
}

func (suite *TestSuiteStandard) TestAllocationsCreateErrors() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 50})
	machine := createTestMachine(t, v1.MachineEditable{})

	tests := []struct {
		name    string
		request v1.AllocationRequest
		status  int
	}{
		{
			"Insufficient stock",
			v1.AllocationRequest{
				MaterialID: material.Data.ID,
				Allocations: []v1.AllocationRequestItem{
					{MachineID: machine.Data.ID, AllocatedStock: 80},
				},
			},
			http.StatusBadRequest,
		},
		{
			"Duplicate machine",
			v1.AllocationRequest{
				MaterialID: material.Data.ID,
				Allocations: []v1.AllocationRequestItem{
					{MachineID: machine.Data.ID, AllocatedStock: 10},
					{MachineID: machine.Data.ID, AllocatedStock: 10},
				},
			},
			http.StatusBadRequest,
		},
		{
			"Unknown material",
			v1.AllocationRequest{
				MaterialID: uuid.New(),
				Allocations: []v1.AllocationRequestItem{
					{MachineID: machine.Data.ID, AllocatedStock: 10},
				},
			},
			http.StatusNotFound,
		},
		{
			"Unknown machine",
			v1.AllocationRequest{
				MaterialID: material.Data.ID,
				Allocations: []v1.AllocationRequestItem{
					{MachineID: uuid.New(), AllocatedStock: 10},
				},
			},
			http.StatusNotFound,
		},
		{
			"No allocations",
			v1.AllocationRequest{
				MaterialID: material.Data.ID,
			},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			allocateStock(t, tt.request, tt.status)
		})
	}

	// Failed requests leave the stock untouched
	r := test.Request(t, http.MethodGet, material.Data.Links.Self, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var materialResponse v1.MaterialResponse
	test.DecodeResponse(t, &r, &materialResponse)
	assert.Equal(t, 50, materialResponse.Data.CurrentStock)

	// Malformed UUIDs do not bind
	r = test.Request(t, http.MethodPost, "http://example.com/v1/allocations", map[string]any{
		"materialId": "not-a-uuid",
		"allocations": []map[string]any{
			{"machineId": machine.Data.ID, "allocatedStock": 10},
		},
	})
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestAllocationsCreateReplaces() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	machine := createTestMachine(t, v1.MachineEditable{})

	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 30},
		},
	})

	// The new quantity replaces the old one, the stock is reduced by the
	// full submitted quantity
	response := allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 20},
		},
	})
	assert.Equal(t, 50, response.UpdatedStock)

	allocations := listAllocations(t, "http://example.com/v1/allocations")
	require.Len(t, allocations.Data, 1)
	assert.Equal(t, 20, allocations.Data[0].AllocatedStock)
}

func (suite *TestSuiteStandard) TestAllocationsCreateFactoryScope() {
	t := suite.T()

	factory := createTestFactory(t, v1.FactoryEditable{})
	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	inside := createTestMachine(t, v1.MachineEditable{FactoryID: factory.Data.ID})
	outside := createTestMachine(t, v1.MachineEditable{})

	// Machines outside the factory scope are rejected
	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		FactoryID:  factory.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: outside.Data.ID, AllocatedStock: 10},
		},
	}, http.StatusBadRequest)

	// Machines of the factory work
	response := allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		FactoryID:  factory.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: inside.Data.ID, AllocatedStock: 10},
		},
	})
	assert.Equal(t, 90, response.UpdatedStock)

	// An unknown factory scope is an error
	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		FactoryID:  uuid.New(),
		Allocations: []v1.AllocationRequestItem{
			{MachineID: inside.Data.ID, AllocatedStock: 10},
		},
	}, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAllocationsGetList() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 1000})
	for range 15 {
		machine := createTestMachine(t, v1.MachineEditable{})
		allocateStock(t, v1.AllocationRequest{
			MaterialID: material.Data.ID,
			Allocations: []v1.AllocationRequestItem{
				{MachineID: machine.Data.ID, AllocatedStock: 10},
			},
		})
	}

	// Defaults: page 1, 10 per page
	response := listAllocations(t, "http://example.com/v1/allocations")
	assert.Len(t, response.Data, 10)
	assert.Equal(t, int64(15), response.Total)
	assert.Equal(t, 1, response.Page)
	assert.Equal(t, 10, response.Limit)
	assert.Equal(t, 2, response.TotalPages)

	// Material and machine are populated in the list
	require.NotNil(t, response.Data[0].Material)
	require.NotNil(t, response.Data[0].Machine)
	assert.Equal(t, material.Data.ID, response.Data[0].Material.ID)

	response = listAllocations(t, "http://example.com/v1/allocations?page=2")
	assert.Len(t, response.Data, 5)
}

func (suite *TestSuiteStandard) TestAllocationsForMaterial() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	other := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	machine := createTestMachine(t, v1.MachineEditable{})

	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 30},
		},
	})
	allocateStock(t, v1.AllocationRequest{
		MaterialID: other.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 5},
		},
	})

	r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/material/%s", material.Data.ID), "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var allocations []v1.Allocation
	test.DecodeResponse(t, &r, &allocations)
	require.Len(t, allocations, 1)
	assert.Equal(t, 30, allocations[0].AllocatedStock)
	require.NotNil(t, allocations[0].Machine)
	assert.Equal(t, machine.Data.ID, allocations[0].Machine.ID)
	require.Len(t, allocations[0].History, 1)
	assert.Equal(t, 0, allocations[0].History[0].PreviousStock)
	assert.Equal(t, 30, allocations[0].History[0].NewStock)

	// Unknown materials return the error
	r = test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/material/%s", uuid.New()), "")
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAllocationsMachineHistory() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	machine := createTestMachine(t, v1.MachineEditable{})

	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 30},
		},
	})
	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 50},
		},
	})

	r := test.Request(t, http.MethodGet, machine.Data.Links.History, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var allocations []v1.Allocation
	test.DecodeResponse(t, &r, &allocations)
	require.Len(t, allocations, 1)
	require.Len(t, allocations[0].History, 2)
	assert.Equal(t, 30, allocations[0].History[1].PreviousStock)
	assert.Equal(t, 50, allocations[0].History[1].NewStock)

	// Unknown machines return the error
	r = test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/machine/%s/history", uuid.New()), "")
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAllocationsForFactory() {
	t := suite.T()

	factory := createTestFactory(t, v1.FactoryEditable{})
	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	inside := createTestMachine(t, v1.MachineEditable{FactoryID: factory.Data.ID})
	outside := createTestMachine(t, v1.MachineEditable{})

	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: inside.Data.ID, AllocatedStock: 10},
			{MachineID: outside.Data.ID, AllocatedStock: 10},
		},
	})

	response := listAllocations(t, fmt.Sprintf("http://example.com/v1/allocations/factory/%s", factory.Data.ID))
	assert.Len(t, response.Data, 1)
	assert.Equal(t, int64(1), response.Total)

	// Unknown factories return the error
	r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/allocations/factory/%s", uuid.New()), "")
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAllocationsUpdate() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	machine := createTestMachine(t, v1.MachineEditable{})

	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 30},
		},
	})

	allocations := listAllocations(t, "http://example.com/v1/allocations")
	require.Len(t, allocations.Data, 1)
	self := allocations.Data[0].Links.Self

	r := test.Request(t, http.MethodPut, self, v1.AllocationUpdateRequest{
		AllocatedStock: 50,
		Comment:        "Rebalanced after maintenance",
	})
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.AllocationUpdateResponse
	test.DecodeResponse(t, &r, &response)
	assert.Equal(t, "Allocation updated successfully", response.Message)
	assert.Equal(t, 50, response.Allocation.AllocatedStock)
	assert.Equal(t, 50, response.UpdatedMaterialStock)

	// Requesting more than the stock allows is an error
	r = test.Request(t, http.MethodPut, self, v1.AllocationUpdateRequest{
		AllocatedStock: 500,
	})
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

	// The new quantity has to be positive
	r = test.Request(t, http.MethodPut, self, map[string]any{
		"allocatedStock": 0,
	})
	test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

	// Unknown allocations return the error
	r = test.Request(t, http.MethodPut, fmt.Sprintf("http://example.com/v1/allocations/%s", uuid.New()), v1.AllocationUpdateRequest{
		AllocatedStock: 10,
	})
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestAllocationsDelete() {
	t := suite.T()

	material := createTestMaterial(t, v1.MaterialEditable{CurrentStock: 100})
	machine := createTestMachine(t, v1.MachineEditable{})

	allocateStock(t, v1.AllocationRequest{
		MaterialID: material.Data.ID,
		Allocations: []v1.AllocationRequestItem{
			{MachineID: machine.Data.ID, AllocatedStock: 30},
		},
	})

	allocations := listAllocations(t, "http://example.com/v1/allocations")
	require.Len(t, allocations.Data, 1)
	self := allocations.Data[0].Links.Self

	r := test.Request(t, http.MethodDelete, self, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.AllocationDeleteResponse
	test.DecodeResponse(t, &r, &response)
	assert.Equal(t, "Allocation deleted and stock returned", response.Message)

	// The stock is back with the material
	r = test.Request(t, http.MethodGet, material.Data.Links.Self, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var materialResponse v1.MaterialResponse
	test.DecodeResponse(t, &r, &materialResponse)
	assert.Equal(t, 100, materialResponse.Data.CurrentStock)

	// Deleting twice is an error
	r = test.Request(t, http.MethodDelete, self, "")
	test.AssertHTTPStatus(t, &r, http.StatusNotFound)
}
