package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/plantstock/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestAllocateValidation() {
	machineID := uuid.New()

	tests := []struct {
		name  string
		items []models.AllocationItem
		err   error
	}{
		{"No items", []models.AllocationItem{}, models.ErrNoAllocationItems},
		{"Zero quantity", []models.AllocationItem{{MachineID: machineID, Quantity: 0}}, models.ErrQuantityNotPositive},
		{"Negative quantity", []models.AllocationItem{{MachineID: machineID, Quantity: -5}}, models.ErrQuantityNotPositive},
		{
			"Duplicate machine",
			[]models.AllocationItem{
				{MachineID: machineID, Quantity: 10},
				{MachineID: machineID, Quantity: 20},
			},
			models.ErrDuplicateMachine,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_, err := models.Allocate(uuid.New(), tt.items, nil, nil)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestAllocate() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machineA := suite.createTestMachine(models.Machine{})
	machineB := suite.createTestMachine(models.Machine{})

	updatedStock, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machineA.ID, Quantity: 30},
		{MachineID: machineB.ID, Quantity: 20},
	}, nil, nil)

	require.Nil(t, err)
	assert.Equal(t, 50, updatedStock)

	err = models.DB.First(&material, material.ID).Error
	require.Nil(t, err)
	assert.Equal(t, 50, material.CurrentStock)

	var allocations []models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).Order("allocated_stock DESC").Find(&allocations).Error
	require.Nil(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, 30, allocations[0].AllocatedStock)
	assert.Equal(t, 20, allocations[1].AllocatedStock)

	for _, allocation := range allocations {
		var history []models.AllocationHistoryEntry
		err = models.DB.Where("allocation_id = ?", allocation.ID).Find(&history).Error
		require.Nil(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, 0, history[0].PreviousStock)
		assert.Equal(t, allocation.AllocatedStock, history[0].NewStock)
		assert.Nil(t, history[0].ChangedBy)
	}

	var materialHistory []models.MaterialHistoryEntry
	err = models.DB.Where("material_id = ?", material.ID).Find(&materialHistory).Error
	require.Nil(t, err)
	require.Len(t, materialHistory, 1)
	assert.Equal(t, "Allocated 50 units to 2 machines", materialHistory[0].Description)
}

func (suite *TestSuiteStandard) TestAllocateInsufficientStock() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machineA := suite.createTestMachine(models.Machine{})

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machineA.ID, Quantity: 50},
	}, nil, nil)
	require.Nil(t, err)

	// 80 > 50 remaining, even though the machine already holds 50
	_, err = models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machineA.ID, Quantity: 80},
	}, nil, nil)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "requested 80 units, only 50 available")

	// Nothing may have changed
	err = models.DB.First(&material, material.ID).Error
	require.Nil(t, err)
	assert.Equal(t, 50, material.CurrentStock)

	var allocation models.Allocation
	err = models.DB.Where("material_id = ? AND machine_id = ?", material.ID, machineA.ID).First(&allocation).Error
	require.Nil(t, err)
	assert.Equal(t, 50, allocation.AllocatedStock)

	var history []models.AllocationHistoryEntry
	err = models.DB.Where("allocation_id = ?", allocation.ID).Find(&history).Error
	require.Nil(t, err)
	assert.Len(t, history, 1)
}

func (suite *TestSuiteStandard) TestAllocateReplace() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})

	updatedStock, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 30},
	}, nil, nil)
	require.Nil(t, err)
	assert.Equal(t, 70, updatedStock)

	// Resubmitting the pair replaces the allocated stock, the full new
	// quantity is taken from the material
	updatedStock, err = models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 50},
	}, nil, nil)
	require.Nil(t, err)
	assert.Equal(t, 20, updatedStock)

	var allocations []models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).Find(&allocations).Error
	require.Nil(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, 50, allocations[0].AllocatedStock)

	var history []models.AllocationHistoryEntry
	err = models.DB.Where("allocation_id = ?", allocations[0].ID).Order("date ASC").Find(&history).Error
	require.Nil(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 0, history[0].PreviousStock)
	assert.Equal(t, 30, history[0].NewStock)
	assert.Equal(t, 30, history[1].PreviousStock)
	assert.Equal(t, 50, history[1].NewStock)
	assert.Equal(t, "Stock updated to 50", history[1].Comment)
}

func (suite *TestSuiteStandard) TestAllocateFactoryScope() {
	t := suite.T()

	factory := suite.createTestFactory(models.Factory{})
	inside := suite.createTestMachine(models.Machine{FactoryID: &factory.ID})
	outside := suite.createTestMachine(models.Machine{})
	material := suite.createTestMaterial(models.Material{CurrentStock: 100})

	// A machine outside the asserted factory rejects the whole call
	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: inside.ID, Quantity: 10},
		{MachineID: outside.ID, Quantity: 10},
	}, nil, &factory.ID)
	assert.ErrorIs(t, err, models.ErrMachineNotInFactory)

	var count int64
	err = models.DB.Model(&models.Allocation{}).Where("material_id = ?", material.ID).Count(&count).Error
	require.Nil(t, err)
	assert.Equal(t, int64(0), count)

	err = models.DB.First(&material, material.ID).Error
	require.Nil(t, err)
	assert.Equal(t, 100, material.CurrentStock)

	// Scoped to the correct factory, the allocation goes through
	updatedStock, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: inside.ID, Quantity: 10},
	}, nil, &factory.ID)
	require.Nil(t, err)
	assert.Equal(t, 90, updatedStock)

	// A factory that does not exist is a 404 condition
	missing := uuid.New()
	_, err = models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: inside.ID, Quantity: 10},
	}, nil, &missing)
	assert.ErrorIs(t, err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAllocateResourceNotFound() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})

	tests := []struct {
		name       string
		materialID uuid.UUID
		machineID  uuid.UUID
	}{
		{"Material does not exist", uuid.New(), machine.ID},
		{"Machine does not exist", material.ID, uuid.New()},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			_, err := models.Allocate(tt.materialID, []models.AllocationItem{
				{MachineID: tt.machineID, Quantity: 10},
			}, nil, nil)
			assert.ErrorIs(t, err, models.ErrResourceNotFound)
		})
	}

	err := models.DB.First(&material, material.ID).Error
	require.Nil(t, err)
	assert.Equal(t, 100, material.CurrentStock)
}

func (suite *TestSuiteStandard) TestAllocateRecordsActor() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})
	actor := uuid.New()

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 10},
	}, &actor, nil)
	require.Nil(t, err)

	var history models.AllocationHistoryEntry
	err = models.DB.First(&history).Error
	require.Nil(t, err)
	require.NotNil(t, history.ChangedBy)
	assert.Equal(t, actor, *history.ChangedBy)

	var materialHistory models.MaterialHistoryEntry
	err = models.DB.Where("material_id = ?", material.ID).First(&materialHistory).Error
	require.Nil(t, err)
	require.NotNil(t, materialHistory.ChangedBy)
	assert.Equal(t, actor, *materialHistory.ChangedBy)
}

func (suite *TestSuiteStandard) TestUpdateAllocationDecrease() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 30},
	}, nil, nil)
	require.Nil(t, err)

	var allocation models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).First(&allocation).Error
	require.Nil(t, err)

	updated, newStock, err := models.UpdateAllocation(allocation.ID, 10, nil, "", nil)
	require.Nil(t, err)
	assert.Equal(t, 10, updated.AllocatedStock)
	assert.Equal(t, 90, newStock)

	var history []models.AllocationHistoryEntry
	err = models.DB.Where("allocation_id = ?", allocation.ID).Order("date ASC").Find(&history).Error
	require.Nil(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 30, history[1].PreviousStock)
	assert.Equal(t, 10, history[1].NewStock)
	assert.Equal(t, "Stock updated to 10", history[1].Comment)
}

func (suite *TestSuiteStandard) TestUpdateAllocationIncrease() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 30},
	}, nil, nil)
	require.Nil(t, err)

	var allocation models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).First(&allocation).Error
	require.Nil(t, err)

	updated, newStock, err := models.UpdateAllocation(allocation.ID, 50, nil, "Production ramp-up", nil)
	require.Nil(t, err)
	assert.Equal(t, 50, updated.AllocatedStock)
	assert.Equal(t, 50, newStock)

	var history []models.AllocationHistoryEntry
	err = models.DB.Where("allocation_id = ?", allocation.ID).Order("date ASC").Find(&history).Error
	require.Nil(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Production ramp-up", history[1].Comment)

	// The material history records the delta
	var materialHistory []models.MaterialHistoryEntry
	err = models.DB.Where("material_id = ?", material.ID).Order("date ASC").Find(&materialHistory).Error
	require.Nil(t, err)
	require.Len(t, materialHistory, 2)
	assert.Equal(t, "Allocated 20 additional units", materialHistory[1].Description)
}

func (suite *TestSuiteStandard) TestUpdateAllocationInsufficientStock() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 40})
	machine := suite.createTestMachine(models.Machine{})

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 30},
	}, nil, nil)
	require.Nil(t, err)

	var allocation models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).First(&allocation).Error
	require.Nil(t, err)

	// Raising by 20 needs more than the 10 units left
	_, _, err = models.UpdateAllocation(allocation.ID, 50, nil, "", nil)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	// The whole update has to roll back, including the history entry
	err = models.DB.First(&allocation, allocation.ID).Error
	require.Nil(t, err)
	assert.Equal(t, 30, allocation.AllocatedStock)

	err = models.DB.First(&material, material.ID).Error
	require.Nil(t, err)
	assert.Equal(t, 10, material.CurrentStock)

	var count int64
	err = models.DB.Model(&models.AllocationHistoryEntry{}).Where("allocation_id = ?", allocation.ID).Count(&count).Error
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
}

func (suite *TestSuiteStandard) TestUpdateAllocationValidation() {
	t := suite.T()

	factory := suite.createTestFactory(models.Factory{})
	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 10},
	}, nil, nil)
	require.Nil(t, err)

	var allocation models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).First(&allocation).Error
	require.Nil(t, err)

	_, _, err = models.UpdateAllocation(allocation.ID, 0, nil, "", nil)
	assert.ErrorIs(t, err, models.ErrQuantityNotPositive)

	_, _, err = models.UpdateAllocation(uuid.New(), 10, nil, "", nil)
	assert.ErrorIs(t, err, models.ErrResourceNotFound)

	// The allocation's machine has no factory, so any scope is invalid
	_, _, err = models.UpdateAllocation(allocation.ID, 10, nil, "", &factory.ID)
	assert.ErrorIs(t, err, models.ErrMachineNotInFactory)
}

func (suite *TestSuiteStandard) TestDeleteAllocation() {
	t := suite.T()

	material := suite.createTestMaterial(models.Material{CurrentStock: 100})
	machine := suite.createTestMachine(models.Machine{})

	_, err := models.Allocate(material.ID, []models.AllocationItem{
		{MachineID: machine.ID, Quantity: 10},
	}, nil, nil)
	require.Nil(t, err)

	var allocation models.Allocation
	err = models.DB.Where("material_id = ?", material.ID).First(&allocation).Error
	require.Nil(t, err)

	newStock, err := models.DeleteAllocation(allocation.ID)
	require.Nil(t, err)
	assert.Equal(t, 100, newStock)

	err = models.DB.First(&models.Allocation{}, allocation.ID).Error
	assert.ErrorIs(t, err, models.ErrResourceNotFound)

	// The history is deleted with the allocation
	var count int64
	err = models.DB.Model(&models.AllocationHistoryEntry{}).Where("allocation_id = ?", allocation.ID).Count(&count).Error
	require.Nil(t, err)
	assert.Equal(t, int64(0), count)

	var materialHistory []models.MaterialHistoryEntry
	err = models.DB.Where("material_id = ?", material.ID).Order("date ASC").Find(&materialHistory).Error
	require.Nil(t, err)
	require.Len(t, materialHistory, 2)
	assert.Equal(t, "Returned 10 units due to allocation deletion", materialHistory[1].Description)
}

func (suite *TestSuiteStandard) TestDeleteAllocationNotFound() {
	_, err := models.DeleteAllocation(uuid.New())
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
