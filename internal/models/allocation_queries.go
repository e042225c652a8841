package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationFilter scopes and paginates allocation listings.
type AllocationFilter struct {
	FactoryID *uuid.UUID
	Page      int
	Limit     int
}

// Paginate returns the sanitized page, limit and the resulting offset.
// Pages start at 1, the limit defaults to 10 and is capped at 100.
func (f AllocationFilter) Paginate() (page int, limit int, offset int) {
	page = f.Page
	if page < 1 {
		page = 1
	}

	limit = f.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit, (page - 1) * limit
}

// ListAllocations returns allocations, most recently updated first,
// optionally scoped to the machines of one factory, with material and
// machine populated. The second return value is the total count before
// pagination.
func ListAllocations(filter AllocationFilter) ([]Allocation, int64, error) {
	_, limit, offset := filter.Paginate()

	q := DB.Model(&Allocation{}).
		Preload("Material").
		Preload("Machine").
		Order("allocations.updated_at DESC")

	if filter.FactoryID != nil {
		q = q.
			Joins("JOIN machines ON machines.id = allocations.machine_id").
			Where("machines.factory_id = ?", *filter.FactoryID)
	}

	q = q.Offset(offset).Limit(limit)

	var allocations []Allocation
	err := q.Find(&allocations).Error
	if err != nil {
		return nil, 0, err
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	return allocations, count, nil
}

// AllocationsForMaterial returns all allocations of one material with
// machine details and history, optionally scoped to one factory.
func AllocationsForMaterial(materialID uuid.UUID, factoryID *uuid.UUID) ([]Allocation, error) {
	if err := DB.First(&Material{}, materialID).Error; err != nil {
		return nil, err
	}

	q := DB.Model(&Allocation{}).
		Preload("Material").
		Preload("Machine").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("allocation_history_entries.date ASC")
		}).
		Where("allocations.material_id = ?", materialID).
		Order("allocations.updated_at DESC")

	if factoryID != nil {
		q = q.
			Joins("JOIN machines ON machines.id = allocations.machine_id").
			Where("machines.factory_id = ?", *factoryID)
	}

	var allocations []Allocation
	err := q.Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	return allocations, nil
}

// MachineStockHistory returns all allocations of one machine with their
// full history and material details.
//
// When a factory is given, the machine has to belong to it.
func MachineStockHistory(machineID uuid.UUID, factoryID *uuid.UUID) ([]Allocation, error) {
	var machine Machine
	if err := DB.First(&machine, machineID).Error; err != nil {
		return nil, err
	}

	if factoryID != nil {
		if err := DB.First(&Factory{}, *factoryID).Error; err != nil {
			return nil, err
		}

		if machine.FactoryID == nil || *machine.FactoryID != *factoryID {
			return nil, ErrMachineNotInFactory
		}
	}

	var allocations []Allocation
	err := DB.Model(&Allocation{}).
		Preload("Material").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("allocation_history_entries.date ASC")
		}).
		Where("allocations.machine_id = ?", machineID).
		Order("allocations.updated_at DESC").
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	return allocations, nil
}
