package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationItem is one (machine, quantity) pair of an allocation request.
type AllocationItem struct {
	MachineID uuid.UUID
	Quantity  int
}

// Allocate assigns stock of one material to one or more machines.
//
// For a (material, machine) pair that already has an allocation, the
// submitted quantity replaces the allocated stock, it is not added. Every
// mutation appends a history entry, and the material's stock is decremented
// by the sum of all submitted quantities.
//
// All writes happen in a single transaction. The decrement is a conditional
// update that only matches while enough stock is left, so two racing calls
// cannot overdraw the material: the loser rolls back with
// ErrInsufficientStock even though its earlier pre-check passed.
//
// Returns the material's new stock.
func Allocate(materialID uuid.UUID, items []AllocationItem, actorID *uuid.UUID, factoryID *uuid.UUID) (int, error) {
	if len(items) == 0 {
		return 0, ErrNoAllocationItems
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return 0, ErrQuantityNotPositive
		}

		if _, ok := seen[item.MachineID]; ok {
			return 0, ErrDuplicateMachine
		}
		seen[item.MachineID] = struct{}{}
	}

	var newStock int
	err := DB.Transaction(func(tx *gorm.DB) error {
		var material Material
		if err := tx.First(&material, materialID).Error; err != nil {
			return err
		}

		if factoryID != nil {
			if err := tx.First(&Factory{}, *factoryID).Error; err != nil {
				return err
			}
		}

		var total int
		for _, item := range items {
			var machine Machine
			if err := tx.First(&machine, item.MachineID).Error; err != nil {
				return err
			}

			if factoryID != nil && (machine.FactoryID == nil || *machine.FactoryID != *factoryID) {
				return ErrMachineNotInFactory
			}

			total += item.Quantity
		}

		if total > material.CurrentStock {
			return fmt.Errorf("%w: requested %d units, only %d available", ErrInsufficientStock, total, material.CurrentStock)
		}

		now := time.Now().In(time.UTC)
		for _, item := range items {
			err := upsertAllocation(tx, materialID, item, actorID, now)
			if err != nil {
				return err
			}
		}

		remaining, err := decrementStock(tx, materialID, total, material.CurrentStock)
		if err != nil {
			return err
		}
		newStock = remaining

		return tx.Create(&MaterialHistoryEntry{
			MaterialID:  materialID,
			Date:        now,
			Description: fmt.Sprintf("Allocated %d units to %d machines", total, len(items)),
			ChangedBy:   actorID,
		}).Error
	})

	return newStock, err
}

// upsertAllocation replaces the allocated stock of an existing (material,
// machine) allocation or creates a new one, appending a history entry
// either way.
func upsertAllocation(tx *gorm.DB, materialID uuid.UUID, item AllocationItem, actorID *uuid.UUID, now time.Time) error {
	var allocation Allocation
	err := tx.Where(&Allocation{MaterialID: materialID, MachineID: item.MachineID}).First(&allocation).Error

	if err != nil {
		if !errors.Is(err, ErrResourceNotFound) && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		allocation = Allocation{
			MaterialID:     materialID,
			MachineID:      item.MachineID,
			AllocatedStock: item.Quantity,
		}
		if err := tx.Create(&allocation).Error; err != nil {
			return err
		}

		return tx.Create(&AllocationHistoryEntry{
			AllocationID:  allocation.ID,
			PreviousStock: 0,
			NewStock:      item.Quantity,
			Date:          now,
			Comment:       fmt.Sprintf("Initial allocation of %d", item.Quantity),
			ChangedBy:     actorID,
		}).Error
	}

	entry := AllocationHistoryEntry{
		AllocationID:  allocation.ID,
		PreviousStock: allocation.AllocatedStock,
		NewStock:      item.Quantity,
		Date:          now,
		Comment:       fmt.Sprintf("Stock updated to %d", item.Quantity),
		ChangedBy:     actorID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return err
	}

	return tx.Model(&allocation).Update("allocated_stock", item.Quantity).Error
}

// decrementStock takes amount units out of the material's stock.
//
// The update only matches while current_stock >= amount. Zero affected rows
// after the material was already read in this transaction means a concurrent
// operation drained the stock, so the caller has to roll back.
func decrementStock(tx *gorm.DB, materialID uuid.UUID, amount int, available int) (int, error) {
	res := tx.Model(&Material{}).
		Where("id = ? AND current_stock >= ?", materialID, amount).
		Update("current_stock", gorm.Expr("current_stock - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("%w: requested %d units, only %d available", ErrInsufficientStock, amount, available)
	}

	var material Material
	if err := tx.First(&material, materialID).Error; err != nil {
		return 0, err
	}

	return material.CurrentStock, nil
}

// UpdateAllocation sets an existing allocation to a new quantity and books
// the difference against the material's stock, all in one transaction.
//
// Returns the updated allocation and the material's new stock.
func UpdateAllocation(id uuid.UUID, quantity int, actorID *uuid.UUID, comment string, factoryID *uuid.UUID) (Allocation, int, error) {
	if quantity < 1 {
		return Allocation{}, 0, ErrQuantityNotPositive
	}

	var allocation Allocation
	var newStock int

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&allocation, id).Error; err != nil {
			return err
		}

		var material Material
		if err := tx.First(&material, allocation.MaterialID).Error; err != nil {
			return err
		}

		if factoryID != nil {
			if err := tx.First(&Factory{}, *factoryID).Error; err != nil {
				return err
			}

			var machine Machine
			if err := tx.First(&machine, allocation.MachineID).Error; err != nil {
				return err
			}

			if machine.FactoryID == nil || *machine.FactoryID != *factoryID {
				return ErrMachineNotInFactory
			}
		}

		previous := allocation.AllocatedStock
		delta := quantity - previous
		now := time.Now().In(time.UTC)

		if comment == "" {
			comment = fmt.Sprintf("Stock updated to %d", quantity)
		}

		entry := AllocationHistoryEntry{
			AllocationID:  allocation.ID,
			PreviousStock: previous,
			NewStock:      quantity,
			Date:          now,
			Comment:       comment,
			ChangedBy:     actorID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := tx.Model(&allocation).Update("allocated_stock", quantity).Error; err != nil {
			return err
		}

		newStock = material.CurrentStock

		if delta > 0 {
			remaining, err := decrementStock(tx, material.ID, delta, material.CurrentStock)
			if err != nil {
				return err
			}
			newStock = remaining
		} else if delta < 0 {
			res := tx.Model(&Material{}).
				Where("id = ?", material.ID).
				Update("current_stock", gorm.Expr("current_stock + ?", -delta))
			if res.Error != nil {
				return res.Error
			}

			if err := tx.First(&material, material.ID).Error; err != nil {
				return err
			}
			newStock = material.CurrentStock
		}

		if delta != 0 {
			var description string
			if delta > 0 {
				description = fmt.Sprintf("Allocated %d additional units", delta)
			} else {
				description = fmt.Sprintf("Returned %d units from an allocation update", -delta)
			}

			return tx.Create(&MaterialHistoryEntry{
				MaterialID:  material.ID,
				Date:        now,
				Description: description,
				ChangedBy:   actorID,
			}).Error
		}

		return nil
	})

	return allocation, newStock, err
}

// DeleteAllocation removes an allocation and returns its full quantity to
// the material's stock.
//
// The allocation's history is deleted with it. There is no soft delete.
func DeleteAllocation(id uuid.UUID) (int, error) {
	var newStock int

	err := DB.Transaction(func(tx *gorm.DB) error {
		var allocation Allocation
		if err := tx.First(&allocation, id).Error; err != nil {
			return err
		}

		var material Material
		if err := tx.First(&material, allocation.MaterialID).Error; err != nil {
			return err
		}

		res := tx.Model(&Material{}).
			Where("id = ?", material.ID).
			Update("current_stock", gorm.Expr("current_stock + ?", allocation.AllocatedStock))
		if res.Error != nil {
			return res.Error
		}

		if err := tx.First(&material, material.ID).Error; err != nil {
			return err
		}
		newStock = material.CurrentStock

		err := tx.Create(&MaterialHistoryEntry{
			MaterialID:  material.ID,
			Date:        time.Now().In(time.UTC),
			Description: fmt.Sprintf("Returned %d units due to allocation deletion", allocation.AllocatedStock),
		}).Error
		if err != nil {
			return err
		}

		err = tx.Where("allocation_id = ?", allocation.ID).Delete(&AllocationHistoryEntry{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&allocation).Error
	})

	return newStock, err
}
