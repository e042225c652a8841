package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocation assigns a part of a material's stock to a machine.
//
// There is at most one allocation per (material, machine) pair. An
// allocation is either absent or present with AllocatedStock >= 1;
// reaching zero is only possible by deleting the record.
type Allocation struct {
	DefaultModel
	MaterialID     uuid.UUID `gorm:"uniqueIndex:allocation_material_machine"`
	Material       Material  `json:"-"`
	MachineID      uuid.UUID `gorm:"uniqueIndex:allocation_material_machine"`
	Machine        Machine   `json:"-"`
	AllocatedStock int
	History        []AllocationHistoryEntry `gorm:"constraint:OnDelete:CASCADE"`
}

// AllocationHistoryEntry is one line of the append-only change log of an
// allocation. It is deleted together with its allocation.
type AllocationHistoryEntry struct {
	DefaultModel
	AllocationID  uuid.UUID `gorm:"index"`
	PreviousStock int
	NewStock      int
	Date          time.Time
	Comment       string
	ChangedBy     *uuid.UUID // Always present, nullable when no actor was supplied
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	err := tx.First(&Material{}, a.MaterialID).Error
	if err != nil {
		return err
	}

	return tx.First(&Machine{}, a.MachineID).Error
}

func (a *Allocation) AfterSave(_ *gorm.DB) error {
	if a.AllocatedStock < 1 {
		return ErrQuantityNotPositive
	}

	return nil
}

func (h *AllocationHistoryEntry) BeforeSave(_ *gorm.DB) error {
	if h.Date.IsZero() {
		h.Date = time.Now().In(time.UTC)
	} else {
		h.Date = h.Date.In(time.UTC)
	}

	return nil
}
