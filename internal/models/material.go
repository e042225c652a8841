package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Material represents a raw material kept in stock.
//
// CurrentStock is the amount not yet assigned to any machine. It is the
// single point of contention for the allocation engine: every
// allocation-mutating operation serializes through it.
type Material struct {
	DefaultModel
	Name         string `gorm:"uniqueIndex"`
	Note         string
	Unit         string          // Unit the stock is counted in, e.g. "kg"
	UnitPrice    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentStock int
	History      []MaterialHistoryEntry `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// MaterialHistoryEntry is one line of the append-only change log
// of a material's stock.
type MaterialHistoryEntry struct {
	DefaultModel
	MaterialID  uuid.UUID `gorm:"index"`
	Date        time.Time
	Description string
	ChangedBy   *uuid.UUID // Always present, nullable when no actor was supplied
}

func (m *Material) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	if m.Name == "" {
		return ErrNameRequired
	}

	return nil
}

func (m *Material) BeforeSave(_ *gorm.DB) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Note = strings.TrimSpace(m.Note)
	m.Unit = strings.TrimSpace(m.Unit)

	return nil
}

// AfterSave guards the stock invariant for direct stock edits. The
// allocation engine never relies on this, it uses a conditional update.
func (m *Material) AfterSave(_ *gorm.DB) error {
	if m.CurrentStock < 0 {
		return ErrStockNegative
	}

	return nil
}

func (h *MaterialHistoryEntry) BeforeSave(_ *gorm.DB) error {
	if h.Date.IsZero() {
		h.Date = time.Now().In(time.UTC)
	} else {
		h.Date = h.Date.In(time.UTC)
	}

	return nil
}
