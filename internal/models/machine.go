package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Machine represents a machine in a factory. Machines are read-only for the
// allocation engine, it never mutates them.
type Machine struct {
	DefaultModel
	Name      string
	Note      string
	FactoryID *uuid.UUID // A machine does not have to belong to a factory
	Factory   *Factory   `json:"-"`
}

func (m *Machine) BeforeCreate(tx *gorm.DB) error {
	_ = m.DefaultModel.BeforeCreate(tx)

	if m.Name == "" {
		return ErrNameRequired
	}

	toSave := tx.Statement.Dest.(*Machine)
	return m.checkIntegrity(tx, *toSave)
}

func (m *Machine) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(Machine)

	if tx.Statement.Changed("FactoryID") {
		err := m.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the referenced factory exists.
func (m *Machine) checkIntegrity(tx *gorm.DB, toSave Machine) error {
	if toSave.FactoryID == nil {
		return nil
	}

	return tx.First(&Factory{}, *toSave.FactoryID).Error
}

func (m *Machine) BeforeSave(_ *gorm.DB) error {
	m.Name = strings.TrimSpace(m.Name)
	m.Note = strings.TrimSpace(m.Note)

	return nil
}
