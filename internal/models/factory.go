package models

import (
	"strings"

	"gorm.io/gorm"
)

// Factory represents a production site that machines belong to.
type Factory struct {
	DefaultModel
	Name     string
	Location string
	Note     string
}

func (f *Factory) BeforeCreate(tx *gorm.DB) error {
	_ = f.DefaultModel.BeforeCreate(tx)

	if f.Name == "" {
		return ErrNameRequired
	}

	return nil
}

func (f *Factory) BeforeSave(_ *gorm.DB) error {
	f.Name = strings.TrimSpace(f.Name)
	f.Location = strings.TrimSpace(f.Location)
	f.Note = strings.TrimSpace(f.Note)

	return nil
}
