package models

import (
	"strings"

	"gorm.io/gorm"
)

// Supplier represents a company materials are purchased from.
type Supplier struct {
	DefaultModel
	Name  string
	Email string
	Phone string
	Note  string
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	_ = s.DefaultModel.BeforeCreate(tx)

	if s.Name == "" {
		return ErrNameRequired
	}

	return nil
}

func (s *Supplier) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Note = strings.TrimSpace(s.Note)

	return nil
}
