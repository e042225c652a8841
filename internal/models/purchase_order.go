package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// PurchaseOrder represents an order of materials from a supplier.
//
// Orders do not touch material stock, goods receipt is booked directly
// on the material.
type PurchaseOrder struct {
	DefaultModel
	SupplierID uuid.UUID
	Supplier   Supplier `json:"-"`
	Status     OrderStatus
	OrderDate  time.Time
	Note       string
	Lines      []PurchaseOrderLine `gorm:"constraint:OnDelete:CASCADE"`
}

type PurchaseOrderLine struct {
	DefaultModel
	PurchaseOrderID uuid.UUID `gorm:"index"`
	MaterialID      uuid.UUID
	Material        Material `json:"-"`
	Quantity        int
	UnitPrice       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	_ = o.DefaultModel.BeforeCreate(tx)

	if o.SupplierID == uuid.Nil {
		return ErrOrderSupplierRequired
	}

	toSave := tx.Statement.Dest.(*PurchaseOrder)
	return o.checkIntegrity(tx, *toSave)
}

func (o *PurchaseOrder) BeforeUpdate(tx *gorm.DB) (err error) {
	toSave := tx.Statement.Dest.(PurchaseOrder)

	if tx.Statement.Changed("SupplierID") {
		err := o.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies that the referenced supplier exists.
func (o *PurchaseOrder) checkIntegrity(tx *gorm.DB, toSave PurchaseOrder) error {
	return tx.First(&Supplier{}, toSave.SupplierID).Error
}

func (o *PurchaseOrder) BeforeSave(_ *gorm.DB) error {
	o.Note = strings.TrimSpace(o.Note)

	if o.Status == "" {
		o.Status = OrderStatusDraft
	}

	if o.OrderDate.IsZero() {
		o.OrderDate = time.Now().In(time.UTC)
	} else {
		o.OrderDate = o.OrderDate.In(time.UTC)
	}

	return nil
}

func (o *PurchaseOrder) AfterSave(_ *gorm.DB) error {
	switch o.Status {
	case OrderStatusDraft, OrderStatusOrdered, OrderStatusReceived, OrderStatusCancelled:
		return nil
	}

	return ErrOrderStatusInvalid
}

// BeforeCreate verifies that the referenced material exists. Lines are
// usually created through the order association, so the receiver is used
// instead of the statement destination.
func (l *PurchaseOrderLine) BeforeCreate(tx *gorm.DB) error {
	_ = l.DefaultModel.BeforeCreate(tx)

	return tx.First(&Material{}, l.MaterialID).Error
}

func (l *PurchaseOrderLine) AfterSave(_ *gorm.DB) error {
	if l.Quantity < 1 {
		return ErrQuantityNotPositive
	}

	return nil
}
