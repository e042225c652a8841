package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	// Allocation engine errors
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrMachineNotInFactory = errors.New("the machine does not belong to the specified factory")
	ErrQuantityNotPositive = errors.New("allocated stock must be at least 1")
	ErrNoAllocationItems   = errors.New("at least one allocation must be submitted")
	ErrDuplicateMachine    = errors.New("a machine may only appear once per allocation request")

	// Constraint violations, set by the create/update callbacks
	ErrMaterialNameNotUnique = errors.New("the material name is already in use")
	ErrAllocationExists      = errors.New("an allocation for this material and machine already exists")

	ErrNameRequired          = errors.New("a name must be set")
	ErrOrderSupplierRequired = errors.New("a supplier must be set for a purchase order")

	ErrStockNegative      = errors.New("the current stock of a material must not be negative")
	ErrOrderStatusInvalid = errors.New("the order status is invalid")
)
