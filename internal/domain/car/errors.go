package car

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("required field is missing")
	ErrInvalidYear   = errors.New("year is out of range")
	ErrNegativePrice = errors.New("price must not be negative")
	ErrUnknownState  = errors.New("unknown car state")
)

// InvalidStateError reports that a car is in the wrong state for the requested
// transition. The current state is part of the message so the caller can see
// what it conflicted with.
type InvalidStateError struct {
	CarID   int64
	Current State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("car %d is not available: current state %s", e.CarID, e.Current)
}

// InUseError reports that a car cannot be deleted because an order still
// references it.
type InUseError struct {
	CarID   int64
	OrderID int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("car %d is referenced by order %d", e.CarID, e.OrderID)
}
