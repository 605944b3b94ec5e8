package order

import (
	"errors"
	"fmt"
)

var (
	ErrMissingReference = errors.New("order requires a customer and a car")
	ErrUnknownStatus    = errors.New("unknown order status")
	ErrUnknownKind      = errors.New("unknown order kind")
)

// TerminalError reports a transition attempted on an order that already
// reached COMPLETE or CANCEL.
type TerminalError struct {
	OrderID int64
	Current Status
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("order %d is closed: current status %s", e.OrderID, e.Current)
}
