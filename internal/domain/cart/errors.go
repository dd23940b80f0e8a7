package cart

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOutOfRange           = errors.New("quantity out of range")
	ErrPersistenceFailed    = errors.New("cart could not be saved")
	ErrMalformedDurableData = errors.New("malformed cart data")
	ErrLineNotFound         = errors.New("product not in cart")
	ErrSlotNotFound         = errors.New("cart slot not found")
	ErrInvalidProduct       = errors.New("product cannot be added to a cart")
)

// StockError is returned when a requested quantity breaks the stock bound.
// It names the product and the ceiling so the message can be shown as is.
type StockError struct {
	ProductID int64
	Name      string
	Stock     int64
	Requested int64
	Err       error
}

func (e *StockError) Error() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	if errors.Is(e.Err, ErrInsufficientStock) {
		return fmt.Sprintf("%s: only %d in stock, cannot hold %d", name, e.Stock, e.Requested)
	}
	return fmt.Sprintf("%s: quantity must be between 1 and %d, got %d", name, e.Stock, e.Requested)
}

func (e *StockError) Unwrap() error {
	return e.Err
}
