package cart

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Line struct {
	ProductID      int64
	Name           string
	UnitPrice      decimal.Decimal
	AvailableStock int64
	ImageURL       string
	Quantity       int64
}

// Subtotal is UnitPrice × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// Product is the catalog snapshot handed to the cart when a product is added.
// Stock is authoritative at the time of the call.
type Product struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Stock     int64
	ImageURL  string
}

// Validate checks the snapshot can back a cart line: a positive id, a
// non-negative price and a non-negative stock.
func (p Product) Validate() error {
	switch {
	case p.ProductID <= 0:
		return fmt.Errorf("%w: product id %d", ErrInvalidProduct, p.ProductID)
	case p.UnitPrice.IsNegative():
		return fmt.Errorf("%w: product %d has negative price %s", ErrInvalidProduct, p.ProductID, p.UnitPrice)
	case p.Stock < 0:
		return fmt.Errorf("%w: product %d has negative stock %d", ErrInvalidProduct, p.ProductID, p.Stock)
	}
	return nil
}

type Cart struct {
	Owner OwnerKey
	Lines []Line
}

func New(owner OwnerKey) *Cart {
	return &Cart{Owner: owner, Lines: []Line{}}
}

// Clone returns a deep copy; mutations in the service never touch the input cart.
func (c *Cart) Clone() *Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return &Cart{Owner: c.Owner, Lines: lines}
}

func (c *Cart) Find(productID int64) (int, bool) {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

func (c *Cart) Line(productID int64) (Line, bool) {
	if i, ok := c.Find(productID); ok {
		return c.Lines[i], true
	}
	return Line{}, false
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int64 {
	var n int64
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

type Outcome string

const (
	OutcomeAdded             Outcome = "ADDED"
	OutcomeIncremented       Outcome = "INCREMENTED"
	OutcomeUpdated           Outcome = "UPDATED"
	OutcomeRemoved           Outcome = "REMOVED"
	OutcomeUnchanged         Outcome = "UNCHANGED"
	OutcomeInsufficientStock Outcome = "INSUFFICIENT_STOCK"
	OutcomeOutOfRange        Outcome = "OUT_OF_RANGE"
	OutcomeInvalidProduct    Outcome = "INVALID_PRODUCT"
)

// Rejected reports whether the outcome left the cart unchanged because of a rule.
func (o Outcome) Rejected() bool {
	return o == OutcomeInsufficientStock || o == OutcomeOutOfRange || o == OutcomeInvalidProduct
}
