package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domcart "example.com/phonestore/internal/domain/cart"
	domproduct "example.com/phonestore/internal/domain/product"
)

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
}

// Service is the cart store: it owns the stock-bound rules and writes every
// mutation through to the owner's durable slot.
type Service struct {
	slots   domcart.SlotStore
	catalog ProductReader
	logger  *zap.Logger
}

func NewService(slots domcart.SlotStore, catalog ProductReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		slots:   slots,
		catalog: catalog,
		logger:  logger,
	}
}

// WithSlots returns a copy of the service writing to another slot store.
// Handlers use it to bind the service to the browser session's scope.
func (s *Service) WithSlots(slots domcart.SlotStore) *Service {
	cp := *s
	cp.slots = slots
	return &cp
}

// Load never fails: a missing, unreadable or malformed slot yields an empty cart.
func (s *Service) Load(ctx context.Context, owner domcart.OwnerKey) *domcart.Cart {
	key := domcart.SlotKey(owner)
	data, err := s.slots.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domcart.ErrSlotNotFound) {
			s.logger.Warn("cart slot read failed, starting empty", zap.String("slot", key), zap.Error(err))
		}
		return domcart.New(owner)
	}

	lines, err := domcart.DecodeSlot(data)
	if err != nil {
		s.logger.Warn("cart slot malformed, starting empty", zap.String("slot", key), zap.Error(err))
		return domcart.New(owner)
	}

	c := domcart.New(owner)
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if _, dup := seen[l.ProductID]; dup || !validLine(l) {
			s.logger.Warn("dropping invalid cart line",
				zap.String("slot", key),
				zap.Int64("product_id", l.ProductID),
				zap.Int64("quantity", l.Quantity),
				zap.Int64("stock", l.AvailableStock),
			)
			continue
		}
		seen[l.ProductID] = struct{}{}
		c.Lines = append(c.Lines, l)
	}
	return c
}

func validLine(l domcart.Line) bool {
	return l.ProductID > 0 &&
		l.Quantity >= 1 &&
		l.Quantity <= l.AvailableStock &&
		!l.UnitPrice.IsNegative()
}

// AddOrIncrement adds requestedQty units of p. Snapshots failing
// Product.Validate are rejected with ErrInvalidProduct. Requests that would exceed
// p.Stock are rejected, never clamped. On a persistence failure the mutated
// cart and its outcome are still returned with an ErrPersistenceFailed error.
func (s *Service) AddOrIncrement(ctx context.Context, c *domcart.Cart, p domcart.Product, requestedQty int64) (*domcart.Cart, domcart.Outcome, error) {
	if err := p.Validate(); err != nil {
		s.logger.Warn("add rejected, bad product snapshot", zap.Int64("product_id", p.ProductID), zap.Error(err))
		return c, domcart.OutcomeInvalidProduct, err
	}
	if requestedQty < 1 {
		return c, domcart.OutcomeOutOfRange, &domcart.StockError{
			ProductID: p.ProductID, Name: p.Name, Stock: p.Stock, Requested: requestedQty, Err: domcart.ErrOutOfRange,
		}
	}

	next := c.Clone()
	outcome := domcart.OutcomeAdded

	if i, ok := next.Find(p.ProductID); ok {
		line := next.Lines[i]
		want := line.Quantity + requestedQty
		if want > p.Stock {
			s.logger.Info("add rejected",
				zap.Int64("product_id", p.ProductID),
				zap.Int64("requested", want),
				zap.Int64("stock", p.Stock),
			)
			return c, domcart.OutcomeInsufficientStock, &domcart.StockError{
				ProductID: p.ProductID, Name: line.Name, Stock: p.Stock, Requested: want, Err: domcart.ErrInsufficientStock,
			}
		}
		line.Quantity = want
		line.AvailableStock = p.Stock
		if p.ImageURL != "" {
			line.ImageURL = p.ImageURL
		}
		next.Lines[i] = line
		outcome = domcart.OutcomeIncremented
	} else {
		if requestedQty > p.Stock {
			s.logger.Info("add rejected",
				zap.Int64("product_id", p.ProductID),
				zap.Int64("requested", requestedQty),
				zap.Int64("stock", p.Stock),
			)
			return c, domcart.OutcomeInsufficientStock, &domcart.StockError{
				ProductID: p.ProductID, Name: p.Name, Stock: p.Stock, Requested: requestedQty, Err: domcart.ErrInsufficientStock,
			}
		}
		next.Lines = append(next.Lines, domcart.Line{
			ProductID:      p.ProductID,
			Name:           p.Name,
			UnitPrice:      p.UnitPrice,
			AvailableStock: p.Stock,
			ImageURL:       p.ImageURL,
			Quantity:       requestedQty,
		})
	}

	return next, outcome, s.Persist(ctx, next)
}

// AddFromCatalog looks up the current product snapshot and adds it.
func (s *Service) AddFromCatalog(ctx context.Context, c *domcart.Cart, productID, requestedQty int64) (*domcart.Cart, domcart.Outcome, error) {
	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return c, domcart.OutcomeUnchanged, err
	}
	return s.AddOrIncrement(ctx, c, p.Snapshot(), requestedQty)
}

// SetQuantity replaces a line's quantity when 1 <= q <= the line's stock.
func (s *Service) SetQuantity(ctx context.Context, c *domcart.Cart, productID, q int64) (*domcart.Cart, domcart.Outcome, error) {
	i, ok := c.Find(productID)
	if !ok {
		return c, domcart.OutcomeOutOfRange, fmt.Errorf("%w: %w", domcart.ErrOutOfRange, domcart.ErrLineNotFound)
	}

	line := c.Lines[i]
	if q < 1 || q > line.AvailableStock {
		return c, domcart.OutcomeOutOfRange, &domcart.StockError{
			ProductID: productID, Name: line.Name, Stock: line.AvailableStock, Requested: q, Err: domcart.ErrOutOfRange,
		}
	}
	if q == line.Quantity {
		return c, domcart.OutcomeUnchanged, nil
	}

	next := c.Clone()
	next.Lines[i].Quantity = q
	return next, domcart.OutcomeUpdated, s.Persist(ctx, next)
}

// RemoveLine drops the product's line; an absent line is not an error.
func (s *Service) RemoveLine(ctx context.Context, c *domcart.Cart, productID int64) (*domcart.Cart, error) {
	next := domcart.New(c.Owner)
	for _, l := range c.Lines {
		if l.ProductID != productID {
			next.Lines = append(next.Lines, l)
		}
	}
	return next, s.Persist(ctx, next)
}

func (s *Service) Total(c *domcart.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Persist overwrites the owner's slot with the cart.
func (s *Service) Persist(ctx context.Context, c *domcart.Cart) error {
	data, err := domcart.EncodeSlot(c.Lines)
	if err != nil {
		return fmt.Errorf("%w: %v", domcart.ErrPersistenceFailed, err)
	}

	key := domcart.SlotKey(c.Owner)
	if err := s.slots.Set(ctx, key, data); err != nil {
		s.logger.Error("cart slot write failed", zap.String("slot", key), zap.Error(err))
		return fmt.Errorf("%w: %v", domcart.ErrPersistenceFailed, err)
	}
	return nil
}
