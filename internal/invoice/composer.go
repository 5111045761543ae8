// Package invoice builds sales invoices interactively and submits them.
//
// A Composer owns one draft. Every mutating call finishes by recomputing the
// draft totals, so Subtotal, Tax and Total always agree with the lines.
// Stock and quantity violations are silent: the call reports false and the
// draft is left as it was. Only Submit returns errors.
package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-backoffice/internal/model"
	"go-backoffice/pkg/logger"
)

// Identity resolves the user issuing the invoice.
type Identity interface {
	CurrentUserID(ctx context.Context) (uuid.UUID, error)
}

// Store persists submitted invoices and lists existing ones.
type Store interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) error
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
}

type Option func(*Composer)

// WithClock replaces time.Now for invoice numbers and issue dates.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

func WithLogger(log logger.Logger) Option {
	return func(c *Composer) { c.log = log }
}

// Composer is not safe for concurrent use; callers serialize access.
type Composer struct {
	identity Identity
	store    Store
	log      logger.Logger
	now      func() time.Time

	draft    Draft
	invoices []model.Invoice
}

func NewComposer(identity Identity, store Store, opts ...Option) *Composer {
	c := &Composer{
		identity: identity,
		store:    store,
		log:      logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Reset()
	return c
}

// Draft returns a copy of the current draft.
func (c *Composer) Draft() Draft {
	return c.draft.clone()
}

// Invoices returns the list fetched after the last successful submit.
func (c *Composer) Invoices() []model.Invoice {
	return append([]model.Invoice(nil), c.invoices...)
}

// Reset discards the draft.
func (c *Composer) Reset() {
	c.draft = Draft{Lines: []LineItem{}}
	c.RecomputeTotals()
}

func (c *Composer) SelectClient(client model.Client) {
	c.draft.Client = &client
	c.RecomputeTotals()
}

// AddLineItem puts product on the draft. A new line always starts at quantity 1.
// An existing line grows by requestedQty only when the result fits in product.Stock.
func (c *Composer) AddLineItem(product model.Product, requestedQty int) bool {
	defer c.RecomputeTotals()

	if !product.Purchasable() || requestedQty < 1 {
		return false
	}

	if i := c.indexOf(product.ID); i >= 0 {
		line := &c.draft.Lines[i]
		next := line.Quantity + requestedQty
		if next > product.Stock {
			return false
		}
		line.setQuantity(next)
		return true
	}

	line := LineItem{
		ProductID: product.ID,
		Product:   snapshotOf(product),
		UnitPrice: product.Price,
	}
	line.setQuantity(1)
	c.draft.Lines = append(c.draft.Lines, line)
	return true
}

// SetLineQuantity bounds qty by 1 and the line's snapshotted stock.
func (c *Composer) SetLineQuantity(productID uuid.UUID, qty int) bool {
	defer c.RecomputeTotals()

	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	line := &c.draft.Lines[i]
	if qty < 1 || qty > line.Product.Stock {
		return false
	}
	line.setQuantity(qty)
	return true
}

func (c *Composer) IncrementLine(productID uuid.UUID) bool {
	i := c.indexOf(productID)
	if i < 0 {
		c.RecomputeTotals()
		return false
	}
	return c.SetLineQuantity(productID, c.draft.Lines[i].Quantity+1)
}

// DecrementLine never goes below 1; use RemoveLineItem to drop the line.
func (c *Composer) DecrementLine(productID uuid.UUID) bool {
	i := c.indexOf(productID)
	if i < 0 {
		c.RecomputeTotals()
		return false
	}
	return c.SetLineQuantity(productID, c.draft.Lines[i].Quantity-1)
}

func (c *Composer) RemoveLineItem(productID uuid.UUID) bool {
	defer c.RecomputeTotals()

	i := c.indexOf(productID)
	if i < 0 {
		return false
	}
	c.draft.Lines = append(c.draft.Lines[:i], c.draft.Lines[i+1:]...)
	return true
}

// RecomputeTotals is idempotent.
func (c *Composer) RecomputeTotals() {
	subtotals := make([]decimal.Decimal, len(c.draft.Lines))
	for i, l := range c.draft.Lines {
		subtotals[i] = l.Subtotal
	}
	c.draft.Subtotal, c.draft.Tax, c.draft.Total = ComputeTotals(subtotals)
}

func (c *Composer) indexOf(productID uuid.UUID) int {
	for i := range c.draft.Lines {
		if c.draft.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
