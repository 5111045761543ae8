package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-backoffice/internal/model"
)

// TaxRate is the fixed sales tax applied to every invoice.
var TaxRate = decimal.New(12, -2)

// ProductSnapshot is the product as it was when its line was created.
type ProductSnapshot struct {
	ID    uuid.UUID       `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func snapshotOf(p model.Product) ProductSnapshot {
	return ProductSnapshot{ID: p.ID, Code: p.Code, Name: p.Name, Price: p.Price, Stock: p.Stock}
}

// LineItem is one product entry on the draft. Subtotal is derived, never set directly.
type LineItem struct {
	ProductID uuid.UUID       `json:"productId"`
	Product   ProductSnapshot `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func (l *LineItem) setQuantity(q int) {
	l.Quantity = q
	l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(q)))
}

// Draft is the in-progress invoice.
type Draft struct {
	Client   *model.Client   `json:"client"`
	Lines    []LineItem      `json:"invoiceDetails"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func (d Draft) clone() Draft {
	out := d
	out.Lines = append([]LineItem(nil), d.Lines...)
	if d.Client != nil {
		c := *d.Client
		out.Client = &c
	}
	return out
}

// Ready reports whether the draft may be submitted.
func (d Draft) Ready() bool {
	return d.Client != nil && len(d.Lines) > 0
}

// ComputeTotals derives subtotal, tax and total from line subtotals.
func ComputeTotals(lineSubtotals []decimal.Decimal) (subtotal, tax, total decimal.Decimal) {
	subtotal = decimal.Sum(decimal.Zero, lineSubtotals...)
	tax = subtotal.Mul(TaxRate).Round(2)
	total = subtotal.Add(tax)
	return
}
