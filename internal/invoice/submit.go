package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-backoffice/internal/model"
)

const numberPrefix = "FA-"

// CreateInvoiceRequest is the normalized payload sent to invoice persistence.
// The server recomputes subtotals and totals; none are sent.
type CreateInvoiceRequest struct {
	InvoiceNumber  string          `json:"invoiceNumber" validate:"required,max=50"`
	ClientID       uuid.UUID       `json:"clientId" validate:"uuid_required"`
	UserID         uuid.UUID       `json:"userId" validate:"uuid_required"`
	IssueDate      time.Time       `json:"issueDate" validate:"required"`
	Observations   string          `json:"observations"`
	InvoiceDetails []DetailRequest `json:"invoiceDetails" validate:"required,min=1,dive"`
}

type DetailRequest struct {
	ProductID uuid.UUID       `json:"productId" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Submission is what a successful Submit produced.
type Submission struct {
	Request CreateInvoiceRequest
	// Invoices is the refreshed list; nil when RefreshErr is set.
	Invoices   []model.Invoice
	RefreshErr error
}

// NumberAt renders the invoice number for t: FA-yyyymmddhhmmssmmm in UTC.
func NumberAt(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s%s%03d", numberPrefix, t.Format("20060102150405"), t.Nanosecond()/int(time.Millisecond))
}

// Submit persists the draft. It needs a client and at least one line; without
// them it returns ErrInvalidInvoiceState and contacts nobody. The user id is
// resolved first, then the invoice is created. The draft is reset only after
// the create succeeds, so a failed Submit can simply be retried.
func (c *Composer) Submit(ctx context.Context, observations string) (*Submission, error) {
	if !c.draft.Ready() {
		return nil, ErrInvalidInvoiceState
	}

	userID, err := c.identity.CurrentUserID(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "resolve current user failed", "error", err)
		return nil, fmt.Errorf("resolve current user: %w", err)
	}

	req := c.toRequest(userID, c.now(), observations)
	if err := c.store.CreateInvoice(ctx, req); err != nil {
		c.log.WarnContext(ctx, "create invoice failed",
			"invoice_number", req.InvoiceNumber,
			"error", err,
		)
		return nil, err
	}

	c.log.InfoContext(ctx, "invoice submitted",
		"invoice_number", req.InvoiceNumber,
		"client_id", req.ClientID,
		"lines", len(req.InvoiceDetails),
	)
	c.Reset()

	sub := &Submission{Request: req}
	invoices, err := c.store.ListInvoices(ctx)
	if err != nil {
		c.log.WarnContext(ctx, "refresh invoice list failed", "error", err)
		sub.RefreshErr = err
		return sub, nil
	}
	c.invoices = invoices
	sub.Invoices = invoices
	return sub, nil
}

func (c *Composer) toRequest(userID uuid.UUID, now time.Time, observations string) CreateInvoiceRequest {
	details := make([]DetailRequest, len(c.draft.Lines))
	for i, l := range c.draft.Lines {
		details[i] = DetailRequest{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return CreateInvoiceRequest{
		InvoiceNumber:  NumberAt(now),
		ClientID:       c.draft.Client.ID,
		UserID:         userID,
		IssueDate:      now.UTC().Truncate(time.Millisecond),
		Observations:   observations,
		InvoiceDetails: details,
	}
}

// OwnedBy keeps the invoices issued by userID, preserving order.
func OwnedBy(invoices []model.Invoice, userID uuid.UUID) []model.Invoice {
	out := make([]model.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out
}
