package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"go-backoffice/internal/invoice"
)

func TestDraftService_ComposeAndSubmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clerk := f.actor(f.clerk)

	d, err := f.draft.Create(ctx, clerk)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Ready() || len(d.Lines) != 0 {
		t.Fatalf("new draft = %+v", d)
	}

	if d, err = f.draft.SelectClient(ctx, d.ID, f.client.ID, clerk); err != nil || d.Client == nil {
		t.Fatalf("SelectClient = %+v, %v", d, err)
	}
	// first add always starts at one
	if d, _ = f.draft.AddLine(ctx, d.ID, f.keyboard.ID, 5, clerk); !d.Applied || d.Lines[0].Quantity != 1 {
		t.Fatalf("first AddLine = %+v", d)
	}
	// 1 + 5 exceeds the 3 in stock
	if d, _ = f.draft.AddLine(ctx, d.ID, f.keyboard.ID, 5, clerk); d.Applied || d.Lines[0].Quantity != 1 {
		t.Fatalf("over-stock AddLine = %+v", d)
	}
	if d, _ = f.draft.Increment(ctx, d.ID, f.keyboard.ID, clerk); d.Lines[0].Quantity != 2 {
		t.Fatalf("Increment = %+v", d)
	}
	if d, _ = f.draft.AddLine(ctx, d.ID, f.mouse.ID, 1, clerk); len(d.Lines) != 2 {
		t.Fatalf("second product = %+v", d)
	}
	if d, _ = f.draft.SetQuantity(ctx, d.ID, f.mouse.ID, 4, clerk); d.Lines[1].Quantity != 4 {
		t.Fatalf("SetQuantity = %+v", d)
	}
	if d, _ = f.draft.Decrement(ctx, d.ID, f.mouse.ID, clerk); d.Lines[1].Quantity != 3 {
		t.Fatalf("Decrement = %+v", d)
	}
	// 2*25 + 3*10.50 = 81.50, tax 9.78
	if !d.Subtotal.Equal(dec("81.5")) || !d.Tax.Equal(dec("9.78")) || !d.Total.Equal(dec("91.28")) {
		t.Fatalf("totals = %s / %s / %s", d.Subtotal, d.Tax, d.Total)
	}

	sub, err := f.draft.Submit(ctx, d.ID, "counter sale", clerk)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !strings.HasPrefix(sub.Request.InvoiceNumber, "FA-") || sub.Request.UserID != f.clerk.ID {
		t.Fatalf("request = %+v", sub.Request)
	}
	if sub.RefreshErr != nil || len(sub.Invoices) != 1 {
		t.Fatalf("refresh = %v, %d invoices", sub.RefreshErr, len(sub.Invoices))
	}
	if got := f.stockOf(t, f.keyboard); got != 1 {
		t.Fatalf("keyboard stock = %d", got)
	}

	after, _ := f.draft.Get(ctx, d.ID, clerk)
	if after.Client != nil || len(after.Lines) != 0 || !after.Total.IsZero() {
		t.Fatalf("draft not reset: %+v", after)
	}
	if got := testutil.ToFloat64(f.metrics.InvoicesSubmitted.WithLabelValues("ok")); got != 1 {
		t.Fatalf("submitted ok = %v", got)
	}
	if got := testutil.ToFloat64(f.metrics.DraftOperations.WithLabelValues("add_line", "rejected")); got != 1 {
		t.Fatalf("rejected add_line = %v", got)
	}
}

func TestDraftService_SubmitFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clerk := f.actor(f.clerk)

	d, _ := f.draft.Create(ctx, clerk)
	f.draft.SelectClient(ctx, d.ID, f.client.ID, clerk)
	f.draft.AddLine(ctx, d.ID, f.keyboard.ID, 1, clerk)
	f.draft.SetQuantity(ctx, d.ID, f.keyboard.ID, 3, clerk)

	// someone else sells two keyboards in the meantime
	if _, err := f.invoice.Create(ctx, f.request("FA-OTHER", line(f.keyboard, 2)), clerk); err != nil {
		t.Fatalf("competing invoice: %v", err)
	}

	_, err := f.draft.Submit(ctx, d.ID, "", clerk)
	var upstream *invoice.UpstreamError
	if !errors.As(err, &upstream) || upstream.Kind != invoice.KindValidation {
		t.Fatalf("Submit err = %v, want validation upstream error", err)
	}
	if !strings.Contains(err.Error(), "insufficient stock") {
		t.Fatalf("message = %q", err.Error())
	}

	kept, _ := f.draft.Get(ctx, d.ID, clerk)
	if len(kept.Lines) != 1 || kept.Lines[0].Quantity != 3 || kept.Client == nil {
		t.Fatalf("draft changed after failed submit: %+v", kept)
	}
	if got := testutil.ToFloat64(f.metrics.InvoicesSubmitted.WithLabelValues("error")); got != 1 {
		t.Fatalf("submitted error = %v", got)
	}
}

func TestDraftService_NotReady(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	clerk := f.actor(f.clerk)
	d, _ := f.draft.Create(ctx, clerk)
	f.draft.AddLine(ctx, d.ID, f.mouse.ID, 1, clerk)

	if _, err := f.draft.Submit(ctx, d.ID, "", clerk); !errors.Is(err, invoice.ErrInvalidInvoiceState) {
		t.Fatalf("Submit without client = %v", err)
	}
	if list, _ := f.invoice.List(ctx); len(list) != 0 {
		t.Fatalf("invoice persisted: %d", len(list))
	}
}

func TestDraftService_Ownership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d, _ := f.draft.Create(ctx, f.actor(f.clerk))

	if _, err := f.draft.Get(ctx, d.ID, f.actor(f.admin)); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("foreign Get = %v", err)
	}
	if err := f.draft.Discard(ctx, d.ID, f.actor(f.admin)); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("foreign Discard = %v", err)
	}
	if _, err := f.draft.AddLine(ctx, d.ID, uuid.New(), 1, f.actor(f.clerk)); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product = %v", err)
	}
	if _, err := f.draft.SelectClient(ctx, d.ID, uuid.New(), f.actor(f.clerk)); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("unknown client = %v", err)
	}
	if err := f.draft.Discard(ctx, d.ID, f.actor(f.clerk)); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := f.draft.Get(ctx, d.ID, f.actor(f.clerk)); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("Get after discard = %v", err)
	}
}

func TestDraftService_Prune(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := f.draft.(*draftService)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	stale, _ := f.draft.Create(ctx, f.actor(f.clerk))
	svc.now = func() time.Time { return start.Add(time.Hour) }
	fresh, _ := f.draft.Create(ctx, f.actor(f.clerk))

	if n := f.draft.Prune(30 * time.Minute); n != 1 {
		t.Fatalf("pruned %d, want 1", n)
	}
	if _, err := f.draft.Get(ctx, stale.ID, f.actor(f.clerk)); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("stale draft survived: %v", err)
	}
	if _, err := f.draft.Get(ctx, fresh.ID, f.actor(f.clerk)); err != nil {
		t.Fatalf("fresh draft pruned: %v", err)
	}
}

func TestUpstreamError(t *testing.T) {
	tests := []struct {
		err  error
		want invoice.ErrorKind
	}{
		{ErrValidation, invoice.KindValidation},
		{ErrInvalidInvoice, invoice.KindValidation},
		{ErrClientNotFound, invoice.KindValidation},
		{ErrInvoiceExists, invoice.KindConflict},
		{errors.New("connection reset"), invoice.KindUnknown},
	}
	for _, tt := range tests {
		var ue *invoice.UpstreamError
		if !errors.As(upstreamError("create the invoice", tt.err), &ue) || ue.Kind != tt.want {
			t.Errorf("upstreamError(%v) kind = %v, want %v", tt.err, ue, tt.want)
		}
	}
}
