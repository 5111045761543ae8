package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
)

func (f *fixture) request(number string, lines ...invoice.DetailRequest) *invoice.CreateInvoiceRequest {
	return &invoice.CreateInvoiceRequest{
		InvoiceNumber:  number,
		ClientID:       f.client.ID,
		UserID:         f.clerk.ID,
		IssueDate:      time.Now().UTC(),
		InvoiceDetails: lines,
	}
}

func line(p model.Product, qty int) invoice.DetailRequest {
	return invoice.DetailRequest{ProductID: p.ID, Quantity: qty, UnitPrice: p.Price}
}

func TestInvoiceService_CreateTakesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	inv, err := f.invoice.Create(ctx, f.request("FA-1", line(f.keyboard, 2), line(f.mouse, 1)), f.actor(f.clerk))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !inv.Subtotal.Equal(dec("60.50")) || !inv.Tax.Equal(dec("7.26")) || !inv.Total.Equal(dec("67.76")) {
		t.Fatalf("totals = %s / %s / %s", inv.Subtotal, inv.Tax, inv.Total)
	}
	if got := f.stockOf(t, f.keyboard); got != 1 {
		t.Fatalf("keyboard stock = %d, want 1", got)
	}
	if got := f.stockOf(t, f.mouse); got != 19 {
		t.Fatalf("mouse stock = %d, want 19", got)
	}

	movements, err := f.movements.FindByInvoice(ctx, inv.ID)
	if err != nil || len(movements) != 2 {
		t.Fatalf("movements = %d, %v", len(movements), err)
	}
	for _, m := range movements {
		if m.Type != model.MovementOut {
			t.Fatalf("movement type = %s", m.Type)
		}
	}

	details, err := f.invoice.Details(ctx, inv.ID)
	if err != nil || len(details) != 2 {
		t.Fatalf("Details = %d, %v", len(details), err)
	}
}

func TestInvoiceService_CreateSameProductTwice(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoice.Create(context.Background(),
		f.request("FA-2", line(f.keyboard, 2), line(f.keyboard, 2)), f.actor(f.clerk))
	if !errors.Is(err, ErrInvalidInvoice) {
		t.Fatalf("err = %v, want ErrInvalidInvoice", err)
	}
	if got := f.stockOf(t, f.keyboard); got != 3 {
		t.Fatalf("stock changed on rejected invoice: %d", got)
	}
}

func TestInvoiceService_CreateRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.invoice.Create(ctx, f.request("FA-DUP", line(f.mouse, 1)), f.actor(f.clerk)); err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	unknownClient := f.request("FA-C", line(f.mouse, 1))
	unknownClient.ClientID = uuid.New()
	otherUser := f.request("FA-U", line(f.mouse, 1))
	otherUser.UserID = f.admin.ID

	tests := []struct {
		name string
		req  *invoice.CreateInvoiceRequest
		want error
	}{
		{"insufficient stock", f.request("FA-S", line(f.keyboard, 4)), ErrInvalidInvoice},
		{"inactive product", f.request("FA-I", line(f.monitor, 1)), ErrInvalidInvoice},
		{"unknown product", f.request("FA-P", invoice.DetailRequest{ProductID: uuid.New(), Quantity: 1}), ErrInvalidInvoice},
		{"duplicate number", f.request("FA-DUP", line(f.mouse, 1)), ErrInvoiceExists},
		{"unknown client", unknownClient, ErrClientNotFound},
		{"user mismatch", otherUser, ErrInvalidInvoice},
		{"no lines", f.request("FA-E"), ErrValidation},
		{"zero quantity", f.request("FA-Z", line(f.mouse, 0)), ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.invoice.Create(ctx, tt.req, f.actor(f.clerk)); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if got := f.stockOf(t, f.mouse); got != 19 {
		t.Fatalf("mouse stock = %d, want 19", got)
	}
}

func TestInvoiceService_DeleteRestoresStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv, err := f.invoice.Create(ctx, f.request("FA-D", line(f.keyboard, 3)), f.actor(f.clerk))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got := f.stockOf(t, f.keyboard); got != 0 {
		t.Fatalf("stock after create = %d", got)
	}

	if err := f.invoice.Delete(ctx, inv.ID, f.actor(f.admin)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := f.stockOf(t, f.keyboard); got != 3 {
		t.Fatalf("stock after delete = %d, want 3", got)
	}
	if _, err := f.invoice.Get(ctx, inv.ID); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("Get deleted = %v", err)
	}
	if err := f.invoice.Delete(ctx, inv.ID, f.actor(f.admin)); !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("second Delete = %v", err)
	}
}

func TestInvoiceService_ListPage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, n := range []string{"FA-10", "FA-11", "FA-12"} {
		if _, err := f.invoice.Create(ctx, f.request(n, line(f.mouse, 1)), f.actor(f.clerk)); err != nil {
			t.Fatalf("Create %s: %v", n, err)
		}
	}

	page, err := f.invoice.ListPage(ctx, repository.InvoiceFilter{Search: "ana"}, 1, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if page.TotalCount != 3 || len(page.Items) != 2 || page.TotalPages != 2 {
		t.Fatalf("page = %+v", page)
	}

	mine := f.admin.ID
	page, _ = f.invoice.ListPage(ctx, repository.InvoiceFilter{UserID: &mine}, 1, 10)
	if page.TotalCount != 0 || page.Items == nil {
		t.Fatalf("admin page = %+v", page)
	}
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.invoice.Create(ctx, f.request("FA-20", line(f.keyboard, 1)), f.actor(f.clerk)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	d := f.dashboard.(*dashboardService)
	d.now = func() time.Time { return time.Now().UTC().Add(time.Minute) }

	stats, err := f.dashboard.GetDashboardStats(ctx)
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	// keyboard 2 left, monitor 4: both under the threshold
	if stats.TotalProducts != 3 || stats.LowStockCount != 2 || stats.TotalInvoices != 1 || stats.TotalClients != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if want := dec("1059.96"); !stats.TotalValuation.Equal(want) {
		t.Fatalf("valuation = %s, want %s", stats.TotalValuation, want)
	}

	summary, err := f.dashboard.GetSalesSummary(ctx, 1)
	if err != nil {
		t.Fatalf("GetSalesSummary: %v", err)
	}
	if summary.InvoiceCount != 1 || !summary.Total.Equal(dec("28")) {
		t.Fatalf("summary = %+v", summary)
	}

	movement, err := f.dashboard.GetStockMovement(ctx, 7)
	if err != nil || len(movement) != 1 || movement[0].Outbound != 1 {
		t.Fatalf("movement = %+v, %v", movement, err)
	}
}
