package search

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-backoffice/internal/model"
)

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = name(it)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func productName(p model.Product) string { return p.Name }

func TestProductIndex(t *testing.T) {
	products := []model.Product{
		{Name: "Mouse", Code: "M1", IsActive: true},
		{Name: "Keyboard", Code: "K1", IsActive: false},
	}
	idx, err := New(KindProduct, products)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := names(idx.Filter("k1"), productName); !equal(got, []string{"Keyboard"}) {
		t.Fatalf("Filter(k1) = %v", got)
	}
	if got := names(idx.Filter(""), productName); !equal(got, []string{"Mouse", "Keyboard"}) {
		t.Fatalf("Filter(\"\") = %v", got)
	}
	if got := names(idx.Filter("NO"), productName); !equal(got, []string{"Keyboard"}) {
		t.Fatalf("Filter(NO) = %v", got)
	}
}

func TestFilter_shrinkingQueryUsesFullCollection(t *testing.T) {
	idx, _ := New(KindProduct, []model.Product{
		{Name: "Cable HDMI"}, {Name: "Cable USB"}, {Name: "Monitor"},
	})

	idx.Filter("cable hdmi")
	got := names(idx.Filter("cable"), productName)
	if !equal(got, []string{"Cable HDMI", "Cable USB"}) {
		t.Fatalf("Filter(cable) after narrower query = %v", got)
	}
	if idx.Query() != "cable" || len(idx.View()) != 2 {
		t.Fatalf("query/view not kept: %q %d", idx.Query(), len(idx.View()))
	}
}

func TestFilter_whitespaceIsPartOfTheQuery(t *testing.T) {
	clientName := func(c model.Client) string { return c.FirstName }
	idx, err := New(KindClient, []model.Client{
		{FirstName: "Ana", LastName: "Mora", Address: "Av Principal"},
		{FirstName: "Luis", LastName: "Vera", Address: "Centro"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := names(idx.Filter(" "), clientName); !equal(got, []string{"Ana"}) {
		t.Errorf("Filter(\" \") = %v, want only the address with a space", got)
	}
	if got := idx.Filter("ana "); len(got) != 0 {
		t.Errorf("Filter(\"ana \") = %v, want no match", names(got, clientName))
	}
	if got := idx.Query(); got != "ana " {
		t.Errorf("Query() = %q, want it kept as typed", got)
	}
	if got := names(idx.Filter("av p"), clientName); !equal(got, []string{"Ana"}) {
		t.Errorf("Filter(\"av p\") = %v", got)
	}
}

func TestRoleIndex_activeFlag(t *testing.T) {
	idx, err := New(KindRole, []model.Role{
		{Name: "Administrator", IsActive: true},
		{Name: "Auditor", IsActive: false},
		{Name: "Employee", IsActive: true},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := names(idx.Filter("sí"), func(r model.Role) string { return r.Name })
	if !equal(got, []string{"Administrator", "Employee"}) {
		t.Fatalf("Filter(sí) = %v", got)
	}
}

func TestClientIndex_fields(t *testing.T) {
	c := model.Client{
		IdentificationType: model.IdentificationCedula, IdentificationNumber: "0102030405",
		FirstName: "Ana", LastName: "Mora", Email: "ana@example.com", Phone: "0991234567", Address: "Av. Loja",
	}
	c.ID = uuid.MustParse("6f1c2d3e-0000-4000-8000-000000000001")
	idx, _ := New(KindClient, []model.Client{c, {FirstName: "Luis"}})

	for _, q := range []string{"6F1C2D3E", "cedula", "0102", "ANA", "mora", "example.com", "099", "loja"} {
		if got := idx.Filter(q); len(got) != 1 || got[0].FirstName != "Ana" {
			t.Errorf("Filter(%q) = %v", q, got)
		}
	}
}

func TestUserIndex_fields(t *testing.T) {
	idx, _ := New(KindUser, []model.User{
		{UserName: "jdoe", Email: "j@x.io", IsLocked: true, EmailConfirmed: true},
		{UserName: "asmith", Email: "a@x.io"},
	})
	if got := idx.Filter("sí"); len(got) != 1 || got[0].UserName != "jdoe" {
		t.Fatalf("Filter(sí) = %v", got)
	}
	if got := idx.Filter("x.io"); len(got) != 2 {
		t.Fatalf("Filter(x.io) = %d records", len(got))
	}
}

func TestInvoiceIndex_fields(t *testing.T) {
	invoices := []model.Invoice{
		{
			InvoiceNumber: "FA-20240501123456789",
			Client:        &model.Client{FirstName: "Ana", LastName: "Mora"},
			Subtotal:      decimal.RequireFromString("10.50"),
			Tax:           decimal.RequireFromString("1.26"),
			Total:         decimal.RequireFromString("11.76"),
		},
		{InvoiceNumber: "FA-20240502000000000"},
	}
	idx, _ := New(KindInvoice, invoices)

	for _, q := range []string{"0501", "mora", "10.5", "11.76"} {
		if got := idx.Filter(q); len(got) != 1 || got[0].InvoiceNumber != invoices[0].InvoiceNumber {
			t.Errorf("Filter(%q) = %v", q, got)
		}
	}
}

func TestNew_kindMismatch(t *testing.T) {
	if _, err := New(KindRole, []model.Product{}); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
	if _, err := New(Kind("Shift"), []model.Product{}); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
}

func TestLoad_resetsView(t *testing.T) {
	idx, _ := New(KindProduct, []model.Product{{Name: "Mouse"}})
	idx.Filter("zzz")
	if len(idx.View()) != 0 {
		t.Fatal("expected empty view")
	}
	view := idx.Load([]model.Product{{Name: "Mouse"}, {Name: "Pad"}})
	if len(view) != 2 || idx.Query() != "" || idx.Len() != 2 {
		t.Fatalf("Load should reset to full view, got %d query=%q", len(view), idx.Query())
	}
}

func TestSelectItem(t *testing.T) {
	idx, _ := New(KindProduct, []model.Product{{Name: "Mouse"}})
	var picked model.Product
	idx.OnSelect(func(p model.Product) { picked = p })

	got := idx.SelectItem(model.Product{Name: "Not in collection"})
	if got.Name != "Not in collection" || picked.Name != got.Name {
		t.Fatalf("SelectItem = %v, callback got %v", got, picked)
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"Role": KindRole, "roles": KindRole, "Products": KindProduct,
		"CLIENTS": KindClient, "Usuarios": KindUser, "users": KindUser, "Invoices": KindInvoice,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseKind("shifts"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
