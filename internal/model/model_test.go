package model

import "testing"

func TestProductPurchasable(t *testing.T) {
	cases := []struct {
		name   string
		active bool
		stock  int
		want   bool
	}{
		{"active with stock", true, 3, true},
		{"inactive", false, 3, false},
		{"no stock", true, 0, false},
	}
	for _, tc := range cases {
		p := Product{IsActive: tc.active, Stock: tc.stock}
		if got := p.Purchasable(); got != tc.want {
			t.Errorf("%s: Purchasable() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNormalizePage(t *testing.T) {
	n, s := NormalizePage(0, 0)
	if n != 1 || s != DefaultPageSize {
		t.Errorf("got %d/%d", n, s)
	}
	if _, s := NormalizePage(2, 1000); s != MaxPageSize {
		t.Errorf("size not clamped: %d", s)
	}
}

func TestNewPage_totalPages(t *testing.T) {
	p := NewPage[int](nil, 21, 1, 10)
	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if p.Items == nil {
		t.Error("Items should never be nil")
	}
}

func TestUserToResponse(t *testing.T) {
	u := User{UserName: "ana", Role: &Role{Code: RoleEmployee}, Privileges: []Privilege{{Code: PrivInvoiceCreate}}}
	r := u.ToResponse()
	if len(r.Roles) != 1 || r.Roles[0] != RoleEmployee {
		t.Errorf("unexpected roles: %v", r.Roles)
	}
	if !u.HasPrivilege(PrivInvoiceCreate) || u.HasPrivilege(PrivUserCreate) {
		t.Error("HasPrivilege mismatch")
	}
}

func TestUserPassword(t *testing.T) {
	var u User
	if err := u.SetPassword("secret1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !u.CheckPassword("secret1") || u.CheckPassword("other") {
		t.Error("CheckPassword mismatch")
	}
}

func TestClientFullName(t *testing.T) {
	c := Client{FirstName: "Ana", LastName: "Pérez"}
	if c.FullName() != "Ana Pérez" {
		t.Errorf("FullName = %q", c.FullName())
	}
}
