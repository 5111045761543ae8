package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-backoffice/internal/metrics"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/testdb"
	"go-backoffice/internal/ws"
	"go-backoffice/pkg/jwt"
	"go-backoffice/pkg/logger"
)

const testPassword = "secret1"

type fixture struct {
	db         *gorm.DB
	products   repository.ProductRepository
	clients    repository.ClientRepository
	users      repository.UserRepository
	roles      repository.RoleRepository
	privileges repository.PrivilegeRepository
	invoices   repository.InvoiceRepository
	movements  repository.StockMovementRepository
	metrics    *metrics.Metrics

	auth      AuthService
	invoice   InvoiceService
	catalog   CatalogService
	user      UserService
	draft     DraftService
	search    SearchService
	dashboard DashboardService

	admin    *model.User
	clerk    *model.User
	client   model.Client
	keyboard model.Product
	mouse    model.Product
	monitor  model.Product
}

func (f *fixture) actor(u *model.User) Actor {
	return Actor{ID: u.ID, UserName: u.UserName, Email: u.Email}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testdb.Open(t)
	log := logger.Nop()
	hub := ws.NewHub(log)

	f := &fixture{
		db:         db,
		products:   repository.NewProductRepo(db),
		clients:    repository.NewClientRepo(db),
		users:      repository.NewUserRepo(db),
		roles:      repository.NewRoleRepo(db),
		privileges: repository.NewPrivilegeRepo(db),
		invoices:   repository.NewInvoiceRepo(db),
		movements:  repository.NewStockMovementRepo(db),
		metrics:    metrics.New(),
	}
	f.auth = NewAuthService(f.users, jwt.NewManager("test-secret", time.Hour), hub, 30*time.Minute, log)
	f.invoice = NewInvoiceService(f.invoices, f.products, f.clients, f.movements, db, hub, log)
	f.catalog = NewCatalogService(f.products, f.clients, db, hub, log)
	f.user = NewUserService(f.users, f.privileges, f.roles, log)
	f.draft = NewDraftService(f.invoice, f.products, f.clients, f.metrics, log)
	f.search = NewSearchService(f.roles, f.products, f.clients, f.users, f.invoices, f.metrics)
	f.dashboard = NewDashboardService(f.movements)

	if err := f.privileges.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed privileges: %v", err)
	}
	if err := f.roles.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	all, _ := f.privileges.FindAll(ctx)
	adminRole, _ := f.roles.FindByCode(ctx, model.RoleAdministrator)
	if err := f.roles.AssignPrivileges(ctx, adminRole, all); err != nil {
		t.Fatalf("assign admin privileges: %v", err)
	}
	employeeRole, _ := f.roles.FindByCode(ctx, model.RoleEmployee)
	granted, _ := f.privileges.FindByCodes(ctx, model.EmployeePrivileges)
	if err := f.roles.AssignPrivileges(ctx, employeeRole, granted); err != nil {
		t.Fatalf("assign employee privileges: %v", err)
	}

	f.admin = f.createUser(t, "admin", "admin@example.com", adminRole.ID, all)
	f.clerk = f.createUser(t, "clerk", "clerk@example.com", employeeRole.ID, granted)

	f.client = model.Client{
		IdentificationType:   model.IdentificationCedula,
		IdentificationNumber: "0102030405",
		FirstName:            "Ana",
		LastName:             "Mora",
	}
	if err := f.clients.Create(ctx, &f.client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	f.keyboard = f.createProduct(t, "K1", "Keyboard", "25.00", 3, true)
	f.mouse = f.createProduct(t, "M1", "Mouse", "10.50", 20, true)
	f.monitor = f.createProduct(t, "MON-27", "Monitor 27", "199.99", 4, false)
	return f
}

func (f *fixture) createUser(t *testing.T, name, email string, roleID uint, privs []model.Privilege) *model.User {
	t.Helper()
	u := &model.User{UserName: name, Email: email, RoleID: &roleID, Privileges: privs}
	if err := u.SetPassword(testPassword); err != nil {
		t.Fatal(err)
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func (f *fixture) createProduct(t *testing.T, code, name, price string, stock int, active bool) model.Product {
	t.Helper()
	p := model.Product{Code: code, Name: name, Price: decimal.RequireFromString(price), Stock: stock, IsActive: active}
	if err := f.products.Create(context.Background(), &p); err != nil {
		t.Fatalf("create product %s: %v", code, err)
	}
	return p
}

func (f *fixture) stockOf(t *testing.T, p model.Product) int {
	t.Helper()
	got, err := f.products.FindByID(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("reload %s: %v", p.Code, err)
	}
	return got.Stock
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
