package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"go-backoffice/internal/metrics"
	"go-backoffice/internal/middleware"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/service"
	"go-backoffice/internal/ws"
	"go-backoffice/pkg/logger"
)

// Deps is everything the routes need.
type Deps struct {
	Auth      service.AuthService
	Users     service.UserService
	Catalog   service.CatalogService
	Invoices  service.InvoiceService
	Drafts    service.DraftService
	Search    service.SearchService
	Dashboard service.DashboardService

	Roles      repository.RoleRepository
	Privileges repository.PrivilegeRepository

	Hub     *ws.Hub
	Metrics *metrics.Metrics
}

// NewApp returns a fiber app with the shared error handler and the base
// middleware stack. Request logging is added by the caller.
func NewApp(appName, corsOrigins string, log logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins}))
	return app
}

func Register(app *fiber.App, d Deps) {
	authHandler := NewAuthHandler(d.Auth)
	userHandler := NewUserHandler(d.Users)
	roleHandler := NewRoleHandler(d.Roles, d.Privileges)
	catalogHandler := NewCatalogHandler(d.Catalog)
	invoiceHandler := NewInvoiceHandler(d.Invoices)
	draftHandler := NewDraftHandler(d.Drafts)
	searchHandler := NewSearchHandler(d.Search)
	dashHandler := NewDashboardHandler(d.Dashboard)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(d.Auth), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(d.Auth))
	need := middleware.RequirePrivilege

	protected.Get("/dashboard/stats", need(model.PrivDashboardView), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", need(model.PrivDashboardView), dashHandler.GetStockMovement)
	protected.Get("/dashboard/sales", need(model.PrivDashboardView), dashHandler.GetSalesSummary)

	protected.Get("/products", need(model.PrivProductView), catalogHandler.GetProducts)
	protected.Get("/products/:id", need(model.PrivProductView), catalogHandler.GetProduct)
	protected.Post("/products", need(model.PrivProductCreate), catalogHandler.CreateProduct)
	protected.Put("/products/:id", need(model.PrivProductUpdate), catalogHandler.UpdateProduct)

	protected.Get("/clients", need(model.PrivClientView), catalogHandler.GetClients)
	protected.Get("/clients/:id", need(model.PrivClientView), catalogHandler.GetClient)
	protected.Post("/clients", need(model.PrivClientCreate), catalogHandler.CreateClient)
	protected.Put("/clients/:id", need(model.PrivClientUpdate), catalogHandler.UpdateClient)
	protected.Delete("/clients/:id", need(model.PrivClientDelete), catalogHandler.DeleteClient)

	protected.Get("/invoices", need(model.PrivInvoiceView), invoiceHandler.GetInvoices)
	protected.Get("/invoices/:id", need(model.PrivInvoiceView), invoiceHandler.GetInvoice)
	protected.Get("/invoices/:id/details", need(model.PrivInvoiceView), invoiceHandler.GetInvoiceDetails)
	protected.Post("/invoices", need(model.PrivInvoiceCreate), invoiceHandler.CreateInvoice)
	protected.Delete("/invoices/:id", need(model.PrivInvoiceDelete), invoiceHandler.DeleteInvoice)

	drafts := protected.Group("/drafts", need(model.PrivInvoiceCreate))
	drafts.Post("/", draftHandler.Create)
	drafts.Get("/:id", draftHandler.Get)
	drafts.Delete("/:id", draftHandler.Discard)
	drafts.Put("/:id/client", draftHandler.SelectClient)
	drafts.Post("/:id/lines", draftHandler.AddLine)
	drafts.Put("/:id/lines/:productId", draftHandler.SetQuantity)
	drafts.Delete("/:id/lines/:productId", draftHandler.Remove)
	drafts.Post("/:id/lines/:productId/increment", draftHandler.Increment)
	drafts.Post("/:id/lines/:productId/decrement", draftHandler.Decrement)
	drafts.Post("/:id/submit", draftHandler.Submit)

	protected.Get("/search/:kind", searchHandler.Search)

	// "me" is registered before ":id" so it is not parsed as an id
	protected.Get("/users/me", authHandler.Me)
	protected.Get("/users", need(model.PrivUserView), userHandler.GetUsers)
	protected.Get("/users/:id", need(model.PrivUserView), userHandler.GetUser)
	protected.Post("/users", need(model.PrivUserCreate), userHandler.CreateUser)
	protected.Put("/users/:id", need(model.PrivUserUpdate), userHandler.UpdateUser)
	protected.Delete("/users/:id", need(model.PrivUserDelete), userHandler.DeleteUser)
	protected.Post("/users/:id/unlock", need(model.PrivUserUpdate), userHandler.UnlockUser)
	protected.Put("/users/:id/privileges", need(model.PrivUserUpdate), userHandler.UpdateUserPrivileges)

	protected.Get("/roles", need(model.PrivRoleView), roleHandler.GetRoles)
	protected.Get("/privileges", need(model.PrivRoleView), roleHandler.GetPrivileges)

	if d.Hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(func(c *websocket.Conn) {
			if !d.Hub.Attach(c) {
				return
			}
			defer d.Hub.Detach(c)

			for {
				if _, _, err := c.ReadMessage(); err != nil {
					break
				}
			}
		}))
	}
}
