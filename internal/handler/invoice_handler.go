package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/service"
)

type InvoiceHandler struct {
	service service.InvoiceService
}

func NewInvoiceHandler(s service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

// GetInvoices returns every invoice as a plain array, or a page envelope
// when page or search is given. mine=true keeps the caller's own invoices.
// GET /api/v1/invoices?page=&pageSize=&search=&mine=
func (h *InvoiceHandler) GetInvoices(c *fiber.Ctx) error {
	actor := actorFrom(c)
	mine := c.QueryBool("mine", false)

	if c.Query("page") == "" && c.Query("search") == "" {
		list, err := h.service.List(c.UserContext())
		if err != nil {
			return err
		}
		if mine {
			list = invoice.OwnedBy(list, actor.ID)
		}
		if list == nil {
			list = []model.Invoice{}
		}
		return c.JSON(list)
	}

	filter := repository.InvoiceFilter{Search: c.Query("search")}
	if mine {
		filter.UserID = &actor.ID
	}
	page, err := h.service.ListPage(c.UserContext(), filter, c.QueryInt("page", 1), c.QueryInt("pageSize", model.DefaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	inv, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(inv)
}

func (h *InvoiceHandler) GetInvoiceDetails(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	details, err := h.service.Details(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(details)
}

// CreateInvoice persists a submitted invoice. Totals are recomputed server-side.
// POST /api/v1/invoices
func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req invoice.CreateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	inv, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Invoice created", "data": inv})
}

func (h *InvoiceHandler) DeleteInvoice(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id, actorFrom(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Invoice deleted"})
}
