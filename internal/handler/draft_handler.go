package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/service"
)

// DraftHandler drives server-hosted invoice drafts. Every mutation answers
// with the whole draft; "applied": false means it was rejected and nothing
// changed.
type DraftHandler struct {
	service service.DraftService
}

func NewDraftHandler(s service.DraftService) *DraftHandler {
	return &DraftHandler{service: s}
}

type selectClientRequest struct {
	ClientID uuid.UUID `json:"clientId"`
}

type addLineRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type submitRequest struct {
	Observations string `json:"observations"`
}

// SubmitResponse reports the created invoice number and the caller's own
// invoices after the refresh.
type SubmitResponse struct {
	InvoiceNumber string `json:"invoiceNumber"`
	OwnInvoices   int    `json:"ownInvoices"`
	RefreshError  string `json:"refreshError,omitempty"`
}

func (h *DraftHandler) Create(c *fiber.Ctx) error {
	d, err := h.service.Create(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(d)
}

func (h *DraftHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	d, err := h.service.Get(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) SelectClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req selectClientRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	d, err := h.service.SelectClient(c.UserContext(), id, req.ClientID, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) AddLine(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	req := addLineRequest{Quantity: 1}
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	d, err := h.service.AddLine(c.UserContext(), id, req.ProductID, req.Quantity, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) SetQuantity(c *fiber.Ctx) error {
	id, productID, err := draftLine(c)
	if err != nil {
		return err
	}
	var req setQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badJSON(c)
	}
	d, err := h.service.SetQuantity(c.UserContext(), id, productID, req.Quantity, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) Increment(c *fiber.Ctx) error {
	id, productID, err := draftLine(c)
	if err != nil {
		return err
	}
	d, err := h.service.Increment(c.UserContext(), id, productID, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) Decrement(c *fiber.Ctx) error {
	id, productID, err := draftLine(c)
	if err != nil {
		return err
	}
	d, err := h.service.Decrement(c.UserContext(), id, productID, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) Remove(c *fiber.Ctx) error {
	id, productID, err := draftLine(c)
	if err != nil {
		return err
	}
	d, err := h.service.Remove(c.UserContext(), id, productID, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(d)
}

func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req submitRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badJSON(c)
		}
	}

	actor := actorFrom(c)
	sub, err := h.service.Submit(c.UserContext(), id, req.Observations, actor)
	if err != nil {
		return err
	}
	resp := SubmitResponse{
		InvoiceNumber: sub.Request.InvoiceNumber,
		OwnInvoices:   len(invoice.OwnedBy(sub.Invoices, actor.ID)),
	}
	if sub.RefreshErr != nil {
		resp.RefreshError = sub.RefreshErr.Error()
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Discard(c.UserContext(), id, actorFrom(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func draftLine(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	id, err := paramID(c, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	productID, err := paramID(c, "productId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, productID, nil
}
