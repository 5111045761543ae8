package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-backoffice/internal/model"
	"go-backoffice/internal/service"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetProducts looks products up by name or code.
// GET /api/v1/products?search=&pageNumber=&pageSize=
func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	page, err := h.service.SearchProducts(c.UserContext(),
		c.Query("search"), c.QueryInt("pageNumber", 1), c.QueryInt("pageSize", model.DefaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(product)
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badJSON(c)
	}
	if err := h.service.CreateProduct(c.UserContext(), &product, actorFrom(c)); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return badJSON(c)
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, &product, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

// GetClients looks clients up by full name or identification number.
// GET /api/v1/clients?search=&pageNumber=&pageSize=
func (h *CatalogHandler) GetClients(c *fiber.Ctx) error {
	page, err := h.service.SearchClients(c.UserContext(),
		c.Query("search"), c.QueryInt("pageNumber", 1), c.QueryInt("pageSize", model.DefaultPageSize))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

func (h *CatalogHandler) GetClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.service.GetClient(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(client)
}

func (h *CatalogHandler) CreateClient(c *fiber.Ctx) error {
	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return badJSON(c)
	}
	if err := h.service.CreateClient(c.UserContext(), &client, actorFrom(c)); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Client created", "data": client})
}

func (h *CatalogHandler) UpdateClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var client model.Client
	if err := c.BodyParser(&client); err != nil {
		return badJSON(c)
	}

	updated, err := h.service.UpdateClient(c.UserContext(), id, &client, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Client updated", "data": updated})
}

func (h *CatalogHandler) DeleteClient(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteClient(c.UserContext(), id, actorFrom(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Client deleted"})
}
