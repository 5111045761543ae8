package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-backoffice/internal/middleware"
	"go-backoffice/internal/model"
	"go-backoffice/internal/search"
	"go-backoffice/internal/service"
)

// searchPrivileges is the view privilege each kind needs, the same one its
// listing route requires.
var searchPrivileges = map[search.Kind]string{
	search.KindRole:    model.PrivRoleView,
	search.KindProduct: model.PrivProductView,
	search.KindClient:  model.PrivClientView,
	search.KindUser:    model.PrivUserView,
	search.KindInvoice: model.PrivInvoiceView,
}

type SearchHandler struct {
	service service.SearchService
}

func NewSearchHandler(s service.SearchService) *SearchHandler {
	return &SearchHandler{service: s}
}

// Search filters a freshly loaded collection of one kind.
// GET /api/v1/search/:kind?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	kind, err := search.ParseKind(c.Params("kind"))
	if err != nil {
		return err
	}
	if priv := searchPrivileges[kind]; !middleware.HasPrivilege(c, priv) {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden: requires '"+priv+"' privilege")
	}

	res, err := h.service.Search(c.UserContext(), kind.String(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(res)
}
