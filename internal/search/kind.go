package search

import (
	"fmt"
	"strings"

	"go-backoffice/internal/model"
)

type Kind string

const (
	KindRole    Kind = "Role"
	KindProduct Kind = "Product"
	KindClient  Kind = "Client"
	KindUser    Kind = "User"
	KindInvoice Kind = "Invoice"
)

var kindAliases = map[string]Kind{
	"role": KindRole, "roles": KindRole,
	"product": KindProduct, "products": KindProduct, "productos": KindProduct,
	"client": KindClient, "clients": KindClient, "clientes": KindClient,
	"user": KindUser, "users": KindUser, "usuarios": KindUser,
	"invoice": KindInvoice, "invoices": KindInvoice, "facturas": KindInvoice,
}

// ParseKind accepts kind labels and their plural forms, case-insensitively.
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrKindMismatch, s)
}

func (k Kind) String() string { return string(k) }

// extractors holds one func(T) []string per kind.
var extractors = map[Kind]any{
	KindRole: func(r model.Role) []string {
		return []string{r.Name, r.Description, yesNo(r.IsActive)}
	},
	KindProduct: func(p model.Product) []string {
		return []string{p.Name, p.Description, p.Code, yesNo(p.IsActive)}
	},
	KindClient: func(c model.Client) []string {
		return []string{
			c.ID.String(), c.IdentificationType, c.IdentificationNumber,
			c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
		}
	},
	KindUser: func(u model.User) []string {
		return []string{
			u.IdentificationNumber, u.UserName, u.Email,
			yesNo(u.IsLocked), yesNo(u.EmailConfirmed),
		}
	},
	KindInvoice: func(inv model.Invoice) []string {
		var first, last string
		if inv.Client != nil {
			first, last = inv.Client.FirstName, inv.Client.LastName
		}
		return []string{
			inv.InvoiceNumber, first, last,
			inv.Subtotal.String(), inv.Tax.String(), inv.Total.String(),
		}
	},
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
