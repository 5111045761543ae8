package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is a persisted sales invoice. Totals are recomputed server-side on create.
type Invoice struct {
	BaseModel
	InvoiceNumber string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"invoiceNumber"`
	ClientID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"clientId"`
	Client        *Client         `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"userId"`
	IssueDate     time.Time       `gorm:"not null" json:"issueDate"`
	Observations  string          `gorm:"type:text" json:"observations"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Details       []InvoiceDetail `gorm:"foreignKey:InvoiceID" json:"invoiceDetails,omitempty"`
}

type InvoiceDetail struct {
	BaseModel
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoiceId"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unitPrice"`
	Subtotal  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"subtotal"`
}
