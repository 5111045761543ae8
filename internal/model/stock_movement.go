package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement logs every stock change. Invoices write one OUT row per line.
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"productId"`
	Product     *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index" json:"invoiceId,omitempty"`
	Type        MovementType    `gorm:"type:varchar(10);not null" json:"type"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"` // unit price * quantity at movement time
	Note        string          `json:"note"`
}
