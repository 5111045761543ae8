package model

import "github.com/shopspring/decimal"

type Product struct {
	BaseModel
	Code        string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required,max=50"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	IsActive    bool            `gorm:"not null" json:"isActive"`
	ImageURI    string          `gorm:"type:varchar(500)" json:"imageUri"`
}

// Purchasable reports whether the product can be put on an invoice at all.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.Stock > 0
}
