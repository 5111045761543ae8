package model

import "strings"

// Identification types accepted for clients.
const (
	IdentificationCedula   = "CEDULA"
	IdentificationRUC      = "RUC"
	IdentificationPassport = "PASAPORTE"
)

type Client struct {
	BaseModel
	IdentificationType   string `gorm:"type:varchar(20);not null" json:"identificationType" validate:"required,oneof=CEDULA RUC PASAPORTE"`
	IdentificationNumber string `gorm:"type:varchar(20);uniqueIndex;not null" json:"identificationNumber" validate:"required,max=20"`
	FirstName            string `gorm:"type:varchar(100);not null" json:"firstName" validate:"required"`
	LastName             string `gorm:"type:varchar(100);not null" json:"lastName" validate:"required"`
	Phone                string `gorm:"type:varchar(20)" json:"phone"`
	Email                string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	Address              string `gorm:"type:text" json:"address"`
}

func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
