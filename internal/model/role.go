package model

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // ADMINISTRATOR, EMPLOYEE
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	IsActive    bool        `gorm:"not null" json:"isActive"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

// Role codes as constants
const (
	RoleAdministrator = "ADMINISTRATOR"
	RoleEmployee      = "EMPLOYEE"
)

// DefaultRoles defines the default roles in the system
var DefaultRoles = []Role{
	{
		Code:        RoleAdministrator,
		Name:        "Administrator",
		Description: "Manages catalog, clients, users and roles",
		IsActive:    true,
	},
	{
		Code:        RoleEmployee,
		Name:        "Employee",
		Description: "Issues sales invoices",
		IsActive:    true,
	},
}

// EmployeePrivileges is the subset granted to RoleEmployee on seed.
var EmployeePrivileges = []string{
	PrivInvoiceView, PrivInvoiceCreate,
	PrivProductView, PrivClientView, PrivClientCreate,
}
