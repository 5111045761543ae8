package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "invoice:create"
	Name string `gorm:"type:varchar(100)" json:"name"`
}

const (
	PrivUserView      = "user:view"
	PrivUserCreate    = "user:create"
	PrivUserUpdate    = "user:update"
	PrivUserDelete    = "user:delete"
	PrivRoleView      = "role:view"
	PrivProductView   = "product:view"
	PrivProductCreate = "product:create"
	PrivProductUpdate = "product:update"
	PrivClientView    = "client:view"
	PrivClientCreate  = "client:create"
	PrivClientUpdate  = "client:update"
	PrivClientDelete  = "client:delete"
	PrivInvoiceView   = "invoice:view"
	PrivInvoiceCreate = "invoice:create"
	PrivInvoiceDelete = "invoice:delete"
	PrivDashboardView = "dashboard:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	{Code: PrivUserDelete, Name: "Delete User"},
	{Code: PrivRoleView, Name: "View Role"},
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivProductUpdate, Name: "Update Product"},
	{Code: PrivClientView, Name: "View Client"},
	{Code: PrivClientCreate, Name: "Create Client"},
	{Code: PrivClientUpdate, Name: "Update Client"},
	{Code: PrivClientDelete, Name: "Delete Client"},
	{Code: PrivInvoiceView, Name: "View Invoice"},
	{Code: PrivInvoiceCreate, Name: "Create Invoice"},
	{Code: PrivInvoiceDelete, Name: "Delete Invoice"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}
