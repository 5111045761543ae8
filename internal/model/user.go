package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents an authenticated back-office user
type User struct {
	BaseModel
	IdentificationNumber string      `gorm:"type:varchar(20)" json:"identificationNumber"`
	UserName             string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"userName"`
	Email                string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password             string      `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	PhoneNumber          string      `gorm:"type:varchar(20)" json:"phoneNumber"`
	RoleID               *uint       `gorm:"index" json:"roleId"`
	Role                 *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsLocked             bool        `gorm:"not null" json:"isLocked"`
	EmailConfirmed       bool        `gorm:"not null" json:"emailConfirmed"`
	Privileges           []Privilege `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion         string      `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt           *time.Time  `json:"lastSeenAt,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// HasPrivilege checks if the user has a specific privilege
func (u *User) HasPrivilege(code string) bool {
	for _, p := range u.Privileges {
		if p.Code == code {
			return true
		}
	}
	return false
}

// GetPrivilegeCodes returns a slice of all privilege codes for this user
func (u *User) GetPrivilegeCodes() []string {
	codes := make([]string, len(u.Privileges))
	for i, p := range u.Privileges {
		codes[i] = p.Code
	}
	return codes
}

func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID                   uuid.UUID  `json:"id"`
	IdentificationNumber string     `json:"identificationNumber"`
	UserName             string     `json:"userName"`
	Email                string     `json:"email"`
	EmailConfirmed       bool       `json:"emailConfirmed"`
	PhoneNumber          string     `json:"phoneNumber"`
	IsLocked             bool       `json:"isLocked"`
	RoleID               *uint      `json:"roleId,omitempty"`
	Role                 *Role      `json:"role,omitempty"`
	Roles                []string   `json:"roles"`
	LastSeenAt           *time.Time `json:"lastSeenAt,omitempty"`
	Privileges           []string   `json:"privileges"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	roles := []string{}
	if code := u.RoleCode(); code != "" {
		roles = append(roles, code)
	}
	return UserResponse{
		ID:                   u.ID,
		IdentificationNumber: u.IdentificationNumber,
		UserName:             u.UserName,
		Email:                u.Email,
		EmailConfirmed:       u.EmailConfirmed,
		PhoneNumber:          u.PhoneNumber,
		IsLocked:             u.IsLocked,
		RoleID:               u.RoleID,
		Role:                 u.Role,
		Roles:                roles,
		LastSeenAt:           u.LastSeenAt,
		Privileges:           u.GetPrivilegeCodes(),
	}
}
