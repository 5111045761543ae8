package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"go-backoffice/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserLocked         = errors.New("user account is locked")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")

	ErrEmailExists    = errors.New("email already exists")
	ErrUserNameExists = errors.New("user name already exists")
	ErrRoleNotFound   = errors.New("role not found")

	ErrProductNotFound   = errors.New("product not found")
	ErrProductCodeExists = errors.New("product code already exists")
	ErrClientNotFound    = errors.New("client not found")
	ErrClientExists      = errors.New("client identification already exists")

	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrInvoiceExists   = errors.New("invoice number already exists")
	ErrInvalidInvoice  = errors.New("invalid invoice")

	ErrDraftNotFound = errors.New("draft not found")

	ErrValidation = errors.New("validation failed")
)

// validate runs struct validation and wraps failures with ErrValidation.
func validate(req interface{}) error {
	if err := validator.Validate(req); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	return nil
}

// notFound swaps gorm's not-found error for the domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
