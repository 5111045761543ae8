package repository

import (
	"context"
	"strings"

	"go-backoffice/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvoiceFilter narrows paged invoice listings.
type InvoiceFilter struct {
	Search string
	UserID *uuid.UUID
}

type InvoiceRepository interface {
	Create(tx *gorm.DB, invoice *model.Invoice) error
	FindAll(ctx context.Context) ([]model.Invoice, error)
	FindPage(ctx context.Context, filter InvoiceFilter, pageNumber, pageSize int) ([]model.Invoice, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	FindByNumber(ctx context.Context, number string) (*model.Invoice, error)
	FindDetails(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceDetail, error)
	Delete(tx *gorm.DB, id uuid.UUID, deletedBy string) error
}

type invoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db}
}

// Create saves the invoice and its details inside tx.
func (r *invoiceRepo) Create(tx *gorm.DB, invoice *model.Invoice) error {
	return tx.Create(invoice).Error
}

func (r *invoiceRepo) FindAll(ctx context.Context) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Order("issue_date DESC").
		Find(&invoices).Error
	return invoices, err
}

// FindPage matches Search against the invoice number and the client name.
func (r *invoiceRepo) FindPage(ctx context.Context, filter InvoiceFilter, pageNumber, pageSize int) ([]model.Invoice, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Invoice{})
	if filter.UserID != nil {
		q = q.Where("invoices.user_id = ?", *filter.UserID)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Joins("LEFT JOIN clients ON clients.id = invoices.client_id").
			Where("LOWER(invoices.invoice_number) LIKE ? OR LOWER(clients.first_name || ' ' || clients.last_name) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []model.Invoice
	err := q.Preload("Client").
		Order("invoices.issue_date DESC").
		Offset((pageNumber - 1) * pageSize).
		Limit(pageSize).
		Find(&invoices).Error
	return invoices, total, err
}

func (r *invoiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Details.Product").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindByNumber(ctx context.Context, number string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.WithContext(ctx).First(&invoice, "invoice_number = ?", number).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepo) FindDetails(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceDetail, error) {
	var details []model.InvoiceDetail
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&details).Error
	return details, err
}

// Delete soft-deletes the invoice and its details inside tx.
func (r *invoiceRepo) Delete(tx *gorm.DB, id uuid.UUID, deletedBy string) error {
	res := tx.Model(&model.Invoice{}).Where("id = ?", id).Update("deleted_by", deletedBy)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if err := tx.Where("invoice_id = ?", id).Delete(&model.InvoiceDetail{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Invoice{}, "id = ?", id).Error
}
