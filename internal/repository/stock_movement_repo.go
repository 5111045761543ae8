package repository

import (
	"context"
	"time"

	"go-backoffice/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.StockMovement, error)
	GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error)
	GetSalesSummary(ctx context.Context, startDate, endDate time.Time) (*SalesSummary, error)
}

// StockMovementData is one day of the stock chart.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats is the overview card data.
type DashboardStats struct {
	TotalProducts  int64           `json:"totalProducts"`
	LowStockCount  int64           `json:"lowStockCount"`
	TotalValuation decimal.Decimal `json:"totalValuation"`
	TotalClients   int64           `json:"totalClients"`
	TotalInvoices  int64           `json:"totalInvoices"`
}

// SalesSummary aggregates invoices issued in a period.
type SalesSummary struct {
	InvoiceCount int64           `json:"invoiceCount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

type stockMovementRepo struct {
	db *gorm.DB
}

func NewStockMovementRepo(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db}
}

func (r *stockMovementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockMovementRepo) FindByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("invoice_id = ?", invoiceID).
		Find(&movements).Error
	return movements, err
}

// GetStockMovement buckets movements per calendar day (UTC), oldest first.
func (r *stockMovementRepo) GetStockMovement(ctx context.Context, startDate, endDate time.Time) ([]StockMovementData, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Select("type", "quantity", "created_at").
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Order("created_at ASC").
		Find(&movements).Error
	if err != nil {
		return nil, err
	}

	results := []StockMovementData{}
	index := map[string]int{}
	for _, m := range movements {
		day := m.CreatedAt.UTC().Format("2006-01-02")
		i, ok := index[day]
		if !ok {
			i = len(results)
			index[day] = i
			results = append(results, StockMovementData{Date: day})
		}
		switch m.Type {
		case model.MovementIn:
			results[i].Inbound += m.Quantity
		case model.MovementOut:
			results[i].Outbound += m.Quantity
		}
	}
	return results, nil
}

func (r *stockMovementRepo) GetDashboardStats(ctx context.Context, lowStockThreshold int) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)

	if err := db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("stock < ?", lowStockThreshold).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Client{}).Count(&stats.TotalClients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Invoice{}).Count(&stats.TotalInvoices).Error; err != nil {
		return nil, err
	}

	var products []model.Product
	if err := db.Select("price", "stock").Find(&products).Error; err != nil {
		return nil, err
	}
	stats.TotalValuation = decimal.Zero
	for _, p := range products {
		stats.TotalValuation = stats.TotalValuation.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return &stats, nil
}

func (r *stockMovementRepo) GetSalesSummary(ctx context.Context, startDate, endDate time.Time) (*SalesSummary, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Select("subtotal", "tax", "total").
		Where("issue_date BETWEEN ? AND ?", startDate, endDate).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	summary := SalesSummary{
		InvoiceCount: int64(len(invoices)),
		Subtotal:     decimal.Zero,
		Tax:          decimal.Zero,
		Total:        decimal.Zero,
	}
	for _, inv := range invoices {
		summary.Subtotal = summary.Subtotal.Add(inv.Subtotal)
		summary.Tax = summary.Tax.Add(inv.Tax)
		summary.Total = summary.Total.Add(inv.Total)
	}
	return &summary, nil
}
