package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-backoffice/internal/invoice"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/ws"
	"go-backoffice/pkg/logger"
)

// Actor is the authenticated user performing a change.
type Actor struct {
	ID       uuid.UUID
	UserName string
	Email    string
}

func (a Actor) auditID() string {
	if a.ID == uuid.Nil {
		return "system"
	}
	return a.ID.String()
}

type InvoiceService interface {
	Create(ctx context.Context, req *invoice.CreateInvoiceRequest, actor Actor) (*model.Invoice, error)
	List(ctx context.Context) ([]model.Invoice, error)
	ListPage(ctx context.Context, filter repository.InvoiceFilter, pageNumber, pageSize int) (model.Page[model.Invoice], error)
	Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	Details(ctx context.Context, id uuid.UUID) ([]model.InvoiceDetail, error)
	Delete(ctx context.Context, id uuid.UUID, actor Actor) error
}

type invoiceService struct {
	invoiceRepo  repository.InvoiceRepository
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	movementRepo repository.StockMovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	log          logger.Logger
}

func NewInvoiceService(
	iRepo repository.InvoiceRepository,
	pRepo repository.ProductRepository,
	cRepo repository.ClientRepository,
	mRepo repository.StockMovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
	log logger.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:  iRepo,
		productRepo:  pRepo,
		clientRepo:   cRepo,
		movementRepo: mRepo,
		db:           db,
		wsHub:        hub,
		log:          log,
	}
}

// Create persists an invoice and takes its quantities out of stock. Line
// subtotals and invoice totals are recomputed here; only quantities and unit
// prices are taken from the request.
func (s *invoiceService) Create(ctx context.Context, req *invoice.CreateInvoiceRequest, actor Actor) (*model.Invoice, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if actor.ID != uuid.Nil && req.UserID != actor.ID {
		return nil, fmt.Errorf("%w: userId does not match the authenticated user", ErrInvalidInvoice)
	}

	if _, err := s.invoiceRepo.FindByNumber(ctx, req.InvoiceNumber); err == nil {
		return nil, ErrInvoiceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client, err := s.clientRepo.FindByID(ctx, req.ClientID)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}

	inv := &model.Invoice{
		InvoiceNumber: req.InvoiceNumber,
		ClientID:      client.ID,
		UserID:        req.UserID,
		IssueDate:     req.IssueDate,
		Observations:  req.Observations,
	}
	inv.ID = uuid.New()
	inv.CreatedBy = actor.auditID()
	inv.UpdatedBy = actor.auditID()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked := map[uuid.UUID]*model.Product{}
		subtotals := make([]decimal.Decimal, 0, len(req.InvoiceDetails))

		for _, d := range req.InvoiceDetails {
			if d.UnitPrice.IsNegative() {
				return fmt.Errorf("%w: unit price for %s must not be negative", ErrInvalidInvoice, d.ProductID)
			}

			product, ok := locked[d.ProductID]
			if !ok {
				p, err := s.productRepo.LockByID(tx, d.ProductID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("%w: product %s does not exist", ErrInvalidInvoice, d.ProductID)
					}
					return err
				}
				product = p
				locked[d.ProductID] = product
			}
			if !product.IsActive {
				return fmt.Errorf("%w: product %s is inactive", ErrInvalidInvoice, product.Code)
			}
			if d.Quantity > product.Stock {
				return fmt.Errorf("%w: insufficient stock for %s (available %d, requested %d)",
					ErrInvalidInvoice, product.Code, product.Stock, d.Quantity)
			}
			product.Stock -= d.Quantity

			lineTotal := d.UnitPrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
			subtotals = append(subtotals, lineTotal)
			inv.Details = append(inv.Details, model.InvoiceDetail{
				InvoiceID: inv.ID,
				ProductID: product.ID,
				Quantity:  d.Quantity,
				UnitPrice: d.UnitPrice,
				Subtotal:  lineTotal,
			})
		}
		inv.Subtotal, inv.Tax, inv.Total = invoice.ComputeTotals(subtotals)

		if err := s.invoiceRepo.Create(tx, inv); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrInvoiceExists
			}
			return err
		}

		for id, product := range locked {
			if err := s.productRepo.UpdateStock(tx, id, product.Stock, actor.auditID()); err != nil {
				return err
			}
		}
		for _, d := range inv.Details {
			movement := &model.StockMovement{
				ProductID:   d.ProductID,
				InvoiceID:   &inv.ID,
				Type:        model.MovementOut,
				Quantity:    d.Quantity,
				TotalAmount: d.Subtotal,
				Note:        "invoice " + inv.InvoiceNumber,
			}
			movement.CreatedBy = actor.auditID()
			if err := s.movementRepo.Create(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	inv.Client = client

	s.log.InfoContext(ctx, "invoice created",
		"invoice_number", inv.InvoiceNumber,
		"client_id", inv.ClientID,
		"user_id", inv.UserID,
		"total", inv.Total.StringFixed(2),
	)
	s.wsHub.Publish(ws.Event{
		Type:   ws.EventInvoiceCreated,
		Action: "invoice_created",
		Data: map[string]interface{}{
			"id":            inv.ID,
			"invoiceNumber": inv.InvoiceNumber,
			"client":        client.FullName(),
			"total":         inv.Total,
			"lines":         len(inv.Details),
		},
		Message: fmt.Sprintf("%s issued invoice %s for %s", actor.UserName, inv.InvoiceNumber, client.FullName()),
	})
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context) ([]model.Invoice, error) {
	return s.invoiceRepo.FindAll(ctx)
}

func (s *invoiceService) ListPage(ctx context.Context, filter repository.InvoiceFilter, pageNumber, pageSize int) (model.Page[model.Invoice], error) {
	pageNumber, pageSize = model.NormalizePage(pageNumber, pageSize)
	items, total, err := s.invoiceRepo.FindPage(ctx, filter, pageNumber, pageSize)
	if err != nil {
		return model.Page[model.Invoice]{}, err
	}
	return model.NewPage(items, total, pageNumber, pageSize), nil
}

func (s *invoiceService) Get(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInvoiceNotFound)
	}
	return inv, nil
}

func (s *invoiceService) Details(ctx context.Context, id uuid.UUID) ([]model.InvoiceDetail, error) {
	if _, err := s.invoiceRepo.FindByID(ctx, id); err != nil {
		return nil, notFound(err, ErrInvoiceNotFound)
	}
	return s.invoiceRepo.FindDetails(ctx, id)
}

// Delete soft-deletes the invoice and puts its quantities back in stock.
func (s *invoiceService) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	inv, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrInvoiceNotFound)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.invoiceRepo.Delete(tx, inv.ID, actor.auditID()); err != nil {
			return notFound(err, ErrInvoiceNotFound)
		}
		for _, d := range inv.Details {
			product, err := s.productRepo.LockByID(tx, d.ProductID)
			if err != nil {
				return fmt.Errorf("restore stock for %s: %w", d.ProductID, err)
			}
			if err := s.productRepo.UpdateStock(tx, product.ID, product.Stock+d.Quantity, actor.auditID()); err != nil {
				return err
			}
			movement := &model.StockMovement{
				ProductID:   d.ProductID,
				InvoiceID:   &inv.ID,
				Type:        model.MovementIn,
				Quantity:    d.Quantity,
				TotalAmount: d.Subtotal,
				Note:        "invoice " + inv.InvoiceNumber + " deleted",
			}
			movement.CreatedBy = actor.auditID()
			if err := s.movementRepo.Create(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "invoice deleted", "invoice_number", inv.InvoiceNumber, "by", actor.auditID())
	s.wsHub.Publish(ws.Event{
		Type:    ws.EventInvoiceDeleted,
		Data:    map[string]interface{}{"id": inv.ID, "invoiceNumber": inv.InvoiceNumber},
		Message: fmt.Sprintf("%s deleted invoice %s", actor.UserName, inv.InvoiceNumber),
	})
	return nil
}
