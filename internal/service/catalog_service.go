package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/ws"
	"go-backoffice/pkg/logger"
)

// CatalogService serves the product and client lookups the invoice console
// types into, plus their maintenance screens.
type CatalogService interface {
	SearchProducts(ctx context.Context, term string, pageNumber, pageSize int) (model.Page[model.Product], error)
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	CreateProduct(ctx context.Context, req *model.Product, actor Actor) error
	UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)

	SearchClients(ctx context.Context, term string, pageNumber, pageSize int) (model.Page[model.Client], error)
	GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error)
	CreateClient(ctx context.Context, req *model.Client, actor Actor) error
	UpdateClient(ctx context.Context, id uuid.UUID, req *model.Client, actor Actor) (*model.Client, error)
	DeleteClient(ctx context.Context, id uuid.UUID, actor Actor) error
}

type catalogService struct {
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	db          *gorm.DB
	wsHub       *ws.Hub
	log         logger.Logger
}

func NewCatalogService(pRepo repository.ProductRepository, cRepo repository.ClientRepository, db *gorm.DB, hub *ws.Hub, log logger.Logger) CatalogService {
	return &catalogService{
		productRepo: pRepo,
		clientRepo:  cRepo,
		db:          db,
		wsHub:       hub,
		log:         log,
	}
}

func (s *catalogService) SearchProducts(ctx context.Context, term string, pageNumber, pageSize int) (model.Page[model.Product], error) {
	pageNumber, pageSize = model.NormalizePage(pageNumber, pageSize)
	items, total, err := s.productRepo.Search(ctx, term, pageNumber, pageSize)
	if err != nil {
		return model.Page[model.Product]{}, err
	}
	return model.NewPage(items, total, pageNumber, pageSize), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return p, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req *model.Product, actor Actor) error {
	if err := validate(req); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	if _, err := s.productRepo.FindByCode(ctx, req.Code); err == nil {
		return ErrProductCodeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	req.CreatedBy = actor.auditID()
	req.UpdatedBy = actor.auditID()
	if err := s.productRepo.Create(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrProductCodeExists
		}
		return err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "product_created",
		Data: map[string]interface{}{
			"id":    req.ID,
			"code":  req.Code,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
		Message: fmt.Sprintf("%s created product '%s'", actor.UserName, req.Name),
	})
	return nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	var updated model.Product
	var oldStock int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.productRepo.LockByID(tx, id)
		if err != nil {
			return notFound(err, ErrProductNotFound)
		}
		if existing.Code != req.Code {
			var clash int64
			if err := tx.Model(&model.Product{}).Where("code = ? AND id <> ?", req.Code, id).Count(&clash).Error; err != nil {
				return err
			}
			if clash > 0 {
				return ErrProductCodeExists
			}
		}

		oldStock = existing.Stock
		existing.Code = req.Code
		existing.Name = req.Name
		existing.Description = req.Description
		existing.Price = req.Price
		existing.Stock = req.Stock
		existing.IsActive = req.IsActive
		existing.ImageURI = req.ImageURI
		existing.UpdatedBy = actor.auditID()

		if err := tx.Save(existing).Error; err != nil {
			return err
		}
		updated = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.wsHub.Publish(ws.Event{
		Type:   ws.EventStockUpdate,
		Action: "product_updated",
		Data: map[string]interface{}{
			"id":       updated.ID,
			"code":     updated.Code,
			"name":     updated.Name,
			"oldStock": oldStock,
			"newStock": updated.Stock,
			"price":    updated.Price,
		},
		Message: fmt.Sprintf("%s updated product '%s'", actor.UserName, updated.Name),
	})
	return &updated, nil
}

func (s *catalogService) SearchClients(ctx context.Context, term string, pageNumber, pageSize int) (model.Page[model.Client], error) {
	pageNumber, pageSize = model.NormalizePage(pageNumber, pageSize)
	items, total, err := s.clientRepo.Search(ctx, term, pageNumber, pageSize)
	if err != nil {
		return model.Page[model.Client]{}, err
	}
	return model.NewPage(items, total, pageNumber, pageSize), nil
}

func (s *catalogService) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	c, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	return c, nil
}

func (s *catalogService) CreateClient(ctx context.Context, req *model.Client, actor Actor) error {
	if err := validate(req); err != nil {
		return err
	}
	if _, err := s.clientRepo.FindByIdentification(ctx, req.IdentificationNumber); err == nil {
		return ErrClientExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	req.CreatedBy = actor.auditID()
	req.UpdatedBy = actor.auditID()
	if err := s.clientRepo.Create(ctx, req); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrClientExists
		}
		return err
	}
	s.log.InfoContext(ctx, "client created", "client_id", req.ID, "by", actor.auditID())
	return nil
}

func (s *catalogService) UpdateClient(ctx context.Context, id uuid.UUID, req *model.Client, actor Actor) (*model.Client, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	existing, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrClientNotFound)
	}
	if existing.IdentificationNumber != req.IdentificationNumber {
		if other, err := s.clientRepo.FindByIdentification(ctx, req.IdentificationNumber); err == nil && other.ID != id {
			return nil, ErrClientExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	existing.IdentificationType = req.IdentificationType
	existing.IdentificationNumber = req.IdentificationNumber
	existing.FirstName = req.FirstName
	existing.LastName = req.LastName
	existing.Phone = req.Phone
	existing.Email = req.Email
	existing.Address = req.Address
	existing.UpdatedBy = actor.auditID()

	if err := s.clientRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrClientExists
		}
		return nil, err
	}
	return existing, nil
}

func (s *catalogService) DeleteClient(ctx context.Context, id uuid.UUID, actor Actor) error {
	if err := s.clientRepo.Delete(ctx, id, actor.auditID()); err != nil {
		return notFound(err, ErrClientNotFound)
	}
	s.log.InfoContext(ctx, "client deleted", "client_id", id, "by", actor.auditID())
	return nil
}
