package service

import (
	"context"
	"fmt"

	"go-backoffice/internal/metrics"
	"go-backoffice/internal/model"
	"go-backoffice/internal/repository"
	"go-backoffice/internal/search"
)

type SearchResult struct {
	Kind  search.Kind `json:"kind"`
	Query string      `json:"query"`
	Count int         `json:"count"`
	Items any         `json:"items"`
}

// SearchService filters a freshly loaded collection of one record kind.
type SearchService interface {
	Search(ctx context.Context, kind, query string) (*SearchResult, error)
}

type searchService struct {
	roleRepo    repository.RoleRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	invoiceRepo repository.InvoiceRepository
	metrics     *metrics.Metrics
}

func NewSearchService(
	roleRepo repository.RoleRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	invoiceRepo repository.InvoiceRepository,
	m *metrics.Metrics,
) SearchService {
	return &searchService{
		roleRepo:    roleRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		invoiceRepo: invoiceRepo,
		metrics:     m,
	}
}

func (s *searchService) Search(ctx context.Context, kindLabel, query string) (*SearchResult, error) {
	kind, err := search.ParseKind(kindLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	var (
		items any
		count int
	)
	switch kind {
	case search.KindRole:
		items, count, err = loadAndFilter(ctx, kind, s.roleRepo.FindAll, query)
	case search.KindProduct:
		items, count, err = loadAndFilter(ctx, kind, s.productRepo.FindAll, query)
	case search.KindClient:
		items, count, err = loadAndFilter(ctx, kind, s.clientRepo.FindAll, query)
	case search.KindInvoice:
		items, count, err = loadAndFilter(ctx, kind, s.invoiceRepo.FindAll, query)
	case search.KindUser:
		var users []model.User
		users, count, err = loadAndFilter(ctx, kind, s.userRepo.FindAll, query)
		responses := make([]model.UserResponse, len(users))
		for i, u := range users {
			responses[i] = u.ToResponse()
		}
		items = responses
	}
	if err != nil {
		return nil, err
	}

	s.metrics.Search(kind.String())
	return &SearchResult{Kind: kind, Query: query, Count: count, Items: items}, nil
}

func loadAndFilter[T any](ctx context.Context, kind search.Kind, load func(context.Context) ([]T, error), query string) ([]T, int, error) {
	records, err := load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load %s records: %w", kind, err)
	}
	idx, err := search.New(kind, records)
	if err != nil {
		return nil, 0, err
	}
	view := idx.Filter(query)
	return view, len(view), nil
}
