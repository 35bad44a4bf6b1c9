package service

import (
	"context"
	"sync"

	"trendora/storefront/internal/model"
	"trendora/storefront/internal/repository"
)

// Catalog is the cart engine's price source. Lookup answers from a
// preloaded snapshot; callers must have loaded the catalog before asking
// for cart totals.
type Catalog interface {
	Lookup(productID string) (*model.Product, bool)
	Products() []model.Product
}

type CatalogService interface {
	Catalog
	// Refresh replaces the snapshot with the current repository contents.
	Refresh(ctx context.Context) error
}

type catalogService struct {
	productRepo repository.ProductRepository

	mu      sync.RWMutex
	byID    map[string]model.Product
	ordered []model.Product
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		byID:        make(map[string]model.Product),
	}
}

func (s *catalogService) Refresh(ctx context.Context) error {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.byID = byID
	s.ordered = products
	s.mu.Unlock()
	return nil
}

func (s *catalogService) Lookup(productID string) (*model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[productID]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (s *catalogService) Products() []model.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.ordered))
	copy(out, s.ordered)
	return out
}
