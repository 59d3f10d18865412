package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
	"github.com/ntubimd/camping-backend/internal/adapters/persistence/repositories"
	"github.com/ntubimd/camping-backend/internal/core/domain"
)

// CatalogService exposes read access to the rental catalog.
type CatalogService struct {
	groups repositories.ProductGroupRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(groups repositories.ProductGroupRepository) *CatalogService {
	return &CatalogService{groups: groups}
}

// ListGroups lists catalog listings with pagination
func (s *CatalogService) ListGroups(ctx context.Context, offset, limit int) ([]*models.ProductGroup, int64, error) {
	return s.groups.List(ctx, offset, limit)
}

// GetGroup returns one listing with its gear items
func (s *CatalogService) GetGroup(ctx context.Context, id uint) (*models.ProductGroup, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}

	products, err := s.groups.ListEnabledProducts(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Products = make([]models.Product, len(products))
	for i, p := range products {
		group.Products[i] = *p
	}

	return group, nil
}
