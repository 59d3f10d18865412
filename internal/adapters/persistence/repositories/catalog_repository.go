package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/ntubimd/camping-backend/internal/adapters/persistence/models"
)

// productGroupRepository implements ProductGroupRepository
type productGroupRepository struct {
	db *gorm.DB
}

// NewProductGroupRepository creates a new product group repository
func NewProductGroupRepository(db *gorm.DB) ProductGroupRepository {
	return &productGroupRepository{db: db}
}

// GetByID gets a product group with its products and approved borrowers
func (r *productGroupRepository) GetByID(ctx context.Context, id uint) (*models.ProductGroup, error) {
	var group models.ProductGroup
	err := r.db.WithContext(ctx).
		Preload("Products").
		Preload("CanBorrow").
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List lists enabled product groups with pagination
func (r *productGroupRepository) List(ctx context.Context, offset, limit int) ([]*models.ProductGroup, int64, error) {
	var groups []*models.ProductGroup
	var total int64

	r.db.WithContext(ctx).
		Model(&models.ProductGroup{}).
		Where("enable = ?", true).
		Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Products").
		Where("enable = ?", true).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&groups).Error

	return groups, total, err
}

// ListEnabledProducts lists the enabled products of a group
func (r *productGroupRepository) ListEnabledProducts(ctx context.Context, groupID uint) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND enable = ?", groupID, true).
		Find(&products).Error
	return products, err
}

// SetAvailable toggles the inventory hold flag of a group
func (r *productGroupRepository) SetAvailable(ctx context.Context, tx *gorm.DB, groupID uint, available bool) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&models.ProductGroup{}).
		Where("id = ?", groupID).
		Update("available", available).Error
}
