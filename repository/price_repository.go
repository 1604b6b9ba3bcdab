package repository

import (
	"context"

	"pricetracker-service/models"

	"gorm.io/gorm"
)

// PriceRepository defines the interface for price-history data access. The
// table is append-only: there is no update or delete.
type PriceRepository interface {
	Insert(ctx context.Context, record *models.PriceHistory) error
	ListByProduct(ctx context.Context, productID int64) ([]models.PriceHistory, error)
	ListAll(ctx context.Context) ([]models.PriceHistory, error)
}

// GormPriceRepository implements PriceRepository using GORM.
type GormPriceRepository struct {
	db *gorm.DB
}

// NewGormPriceRepository creates a new GormPriceRepository.
func NewGormPriceRepository(db *gorm.DB) PriceRepository {
	return &GormPriceRepository{db: db}
}

// Insert appends a price record and backfills its generated price_id.
func (r *GormPriceRepository) Insert(ctx context.Context, record *models.PriceHistory) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// ListByProduct retrieves a product's full price history, newest first.
func (r *GormPriceRepository) ListByProduct(ctx context.Context, productID int64) ([]models.PriceHistory, error) {
	var records []models.PriceHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("price_id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListAll retrieves every price record. The deal ranker resolves the latest
// record per product in memory instead of pushing max-per-group subqueries
// into SQL.
func (r *GormPriceRepository) ListAll(ctx context.Context) ([]models.PriceHistory, error) {
	var records []models.PriceHistory
	err := r.db.WithContext(ctx).Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
