package repository

import (
	"context"

	"pricetracker-service/models"

	"gorm.io/gorm"
)

// ScrapeLogRepository records refresh-worker sessions.
type ScrapeLogRepository interface {
	Create(ctx context.Context, log *models.ScrapeLog) error
}

// GormScrapeLogRepository implements ScrapeLogRepository using GORM.
type GormScrapeLogRepository struct {
	db *gorm.DB
}

// NewGormScrapeLogRepository creates a new GormScrapeLogRepository.
func NewGormScrapeLogRepository(db *gorm.DB) ScrapeLogRepository {
	return &GormScrapeLogRepository{db: db}
}

func (r *GormScrapeLogRepository) Create(ctx context.Context, log *models.ScrapeLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
