package repository

import (
	"context"
	"errors"

	"pricetracker-service/models"

	"gorm.io/gorm"
)

// GroupRepository defines the interface for product-group lookups.
type GroupRepository interface {
	GroupNameByID(ctx context.Context, groupID int64) (string, error)
	EnsureByName(ctx context.Context, name string) (int64, error)
}

// GormGroupRepository implements GroupRepository using GORM.
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository.
func NewGormGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// GroupNameByID returns the group's display name, or "" when the group does
// not exist. An unknown group is not an error: product cards render with an
// empty category label.
func (r *GormGroupRepository) GroupNameByID(ctx context.Context, groupID int64) (string, error) {
	var group models.ProductGroup
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		First(&group).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return group.GroupName, nil
}

// EnsureByName returns the id of the group with the given name, creating the
// row when it does not exist yet. Scraped products carry a category label, not
// a group id.
func (r *GormGroupRepository) EnsureByName(ctx context.Context, name string) (int64, error) {
	var group models.ProductGroup
	err := r.db.WithContext(ctx).
		Where("group_name = ?", name).
		First(&group).Error
	if err == nil {
		return group.GroupID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	group = models.ProductGroup{GroupName: name}
	if err := r.db.WithContext(ctx).Create(&group).Error; err != nil {
		return 0, err
	}
	return group.GroupID, nil
}
