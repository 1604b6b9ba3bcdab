package repository

import (
	"context"
	"strings"

	"pricetracker-service/models"

	"gorm.io/gorm"
)

// ProductWithGroup is a product row joined with its group name, used by the
// name search so relevance ranking can also consider the category label.
type ProductWithGroup struct {
	models.Product
	GroupName string `gorm:"column:group_name"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindByURL(ctx context.Context, url string) (*models.Product, error)
	ListByGroup(ctx context.Context, groupID, excludeID int64, limit int) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	SearchCandidates(ctx context.Context, keyword string, limit int) ([]ProductWithGroup, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

// Create inserts a new product and backfills its generated id.
func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID retrieves a product by its primary key.
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("product_id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByURL retrieves a product by its exact source URL.
func (r *GormProductRepository) FindByURL(ctx context.Context, url string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("url = ?", url).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByGroup retrieves up to limit products in a group, excluding one product
// (the one currently being viewed), newest first.
func (r *GormProductRepository) ListByGroup(ctx context.Context, groupID, excludeID int64, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND product_id != ?", groupID, excludeID).
		Order("product_id DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListAll retrieves every tracked product.
func (r *GormProductRepository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// SearchCandidates fetches the products whose name or group name contains the
// keyword under the database's accent-insensitive collation. The result
// deliberately overmatches: precise accent-sensitive tiering happens in the
// search service, so a broad candidate set is safe while a narrow one is not.
func (r *GormProductRepository) SearchCandidates(ctx context.Context, keyword string, limit int) ([]ProductWithGroup, error) {
	pattern := "%" + escapeLike(keyword) + "%"

	var rows []ProductWithGroup
	err := r.db.WithContext(ctx).
		Table("product").
		Select("product.*, product_group.group_name").
		Joins("LEFT JOIN product_group ON product.group_id = product_group.group_id").
		Where("product.name LIKE ? OR product_group.group_name LIKE ?", pattern, pattern).
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied keywords.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
