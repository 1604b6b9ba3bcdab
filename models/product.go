package models

import (
	"time"
)

// DealType labels a price record with the promotion it was captured under.
type DealType string

const (
	DealTypeNormal    DealType = "NORMAL"
	DealTypeFlashSale DealType = "FLASH_SALE"
	DealTypeHotDeal   DealType = "HOT_DEAL"
	DealTypeTrending  DealType = "TRENDING"
)

// DealSelectorAll is the deals-listing selector that matches every discounted
// product regardless of its stored deal type.
const DealSelectorAll = "ALL"

// Product is a tracked product stored in MySQL. Rows are created on the first
// successful scrape of a URL and are never deleted by the service.
type Product struct {
	ProductID   int64     `gorm:"column:product_id;primaryKey;autoIncrement" json:"product_id"`
	GroupID     int64     `gorm:"column:group_id;index;not null" json:"group_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Brand       string    `gorm:"type:varchar(100)" json:"brand"`
	URL         string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"url"`
	ImageURL    string    `gorm:"column:image_url;type:varchar(512)" json:"image_url"`
	Description string    `gorm:"type:text" json:"description"`
	Source      string    `gorm:"type:varchar(50)" json:"source"`
	IsFeatured  bool      `gorm:"column:is_featured;not null;default:false" json:"is_featured"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Product) TableName() string { return "product" }

// ProductGroup is the category a product belongs to, used as a label join and
// for per-category deal ranking.
type ProductGroup struct {
	GroupID   int64  `gorm:"column:group_id;primaryKey;autoIncrement" json:"group_id"`
	GroupName string `gorm:"column:group_name;type:varchar(100);not null" json:"group_name"`
}

func (ProductGroup) TableName() string { return "product_group" }

// PriceHistory is one captured price point for a product. The table is
// append-only; the row with the greatest price_id is the product's current
// price.
type PriceHistory struct {
	PriceID       int64     `gorm:"column:price_id;primaryKey;autoIncrement" json:"price_id"`
	ProductID     int64     `gorm:"column:product_id;index;not null" json:"product_id"`
	Price         float64   `gorm:"column:price;not null" json:"price"`
	OriginalPrice float64   `gorm:"column:original_price;not null;default:0" json:"original_price"`
	Currency      string    `gorm:"column:currency;type:varchar(10);not null;default:'VND'" json:"currency"`
	DealType      DealType  `gorm:"column:deal_type;type:varchar(20)" json:"deal_type"`
	RecordedAt    time.Time `gorm:"column:recorded_at;index;autoCreateTime" json:"recorded_at"`
}

func (PriceHistory) TableName() string { return "price_history" }

// ProductCard is the client-facing representation of a product together with
// its group name and resolved current price.
type ProductCard struct {
	ProductID       int64   `json:"product_id"`
	GroupID         int64   `json:"group_id"`
	GroupName       string  `json:"group_name"`
	Name            string  `json:"name"`
	Brand           string  `json:"brand"`
	URL             string  `json:"url"`
	ImageURL        string  `json:"image_url"`
	Description     string  `json:"description"`
	Source          string  `json:"source"`
	Price           float64 `json:"price"`
	OriginalPrice   float64 `json:"original_price"`
	Currency        string  `json:"currency"`
	DealType        string  `json:"deal_type"`
	DiscountPercent int     `json:"discount_percent"`
}

// SearchRequest is the payload for POST /search. Action selects between a URL
// lookup and a name search, matching the frontend's wire format.
type SearchRequest struct {
	Action string `json:"action" binding:"required,oneof=SEARCH_BY_URL SEARCH_BY_NAME"`
	Query  string `json:"query" binding:"required"`
}

// DealsRequest is the optional payload for POST /deals.
type DealsRequest struct {
	DealType string `json:"deal_type"`
}

// ProductDetailRequest is the payload for POST /product-detail.
type ProductDetailRequest struct {
	ProductID int64 `json:"product_id" binding:"required,gt=0"`
}

// PricePoint is one price-history entry on the product-detail page.
type PricePoint struct {
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price"`
	DealType      string  `json:"deal_type"`
	CapturedAt    string  `json:"captured_at"`
}

// CurrentPriceInfo is the resolved current-price block on the product-detail
// page. Zero values with deal type "Normal" mean the product has no price
// records yet.
type CurrentPriceInfo struct {
	CurrentPrice    float64 `json:"current_price"`
	OriginalPrice   float64 `json:"original_price"`
	Currency        string  `json:"currency"`
	DealType        string  `json:"deal_type"`
	DiscountPercent int     `json:"discount_percent"`
}

// ProductDetail aggregates everything the detail page needs.
type ProductDetail struct {
	Product         ProductCard      `json:"product"`
	Price           CurrentPriceInfo `json:"price"`
	PriceHistory    []PricePoint     `json:"price_history"`
	ReviewCount     int64            `json:"review_count"`
	AverageRating   float64          `json:"average_rating"`
	Reviews         []Review         `json:"reviews"`
	SimilarProducts []ProductCard    `json:"similar_products"`
}
