package models

import "time"

// Review is a customer review attached to a product.
type Review struct {
	ReviewID     int64     `gorm:"column:review_id;primaryKey;autoIncrement" json:"review_id"`
	ProductID    int64     `gorm:"column:product_id;index;not null" json:"product_id"`
	ReviewerName string    `gorm:"column:reviewer_name;type:varchar(100);not null" json:"reviewer_name"`
	Rating       int       `gorm:"column:rating;not null" json:"rating"`
	ReviewText   string    `gorm:"column:review_text;type:text" json:"review_text"`
	ReviewDate   time.Time `gorm:"column:review_date;autoCreateTime" json:"review_date"`
}

func (Review) TableName() string { return "review" }

// CreateReviewRequest is the payload for POST /products/:id/reviews.
type CreateReviewRequest struct {
	ReviewerName string `json:"reviewer_name" binding:"required,min=1,max=100"`
	Rating       int    `json:"rating" binding:"required,gte=1,lte=5"`
	ReviewText   string `json:"review_text"`
}

// ScrapeLog records one run of the background price-refresh worker.
type ScrapeLog struct {
	LogID         int64     `gorm:"column:log_id;primaryKey;autoIncrement" json:"log_id"`
	ScrapeDate    time.Time `gorm:"column:scrape_date;autoCreateTime" json:"scrape_date"`
	Source        string    `gorm:"column:source;type:varchar(50);not null" json:"source"`
	TotalProducts int       `gorm:"column:total_products;not null" json:"total_products"`
	Status        string    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Notes         string    `gorm:"column:notes;type:varchar(255)" json:"notes"`
}

func (ScrapeLog) TableName() string { return "scrape_log" }
