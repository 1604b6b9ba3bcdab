package services

import (
	"context"
	"strings"
	"time"

	"pricetracker-service/models"
	"pricetracker-service/repository"
	"pricetracker-service/scraper"

	"go.uber.org/zap"
)

// similarProductLimit is how many same-group products the detail page shows
// (four rows of four).
const similarProductLimit = 16

// ProductService handles URL lookups, the product-detail page, and reviews.
type ProductService interface {
	SearchByURL(ctx context.Context, url string) (*models.ProductCard, bool, *ServiceError)
	GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, *ServiceError)
	AddReview(ctx context.Context, productID int64, req *models.CreateReviewRequest) (*models.Review, *ServiceError)
}

type productServiceImpl struct {
	products repository.ProductRepository
	prices   repository.PriceRepository
	groups   repository.GroupRepository
	reviews  repository.ReviewRepository
	scraper  scraper.Scraper
	logger   *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	products repository.ProductRepository,
	prices repository.PriceRepository,
	groups repository.GroupRepository,
	reviews repository.ReviewRepository,
	sc scraper.Scraper,
	logger *zap.Logger,
) ProductService {
	return &productServiceImpl{
		products: products,
		prices:   prices,
		groups:   groups,
		reviews:  reviews,
		scraper:  sc,
		logger:   logger,
	}
}

// SearchByURL serves a product card for a source URL. A known URL gets a live
// price refresh (appended to history when the scrape succeeds, stored values
// otherwise); an unknown URL is scraped and inserted together with its
// initial price record. The bool result reports whether the product is new.
func (s *productServiceImpl) SearchByURL(ctx context.Context, url string) (*models.ProductCard, bool, *ServiceError) {
	url = strings.TrimSpace(url)

	product, err := s.products.FindByURL(ctx, url)
	if err != nil && !isNotFound(err) {
		s.logger.Error("Product lookup by URL failed", zap.Error(err))
		return nil, false, storageError(err)
	}

	if product != nil {
		card, svcErr := s.refreshAndAssemble(ctx, product, url)
		if svcErr != nil {
			return nil, false, svcErr
		}
		return card, false, nil
	}

	card, svcErr := s.insertFromScrape(ctx, url)
	if svcErr != nil {
		return nil, false, svcErr
	}
	return card, true, nil
}

// refreshAndAssemble re-scrapes the live price for an existing product. Scrape
// failure is soft: the card falls back to the stored current price.
func (s *productServiceImpl) refreshAndAssemble(ctx context.Context, product *models.Product, url string) (*models.ProductCard, *ServiceError) {
	var current *models.PriceHistory

	priceData, err := s.scraper.ScrapePrice(ctx, url)
	if err == nil {
		record := &models.PriceHistory{
			ProductID:     product.ProductID,
			Price:         priceData.Price,
			OriginalPrice: priceData.OriginalPrice,
			Currency:      priceData.Currency,
			DealType:      priceData.DealType,
			RecordedAt:    time.Now(),
		}
		// Opportunistic refresh: a failed append must not break the lookup.
		if insertErr := s.prices.Insert(ctx, record); insertErr != nil {
			s.logger.Warn("Failed to append refreshed price",
				zap.Int64("product_id", product.ProductID),
				zap.Error(insertErr),
			)
		}
		current = record
	} else {
		s.logger.Warn("Live price scrape failed, serving stored price",
			zap.Int64("product_id", product.ProductID),
			zap.Error(err),
		)
		records, listErr := s.prices.ListByProduct(ctx, product.ProductID)
		if listErr != nil {
			return nil, storageError(listErr)
		}
		current = CurrentOf(records)
	}

	groupName, err := s.groups.GroupNameByID(ctx, product.GroupID)
	if err != nil {
		return nil, storageError(err)
	}

	card := AssembleCard(*product, current, groupName)
	return &card, nil
}

// insertFromScrape scrapes a never-seen URL and inserts the product plus its
// initial price record.
func (s *productServiceImpl) insertFromScrape(ctx context.Context, url string) (*models.ProductCard, *ServiceError) {
	productData, err := s.scraper.ScrapeProduct(ctx, url)
	if err != nil {
		s.logger.Warn("Product scrape failed", zap.String("url", url), zap.Error(err))
		return nil, scrapeError("Không thể lấy thông tin sản phẩm từ Tiki. Vui lòng kiểm tra lại URL.", err)
	}

	var groupID int64
	groupName := productData.CategoryName
	if groupName != "" {
		groupID, err = s.groups.EnsureByName(ctx, groupName)
		if err != nil {
			return nil, storageError(err)
		}
	}

	product := &models.Product{
		GroupID:     groupID,
		Name:        productData.Name,
		Brand:       productData.Brand,
		URL:         url,
		ImageURL:    productData.ImageURL,
		Description: productData.Description,
		Source:      "tiki",
	}
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to insert scraped product", zap.String("url", url), zap.Error(err))
		return nil, storageError(err)
	}
	s.logger.Info("Inserted new product",
		zap.Int64("product_id", product.ProductID),
		zap.String("name", product.Name),
	)

	var current *models.PriceHistory
	if priceData, priceErr := s.scraper.ScrapePrice(ctx, url); priceErr == nil {
		record := &models.PriceHistory{
			ProductID:     product.ProductID,
			Price:         priceData.Price,
			OriginalPrice: priceData.OriginalPrice,
			Currency:      priceData.Currency,
			DealType:      priceData.DealType,
			RecordedAt:    time.Now(),
		}
		if insertErr := s.prices.Insert(ctx, record); insertErr != nil {
			s.logger.Warn("Failed to insert initial price", zap.Error(insertErr))
		} else {
			current = record
		}
	} else {
		s.logger.Warn("Initial price scrape failed", zap.String("url", url), zap.Error(priceErr))
	}

	card := AssembleCard(*product, current, groupName)
	return &card, nil
}

// GetProductDetail assembles the full detail page: card, current price, price
// history, reviews, and similar products from the same group.
func (s *productServiceImpl) GetProductDetail(ctx context.Context, productID int64) (*models.ProductDetail, *ServiceError) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return nil, notFoundError("Không tìm thấy sản phẩm này!")
		}
		s.logger.Error("Product lookup failed", zap.Int64("product_id", productID), zap.Error(err))
		return nil, storageError(err)
	}

	records, err := s.prices.ListByProduct(ctx, productID)
	if err != nil {
		return nil, storageError(err)
	}
	current := CurrentOf(records)

	groupName, err := s.groups.GroupNameByID(ctx, product.GroupID)
	if err != nil {
		return nil, storageError(err)
	}

	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return nil, storageError(err)
	}
	reviewCount, err := s.reviews.CountByProduct(ctx, productID)
	if err != nil {
		return nil, storageError(err)
	}
	averageRating, err := s.reviews.AverageRating(ctx, productID)
	if err != nil {
		return nil, storageError(err)
	}

	similar, err := s.products.ListByGroup(ctx, product.GroupID, productID, similarProductLimit)
	if err != nil {
		return nil, storageError(err)
	}

	allRecords, err := s.prices.ListAll(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	snapshot := LatestPerProduct(allRecords)

	similarCards := make([]models.ProductCard, 0, len(similar))
	for _, sp := range similar {
		var spCurrent *models.PriceHistory
		if rec, ok := snapshot[sp.ProductID]; ok {
			rec := rec
			spCurrent = &rec
		}
		similarCards = append(similarCards, AssembleCard(sp, spCurrent, groupName))
	}

	history := make([]models.PricePoint, 0, len(records))
	for _, rec := range records {
		history = append(history, models.PricePoint{
			Price:         rec.Price,
			OriginalPrice: rec.OriginalPrice,
			DealType:      dealTypeLabel(rec.DealType),
			CapturedAt:    rec.RecordedAt.Format(time.RFC3339),
		})
	}

	detail := &models.ProductDetail{
		Product:         AssembleCard(*product, current, groupName),
		Price:           currentPriceInfo(current),
		PriceHistory:    history,
		ReviewCount:     reviewCount,
		AverageRating:   averageRating,
		Reviews:         reviews,
		SimilarProducts: similarCards,
	}
	return detail, nil
}

// AddReview stores a review after confirming the product exists.
func (s *productServiceImpl) AddReview(ctx context.Context, productID int64, req *models.CreateReviewRequest) (*models.Review, *ServiceError) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if isNotFound(err) {
			return nil, notFoundError("Không tìm thấy sản phẩm này!")
		}
		return nil, storageError(err)
	}

	review := &models.Review{
		ProductID:    productID,
		ReviewerName: req.ReviewerName,
		Rating:       req.Rating,
		ReviewText:   req.ReviewText,
		ReviewDate:   time.Now(),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error("Failed to insert review", zap.Int64("product_id", productID), zap.Error(err))
		return nil, storageError(err)
	}
	return review, nil
}

// AssembleCard builds the client-facing card for a product and its resolved
// current price. A nil record renders the zero-price "Normal" card rather
// than failing.
func AssembleCard(product models.Product, current *models.PriceHistory, groupName string) models.ProductCard {
	card := models.ProductCard{
		ProductID:   product.ProductID,
		GroupID:     product.GroupID,
		GroupName:   groupName,
		Name:        product.Name,
		Brand:       product.Brand,
		URL:         product.URL,
		ImageURL:    product.ImageURL,
		Description: product.Description,
		Source:      product.Source,
		Currency:    "VND",
		DealType:    "Normal",
	}
	if current != nil {
		card.Price = current.Price
		card.OriginalPrice = current.OriginalPrice
		if current.Currency != "" {
			card.Currency = current.Currency
		}
		card.DealType = dealTypeLabel(current.DealType)
		card.DiscountPercent = DiscountPercent(current)
	}
	return card
}

func currentPriceInfo(current *models.PriceHistory) models.CurrentPriceInfo {
	info := models.CurrentPriceInfo{
		Currency: "VND",
		DealType: "Normal",
	}
	if current != nil {
		info.CurrentPrice = current.Price
		info.OriginalPrice = current.OriginalPrice
		if current.Currency != "" {
			info.Currency = current.Currency
		}
		info.DealType = dealTypeLabel(current.DealType)
		info.DiscountPercent = DiscountPercent(current)
	}
	return info
}

func dealTypeLabel(dealType models.DealType) string {
	if dealType == "" {
		return "Normal"
	}
	return string(dealType)
}
