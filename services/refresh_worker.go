package services

import (
	"context"
	"fmt"
	"time"

	"pricetracker-service/models"
	"pricetracker-service/repository"
	"pricetracker-service/scraper"

	"go.uber.org/zap"
)

// perProductScrapeTimeout bounds a single scrape inside a refresh run so one
// slow product cannot stall the whole sweep.
const perProductScrapeTimeout = 30 * time.Second

// RefreshWorker periodically re-scrapes every tracked product and appends a
// fresh price record, so deal rankings stay current without user traffic.
type RefreshWorker struct {
	products   repository.ProductRepository
	prices     repository.PriceRepository
	scrapeLogs repository.ScrapeLogRepository
	scraper    scraper.Scraper
	interval   time.Duration
	onRefresh  func()
	logger     *zap.Logger
}

// NewRefreshWorker creates a RefreshWorker. onRefresh is called after each
// completed sweep and may be nil; the deals cache uses it to invalidate.
func NewRefreshWorker(
	products repository.ProductRepository,
	prices repository.PriceRepository,
	scrapeLogs repository.ScrapeLogRepository,
	sc scraper.Scraper,
	interval time.Duration,
	onRefresh func(),
	logger *zap.Logger,
) *RefreshWorker {
	return &RefreshWorker{
		products:   products,
		prices:     prices,
		scrapeLogs: scrapeLogs,
		scraper:    sc,
		interval:   interval,
		onRefresh:  onRefresh,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled, refreshing all prices every interval.
func (w *RefreshWorker) Run(ctx context.Context) {
	w.logger.Info("Price refresh worker started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Price refresh worker stopped")
			return
		case <-ticker.C:
			w.RefreshAll(ctx)
		}
	}
}

// RefreshAll performs one sweep over every tracked product and records the
// outcome in scrape_log. Individual scrape failures are logged and skipped.
func (w *RefreshWorker) RefreshAll(ctx context.Context) {
	started := time.Now()
	products, err := w.products.ListAll(ctx)
	if err != nil {
		w.logger.Error("Refresh sweep aborted, cannot list products", zap.Error(err))
		return
	}

	var succeeded, failed, skipped int
	for _, product := range products {
		if ctx.Err() != nil {
			return
		}
		if product.URL == "" {
			skipped++
			continue
		}

		scrapeCtx, cancel := context.WithTimeout(ctx, perProductScrapeTimeout)
		priceData, err := w.scraper.ScrapePrice(scrapeCtx, product.URL)
		cancel()
		if err != nil {
			failed++
			w.logger.Warn("Refresh scrape failed",
				zap.Int64("product_id", product.ProductID),
				zap.Error(err),
			)
			continue
		}

		record := &models.PriceHistory{
			ProductID:     product.ProductID,
			Price:         priceData.Price,
			OriginalPrice: priceData.OriginalPrice,
			Currency:      priceData.Currency,
			DealType:      priceData.DealType,
			RecordedAt:    time.Now(),
		}
		if err := w.prices.Insert(ctx, record); err != nil {
			failed++
			w.logger.Warn("Refresh price insert failed",
				zap.Int64("product_id", product.ProductID),
				zap.Error(err),
			)
			continue
		}
		succeeded++
	}

	status := "SUCCESS"
	if failed > 0 && succeeded == 0 {
		status = "FAILED"
	}
	logEntry := &models.ScrapeLog{
		ScrapeDate:    started,
		Source:        "tiki",
		TotalProducts: len(products),
		Status:        status,
		Notes:         fmt.Sprintf("Success: %d, Failed: %d, Skipped: %d", succeeded, failed, skipped),
	}
	if err := w.scrapeLogs.Create(ctx, logEntry); err != nil {
		w.logger.Warn("Failed to write scrape log", zap.Error(err))
	}

	w.logger.Info("Refresh sweep finished",
		zap.Int("total", len(products)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Int("skipped", skipped),
		zap.Duration("elapsed", time.Since(started)),
	)

	if w.onRefresh != nil && succeeded > 0 {
		w.onRefresh()
	}
}
