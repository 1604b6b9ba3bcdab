package services_test

import (
	"context"
	"testing"
	"time"

	"pricetracker-service/models"
	"pricetracker-service/scraper"
	"pricetracker-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockScrapeLogRepo struct {
	logs []models.ScrapeLog
}

func (m *mockScrapeLogRepo) Create(_ context.Context, log *models.ScrapeLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func TestRefreshAll(t *testing.T) {
	logger := zap.NewNop()

	t.Run("appends a price record per product and logs the sweep", func(t *testing.T) {
		products := newMockProductRepo()
		products.add(models.Product{ProductID: 1, GroupID: 1, Name: "Áo thun", URL: "https://tiki.vn/a-p1.html"})
		products.add(models.Product{ProductID: 2, GroupID: 1, Name: "Quần jean", URL: "https://tiki.vn/b-p2.html"})
		products.add(models.Product{ProductID: 3, GroupID: 1, Name: "Nguồn không rõ", URL: ""})

		prices := &mockPriceRepo{}
		scrapeLogs := &mockScrapeLogRepo{}
		sc := &mockScraper{priceData: &scraper.PriceData{
			Price: 90, OriginalPrice: 100, Currency: "VND", DealType: models.DealTypeNormal,
		}}

		invalidated := false
		worker := services.NewRefreshWorker(products, prices, scrapeLogs, sc, time.Hour,
			func() { invalidated = true }, logger)
		worker.RefreshAll(context.Background())

		assert.Equal(t, 2, prices.inserted)
		assert.True(t, invalidated)
		require.Len(t, scrapeLogs.logs, 1)
		assert.Equal(t, "SUCCESS", scrapeLogs.logs[0].Status)
		assert.Equal(t, 3, scrapeLogs.logs[0].TotalProducts)
		assert.Equal(t, "Success: 2, Failed: 0, Skipped: 1", scrapeLogs.logs[0].Notes)
	})

	t.Run("records a failed sweep when nothing succeeds", func(t *testing.T) {
		products := newMockProductRepo()
		products.add(models.Product{ProductID: 1, GroupID: 1, Name: "Áo thun", URL: "https://tiki.vn/a-p1.html"})

		prices := &mockPriceRepo{}
		scrapeLogs := &mockScrapeLogRepo{}
		sc := &mockScraper{priceErr: scraper.ErrNotScrapable}

		invalidated := false
		worker := services.NewRefreshWorker(products, prices, scrapeLogs, sc, time.Hour,
			func() { invalidated = true }, logger)
		worker.RefreshAll(context.Background())

		assert.Equal(t, 0, prices.inserted)
		assert.False(t, invalidated, "cache must stay valid when nothing changed")
		require.Len(t, scrapeLogs.logs, 1)
		assert.Equal(t, "FAILED", scrapeLogs.logs[0].Status)
	})
}
