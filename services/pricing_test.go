package services_test

import (
	"testing"

	"pricetracker-service/models"
	"pricetracker-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func priceRec(priceID, productID int64, price, original float64) models.PriceHistory {
	return models.PriceHistory{
		PriceID:       priceID,
		ProductID:     productID,
		Price:         price,
		OriginalPrice: original,
		Currency:      "VND",
	}
}

func TestCurrentOf(t *testing.T) {
	t.Run("empty history has no current price", func(t *testing.T) {
		assert.Nil(t, services.CurrentOf(nil))
		assert.Nil(t, services.CurrentOf([]models.PriceHistory{}))
	})

	t.Run("picks greatest price_id regardless of slice order", func(t *testing.T) {
		records := []models.PriceHistory{
			priceRec(7, 1, 90, 100),
			priceRec(12, 1, 80, 100),
			priceRec(3, 1, 100, 100),
		}
		current := services.CurrentOf(records)
		require.NotNil(t, current)
		assert.Equal(t, int64(12), current.PriceID)
		assert.Equal(t, float64(80), current.Price)
	})
}

func TestLatestPerProduct(t *testing.T) {
	records := []models.PriceHistory{
		priceRec(1, 10, 100, 100),
		priceRec(5, 10, 90, 100),
		priceRec(3, 20, 200, 250),
		priceRec(2, 20, 210, 250),
	}

	snapshot := services.LatestPerProduct(records)

	require.Len(t, snapshot, 2)
	assert.Equal(t, int64(5), snapshot[10].PriceID)
	assert.Equal(t, int64(3), snapshot[20].PriceID)
}

func TestIsDeal(t *testing.T) {
	assert.True(t, services.IsDeal(priceRec(1, 1, 80, 100)))
	assert.False(t, services.IsDeal(priceRec(1, 1, 100, 100)), "equal prices are not a deal")
	assert.False(t, services.IsDeal(priceRec(1, 1, 80, 0)), "missing baseline is not a deal")
	assert.False(t, services.IsDeal(priceRec(1, 1, 120, 100)), "price above original is not a deal")
}

func TestDiscountPercent(t *testing.T) {
	t.Run("rounds half up", func(t *testing.T) {
		rec := priceRec(1, 1, 140, 160) // 12.5%
		assert.Equal(t, 13, services.DiscountPercent(&rec))

		rec = priceRec(1, 1, 100, 200)
		assert.Equal(t, 50, services.DiscountPercent(&rec))

		rec = priceRec(1, 1, 149, 199) // 25.125...%
		assert.Equal(t, 25, services.DiscountPercent(&rec))
	})

	t.Run("zero for non-deals", func(t *testing.T) {
		assert.Equal(t, 0, services.DiscountPercent(nil))

		rec := priceRec(1, 1, 100, 100)
		assert.Equal(t, 0, services.DiscountPercent(&rec))

		rec = priceRec(1, 1, 100, 0)
		assert.Equal(t, 0, services.DiscountPercent(&rec))
	})
}
