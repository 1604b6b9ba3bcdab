package services_test

import (
	"context"
	"testing"
	"time"

	"pricetracker-service/models"
	"pricetracker-service/repository"
	"pricetracker-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMatchTier(t *testing.T) {
	tier := func(name, group, kw string) int {
		tier, ok := services.MatchTier(name, group, kw)
		if !ok {
			return 0
		}
		return tier
	}

	t.Run("tiers by match position", func(t *testing.T) {
		assert.Equal(t, services.TierExact, tier("Áo thun", "", "áo thun"))
		assert.Equal(t, services.TierPrefixWord, tier("Áo thun nam", "", "áo"))
		assert.Equal(t, services.TierSuffixWord, tier("Quần áo", "", "áo"))
		assert.Equal(t, services.TierInteriorWord, tier("Bộ áo khoác nữ", "", "áo"))
		assert.Equal(t, services.TierCategory, tier("Giày sneaker", "Thời trang áo", "áo"))
	})

	t.Run("exact match outranks prefix match", func(t *testing.T) {
		exact := tier("áo thun nam", "", "áo thun nam")
		prefix := tier("áo thun nam basic", "", "áo thun nam")
		assert.Equal(t, services.TierExact, exact)
		assert.Equal(t, services.TierPrefixWord, prefix)
		assert.Less(t, exact, prefix)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		assert.Equal(t, services.TierPrefixWord, tier("ao thun nam", "", "Ao"))
		assert.Equal(t, services.TierExact, tier("ÁO THUN", "", "áo thun"))
	})

	t.Run("accent-sensitive", func(t *testing.T) {
		_, ok := services.MatchTier("ao thun nam", "", "áo")
		assert.False(t, ok, "accented keyword must not match unaccented name")

		_, ok = services.MatchTier("áo thun nam", "", "ao")
		assert.False(t, ok, "unaccented keyword must not match accented name")
	})

	t.Run("substring inside a word is not a match", func(t *testing.T) {
		_, ok := services.MatchTier("bao tay", "", "ao")
		assert.False(t, ok)
	})

	t.Run("blank keyword never matches", func(t *testing.T) {
		_, ok := services.MatchTier("áo thun", "áo", "  ")
		assert.False(t, ok)
	})
}

func testTime() time.Time {
	return time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
}

func searchCandidate(id, groupID int64, name, groupName string) repository.ProductWithGroup {
	return repository.ProductWithGroup{
		Product: models.Product{
			ProductID: id,
			GroupID:   groupID,
			Name:      name,
			URL:       name,
		},
		GroupName: groupName,
	}
}

func TestSearchByName(t *testing.T) {
	logger := zap.NewNop()

	t.Run("orders by tier then product id", func(t *testing.T) {
		products := newMockProductRepo()
		products.candidates = []repository.ProductWithGroup{
			searchCandidate(5, 1, "quần áo", "Thời trang"),      // suffix word
			searchCandidate(2, 1, "áo thun nam", "Thời trang"),  // prefix word
			searchCandidate(9, 1, "áo thun", "Thời trang"),      // exact
			searchCandidate(7, 1, "bộ áo thun cao cấp", "Thời trang"), // interior word
			searchCandidate(3, 2, "giày sneaker", "phụ kiện áo thun"), // category only
			searchCandidate(4, 1, "ao thun trơn", "Thời trang"), // no accent, no match
		}
		prices := &mockPriceRepo{}
		prices.addRecord(dealRec(1, 9, 120, 150, models.DealTypeNormal, testTime()))

		svc := services.NewSearchService(products, prices, logger)
		cards, svcErr := svc.SearchByName(context.Background(), "áo thun")

		require.Nil(t, svcErr)
		ids := make([]int64, len(cards))
		for i, c := range cards {
			ids[i] = c.ProductID
		}
		assert.Equal(t, []int64{9, 2, 7, 5, 3}, ids)

		// Exact match carries its current price; the others have none yet.
		assert.Equal(t, float64(120), cards[0].Price)
		assert.Equal(t, 20, cards[0].DiscountPercent)
		assert.Equal(t, float64(0), cards[1].Price)
		assert.Equal(t, "Normal", cards[1].DealType)
	})

	t.Run("blank keyword yields an empty result", func(t *testing.T) {
		svc := services.NewSearchService(newMockProductRepo(), &mockPriceRepo{}, logger)
		cards, svcErr := svc.SearchByName(context.Background(), "   ")
		require.Nil(t, svcErr)
		assert.Empty(t, cards)
	})

	t.Run("result is capped", func(t *testing.T) {
		products := newMockProductRepo()
		for i := int64(1); i <= 80; i++ {
			products.candidates = append(products.candidates,
				searchCandidate(i, 1, "áo thun", "Thời trang"))
		}
		svc := services.NewSearchService(products, &mockPriceRepo{}, logger)
		cards, svcErr := svc.SearchByName(context.Background(), "áo thun")
		require.Nil(t, svcErr)
		assert.Len(t, cards, services.MaxSearchResults)
	})

	t.Run("storage failure surfaces as a storage error", func(t *testing.T) {
		products := newMockProductRepo()
		products.listErr = assert.AnError
		svc := services.NewSearchService(products, &mockPriceRepo{}, logger)

		cards, svcErr := svc.SearchByName(context.Background(), "áo")
		assert.Nil(t, cards)
		require.NotNil(t, svcErr)
		assert.Equal(t, services.ErrKindStorage, svcErr.Kind)
	})
}
