package services

import (
	"context"
	"sort"

	"pricetracker-service/models"
	"pricetracker-service/repository"

	"go.uber.org/zap"
)

// MaxDealResults caps every deal listing.
const MaxDealResults = 100

// DealService ranks discounted products under the listing selectors.
type DealService interface {
	ListDeals(ctx context.Context, selector string) ([]models.ProductCard, *ServiceError)
}

type dealServiceImpl struct {
	products repository.ProductRepository
	prices   repository.PriceRepository
	groups   repository.GroupRepository
	logger   *zap.Logger
}

// NewDealService creates a new DealService.
func NewDealService(
	products repository.ProductRepository,
	prices repository.PriceRepository,
	groups repository.GroupRepository,
	logger *zap.Logger,
) DealService {
	return &dealServiceImpl{
		products: products,
		prices:   prices,
		groups:   groups,
		logger:   logger,
	}
}

// ListDeals resolves the current-price snapshot, ranks it under the selector,
// and assembles product cards. An empty result is a valid outcome, not an
// error.
func (s *dealServiceImpl) ListDeals(ctx context.Context, selector string) ([]models.ProductCard, *ServiceError) {
	records, err := s.prices.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load price history", zap.Error(err))
		return nil, storageError(err)
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load products", zap.Error(err))
		return nil, storageError(err)
	}

	productByID := make(map[int64]models.Product, len(products))
	groupOf := make(map[int64]int64, len(products))
	for _, p := range products {
		productByID[p.ProductID] = p
		groupOf[p.ProductID] = p.GroupID
	}

	snapshot := LatestPerProduct(records)
	snapshots := make([]models.PriceHistory, 0, len(snapshot))
	for _, rec := range snapshot {
		snapshots = append(snapshots, rec)
	}

	ranked := RankDeals(snapshots, groupOf, selector)

	groupNames := make(map[int64]string)
	cards := make([]models.ProductCard, 0, len(ranked))
	for _, rec := range ranked {
		product, ok := productByID[rec.ProductID]
		if !ok {
			continue
		}
		groupName, ok := groupNames[product.GroupID]
		if !ok {
			groupName, err = s.groups.GroupNameByID(ctx, product.GroupID)
			if err != nil {
				return nil, storageError(err)
			}
			groupNames[product.GroupID] = groupName
		}
		rec := rec
		cards = append(cards, AssembleCard(product, &rec, groupName))
	}

	return cards, nil
}

// RankDeals filters the current-price snapshot to discounted records and
// orders them under the selector's policy. groupOf maps product id to group
// id and is only consulted by the TRENDING selector. All policies end in the
// same deterministic tie-break, ascending product id, so pagination and tests
// see stable output.
func RankDeals(snapshots []models.PriceHistory, groupOf map[int64]int64, selector string) []models.PriceHistory {
	deals := make([]models.PriceHistory, 0, len(snapshots))
	for _, rec := range snapshots {
		if IsDeal(rec) {
			deals = append(deals, rec)
		}
	}

	switch selector {
	case models.DealSelectorAll:
		sortByRatio(deals)

	case string(models.DealTypeFlashSale):
		deals = filterDealType(deals, models.DealTypeFlashSale)
		sort.SliceStable(deals, func(i, j int) bool {
			a, b := deals[i], deals[j]
			if !a.RecordedAt.Equal(b.RecordedAt) {
				return a.RecordedAt.After(b.RecordedAt)
			}
			ra, rb := DiscountRatio(a), DiscountRatio(b)
			if ra != rb {
				return ra > rb
			}
			return a.ProductID < b.ProductID
		})

	case string(models.DealTypeHotDeal):
		deals = filterDealType(deals, models.DealTypeHotDeal)
		sort.SliceStable(deals, func(i, j int) bool {
			a, b := deals[i], deals[j]
			sa, sb := a.OriginalPrice-a.Price, b.OriginalPrice-b.Price
			if sa != sb {
				return sa > sb
			}
			ra, rb := DiscountRatio(a), DiscountRatio(b)
			if ra != rb {
				return ra > rb
			}
			return a.ProductID < b.ProductID
		})

	case string(models.DealTypeTrending):
		deals = bestPerGroup(deals, groupOf)
		sortByRatio(deals)

	default:
		deals = filterDealType(deals, models.DealType(selector))
		sortByRatio(deals)
	}

	if len(deals) > MaxDealResults {
		deals = deals[:MaxDealResults]
	}
	return deals
}

func filterDealType(records []models.PriceHistory, dealType models.DealType) []models.PriceHistory {
	filtered := records[:0]
	for _, rec := range records {
		if rec.DealType == dealType {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func sortByRatio(records []models.PriceHistory) {
	sort.SliceStable(records, func(i, j int) bool {
		ra, rb := DiscountRatio(records[i]), DiscountRatio(records[j])
		if ra != rb {
			return ra > rb
		}
		return records[i].ProductID < records[j].ProductID
	})
}

// bestPerGroup keeps, per product group, the snapshot with the highest
// discount ratio. Exact ratio ties within a group go to the lowest product
// id so the result stays deterministic. Products with an unknown group are
// skipped.
func bestPerGroup(records []models.PriceHistory, groupOf map[int64]int64) []models.PriceHistory {
	best := make(map[int64]models.PriceHistory)
	for _, rec := range records {
		groupID, ok := groupOf[rec.ProductID]
		if !ok {
			continue
		}
		cur, seen := best[groupID]
		if !seen {
			best[groupID] = rec
			continue
		}
		rRec, rCur := DiscountRatio(rec), DiscountRatio(cur)
		if rRec > rCur || (rRec == rCur && rec.ProductID < cur.ProductID) {
			best[groupID] = rec
		}
	}

	result := make([]models.PriceHistory, 0, len(best))
	for _, rec := range best {
		result = append(result, rec)
	}
	return result
}
