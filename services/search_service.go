package services

import (
	"context"
	"sort"
	"strings"

	"pricetracker-service/models"
	"pricetracker-service/repository"

	"go.uber.org/zap"
)

// MaxSearchResults caps every name-search result.
const MaxSearchResults = 50

// candidateFetchLimit bounds the broad candidate query; the precise tiering
// below narrows it further.
const candidateFetchLimit = 500

// Match tiers, most specific first. A product's rank is the best tier it
// matches; exact name matches always sort ahead of word and category matches.
const (
	TierExact = iota + 1
	TierPrefixWord
	TierSuffixWord
	TierInteriorWord
	TierCategory
)

// SearchService ranks product-name matches by specificity tier.
type SearchService interface {
	SearchByName(ctx context.Context, keyword string) ([]models.ProductCard, *ServiceError)
}

type searchServiceImpl struct {
	products repository.ProductRepository
	prices   repository.PriceRepository
	logger   *zap.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	products repository.ProductRepository,
	prices repository.PriceRepository,
	logger *zap.Logger,
) SearchService {
	return &searchServiceImpl{products: products, prices: prices, logger: logger}
}

// SearchByName fetches a broad candidate set from storage, ranks it with
// MatchTier, and assembles product cards with each product's current price.
// An empty result is a valid outcome.
func (s *searchServiceImpl) SearchByName(ctx context.Context, keyword string) ([]models.ProductCard, *ServiceError) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []models.ProductCard{}, nil
	}

	candidates, err := s.products.SearchCandidates(ctx, keyword, candidateFetchLimit)
	if err != nil {
		s.logger.Error("Search candidate query failed", zap.Error(err))
		return nil, storageError(err)
	}

	type rankedMatch struct {
		product   models.Product
		groupName string
		tier      int
	}

	seen := make(map[int64]int)
	matches := make([]rankedMatch, 0, len(candidates))
	for _, c := range candidates {
		tier, ok := MatchTier(c.Name, c.GroupName, keyword)
		if !ok {
			continue
		}
		if prev, dup := seen[c.ProductID]; dup {
			if tier < matches[prev].tier {
				matches[prev].tier = tier
			}
			continue
		}
		seen[c.ProductID] = len(matches)
		matches = append(matches, rankedMatch{product: c.Product, groupName: c.GroupName, tier: tier})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].tier != matches[j].tier {
			return matches[i].tier < matches[j].tier
		}
		return matches[i].product.ProductID < matches[j].product.ProductID
	})

	if len(matches) > MaxSearchResults {
		matches = matches[:MaxSearchResults]
	}
	if len(matches) == 0 {
		return []models.ProductCard{}, nil
	}

	records, err := s.prices.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load price history for search results", zap.Error(err))
		return nil, storageError(err)
	}
	snapshot := LatestPerProduct(records)

	cards := make([]models.ProductCard, 0, len(matches))
	for _, m := range matches {
		var current *models.PriceHistory
		if rec, ok := snapshot[m.product.ProductID]; ok {
			rec := rec
			current = &rec
		}
		cards = append(cards, AssembleCard(m.product, current, m.groupName))
	}
	return cards, nil
}

// MatchTier reports the best tier the keyword matches against a product name
// and its group name. Matching is case-insensitive but accent-sensitive:
// lowercasing preserves diacritics, so "áo" never matches "ao".
func MatchTier(name, groupName, keyword string) (int, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return 0, false
	}

	switch {
	case n == kw:
		return TierExact, true
	case strings.HasPrefix(n, kw+" "):
		return TierPrefixWord, true
	case strings.HasSuffix(n, " "+kw):
		return TierSuffixWord, true
	case strings.Contains(n, " "+kw+" "):
		return TierInteriorWord, true
	}

	g := strings.ToLower(strings.TrimSpace(groupName))
	if g != "" && strings.Contains(g, kw) {
		return TierCategory, true
	}
	return 0, false
}
