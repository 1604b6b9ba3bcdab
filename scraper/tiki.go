package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"pricetracker-service/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ErrNotScrapable marks URLs and pages no data could be extracted from.
// Callers treat scrape failures as "no data", never as a hard error: lookups
// fall back to the last stored price.
var ErrNotScrapable = errors.New("product data not scrapable")

// ProductData is the product metadata extracted from a Tiki page.
type ProductData struct {
	Name         string
	Brand        string
	ImageURL     string
	Description  string
	CategoryName string
}

// PriceData is the price point extracted from a Tiki page.
type PriceData struct {
	Price         float64
	OriginalPrice float64
	Currency      string
	DealType      models.DealType
}

// Scraper fetches live product and price data for a product URL.
type Scraper interface {
	ScrapeProduct(ctx context.Context, url string) (*ProductData, error)
	ScrapePrice(ctx context.Context, url string) (*PriceData, error)
}

const defaultBaseURL = "https://tiki.vn"

var (
	productIDPattern = regexp.MustCompile(`-p(\d+)\.html`)
	spidPattern      = regexp.MustCompile(`spid=(\d+)`)
)

// TikiScraper scrapes tiki.vn, preferring the public product JSON API and
// falling back to og: meta tags on the HTML page when the API is unavailable.
type TikiScraper struct {
	client  *http.Client
	baseURL string
	logger  *zap.Logger
}

// NewTikiScraper creates a TikiScraper. baseURL overrides tiki.vn for tests;
// pass "" for the real site.
func NewTikiScraper(logger *zap.Logger, baseURL string) *TikiScraper {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &TikiScraper{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
		logger:  logger,
	}
}

// ExtractProductID pulls the Tiki product id out of a product URL. Supported
// forms: ...-p12345678.html and ...?spid=12345678.
func ExtractProductID(url string) (string, bool) {
	if m := productIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	if m := spidPattern.FindStringSubmatch(url); m != nil {
		return m[1], true
	}
	return "", false
}

type tikiAPIProduct struct {
	Name             string  `json:"name"`
	Price            float64 `json:"price"`
	OriginalPrice    float64 `json:"original_price"`
	ShortDescription string  `json:"short_description"`
	ThumbnailURL     string  `json:"thumbnail_url"`
	Brand            struct {
		Name string `json:"name"`
	} `json:"brand"`
	Categories struct {
		Name string `json:"name"`
	} `json:"categories"`
	BadgesNew []struct {
		Code string `json:"code"`
	} `json:"badges_new"`
}

func (s *TikiScraper) fetchAPI(ctx context.Context, url string) (*tikiAPIProduct, error) {
	id, ok := ExtractProductID(url)
	if !ok {
		return nil, fmt.Errorf("%w: no product id in url %q", ErrNotScrapable, url)
	}

	apiURL := fmt.Sprintf("%s/api/v2/products/%s", s.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotScrapable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: api status %d", ErrNotScrapable, resp.StatusCode)
	}

	var product tikiAPIProduct
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrNotScrapable, err)
	}
	return &product, nil
}

// ScrapeProduct fetches product metadata, trying the JSON API first and the
// HTML page's meta tags second.
func (s *TikiScraper) ScrapeProduct(ctx context.Context, url string) (*ProductData, error) {
	product, apiErr := s.fetchAPI(ctx, url)
	if apiErr == nil && product.Name != "" {
		return &ProductData{
			Name:         product.Name,
			Brand:        product.Brand.Name,
			ImageURL:     product.ThumbnailURL,
			Description:  product.ShortDescription,
			CategoryName: product.Categories.Name,
		}, nil
	}

	s.logger.Debug("Tiki API unavailable, falling back to HTML scrape",
		zap.String("url", url),
		zap.Error(apiErr),
	)
	return s.scrapeProductHTML(ctx, url)
}

// scrapeProductHTML extracts product metadata from Open Graph tags on the
// product page.
func (s *TikiScraper) scrapeProductHTML(ctx context.Context, url string) (*ProductData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotScrapable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: page status %d", ErrNotScrapable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrNotScrapable, err)
	}

	data := &ProductData{
		Name:        metaContent(doc, "og:title"),
		ImageURL:    metaContent(doc, "og:image"),
		Description: metaContent(doc, "og:description"),
	}
	if data.Name == "" {
		data.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if data.Name == "" {
		return nil, fmt.Errorf("%w: no product name on page", ErrNotScrapable)
	}
	return data, nil
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
	return strings.TrimSpace(content)
}

// ScrapePrice fetches the current price point for a product URL.
func (s *TikiScraper) ScrapePrice(ctx context.Context, url string) (*PriceData, error) {
	product, err := s.fetchAPI(ctx, url)
	if err != nil {
		return nil, err
	}
	if product.Price <= 0 {
		return nil, fmt.Errorf("%w: no price in api payload", ErrNotScrapable)
	}

	original := product.OriginalPrice
	if original <= 0 {
		original = product.Price
	}

	return &PriceData{
		Price:         product.Price,
		OriginalPrice: original,
		Currency:      "VND",
		DealType:      classifyDeal(product, original),
	}, nil
}

// classifyDeal derives a deal type from the product's badges. A discount of
// 30% or more promotes an unbadged product to HOT_DEAL.
func classifyDeal(product *tikiAPIProduct, original float64) models.DealType {
	dealType := models.DealTypeNormal
	for _, badge := range product.BadgesNew {
		code := strings.ToUpper(badge.Code)
		switch {
		case strings.Contains(code, "FLASH"):
			return models.DealTypeFlashSale
		case strings.Contains(code, "HOT"), strings.Contains(code, "DEAL"):
			return models.DealTypeHotDeal
		case strings.Contains(code, "TREND"):
			return models.DealTypeTrending
		}
	}

	if original > 0 && product.Price < original {
		discountPercent := (original - product.Price) / original * 100
		if discountPercent >= 30 {
			return models.DealTypeHotDeal
		}
	}
	return dealType
}
