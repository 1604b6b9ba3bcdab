package controllers

import (
	"context"
	"net/http"
	"time"

	"pricetracker-service/models"
	"pricetracker-service/services"

	"github.com/gin-gonic/gin"
)

// SearchController handles the unified POST /search endpoint the frontend
// uses for both URL lookups and name searches.
type SearchController struct {
	productService services.ProductService
	searchService  services.SearchService
	cache          *CacheManager
}

// NewSearchController creates a new SearchController.
func NewSearchController(productService services.ProductService, searchService services.SearchService, cache *CacheManager) *SearchController {
	return &SearchController{
		productService: productService,
		searchService:  searchService,
		cache:          cache,
	}
}

// Search handles POST /search, dispatching on the action field.
func (sc *SearchController) Search(ctx *gin.Context) {
	var req models.SearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
		return
	}

	switch req.Action {
	case "SEARCH_BY_URL":
		sc.searchByURL(ctx, req.Query)
	case "SEARCH_BY_NAME":
		sc.searchByName(ctx, req.Query)
	}
}

func (sc *SearchController) searchByURL(ctx *gin.Context, url string) {
	card, isNew, svcErr := sc.productService.SearchByURL(ctx.Request.Context(), url)
	if svcErr != nil {
		// A storage outage is a server fault; a failed scrape of a bad URL
		// is an ordinary business outcome the frontend renders inline.
		if svcErr.Kind == services.ErrKindStorage {
			ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	// The lookup may have appended a fresh price record, so cached deal
	// lists are stale.
	go func() {
		invCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = sc.cache.Invalidate(invCtx)
	}()

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"isNew":   isNew,
		"product": card,
	})
}

func (sc *SearchController) searchByName(ctx *gin.Context, keyword string) {
	products, svcErr := sc.searchService.SearchByName(ctx.Request.Context(), keyword)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}
