package controllers

import (
	"net/http"
	"strings"

	"pricetracker-service/models"
	"pricetracker-service/services"

	"github.com/gin-gonic/gin"
)

// DealController handles the deals listing endpoint.
type DealController struct {
	dealService services.DealService
	cache       *CacheManager
}

// NewDealController creates a new DealController.
func NewDealController(dealService services.DealService, cache *CacheManager) *DealController {
	return &DealController{
		dealService: dealService,
		cache:       cache,
	}
}

// GetDeals handles GET /deals, with the selector in the query string.
func (dc *DealController) GetDeals(ctx *gin.Context) {
	dc.respondDeals(ctx, ctx.Query("deal_type"))
}

// PostDeals handles POST /deals, with the selector in the JSON body. An empty
// body is allowed and means ALL.
func (dc *DealController) PostDeals(ctx *gin.Context) {
	var req models.DealsRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
			return
		}
	}
	dc.respondDeals(ctx, req.DealType)
}

func (dc *DealController) respondDeals(ctx *gin.Context, selector string) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		selector = models.DealSelectorAll
	}

	cards, cached := dc.cache.GetDeals(ctx.Request.Context(), selector)
	if !cached {
		var svcErr *services.ServiceError
		cards, svcErr = dc.dealService.ListDeals(ctx.Request.Context(), selector)
		if svcErr != nil {
			ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
			return
		}
		dc.cache.SetDealsAsync(selector, cards)
	}

	if len(cards) == 0 {
		ctx.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   "Hiện tại chưa có sản phẩm giảm giá nào. Vui lòng quay lại sau!",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"count":     len(cards),
		"deal_type": selector,
		"products":  cards,
	})
}
