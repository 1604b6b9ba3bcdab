package controllers

import (
	"net/http"
	"strconv"

	"pricetracker-service/models"
	"pricetracker-service/services"

	"github.com/gin-gonic/gin"
)

// ProductController handles the product-detail page and reviews.
type ProductController struct {
	productService services.ProductService
}

// NewProductController creates a new ProductController.
func NewProductController(productService services.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// GetProductDetail handles POST /product-detail.
func (pc *ProductController) GetProductDetail(ctx *gin.Context) {
	var req models.ProductDetailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
		return
	}

	detail, svcErr := pc.productService.GetProductDetail(ctx.Request.Context(), req.ProductID)
	if svcErr != nil {
		if svcErr.Kind == services.ErrKindStorage {
			ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"product":       detail.Product,
		"price":         detail.Price,
		"price_history": detail.PriceHistory,
		"reviews": gin.H{
			"count":          detail.ReviewCount,
			"average_rating": detail.AverageRating,
			"reviews":        detail.Reviews,
		},
		"similar_products": detail.SimilarProducts,
	})
}

// CreateReview handles POST /products/:id/reviews.
func (pc *ProductController) CreateReview(ctx *gin.Context) {
	productID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || productID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid product id"})
		return
	}

	var req models.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request", "details": err.Error()})
		return
	}

	review, svcErr := pc.productService.AddReview(ctx.Request.Context(), productID, &req)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"success": false, "error": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "review": review})
}
