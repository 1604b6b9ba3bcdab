package routes

import (
	"pricetracker-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all API routes.
func RegisterRoutes(
	r *gin.Engine,
	sc *controllers.SearchController,
	dc *controllers.DealController,
	pc *controllers.ProductController,
) {
	r.POST("/search", sc.Search)

	r.GET("/deals", dc.GetDeals)
	r.POST("/deals", dc.PostDeals)

	r.POST("/product-detail", pc.GetProductDetail)
	r.POST("/products/:id/reviews", pc.CreateReview)
}
