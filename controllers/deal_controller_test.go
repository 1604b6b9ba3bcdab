package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pricetracker-service/controllers"
	"pricetracker-service/models"
	"pricetracker-service/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock DealService ---

type mockDealService struct {
	listFn func(ctx context.Context, selector string) ([]models.ProductCard, *services.ServiceError)
}

func (m *mockDealService) ListDeals(ctx context.Context, selector string) ([]models.ProductCard, *services.ServiceError) {
	return m.listFn(ctx, selector)
}

func setupDealRouter(svc services.DealService) *gin.Engine {
	r := gin.New()
	dc := controllers.NewDealController(svc, controllers.NewCacheManager(nil))
	r.GET("/deals", dc.GetDeals)
	r.POST("/deals", dc.PostDeals)
	return r
}

func dealCard(id int64, discount int) models.ProductCard {
	return models.ProductCard{
		ProductID:       id,
		Name:            "Áo thun",
		Currency:        "VND",
		DealType:        "FLASH_SALE",
		DiscountPercent: discount,
	}
}

func TestGetDeals(t *testing.T) {
	t.Run("defaults to ALL and wraps the result", func(t *testing.T) {
		var gotSelector string
		svc := &mockDealService{listFn: func(_ context.Context, selector string) ([]models.ProductCard, *services.ServiceError) {
			gotSelector = selector
			return []models.ProductCard{dealCard(1, 50), dealCard(2, 25)}, nil
		}}
		r := setupDealRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/deals", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.DealSelectorAll, gotSelector)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, float64(2), body["count"])
		assert.Equal(t, "ALL", body["deal_type"])
	})

	t.Run("passes the query selector through", func(t *testing.T) {
		var gotSelector string
		svc := &mockDealService{listFn: func(_ context.Context, selector string) ([]models.ProductCard, *services.ServiceError) {
			gotSelector = selector
			return []models.ProductCard{dealCard(1, 50)}, nil
		}}
		r := setupDealRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/deals?deal_type=FLASH_SALE", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "FLASH_SALE", gotSelector)
	})

	t.Run("empty result reports no deals", func(t *testing.T) {
		svc := &mockDealService{listFn: func(_ context.Context, _ string) ([]models.ProductCard, *services.ServiceError) {
			return []models.ProductCard{}, nil
		}}
		r := setupDealRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/deals", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "chưa có sản phẩm giảm giá")
	})

	t.Run("storage failure returns 503", func(t *testing.T) {
		svc := &mockDealService{listFn: func(_ context.Context, _ string) ([]models.ProductCard, *services.ServiceError) {
			return nil, &services.ServiceError{StatusCode: 503, Kind: services.ErrKindStorage, Message: "Storage unavailable"}
		}}
		r := setupDealRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/deals", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestPostDeals(t *testing.T) {
	t.Run("reads the selector from the body", func(t *testing.T) {
		var gotSelector string
		svc := &mockDealService{listFn: func(_ context.Context, selector string) ([]models.ProductCard, *services.ServiceError) {
			gotSelector = selector
			return []models.ProductCard{dealCard(1, 30)}, nil
		}}
		r := setupDealRouter(svc)

		payload, _ := json.Marshal(models.DealsRequest{DealType: "HOT_DEAL"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/deals", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "HOT_DEAL", gotSelector)
	})

	t.Run("empty body means ALL", func(t *testing.T) {
		var gotSelector string
		svc := &mockDealService{listFn: func(_ context.Context, selector string) ([]models.ProductCard, *services.ServiceError) {
			gotSelector = selector
			return []models.ProductCard{dealCard(1, 30)}, nil
		}}
		r := setupDealRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/deals", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.DealSelectorAll, gotSelector)
	})
}
