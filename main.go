package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pricetracker-service/controllers"
	"pricetracker-service/database"
	"pricetracker-service/middleware"
	"pricetracker-service/models"
	"pricetracker-service/repository"
	"pricetracker-service/routes"
	"pricetracker-service/scraper"
	"pricetracker-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// --- Database ---
	if err := database.Connect(logger,
		&models.Product{},
		&models.ProductGroup{},
		&models.PriceHistory{},
		&models.Review{},
		&models.ScrapeLog{},
	); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// --- Redis (optional) ---
	redisClient := database.NewRedisClient(logger, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	// --- HTTP router ---
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Timeout(60 * time.Second))

	// --- Dependency injection ---
	productRepo := repository.NewGormProductRepository(database.DB)
	priceRepo := repository.NewGormPriceRepository(database.DB)
	groupRepo := repository.NewGormGroupRepository(database.DB)
	reviewRepo := repository.NewGormReviewRepository(database.DB)
	scrapeLogRepo := repository.NewGormScrapeLogRepository(database.DB)

	tikiScraper := scraper.NewTikiScraper(logger, cfg.TikiBaseURL)

	productService := services.NewProductService(productRepo, priceRepo, groupRepo, reviewRepo, tikiScraper, logger)
	dealService := services.NewDealService(productRepo, priceRepo, groupRepo, logger)
	searchService := services.NewSearchService(productRepo, priceRepo, logger)

	cacheManager := controllers.NewCacheManager(redisClient)
	searchController := controllers.NewSearchController(productService, searchService, cacheManager)
	dealController := controllers.NewDealController(dealService, cacheManager)
	productController := controllers.NewProductController(productService)

	routes.RegisterRoutes(r, searchController, dealController, productController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "pricetracker-service"})
	})

	// --- Background price refresh ---
	workerCtx, stopWorker := context.WithCancel(context.Background())
	worker := services.NewRefreshWorker(productRepo, priceRepo, scrapeLogRepo, tikiScraper, cfg.RefreshInterval,
		func() {
			invCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := cacheManager.Invalidate(invCtx); err != nil {
				logger.Warn("Cache invalidation after refresh failed", zap.Error(err))
			}
		},
		logger,
	)
	go worker.Run(workerCtx)

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Price Tracker Service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	stopWorker()

	httpShutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(httpShutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	log.Println("Price Tracker Service stopped gracefully")
}
