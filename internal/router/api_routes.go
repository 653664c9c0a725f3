package router

import (
	"catalog-web/internal/config"
	"catalog-web/internal/handler"
	"catalog-web/internal/middleware"
	"catalog-web/internal/repository"
	"catalog-web/internal/service"
	"catalog-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

func SetupAPIRoutes(
	router fiber.Router,
	db *sqlx.DB,
	redisClient *redis.Client,
	cfg *config.Config,
) {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg)
	productService := service.NewProductService(productRepo)
	excelService := service.NewExcelService(cfg.ImportMaxRows)
	importService := service.NewImportService(excelService, productRepo, historyRepo, utils.GetLogger())

	// Initialize Asynq client (optional - only if Redis is available)
	var asynqClient *asynq.Client
	if redisClient != nil {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	adminProductHandler := handler.NewAdminProductHandler(productService)
	importHandler := handler.NewImportHandler(importService, excelService, productService, historyRepo, asynqClient, redisClient, cfg)

	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)

	products := router.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.List) // same listing, driven by ?q=
	products.Get("/categories", productHandler.Categories)
	products.Get("/brands", productHandler.Brands)
	products.Get("/:id", productHandler.Get)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/auth/me", authHandler.Me)

	// Admin routes
	admin := protected.Group("/admin", middleware.AdminOnly())

	adminProducts := admin.Group("/products")
	adminProducts.Get("/", adminProductHandler.List)
	adminProducts.Post("/", adminProductHandler.Create)
	adminProducts.Post("/bulk-status", adminProductHandler.BulkUpdateStatus)
	adminProducts.Get("/:id", adminProductHandler.Get)
	adminProducts.Put("/:id", adminProductHandler.Update)
	adminProducts.Delete("/:id", adminProductHandler.Delete)
	adminProducts.Patch("/:id/stock", adminProductHandler.UpdateStock)

	adminImports := admin.Group("/import")
	adminImports.Post("/", importHandler.Import)
	adminImports.Post("/async", importHandler.ImportAsync)
	adminImports.Get("/template", importHandler.Template)
	adminImports.Get("/history", importHandler.History)
	adminImports.Get("/history/:id", importHandler.HistoryDetail)
	adminImports.Get("/jobs/:id", importHandler.ImportStatus)

	admin.Get("/export", importHandler.Export)
}
