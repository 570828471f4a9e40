package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"asset-backend/internal/auth"
	"asset-backend/internal/cache"
	"asset-backend/internal/config"
	"asset-backend/internal/database"
	"asset-backend/internal/db"
	"asset-backend/internal/handlers"
	"asset-backend/internal/health"
	h "asset-backend/internal/http"
	"asset-backend/internal/middleware"
	"asset-backend/internal/notify"
	"asset-backend/internal/repositories"
	"asset-backend/internal/services"
	"asset-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx := context.Background()
	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, running without cache: %v", err)
	}

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	locationRepo := repositories.NewLocationRepository(pool)
	assetRepo := repositories.NewAssetRepository(pool)
	workflowRepo := repositories.NewWorkflowRepository(pool)
	historyRepo := repositories.NewAssetHistoryRepository(pool)
	attachmentRepo := repositories.NewAttachmentRepository(pool)

	// Notifications
	jwtManager := auth.NewJWTManager(cfg)
	mailer := notify.NewMailer(cfg)
	if !mailer.Enabled() {
		log.Println("[Notify] SMTP not configured, mail notifications disabled")
	}
	hub := notify.NewHub()
	gateway := notify.NewGateway(mailer, hub, userRepo)

	// Object storage is optional; without it attachments are disabled
	var store *storage.ObjectStore
	if cfg.Storage.Bucket != "" {
		var err error
		store, err = storage.NewObjectStore(ctx, cfg)
		if err != nil {
			log.Fatalf("object store init failed: %v", err)
		}
	} else {
		log.Println("[Storage] No bucket configured, attachments disabled")
	}

	// Services
	authService := services.NewAuthService(userRepo, jwtManager)
	assetService := services.NewAssetService(pool, assetRepo, categoryRepo, userRepo, historyRepo)
	workflowService := services.NewWorkflowService(pool, workflowRepo, assetRepo, userRepo, historyRepo, auth.Authorize, gateway)
	statisticsService := services.NewStatisticsService(assetRepo, workflowRepo, historyRepo)
	reportService := services.NewReportService(assetRepo, categoryRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	locationHandler := handlers.NewLocationHandler(locationRepo)
	assetHandler := handlers.NewAssetHandler(assetService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentRepo, assetRepo, store)
	statisticsHandler := handlers.NewStatisticsHandler(statisticsService)
	reportHandler := handlers.NewReportHandler(reportService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))
	wsHandler := handlers.NewWSHandler(jwtManager, hub)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		categoryHandler,
		locationHandler,
		assetHandler,
		workflowHandler,
		attachmentHandler,
		statisticsHandler,
		reportHandler,
		healthHandler,
		wsHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.MetricsMiddleware(
			corsMiddleware(
				middleware.APILogging(router))))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
