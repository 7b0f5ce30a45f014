package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"inspectkit/internal/cache"
	"inspectkit/internal/config"
	"inspectkit/internal/repository"
	"inspectkit/internal/service"
	"inspectkit/internal/transport/rest"
	"inspectkit/internal/transport/ws"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.DefaultServerConfig()

	// Load export config and log renderer settings
	exportCfg := config.DefaultExportConfig()
	log.Printf("Export renderer:")
	if exportCfg.IsEnabled() {
		log.Printf("  Endpoint: %s", exportCfg.Endpoint)
		log.Println("  API Key:  configured")
	} else {
		log.Println("  Endpoint: NOT SET (exports rendered inline)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	// Ping MongoDB
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := strings.TrimPrefix(cfg.RedisAddr, "redis://")

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	// Ping Redis
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("Preview hub started")

	// Initialize repositories and caches
	templateRepo := repository.NewTemplateRepo(db)
	draftCache := cache.NewDraftCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService()
	templateSvc := service.NewTemplateService(templateRepo, draftCache)
	draftSvc := service.NewDraftService(draftCache, 0)
	reportSvc := service.NewReportService(templateRepo)
	exportSvc := service.NewExportService(reportSvc)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	templateSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		TemplateService: templateSvc,
		DraftService:    draftSvc,
		ReportService:   reportSvc,
		ExportService:   exportSvc,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Operator auth: username=%s", os.Getenv("OPERATOR_USERNAME"))
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/templates")
		log.Println("  POST /v1/templates/{id}/publish")
		log.Println("  POST /v1/templates/{id}/evaluate")
		log.Println("  GET/POST /v1/templates/{id}/report")
		log.Println("  POST /v1/templates/{id}/export")
		log.Println("  PUT/GET/DELETE /v1/drafts")
		log.Println("  WS  /v1/ws/templates/{id}/editor")
		log.Println("  WS  /v1/ws/templates/{id}/preview")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Flush pending draft writes before closing Redis
	draftSvc.Stop(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
