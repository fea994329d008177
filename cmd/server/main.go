package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logleet-backend/internal/config"
	"logleet-backend/internal/database"
	"logleet-backend/internal/handlers"
	"logleet-backend/internal/middleware"
	"logleet-backend/internal/record"
	"logleet-backend/internal/reminder"
	"logleet-backend/internal/repository"
	"logleet-backend/internal/router"
	"logleet-backend/internal/services"
	"logleet-backend/internal/store"
	"logleet-backend/internal/websocket"
	"logleet-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting LogLeet Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	deviceRepo := repository.NewDeviceRepo(pool)
	reminderRepo := repository.NewReminderRepo(pool)

	// ──── Initialize Record Storage ────
	// The record manager only sees the Store and Dispatcher interfaces, so
	// the backend is swappable. The in-memory backend is for local
	// development without persistence; it logs reminders instead of
	// scheduling them.
	var (
		recordStore record.Store
		dispatcher  record.Dispatcher
		stats       handlers.StatsProvider
	)
	switch cfg.StorageBackend {
	case "memory":
		recordStore = store.NewMemory()
		dispatcher = reminder.LogDispatcher{}
		log.Println("✓ Record store: in-memory (dev mode)")
	default:
		pgStore := store.NewPostgres(pool, time.Duration(cfg.StoreTimeoutSeconds)*time.Second)
		recordStore = pgStore
		stats = pgStore
		dispatcher = reminder.NewDispatcher(reminderRepo)
		log.Println("✓ Record store: postgres")
	}

	recordManager := record.NewManager(recordStore, dispatcher, record.Options{
		AllowLastVisitedOverride: cfg.AllowLastVisitedOverride,
	})

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	pushService := services.NewPushService(cfg.ExpoPushURL)
	catalogService := services.NewCatalogService(redisClients.Queue, cfg.LeetCodeGraphQLURL, time.Duration(cfg.CatalogCacheTTLHours)*time.Hour)
	authService := services.NewAuthService(userRepo, redisClients.Queue, jwtAuth, emailService)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendURL)
	recordHandler := handlers.NewRecordHandler(recordManager, stats, redisClients.Queue)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	deviceHandler := handlers.NewDeviceHandler(deviceRepo)
	userHandler := handlers.NewUserHandler(userRepo, authService)

	// ──── Step 5: Start Delivery Worker Pool ────
	workerPool := worker.NewPool(
		redisClients.Queue,
		pushService,
		emailService,
		userRepo,
		deviceRepo,
		reminderRepo,
		cfg.ReminderWorkers,
	)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.ReminderWorkers)

	reminderScheduler := reminder.NewScheduler(reminderRepo, redisClients.Queue, time.Duration(cfg.ReminderPollMinutes)*time.Minute)
	reminderScheduler.Start()

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		recordHandler,
		catalogHandler,
		deviceHandler,
		userHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		reminderScheduler.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ LogLeet Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
