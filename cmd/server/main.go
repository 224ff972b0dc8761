package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/weeklypay/ledger-engine/internal/config"
	"github.com/weeklypay/ledger-engine/internal/handler"
	"github.com/weeklypay/ledger-engine/internal/ledger"
	"github.com/weeklypay/ledger-engine/internal/service"
	"github.com/weeklypay/ledger-engine/internal/storage"
	"github.com/weeklypay/ledger-engine/pkg/response"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Redis carries auth sessions in every deployment, and the ledger
	// snapshot when STORAGE_DRIVER is redis.
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	ctx := context.Background()

	var db *sqlx.DB
	var store storage.SnapshotStore
	switch cfg.Storage.Driver {
	case "postgres":
		db, err = initDB(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		if err := storage.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to ensure database schema: %v", err)
		}
		store = storage.NewPostgresStore(db)
	default:
		store = storage.NewRedisStore(redisClient, cfg.Redis.LedgerKey)
	}

	ledgerStore := ledger.New(time.Now)
	ledgerService := service.NewLedgerService(ledgerStore, store, cfg)
	if err := ledgerService.Init(ctx); err != nil {
		log.Fatalf("Failed to load ledger snapshot: %v", err)
	}

	authService := service.NewAuthService(ctx, ledgerStore, redisClient, cfg)

	h := handler.NewHandler(ledgerService, authService)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.GetHealthTimeout())

	router := setupRoutes(h, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: cfg.GetWriteTimeout(),
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(h *handler.Handler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/login", h.Login).Methods("POST")
	api.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// Administrative ledger operations
	admin := api.PathPrefix("").Subrouter()
	admin.Use(h.RequireRole(service.RoleAdmin))
	admin.HandleFunc("/auth/password", h.ChangePassword).Methods("POST")
	admin.HandleFunc("/borrowers", h.CreateBorrower).Methods("POST")
	admin.HandleFunc("/borrowers", h.ListBorrowers).Methods("GET")
	admin.HandleFunc("/borrowers/{borrowerId}", h.DeleteBorrower).Methods("DELETE")
	admin.HandleFunc("/borrowers/{borrowerId}/installments/{installmentId}/status", h.UpdateInstallmentStatus).Methods("PUT")
	admin.HandleFunc("/borrowers/{borrowerId}/installments/{installmentId}", h.DeleteInstallment).Methods("DELETE")
	admin.HandleFunc("/stats", h.GetStats).Methods("GET")
	admin.HandleFunc("/reports", h.GetReport).Methods("GET")
	admin.HandleFunc("/reports/export", h.ExportReport).Methods("GET")

	// Borrower self-service
	customer := api.PathPrefix("/customers").Subrouter()
	customer.Use(h.RequireRole(service.RoleCustomer, service.RoleAdmin))
	customer.HandleFunc("/{phone}/loans", h.CustomerLoans).Methods("GET")

	return router
}
