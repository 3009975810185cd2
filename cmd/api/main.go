package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/campuskits/merchstore-backend/internal/activity"
	"github.com/campuskits/merchstore-backend/internal/auth"
	"github.com/campuskits/merchstore-backend/internal/config"
	"github.com/campuskits/merchstore-backend/internal/modules/audit"
	"github.com/campuskits/merchstore-backend/internal/modules/catalog"
	"github.com/campuskits/merchstore-backend/internal/modules/checkout"
	"github.com/campuskits/merchstore-backend/internal/modules/receipt"
	"github.com/campuskits/merchstore-backend/internal/modules/reservation"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer zlog.Sync()
	activityLog := activity.New(zlog.Named("activity"))

	ctx := context.Background()

	// ── Collection stores ───────────────────────────────────
	var (
		itemStore        catalog.Store
		auditStore       audit.Store
		reservationStore reservation.Store
		receiptStore     receipt.Store
	)
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			zlog.Fatal("open database", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			zlog.Fatal("ping database", zap.Error(err))
		}
		itemStore = catalog.NewPostgresStore(db)
		auditStore = audit.NewPostgresStore(db)
		reservationStore = reservation.NewPostgresStore(db)
		receiptStore = receipt.NewPostgresStore(db)
	case config.BackendFile:
		itemStore = catalog.NewFileStore(cfg.DataDir, activityLog)
		auditStore = audit.NewFileStore(cfg.DataDir, activityLog)
		reservationStore = reservation.NewFileStore(cfg.DataDir, activityLog)
		receiptStore = receipt.NewFileStore(cfg.DataDir, activityLog)
	default:
		itemStore = catalog.NewMemoryStore()
		auditStore = audit.NewMemoryStore()
		reservationStore = reservation.NewMemoryStore()
		receiptStore = receipt.NewMemoryStore()
	}

	// ── Collection managers ─────────────────────────────────
	catalogService, err := catalog.NewService(ctx, itemStore, activityLog)
	if err != nil {
		zlog.Fatal("catalog", zap.Error(err))
	}
	auditService, err := audit.NewService(ctx, auditStore, activityLog)
	if err != nil {
		zlog.Fatal("audit trail", zap.Error(err))
	}
	reservationService, err := reservation.NewService(ctx, reservationStore, catalogService, activityLog)
	if err != nil {
		zlog.Fatal("reservation ledger", zap.Error(err))
	}
	receiptService, err := receipt.NewService(ctx, receiptStore, activityLog)
	if err != nil {
		zlog.Fatal("receipt register", zap.Error(err))
	}
	checkoutService := checkout.NewService(catalogService, reservationService, receiptService, auditService, activityLog)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(auth.Middleware(cfg.JWTSecret))

	catalog.NewHandler(catalogService).RegisterRoutes(router)
	audit.NewHandler(auditService).RegisterRoutes(router)
	reservation.NewHandler(reservationService).RegisterRoutes(router)
	receipt.NewHandler(receiptService).RegisterRoutes(router)
	checkout.NewHandler(checkoutService).RegisterRoutes(router)

	// ── Start Server ────────────────────────────────────────
	zlog.Info("merch store API starting", zap.String("port", cfg.AppPort), zap.String("backend", cfg.Backend))
	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		zlog.Fatal("server", zap.Error(err))
	}
}
