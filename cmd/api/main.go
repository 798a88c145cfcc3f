package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonbill-api/internal/application/service"
	"github.com/sangkips/salonbill-api/internal/config"
	"github.com/sangkips/salonbill-api/internal/domain/billing"
	"github.com/sangkips/salonbill-api/internal/domain/entity"
	"github.com/sangkips/salonbill-api/internal/infrastructure/database"
	"github.com/sangkips/salonbill-api/internal/infrastructure/repository"
	"github.com/sangkips/salonbill-api/internal/presentation/http/handler"
	"github.com/sangkips/salonbill-api/internal/presentation/http/routes"
	"github.com/sangkips/salonbill-api/pkg/logger"
	"github.com/sangkips/salonbill-api/pkg/printer"
	"github.com/sangkips/salonbill-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Money goes over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Seed default data
	if cfg.Database.Seed {
		if err := database.SeedDefaultData(db, log); err != nil {
			log.Warn("failed to seed default data", zap.Error(err))
		}
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	heldRepo := repository.NewHeldBillRepository(db)
	billRepo := repository.NewBillRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	catalogService := service.NewCatalogService(catalogRepo, staffRepo)
	customerService := service.NewCustomerService(customerRepo)
	couponService := service.NewCouponService(couponRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	billingService := service.NewBillingService(
		service.NewDraftStore(),
		catalogService,
		couponService,
		customerRepo,
		couponRepo,
		heldRepo,
		billRepo,
		service.BillingOptions{
			TaxMode: billing.TaxMode{
				ApplyTax:  cfg.Billing.ApplyTax,
				Inclusive: cfg.Billing.InclusiveTax,
			},
			DefaultGSTRate: decimal.NewFromFloat(cfg.Billing.DefaultGSTRate),
			HeldBillTTL:    cfg.Billing.HeldBillTTL,
		},
		log,
	)

	// Initialize thermal printer
	thermalPrinter, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn("failed to initialize printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}
	defer thermalPrinter.Close()

	printerService := service.NewPrinterService(thermalPrinter, billRepo, settingsService, service.PrinterOptions{
		Type:  cfg.Printer.Type,
		Width: cfg.Printer.Width,
		Header: entity.ReceiptHeader{
			StoreName: cfg.Printer.StoreName,
			Address:   cfg.Printer.Address1,
			Phone:     cfg.Printer.Phone,
			TaxID:     cfg.Printer.TaxID,
			ShowLogo:  true,
		},
	}, log)

	// Expired held bills, idle drafts and idempotency keys
	janitor := service.NewJanitor(cfg.Billing.PurgeInterval, log,
		service.JanitorTask{Name: "held_bills", Run: billingService.PurgeExpiredHeld},
		service.JanitorTask{Name: "idempotency_keys", Run: func(ctx context.Context) (int64, error) {
			return idempotencyRepo.DeleteExpired(ctx, time.Now())
		}},
	)
	janitorDone := janitor.Start(ctx)

	// Initialize handlers
	handlers := &routes.Handlers{
		Draft:    handler.NewDraftHandler(billingService),
		Bill:     handler.NewBillHandler(billingService),
		Catalog:  handler.NewCatalogHandler(catalogService, couponService),
		Customer: handler.NewCustomerHandler(customerService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(ctx, handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          log,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("app", cfg.App.Name),
			zap.String("env", cfg.App.Env),
			zap.String("port", port),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	<-janitorDone

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
