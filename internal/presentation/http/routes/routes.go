package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/salonbill-api/internal/config"
	domainRepo "github.com/sangkips/salonbill-api/internal/domain/repository"
	"github.com/sangkips/salonbill-api/internal/presentation/http/handler"
	"github.com/sangkips/salonbill-api/internal/presentation/http/middleware"
	"github.com/sangkips/salonbill-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Draft    *handler.DraftHandler
	Bill     *handler.BillHandler
	Catalog  *handler.CatalogHandler
	Customer *handler.CustomerHandler
	Settings *handler.SettingsHandler
	Printer  *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
	Logger          *zap.Logger
}

// Setup creates the Gin router and registers all routes.
// Background work started for the router stops when ctx is done.
func Setup(ctx context.Context, h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(ctx,
			middleware.RateLimiterConfigFor(deps.Cfg.RateLimit.Requests, deps.Cfg.RateLimit.Duration))
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Drafts
	registerDraftRoutes(protected, h, deps)

	// Held and saved bills
	registerBillRoutes(protected, h)

	// Catalog, staff and coupons
	registerCatalogRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Settings
	protected.GET("/settings/invoice", h.Settings.GetSettings)
	protected.PUT("/settings/invoice", h.Settings.UpdateSettings)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerDraftRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	drafts := protected.Group("/drafts")
	{
		drafts.POST("", h.Draft.Create)
		drafts.POST("/load/held/:held_id", h.Draft.LoadHeld)
		drafts.POST("/load/bill/:bill_id", h.Draft.LoadBill)
		drafts.GET("/:id", h.Draft.Get)
		drafts.DELETE("/:id", h.Draft.Discard)

		drafts.POST("/:id/items", h.Draft.AddItem)
		drafts.PATCH("/:id/items/:item_id", h.Draft.UpdateItem)
		drafts.DELETE("/:id/items/:item_id", h.Draft.RemoveItem)

		drafts.POST("/:id/coupons", h.Draft.ApplyCoupon)
		drafts.DELETE("/:id/coupons/:coupon_id", h.Draft.RemoveCoupon)
		drafts.PUT("/:id/discount", h.Draft.SetDiscount)
		drafts.PUT("/:id/adjust-total", h.Draft.SetAdjustTotal)
		drafts.PUT("/:id/tax-mode", h.Draft.SetTaxMode)

		drafts.POST("/:id/payments", h.Draft.AddPayment)
		drafts.DELETE("/:id/payments/:payment_id", h.Draft.RemovePayment)
		drafts.DELETE("/:id/advance", h.Draft.ClearAdvance)

		drafts.PATCH("/:id/customer", h.Draft.UpdateCustomer)
		drafts.PUT("/:id/referral", h.Draft.SetReferral)

		drafts.POST("/:id/reopen", h.Draft.Reopen)
		drafts.POST("/:id/hold", h.Draft.Hold)
		// A retried save with the same Idempotency-Key returns the first bill
		drafts.POST("/:id/save", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Cfg.Billing.IdempotencyTTL,
		}), h.Draft.Save)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers) {
	held := protected.Group("/held-bills")
	{
		held.GET("", h.Bill.ListHeld)
		held.GET("/:id", h.Bill.GetHeld)
		held.DELETE("/:id", h.Bill.DeleteHeld)
	}

	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.GET("/:id", h.Bill.Get)
	}
}

func registerCatalogRoutes(protected *gin.RouterGroup, h *Handlers) {
	catalog := protected.Group("/catalog")
	{
		catalog.GET("/items", h.Catalog.ListItems)
		catalog.GET("/staff", h.Catalog.ListStaff)
	}
	protected.GET("/coupons", h.Catalog.ListCoupons)
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/lookup", h.Customer.Lookup)
		customers.GET("/:id", h.Customer.Get)
		customers.POST("/:id/clear-advance", h.Customer.ClearAdvance)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/bills/:id", h.Printer.PrintBill)
	}
}
