// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	_ "theaterbook/docs"
	"theaterbook/internal/auth"
	"theaterbook/internal/bookings"
	"theaterbook/internal/branches"
	"theaterbook/internal/contact"
	"theaterbook/internal/coupons"
	"theaterbook/internal/expenses"
	"theaterbook/internal/payments"
	"theaterbook/internal/shared/config"
	"theaterbook/internal/shared/database"
	"theaterbook/internal/shared/middleware"
	"theaterbook/internal/theaters"
	"theaterbook/internal/timewindow"
	"theaterbook/internal/unsaved"
	"theaterbook/internal/users"
	"theaterbook/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries the collaborators built once in main and shared by routes
// and background workers.
type Deps struct {
	Window   *timewindow.Window
	Gateway  payments.Gateway
	Notifier bookings.Notifier
	Codes    auth.CodeSender
	Firebase auth.TokenVerifier
	Images   theaters.ImageStore
	Holds    bookings.HoldStore
}

// Router holds all route dependencies
type Router struct {
	config *config.Config
	db     *database.DB
	deps   Deps
	cache  cache.Service

	// set while wiring, consumed by later modules
	branchRepo  branches.Repository
	theaterRepo theaters.Repository
	theaterSvc  theaters.Service
	couponSvc   coupons.Service
	usersSvc    users.Service
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, deps Deps) *Router {
	return &Router{
		config: cfg,
		db:     db,
		deps:   deps,
		cache:  cache.NewService(db.GetRedis()),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Order matters: later modules consume services built by earlier ones.
		r.setupBranchRoutes(api)
		r.setupUserRoutes(api)
		r.setupAuthRoutes(api)
		r.setupTheaterRoutes(api)
		r.setupCouponRoutes(api)
		r.setupBookingRoutes(api)
		r.setupUnsavedRoutes(api)
		r.setupExpenseRoutes(api)
		r.setupContactRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "theaterbook",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "theaterbook",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timezone":    r.deps.Window.Location().String(),
			"timestamp":   time.Now(),
		})
	})
}

func (r *Router) setupBranchRoutes(rg *gin.RouterGroup) {
	r.branchRepo = branches.NewRepository(r.db.GetPostgreSQL())
	branchService := branches.NewService(r.branchRepo, r.cache)
	branches.SetupBranchRoutes(rg, branches.NewController(branchService), r.config)
}

// setupUserRoutes lives here because middleware depends on the users package.
func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	r.usersSvc = users.NewService(users.NewRepository(r.db.GetPostgreSQL()), users.Admins{
		Email: r.config.AdminEmail,
		Phone: r.config.AdminPhone,
	})
	controller := users.NewController(r.usersSvc)

	rg.POST("/users", controller.Create)

	admin := rg.Group("/admin/users")
	admin.Use(middleware.JWTAuthWithConfig(r.config), middleware.RequireAdmin())
	{
		admin.GET("", controller.List)
		admin.GET("/:id", controller.Get)
		admin.PUT("/:id", controller.Update)
		admin.DELETE("/:id", middleware.RequireSuperAdmin(), controller.Delete)
	}
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.GetPostgreSQL())
	authService := auth.NewService(authRepo, r.usersSvc, r.deps.Codes, r.deps.Firebase, r.config.JWT)
	auth.SetupAuthRoutes(rg, auth.NewController(authService), r.config)
}

func (r *Router) setupTheaterRoutes(rg *gin.RouterGroup) {
	r.theaterRepo = theaters.NewRepository(r.db.GetPostgreSQL())
	r.theaterSvc = theaters.NewService(r.theaterRepo, r.branchRepo, r.cache, r.deps.Images, r.deps.Window)
	theaters.SetupTheaterRoutes(rg, theaters.NewController(r.theaterSvc, r.config.Upload.MaxSize), r.config)
}

func (r *Router) setupCouponRoutes(rg *gin.RouterGroup) {
	r.couponSvc = coupons.NewService(coupons.NewRepository(r.db.GetPostgreSQL()), r.cache, r.deps.Window)
	coupons.SetupCouponRoutes(rg, coupons.NewController(r.couponSvc), r.config)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	pg := r.db.GetPostgreSQL()
	bookingRepo := bookings.NewRepository(pg)
	allocator := bookings.NewAllocator(r.theaterRepo, bookings.NewAllocationStore(pg), r.deps.Window)

	coordinator := bookings.NewCoordinator(bookings.CoordinatorDeps{
		Theaters:  r.theaterRepo,
		Allocator: allocator,
		Bookings:  bookingRepo,
		Coupons:   r.couponSvc,
		Gateway:   r.deps.Gateway,
		Verifier:  payments.NewSignatureVerifier(r.config.Payment.KeySecret),
		Window:    r.deps.Window,
		Currency:  r.config.Payment.Currency,
		Holds:     r.deps.Holds,
		Cache:     r.theaterSvc,
		Notifier:  r.deps.Notifier,
	})
	bookingService := bookings.NewService(bookingRepo, r.theaterRepo, r.deps.Gateway, r.deps.Window)
	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService, coordinator, r.deps.Window), r.config)
}

func (r *Router) setupUnsavedRoutes(rg *gin.RouterGroup) {
	svc := unsaved.NewService(unsaved.NewRepository(r.db.GetPostgreSQL()), r.deps.Window)
	unsaved.SetupUnsavedRoutes(rg, unsaved.NewController(svc), r.config)
}

func (r *Router) setupExpenseRoutes(rg *gin.RouterGroup) {
	svc := expenses.NewService(expenses.NewRepository(r.db.GetPostgreSQL()), r.branchRepo, r.theaterRepo, r.deps.Window)
	expenses.SetupExpenseRoutes(rg, expenses.NewController(svc), r.config)
}

func (r *Router) setupContactRoutes(rg *gin.RouterGroup) {
	svc := contact.NewService(contact.NewRepository(r.db.GetPostgreSQL()), r.deps.Window)
	contact.SetupContactRoutes(rg, contact.NewController(svc), r.config)
}
