package router

import (
	"time"

	"summitgear/internal/config"
	"summitgear/internal/handler"
	"summitgear/internal/middleware"
	"summitgear/internal/repository"
	"summitgear/internal/service"
	"summitgear/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	employeeRepo := repository.NewEmployeeRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	branchRepo := repository.NewBranchRepository(db)
	stockRepo := repository.NewStockRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	pointsRepo := repository.NewPointsRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(employeeRepo, cfg)
	stockSvc := service.NewStockService(stockRepo, rdb)
	pointsSvc := service.NewPointsService(pointsRepo, customerRepo)
	catalogSvc := service.NewCatalogService(productRepo, customerRepo)
	orderSvc := service.NewOrderService(orderRepo, customerRepo, productRepo, branchRepo, stockSvc, pointsSvc, dispatcher)
	returnSvc := service.NewReturnService(returnRepo, orderRepo, customerRepo, stockSvc, pointsSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	employeesH := handler.NewEmployeesHandler(authSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	returnsH := handler.NewReturnsHandler(returnSvc)
	stockH := handler.NewStockHandler(stockSvc, productRepo, rdb)
	productsH := handler.NewProductsHandler(catalogSvc)
	customersH := handler.NewCustomersHandler(catalogSvc, pointsSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Availability check — no auth required, cached
	r.GET("/v1/stock/availability", stockH.Availability)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cashier, supervisor, admin — declared per-endpoint
		anyStaff := middleware.RequireRole("cashier", "supervisor", "admin")
		supervisorUp := middleware.RequireRole("supervisor", "admin")

		v1.POST("/orders", anyStaff, ordersH.CreateOrder)
		v1.GET("/orders", anyStaff, ordersH.ListOrders)
		v1.GET("/orders/:id", anyStaff, ordersH.GetOrder)
		v1.PUT("/orders/:id/status", anyStaff, ordersH.UpdateStatus)

		v1.POST("/returns", anyStaff, returnsH.CreateReturn)
		v1.GET("/returns", anyStaff, returnsH.ListReturns)
		v1.GET("/returns/:id", anyStaff, returnsH.GetReturn)
		// Approving a refund is a supervisor decision
		v1.PUT("/returns/:id", supervisorUp, returnsH.ProcessReturn)

		v1.POST("/stock/batches", supervisorUp, stockH.Replenish)
		v1.GET("/stock/batches", anyStaff, stockH.ListBatches)

		v1.GET("/products", anyStaff, productsH.ListProducts)
		v1.GET("/products/:id", anyStaff, productsH.GetProduct)

		v1.GET("/customers/:id", anyStaff, customersH.GetCustomer)
		v1.GET("/customers/:id/points", anyStaff, customersH.PointsLedger)

		employees := v1.Group("/employees", middleware.RequireRole("admin"))
		{
			employees.POST("", employeesH.Create)
			employees.GET("", employeesH.List)
			employees.PUT("/:id", employeesH.Update)
			employees.DELETE("/:id", employeesH.Deactivate)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
