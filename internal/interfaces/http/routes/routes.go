// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/erp-backend/internal/config"
	"github.com/your-org/erp-backend/internal/domain/user"
	"github.com/your-org/erp-backend/internal/interfaces/http/handlers"
	"github.com/your-org/erp-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group under the API root
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, redisClient, cfg)
	SetupProductRoutes(rg, db, redisClient, cfg)
	SetupSaleRoutes(rg, db, redisClient, cfg)
	SetupExpenseRoutes(rg, db, redisClient, cfg)
	SetupFinanceRoutes(rg, db, redisClient, cfg)
	SetupQueryRoutes(rg, db, redisClient, cfg)
	SetupDeveloperRoutes(rg, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/2fa/verify-login", authHandler.VerifyLogin2FA)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/password", authHandler.ChangePassword)
			protected.POST("/2fa/setup", authHandler.Setup2FA)
			protected.POST("/2fa/verify", authHandler.Verify2FA)
			protected.POST("/2fa/disable", authHandler.Disable2FA)
		}
	}
}

// SetupProductRoutes sets up catalog and purchase intake routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		// Unauthenticated callers only see what is in stock
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
	}

	manage := rg.Group("/products")
	manage.Use(middleware.AuthMiddleware(cfg))
	manage.Use(middleware.RequireRoles(string(user.RoleSales), string(user.RoleDeveloper)))
	{
		manage.POST("/purchase", productHandler.RecordPurchase)
		manage.PUT("/:id", productHandler.UpdateProduct)
		manage.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupSaleRoutes sets up settlement and order routes
func SetupSaleRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	saleHandler := handlers.NewSaleHandler(db, cfg)

	sales := rg.Group("/sales")
	sales.Use(middleware.AuthMiddleware(cfg))
	{
		sales.GET("", middleware.RequireRoles(
			string(user.RoleSales), string(user.RoleFinance),
			string(user.RolePrimaryPartner), string(user.RoleDeveloper),
		), saleHandler.GetSales)

		staff := sales.Group("")
		staff.Use(middleware.RequireRoles(string(user.RoleSales), string(user.RoleDeveloper)))
		{
			staff.POST("", saleHandler.Settle)
			staff.GET("/:id", saleHandler.GetSale)
			staff.PUT("/:id/status", saleHandler.UpdateStatus)
		}
	}

	// Client-facing order placement and history
	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.POST("", saleHandler.PlaceOrder)
		orders.GET("", saleHandler.MyOrders)
	}
}

// SetupExpenseRoutes sets up expense routes
func SetupExpenseRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	expenseHandler := handlers.NewExpenseHandler(db, cfg)

	expenses := rg.Group("/expenses")
	expenses.Use(middleware.AuthMiddleware(cfg))
	expenses.Use(middleware.RequireRoles(string(user.RoleFinance), string(user.RoleDeveloper)))
	{
		expenses.GET("", expenseHandler.List)
		expenses.POST("", expenseHandler.Create)
		expenses.DELETE("/:id", expenseHandler.Delete)
	}
}

// SetupFinanceRoutes sets up reporting and dashboard routes
func SetupFinanceRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	financeHandler := handlers.NewFinanceHandler(db, cfg)

	finance := rg.Group("/finance")
	finance.Use(middleware.AuthMiddleware(cfg))
	finance.Use(middleware.RequireRoles(
		string(user.RoleFinance), string(user.RolePrimaryPartner), string(user.RoleDeveloper),
	))
	{
		finance.GET("/summary", financeHandler.GetSummary)
		finance.GET("/revenue", financeHandler.GetTotalRevenue)
		finance.GET("/expenses", financeHandler.GetTotalExpenses)
		finance.POST("/income-statements/generate", financeHandler.GenerateIncomeStatement)
		finance.GET("/income-statements", financeHandler.ListIncomeStatements)
		finance.GET("/income-statements/:month", financeHandler.GetIncomeStatement)
	}

	investor := rg.Group("/investor")
	investor.Use(middleware.AuthMiddleware(cfg))
	investor.Use(middleware.RequireRoles(
		string(user.RoleInvestor), string(user.RolePrimaryPartner), string(user.RoleDeveloper),
	))
	{
		investor.GET("/monthly-sales", financeHandler.GetMonthlySales)
		investor.GET("/monthly-trends", financeHandler.GetMonthlyTrends)
	}

	partner := rg.Group("/partner")
	partner.Use(middleware.AuthMiddleware(cfg))
	partner.Use(middleware.RequireRoles(string(user.RolePrimaryPartner), string(user.RoleDeveloper)))
	{
		partner.GET("/financial-summary", financeHandler.GetPartnerSummary)
		partner.GET("/recent-sales", financeHandler.GetRecentSales)
		partner.GET("/inventory-status", financeHandler.GetInventoryStatus)
	}
}

// SetupQueryRoutes sets up customer query routes
func SetupQueryRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	queryHandler := handlers.NewQueryHandler(db, cfg)

	queries := rg.Group("/queries")
	queries.Use(middleware.AuthMiddleware(cfg))
	{
		// Client endpoints
		queries.POST("", queryHandler.Submit)
		queries.GET("/mine", queryHandler.MyQueries)

		// Staff endpoints
		staff := queries.Group("")
		staff.Use(middleware.RequireRoles(string(user.RoleSales), string(user.RoleDeveloper)))
		{
			staff.GET("", queryHandler.List)
			staff.GET("/pending", queryHandler.ListPending)
			staff.PUT("/:id/respond", queryHandler.Respond)
			staff.GET("/stats", queryHandler.GetStats)
		}
	}
}

// SetupDeveloperRoutes sets up developer administration routes
func SetupDeveloperRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	systemHandler := handlers.NewSystemHandler(db, redisClient, cfg)

	developer := rg.Group("/developer")
	developer.Use(middleware.AuthMiddleware(cfg))
	developer.Use(middleware.RequireRoles(string(user.RoleDeveloper)))
	{
		users := developer.Group("/users")
		{
			users.GET("", userAdminHandler.GetUsers)
			users.PUT("/:id", userAdminHandler.UpdateUser)
			users.DELETE("/:id", userAdminHandler.DeleteUser)
			users.GET("/export", userAdminHandler.ExportUsers)
		}

		developer.GET("/system-health", systemHandler.SystemHealth)
	}
}
