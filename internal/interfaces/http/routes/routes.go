// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-terminal/internal/backend"
	"github.com/your-org/pos-terminal/internal/config"
	"github.com/your-org/pos-terminal/internal/domain/cart"
	"github.com/your-org/pos-terminal/internal/domain/catalog"
	"github.com/your-org/pos-terminal/internal/domain/checkout"
	"github.com/your-org/pos-terminal/internal/domain/notify"
	"github.com/your-org/pos-terminal/internal/domain/session"
	"github.com/your-org/pos-terminal/internal/interfaces/http/handlers"
	"github.com/your-org/pos-terminal/internal/interfaces/http/middleware"
	"github.com/your-org/pos-terminal/internal/pkg/auth"
	"github.com/your-org/pos-terminal/internal/pkg/receipt"
)

// Roles known to the upstream API
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
)

// Deps carries the wired services the route handlers depend on
type Deps struct {
	Config   *config.Config
	Logger   *logrus.Logger
	JWT      *auth.JWTManager
	Sessions *session.Service
	Backend  *backend.Client
	Catalog  *catalog.Service
	Carts    *cart.Service
	Checkout *checkout.Service
	Notifier *notify.Service
	Receipts *receipt.Service
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, deps *Deps) {
	authHandler := handlers.NewAuthHandler(deps.Sessions)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", authHandler.Me)
		}
	}
}

// SetupPOSRoutes sets up the cashier screen routes: catalog, cart and
// checkout. Every role may sell.
func SetupPOSRoutes(rg *gin.RouterGroup, deps *Deps) {
	posHandler := handlers.NewPOSHandler(deps.Catalog, deps.Carts, deps.Notifier, deps.Sessions)
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Sessions)

	pos := rg.Group("/pos")
	pos.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
	{
		pos.GET("/catalog", posHandler.GetCatalog)
		pos.POST("/catalog/refresh", posHandler.RefreshCatalog)
		pos.GET("/barcode", posHandler.Barcode)

		pos.GET("/cart", posHandler.GetCart)
		pos.POST("/cart/items", posHandler.AddItem)
		pos.PUT("/cart/items/:id", posHandler.UpdateItem)
		pos.DELETE("/cart/items/:id", posHandler.RemoveItem)
		pos.DELETE("/cart", posHandler.ClearCart)
		pos.PUT("/cart/discount", posHandler.SetDiscount)

		pos.GET("/notifications", posHandler.Notifications)

		pos.POST("/checkout", checkoutHandler.Checkout)
		pos.POST("/checkout/gateway-result", checkoutHandler.GatewayResult)
	}
}

// SetupProductRoutes sets up product management routes
func SetupProductRoutes(rg *gin.RouterGroup, deps *Deps) {
	productHandler := handlers.NewProductHandler(deps.Backend, deps.Sessions)

	products := rg.Group("/products")
	products.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
	products.Use(middleware.RequireRoles(RoleAdmin, RoleManager))
	{
		products.GET("", productHandler.List)
		products.GET("/:id", productHandler.GetByID)
		products.POST("", productHandler.Create)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Delete)
	}
}

// SetupCategoryRoutes sets up category management routes
func SetupCategoryRoutes(rg *gin.RouterGroup, deps *Deps) {
	categoryHandler := handlers.NewCategoryHandler(deps.Backend, deps.Sessions)

	categories := rg.Group("/categories")
	categories.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
	categories.Use(middleware.RequireRoles(RoleAdmin, RoleManager))
	{
		categories.GET("", categoryHandler.List)
		categories.GET("/:id", categoryHandler.GetByID)
		categories.POST("", categoryHandler.Create)
		categories.PUT("/:id", categoryHandler.Update)
		categories.DELETE("/:id", categoryHandler.Delete)
	}
}

// SetupTransactionRoutes sets up transaction history and reporting routes
func SetupTransactionRoutes(rg *gin.RouterGroup, deps *Deps) {
	transactionHandler := handlers.NewTransactionHandler(deps.Backend, deps.Sessions, deps.Receipts)

	transactions := rg.Group("/transactions")
	transactions.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
	{
		// Receipts print from the register regardless of role
		transactions.GET("/:id/receipt", transactionHandler.Receipt)

		managed := transactions.Group("")
		managed.Use(middleware.RequireRoles(RoleAdmin, RoleManager))
		{
			managed.GET("", transactionHandler.List)
			managed.GET("/report/summary", transactionHandler.ReportSummary)
			managed.GET("/:id", transactionHandler.GetByID)
			managed.POST("/:id/sync", transactionHandler.Sync)
		}
	}
}

// SetupUserRoutes sets up user administration routes
func SetupUserRoutes(rg *gin.RouterGroup, deps *Deps) {
	userHandler := handlers.NewUserHandler(deps.Backend, deps.Sessions)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
	users.Use(middleware.RequireRoles(RoleAdmin))
	{
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.GetByID)
		users.POST("", userHandler.Create)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
		users.POST("/:id/toggle-active", userHandler.ToggleActive)
	}
}

// SetupDashboardRoutes sets up the dashboard summary route
func SetupDashboardRoutes(rg *gin.RouterGroup, deps *Deps) {
	dashboardHandler := handlers.NewDashboardHandler(deps.Backend, deps.Sessions)

	dashboard := rg.Group("/dashboard")
	dashboard.Use(middleware.AuthMiddleware(deps.JWT, deps.Sessions))
	dashboard.Use(middleware.RequireRoles(RoleAdmin, RoleManager))
	{
		dashboard.GET("", dashboardHandler.Summary)
	}
}
