package router

import (
	"database/sql"
	"net/http"

	"storeroom_backend/internal/handlers"
	"storeroom_backend/internal/middleware"
	"storeroom_backend/internal/repositories"
	"storeroom_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	cabinetRepo := repositories.NewCabinetRepository(db)
	containerRepo := repositories.NewContainerRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo, db)
	cabinetService := services.NewCabinetService(cabinetRepo, containerRepo, db)
	ledgerService := services.NewLedgerService(containerRepo, transactionRepo, cabinetRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	cabinetHandler := handlers.NewCabinetHandler(cabinetService)
	containerHandler := handlers.NewContainerHandler(ledgerService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(ledgerService)
	qrHandler := handlers.NewQRHandler(ledgerService)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupContainerRoutes(authenticated, containerHandler)
		SetupCabinetRoutes(authenticated, cabinetHandler)
		SetupTransactionRoutes(authenticated, transactionHandler)
		SetupUserRoutes(authenticated, userHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupQRRoutes(authenticated, qrHandler)
	}
}

// SetupPublicAuthRoutes registers the routes that must work without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
	group.POST("/refresh", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes registers the token-protected auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
}
