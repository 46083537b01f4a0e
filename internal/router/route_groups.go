package router

import (
	"storeroom_backend/internal/handlers"
	"storeroom_backend/internal/middleware"
	"storeroom_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupContainerRoutes sets up the container routes. Reads and write-offs are
// open to any authenticated user; creation, edits and replenishment require
// the administrator role.
func SetupContainerRoutes(authenticatedGroup *gin.RouterGroup, containerHandler *handlers.ContainerHandler) {
	containerRoutes := authenticatedGroup.Group("/containers")
	{
		containerRoutes.GET("", containerHandler.GetContainers)
		containerRoutes.GET("/:id", containerHandler.GetContainerByID)
		containerRoutes.POST("/:id/write_off", containerHandler.WriteOff)

		adminOnly := containerRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware(models.RoleAdministrator))
		{
			adminOnly.POST("", containerHandler.CreateContainer)
			adminOnly.PUT("/:id", containerHandler.UpdateContainer)
			adminOnly.DELETE("/:id", containerHandler.DeleteContainer)
			adminOnly.POST("/:id/replenish", containerHandler.Replenish)
		}
	}
}

// SetupCabinetRoutes sets up the cabinet routes.
func SetupCabinetRoutes(authenticatedGroup *gin.RouterGroup, cabinetHandler *handlers.CabinetHandler) {
	cabinetRoutes := authenticatedGroup.Group("/cabinets")
	cabinetRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdministrator))
	{
		cabinetRoutes.POST("", cabinetHandler.CreateCabinet)
		cabinetRoutes.GET("", cabinetHandler.GetCabinets)
		cabinetRoutes.GET("/:id", cabinetHandler.GetCabinetByID)
		cabinetRoutes.PUT("/:id", cabinetHandler.UpdateCabinet)
		cabinetRoutes.DELETE("/:id", cabinetHandler.DeleteCabinet)
	}
}

// SetupTransactionRoutes sets up the read-only ledger history routes.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	transactionRoutes := authenticatedGroup.Group("/transactions")
	transactionRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdministrator))
	{
		transactionRoutes.GET("", transactionHandler.GetTransactions)
	}
}

// SetupUserRoutes sets up the user management routes.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdministrator))
	{
		userRoutes.POST("", userHandler.CreateUser)
		userRoutes.GET("", userHandler.GetUsers)
		userRoutes.GET("/:id", userHandler.GetUserByID)
		userRoutes.PUT("/:id", userHandler.UpdateUser)
		userRoutes.DELETE("/:id", userHandler.DeleteUser)
	}
}

// SetupReportRoutes sets up the report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdministrator))
	{
		reportRoutes.GET("/summary", reportHandler.GetSummaryReport)
	}
}

// SetupQRRoutes sets up the QR code routes.
func SetupQRRoutes(authenticatedGroup *gin.RouterGroup, qrHandler *handlers.QRHandler) {
	authenticatedGroup.GET("/qr/:container_id", qrHandler.GetContainerQR)
}
