package main

import (
	"log"
	"os"
	"strings"

	"storeroom_backend/internal/database"
	"storeroom_backend/internal/middleware"
	routerpkg "storeroom_backend/internal/router"
	"storeroom_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/subosito/gotenv"
)

func main() {
	// Load .env if present, then initialize the logger
	_ = gotenv.Load()
	utils.InitLogger()

	// JWT signing key from environment
	utils.SetJWTSecret(os.Getenv("JWT_SECRET"))

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "storeroom_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "storeroom_password")
	dbName := utils.Getenv("DB_NAME", "storeroom_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	migrationsDir := utils.Getenv("DB_MIGRATIONS_DIR", "migrations")

	// Initialize Database and apply pending migrations
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	if err := database.Migrate(migrationsDir); err != nil {
		utils.LogError(err, "Failed to apply migrations")
		log.Fatalf("Failed to apply migrations: %v", err)
	}
	utils.LogInfo("Migrations applied", map[string]interface{}{"dir": migrationsDir})

	router := gin.Default()

	router.Use(utils.GinLogger())
	router.Use(middleware.Metrics())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000"} // Default frontend origin
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	// Setup all application routes
	dbConn := database.GetDB()
	routerpkg.Setup(router, dbConn)

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := router.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
