// main.go
package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"petpal/database"
	"petpal/handlers"
	"petpal/middleware"
	"petpal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()
	defer database.CloseDB()

	// Catalog first: the facade and seeding both read from it
	services.InitCatalog()

	// Progression facade restores persisted state on boot
	facade := services.InitProgression(database.GetDB())

	// Seed catalog rows, current tournament windows and the bot population
	database.SeedAll(facade, time.Now())

	// Activity simulator animates the bot population
	interval := time.Duration(getEnvInt("SIMULATOR_INTERVAL_SECONDS", 30)) * time.Second
	simulator := services.InitSimulator(facade, interval)
	simulator.Start()
	defer simulator.Stop()

	// Live leaderboard feed
	handlers.InitLeaderboardFeed(facade)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/upgrade", middleware.AuthMiddleware, handlers.UpgradeGuest)

	// Game-state sync
	api.Post("/game/sync", middleware.AuthMiddleware, handlers.SyncGameState)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Get("/achievements", handlers.GetAchievements)
	progressionGroup.Post("/achievements/:id/claim", handlers.ClaimAchievement)

	// Leaderboard routes (public)
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/tiers", handlers.GetRankTiers)
	leaderboardGroup.Get("/user/:id", handlers.GetPlayerRank)

	// Tournament routes
	tournamentGroup := api.Group("/tournaments")
	tournamentGroup.Use(middleware.AuthMiddleware)
	tournamentGroup.Get("/", handlers.GetTournaments)
	tournamentGroup.Post("/join", handlers.JoinTournament)

	// Live leaderboard websocket
	app.Use("/ws/leaderboard", handlers.WebSocketUpgrade)
	app.Get("/ws/leaderboard", handlers.LeaderboardFeed)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))
	log.Printf("🔐 JWT Secret configured: %v", os.Getenv("JWT_SECRET") != "")
	log.Printf("🤖 Simulator interval: %s", interval)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

// Helper functions

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
