package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"techshop-backend/internal/auth"
	"techshop-backend/internal/cart"
	"techshop-backend/internal/config"
	"techshop-backend/internal/database"
	"techshop-backend/internal/handlers"
	"techshop-backend/internal/logger"
	"techshop-backend/internal/repository"
	"techshop-backend/internal/routes"
	"techshop-backend/internal/session"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := config.Load()
	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	auth.Init(cfg.JWTSecret)

	// 1. --- Database Connection & Migrations ---
	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// 2. --- Redis Session Store ---
	// Carts and preferences live here, keyed by the session cookie.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	sessions := session.NewRedisStore(redisClient, cfg.SessionTTL)

	// 3. --- Repositories & Services ---
	products := repository.NewMySQLProducts(db)
	users := repository.NewMySQLUsers(db)
	orders := repository.NewMySQLOrders(db)
	wishlists := repository.NewMySQLWishlists(db)

	cartService := cart.NewService(products, sessions)

	// --- Application Setup ---
	// We inject ALL dependencies into the Handlers struct.
	app := &handlers.Handlers{
		Products:  products,
		Users:     users,
		Orders:    orders,
		Wishlists: wishlists,
		Cart:      cartService,
		Sessions:  sessions,
	}

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	logger.Log.Info("Starting TechShop API server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Failed to start server", zap.Error(err))
	}
}
