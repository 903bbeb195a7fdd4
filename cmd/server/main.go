package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"fastfood_backend/internal/config"
	"fastfood_backend/internal/database"
	"fastfood_backend/internal/metrics"
	"fastfood_backend/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	metrics.Init()

	warmupRedisCache()

	r := gin.Default()
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 FastFood backend listening on port", port)
	r.Run(":" + port)
}

// warmupRedisCache establishes the Redis connection before the first cart
// request hits it.
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Redis cache warmed up")
	}
}
