package main

import (
	"log"
	"net/http"
	"os"

	"homebite/config"
	"homebite/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.DebugMode)
	}

	config.Load()
	config.InitDB(config.GetEnv("DB_PATH", "homebite.db"))

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "HomeBite API",
			"version": "1.0.0",
		})
	})

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍲 Welcome to the HomeBite homemade meals API",
			"health":  "/health",
			"roles":   []string{"customer", "chef", "admin"},
		})
	})

	routes.SetupRoutes(r)

	port := config.GetEnv("PORT", "8080")
	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
