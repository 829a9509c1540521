package config

import (
	"log"
	"os"
	"time"

	"homebite/models"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret signs auth tokens. Read from env after Load, with a dev fallback.
var JWTSecret = []byte("homebite_dev_secret")

// JWTTTL is how long issued tokens stay valid.
var JWTTTL = 24 * time.Hour

// Load reads .env when present and applies environment overrides.
// Missing .env is fine: container and CI environments set vars directly.
func Load() {
	_ = godotenv.Load()
	if v := os.Getenv("JWT_SECRET"); v != "" {
		JWTSecret = []byte(v)
	}
}

func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the sqlite database and migrates every model.
func InitDB(path string) {
	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Meal{},
		&models.Order{},
		&models.RoleRequest{},
		&models.CheckoutSession{},
		&models.Payment{},
		&models.Favorite{},
		&models.Review{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("✅ Database connected and migrated successfully")
}
