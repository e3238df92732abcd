package config

import (
	"log"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"eats-backend/models"
)

var DB *gorm.DB

// JWTSecret used to sign tokens, read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "eats_backend_super_secret_2024"))

// Config holds everything read from the environment at startup.
type Config struct {
	Port         string
	DatabaseURL  string
	AMQPURL      string
	AMQPExchange string
	AWSRegion    string
	S3Bucket     string
	SenderEmail  string
}

func Load() Config {
	return Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  getEnv("DATABASE_URL", "eats_backend.db"),
		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "order.events"),
		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		S3Bucket:     os.Getenv("S3_BUCKET"),
		SenderEmail:  os.Getenv("AWS_SENDER_ADDRESS"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB connects and migrates. A postgres:// DSN selects the postgres
// driver; anything else is treated as a sqlite file path.
func InitDB(databaseURL string) {
	var err error
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "host=") {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	} else {
		DB, err = gorm.Open(sqlite.Open(databaseURL), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := DB.AutoMigrate(models.All()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	log.Println("Database connected and migrated")
}
