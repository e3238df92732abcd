package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/gin-gonic/gin"

	"eats-backend/config"
	"eats-backend/handlers"
	"eats-backend/notifier"
	"eats-backend/pubsub"
	"eats-backend/routes"
	"eats-backend/services"
)

func main() {
	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	cfg := config.Load()
	config.InitDB(cfg.DatabaseURL)

	// Notification fan-out: in-process bus, optionally mirrored to AMQP.
	bus := pubsub.NewBus()
	var publisher pubsub.Publisher = bus
	if cfg.AMQPURL != "" {
		mirror, err := pubsub.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatal("Failed to connect to AMQP broker:", err)
		}
		defer mirror.Close()
		publisher = pubsub.Tee{bus, mirror}
		log.Printf("Mirroring order events to AMQP exchange %q", cfg.AMQPExchange)
	}

	mailer, s3Client := awsClients(cfg)

	users := services.NewUsers(config.DB)
	restaurants := services.NewRestaurants(config.DB)
	orders := services.NewOrders(config.DB, publisher, mailer)
	payments := services.NewPayments(config.DB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	payments.StartPromotionSweeper(ctx, time.Hour)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Eats Backend",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(r, routes.Handlers{
		Auth:          &handlers.AuthHandler{Users: users},
		Restaurants:   &handlers.RestaurantHandler{Restaurants: restaurants},
		Orders:        &handlers.OrderHandler{Orders: orders},
		Payments:      &handlers.PaymentHandler{Payments: payments},
		Uploads:       &handlers.UploadHandler{Client: s3Client, Bucket: cfg.S3Bucket},
		Subscriptions: &handlers.SubscriptionHandler{Bus: bus, Orders: orders},
	})

	// Start server
	log.Printf("Server running on http://localhost:%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// awsClients builds the SES mailer and S3 client when AWS is configured.
// Either may be nil; callers degrade gracefully.
func awsClients(cfg config.Config) (notifier.Mailer, *s3.Client) {
	if cfg.SenderEmail == "" && cfg.S3Bucket == "" {
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, os.Getenv("AWS_SECRET_ACCESS_KEY"), ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Printf("AWS disabled: %v", err)
		return nil, nil
	}

	var mailer notifier.Mailer
	if cfg.SenderEmail != "" {
		mailer = notifier.NewSESMailer(ses.NewFromConfig(awsCfg), cfg.SenderEmail)
	}
	var s3Client *s3.Client
	if cfg.S3Bucket != "" {
		s3Client = s3.NewFromConfig(awsCfg)
	}
	return mailer, s3Client
}
