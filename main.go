package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kaushlendrathe1710/lelekart-api/cache"
	"github.com/kaushlendrathe1710/lelekart-api/chat"
	"github.com/kaushlendrathe1710/lelekart-api/checkout"
	"github.com/kaushlendrathe1710/lelekart-api/models"
	"github.com/kaushlendrathe1710/lelekart-api/routes"
	"github.com/kaushlendrathe1710/lelekart-api/shipping"
	"github.com/kaushlendrathe1710/lelekart-api/wallet"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.WalletLot{},
		&models.WalletTransaction{},
		&models.WalletSettings{},
		&models.ShiprocketSettings{},
		&models.ChatMessage{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// Shared services
	cch := cache.New(os.Getenv("REDIS_ADDRESS"))
	if cch == nil {
		log.Println("⚠️ REDIS_ADDRESS not set, cache disabled")
	}

	hub := chat.NewHub()
	ledger := wallet.NewLedger(db)

	carrier, err := shipping.NewClientFromEnv()
	if err != nil {
		// Keep the client wired so pushes fail with a carrier auth error
		// instead of a nil dereference.
		log.Printf("⚠️ Shiprocket not configured: %v", err)
		carrier = shipping.NewClient("https://apiv2.shiprocket.in/v1/external", "", "")
	}
	dispatcher := shipping.NewDispatcher(db, carrier)

	svc := checkout.NewService(checkout.NewGormStore(db, ledger))
	svc.OnCommit(dispatcher.AutoShip)

	// Gin setup
	r := gin.Default()

	// Allow large Excel uploads
	r.MaxMultipartMemory = 64 << 20 // 64MB

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup routes
	routes.SetupRoutes(r, routes.Deps{
		DB:         db,
		Cache:      cch,
		Hub:        hub,
		Ledger:     ledger,
		Checkout:   svc,
		Dispatcher: dispatcher,
		Shiprocket: carrier,
	})

	// Expire wallet coin lots daily at 2 AM
	go startDailyExpirySweep(ledger, 2, 0)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// startDailyExpirySweep zeroes out expired wallet lots daily at a fixed hour.
// Balances only shrink here; a lot that loses a concurrent-debit race is
// picked up on the next sweep.
func startDailyExpirySweep(ledger *wallet.Ledger, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		log.Printf("⏳ Next wallet expiry sweep scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(next.Sub(now))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		expired, err := ledger.ExpireLots(ctx, time.Now())
		cancel()
		if err != nil {
			log.Printf("❌ Wallet expiry sweep failed: %v", err)
		} else if expired > 0 {
			log.Printf("✅ Expired %d wallet lot(s)", expired)
		}
	}
}
