package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/abbossetdarov/restaurant-ops/config"
	"github.com/abbossetdarov/restaurant-ops/middlewares"
	"github.com/abbossetdarov/restaurant-ops/models"
	"github.com/abbossetdarov/restaurant-ops/router"
	"github.com/abbossetdarov/restaurant-ops/services"
	"github.com/abbossetdarov/restaurant-ops/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	utils.InitDB(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Durable reservation boundaries: the worker flips table status at the
	// start/end instants recorded in table_status_jobs, surviving restarts.
	statusWorker := services.NewTableStatusWorker(db)
	statusWorker.Start()
	defer statusWorker.Stop()

	billing := services.NewBillingMonitor(db)
	billing.Start()
	defer billing.Stop()

	r := router.SetupRouter(db)
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Floor{},
		&models.Module{},
		&models.Table{},
		&models.Menu{},
		&models.Order{},
		&models.Reservation{},
		&models.TableStatusJob{},
		&models.PaymentTransaction{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
