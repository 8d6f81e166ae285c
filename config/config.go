package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection described by the environment.
// main loads .env via godotenv before calling this.
func InitDB() (*gorm.DB, error) {
	user := getEnv("DB_USER", "root")
	pass := getEnv("DB_PASSWORD", "")
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "3306")
	name := getEnv("DB_NAME", "restaurant_ops")

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, name)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// PaymeConfig carries the merchant credentials used both by the webhook
// Basic-Auth check and the outbound client.
type PaymeConfig struct {
	MerchantID string
	SecretKey  string
	TestMode   bool
}

func LoadPaymeConfig() PaymeConfig {
	return PaymeConfig{
		MerchantID: os.Getenv("PAYME_MERCHANT_ID"),
		SecretKey:  os.Getenv("PAYME_SECRET_KEY"),
		TestMode:   os.Getenv("PAYME_ENV") != "production",
	}
}
