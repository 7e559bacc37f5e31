package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	Port       string
	Env        string

	// Payment gateway credentials. When these are empty the gateway
	// integration is unconfigured and every order falls back to the locally
	// hosted payment page.
	PGKey          string
	PGSecretKey    string
	APIKey         string
	SchoolID       string
	GatewayBaseURL string
	GatewayTimeout time.Duration

	// Base URL used to build the fallback payment page link.
	PaymentPageBase string
}

// AppConfig holds the loaded configuration for the application
var AppConfig *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	config := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Port:       os.Getenv("PORT"),
		Env:        os.Getenv("ENV"),

		PGKey:           os.Getenv("PG_KEY"),
		PGSecretKey:     os.Getenv("PG_SECRET_KEY"),
		APIKey:          os.Getenv("API_KEY"),
		SchoolID:        os.Getenv("SCHOOL_ID"),
		GatewayBaseURL:  os.Getenv("PAYMENT_API_URL"),
		GatewayTimeout:  gatewayTimeout(),
		PaymentPageBase: paymentPageBase(),
	}

	if config.Port == "" {
		config.Port = "8080"
	}

	AppConfig = config
	return config, nil
}

// GatewayConfigured reports whether outbound collect-request calls can be made.
func (c *Config) GatewayConfigured() bool {
	return c.PGKey != "" && c.APIKey != "" && c.GatewayBaseURL != ""
}

func gatewayTimeout() time.Duration {
	if v := os.Getenv("PAYMENT_API_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 10 * time.Second
}

func paymentPageBase() string {
	if v := os.Getenv("PAYMENT_PAGE_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}
