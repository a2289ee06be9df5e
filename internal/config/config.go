package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend services
	ProductsAPIURL  string
	OrdersAPIURL    string
	CustomersAPIURL string
	EventsAPIURL    string

	// Shopify
	ShopDomain string

	// API Configuration
	APIPort            string
	APIHost            string
	CORSAllowedOrigins []string
	HTTPTimeout        time.Duration

	// Database (notification log)
	DatabaseURL string

	// Kafka
	KafkaBrokers            string
	KafkaNotificationsTopic string

	// Paging and polling
	DefaultPageSize int
	EventsPageSize  int
	PollInterval    time.Duration

	// Notifications
	NotificationCapacity    int
	NotificationAutoDismiss time.Duration
	NotificationMaxAge      time.Duration
	NotificationCleanup     time.Duration

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	cfg := &Config{
		ProductsAPIURL:          getEnv("PRODUCTS_API_URL", "http://localhost:4001/graphql"),
		OrdersAPIURL:            getEnv("ORDERS_API_URL", "http://localhost:4002/graphql"),
		CustomersAPIURL:         getEnv("CUSTOMERS_API_URL", "http://localhost:4003/graphql"),
		EventsAPIURL:            getEnv("EVENTS_API_URL", "http://localhost:4004/api/events"),
		ShopDomain:              NormalizeShopDomain(getEnv("SHOPIFY_SHOP_DOMAIN", "")),
		APIPort:                 getEnv("API_PORT", "8080"),
		APIHost:                 getEnv("API_HOST", "0.0.0.0"),
		CORSAllowedOrigins:      getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		HTTPTimeout:             getEnvAsDuration("HTTP_TIMEOUT_MS", 30*time.Second),
		DatabaseURL:             getEnv("DATABASE_URL", "sqlite://shopdash.db"),
		KafkaBrokers:            getEnv("KAFKA_BROKERS", ""),
		KafkaNotificationsTopic: getEnv("KAFKA_NOTIFICATIONS_TOPIC", "dashboard-notifications"),
		DefaultPageSize:         getEnvAsInt("DEFAULT_PAGE_SIZE", 20),
		EventsPageSize:          getEnvAsInt("EVENTS_PAGE_SIZE", 10),
		PollInterval:            getEnvAsDuration("POLL_INTERVAL_MS", 5*time.Second),
		NotificationCapacity:    getEnvAsInt("NOTIFICATION_CAPACITY", 5),
		NotificationAutoDismiss: getEnvAsDuration("NOTIFICATION_AUTO_DISMISS_MS", 5*time.Second),
		NotificationMaxAge:      getEnvAsDuration("NOTIFICATION_MAX_AGE_MS", 30*time.Second),
		NotificationCleanup:     getEnvAsDuration("NOTIFICATION_CLEANUP_MS", 10*time.Second),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports missing settings that every backend request needs.
func (c *Config) Validate() error {
	if c.ShopDomain == "" {
		return errors.New("SHOPIFY_SHOP_DOMAIN is required")
	}
	if c.DefaultPageSize <= 0 || c.EventsPageSize <= 0 {
		return errors.New("page sizes must be positive")
	}
	if c.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL_MS must be positive")
	}
	return nil
}

// KafkaEnabled is false when no brokers are configured.
func (c *Config) KafkaEnabled() bool {
	return strings.TrimSpace(c.KafkaBrokers) != ""
}

// Brokers splits KAFKA_BROKERS on commas.
func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

// NormalizeShopDomain turns "https://demo.myshopify.com/" or "demo" into
// "demo.myshopify.com".
func NormalizeShopDomain(shop string) string {
	shop = strings.TrimSpace(strings.ToLower(shop))
	shop = strings.TrimPrefix(shop, "https://")
	shop = strings.TrimPrefix(shop, "http://")
	shop = strings.TrimSuffix(shop, "/")
	if shop == "" {
		return ""
	}
	if !strings.Contains(shop, ".") {
		shop += ".myshopify.com"
	}
	return shop
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration reads a millisecond count.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	ms := getEnvAsInt(key, -1)
	if ms < 0 {
		return defaultValue
	}
	return time.Duration(ms) * time.Millisecond
}

func getEnvAsList(key string, defaultValue []string) []string {
	if list := splitList(os.Getenv(key)); len(list) > 0 {
		return list
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
