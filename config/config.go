package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                 string
	Mode                 string
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration
	GoogleClientID       string
	GoogleClientSecret   string
	FrontendURLs         []string

	// Storage
	StoreDriver     string // "memory" or "mongo"
	MongoDBURI      string
	MongoDBDatabase string
	SeedDemoData    bool

	// Sessions
	SessionStore  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Messaging
	MailProvider      string // "log", "customerio", "sendgrid" or "gmail"
	CustomerIOSiteID  string
	CustomerIOAPIKey  string
	CustomerIORegion  string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	GmailSender       string
	GmailRefreshToken string

	// Insights
	RecencyThresholdDays  int
	TrendWindowDays       int
	MaxFollowupCandidates int
	RecencyWorkerInterval time.Duration

	// Report archive
	ArchiveDriver    string // "local" or "minio"
	ArchiveLocalPath string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool

	RateLimitPerMinute       int
	TracingEnabled           bool
	TracingCollectorEndpoint string
	LogFile                  string
	LogLevel                 string
}

func Load() *Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Mode:                 getEnv("GIN_MODE", "debug"),
		JWTSecret:            getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiration:  getDuration("JWT_ACCESS_EXPIRATION", 15*time.Minute),
		JWTRefreshExpiration: getDuration("JWT_REFRESH_EXPIRATION", 168*time.Hour),
		GoogleClientID:       getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:   getEnv("GOOGLE_CLIENT_SECRET", ""),
		FrontendURLs:         getList("FRONTEND_URLS", "http://localhost:3000,http://localhost:3002"),

		StoreDriver:     strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", "undergraduation"),
		SeedDemoData:    getBool("SEED_DEMO_DATA", true),

		SessionStore:  strings.ToLower(getEnv("SESSION_STORE", "memory")),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		MailProvider:      strings.ToLower(getEnv("MAIL_PROVIDER", "log")),
		CustomerIOSiteID:  getEnv("CUSTOMERIO_SITE_ID", ""),
		CustomerIOAPIKey:  getEnv("CUSTOMERIO_API_KEY", ""),
		CustomerIORegion:  strings.ToLower(getEnv("CUSTOMERIO_REGION", "us")),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Undergraduation"),
		GmailSender:       getEnv("GMAIL_SENDER", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		RecencyThresholdDays:  getInt("RECENCY_THRESHOLD_DAYS", 7),
		TrendWindowDays:       getInt("TREND_WINDOW_DAYS", 14),
		MaxFollowupCandidates: getInt("MAX_FOLLOWUP_CANDIDATES", 10),
		RecencyWorkerInterval: getDuration("RECENCY_WORKER_INTERVAL", time.Hour),

		ArchiveDriver:    strings.ToLower(getEnv("ARCHIVE_DRIVER", "local")),
		ArchiveLocalPath: getEnv("ARCHIVE_LOCAL_PATH", "exports"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:      getEnv("MINIO_BUCKET", "insights"),
		MinioUseSSL:      getBool("MINIO_USE_SSL", false),

		RateLimitPerMinute:       getInt("RATE_LIMIT_PER_MINUTE", 600),
		TracingEnabled:           getBool("TRACING_ENABLED", false),
		TracingCollectorEndpoint: getEnv("TRACING_COLLECTOR_ENDPOINT", "http://localhost:14268/api/traces"),
		LogFile:                  getEnv("LOG_FILE", "logs/app.log"),
		LogLevel:                 strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}
}

// Validate checks that the selected drivers have what they need to start.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case "memory":
	case "mongo":
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.SessionStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}

	switch c.MailProvider {
	case "log":
	case "customerio":
		if c.CustomerIOSiteID == "" || c.CustomerIOAPIKey == "" {
			return fmt.Errorf("CUSTOMERIO_SITE_ID and CUSTOMERIO_API_KEY are required when MAIL_PROVIDER=customerio")
		}
	case "sendgrid":
		if c.SendGridAPIKey == "" || c.SendGridFromEmail == "" {
			return fmt.Errorf("SENDGRID_API_KEY and SENDGRID_FROM_EMAIL are required when MAIL_PROVIDER=sendgrid")
		}
	case "gmail":
		if c.GoogleClientID == "" || c.GmailRefreshToken == "" {
			return fmt.Errorf("GOOGLE_CLIENT_ID and GMAIL_REFRESH_TOKEN are required when MAIL_PROVIDER=gmail")
		}
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.MailProvider)
	}

	switch c.ArchiveDriver {
	case "local":
	case "minio":
		if c.MinioEndpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required when ARCHIVE_DRIVER=minio")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_DRIVER %q", c.ArchiveDriver)
	}

	if c.Mode == "release" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters in release mode")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getList(key, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
