package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	MongoURI string
	MongoDB  string
	RedisURL string

	JWTSecret     string
	JWTExpiresHrs int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	MailFrom     string
	ContactInbox string

	ActivationBaseURL string

	StorageDriver  string // local | minio
	UploadDir      string
	PublicURL      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioPublicURL string

	CNaughtAPIURL string
	CNaughtAPIKey string

	PlaidBaseURL  string
	PlaidClientID string
	PlaidSecret   string

	GoogleClientID string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		ServerPort: getEnv("PORT", "8000"),

		MongoURI: os.Getenv("MONGO_URI"),
		MongoDB:  getEnv("MONGO_DB", "carbon_shredder"),
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		JWTSecret:     os.Getenv("JWT_SECRET_KEY"),
		JWTExpiresHrs: getEnvInt("JWT_EXPIRES_HOURS", 72),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		MailFrom:     getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),
		ContactInbox: getEnv("CONTACT_INBOX", "thijnfelix@carbonshredder.com"),

		ActivationBaseURL: getEnv("ACTIVATION_BASE_URL", "https://carbonshredder.com/activation"),

		StorageDriver:  getEnv("STORAGE_DRIVER", "local"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		PublicURL:      getEnv("PUBLIC_URL", "http://localhost:8000"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getEnv("MINIO_BUCKET", "carbon-media"),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		CNaughtAPIURL: getEnv("CNAUGHT_API_URL", "https://api.cnaught.com/v1"),
		CNaughtAPIKey: os.Getenv("CNAUGHT_API_KEY"),

		PlaidBaseURL:  getEnv("PLAID_BASE_URL", "https://sandbox.plaid.com"),
		PlaidClientID: os.Getenv("PLAID_CLIENT_ID"),
		PlaidSecret:   os.Getenv("PLAID_SECRET"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
