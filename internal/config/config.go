package config

import (
	"os"
	"strconv"
	"strings"
)

// DocStore drivers.
const (
	DriverPostgres  = "postgres"
	DriverMongo     = "mongo"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Object storage drivers.
const (
	StorageS3    = "s3"
	StorageMinIO = "minio"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// FirestoreConfig holds the Google Cloud project used for Firestore.
// CredentialsFile is optional; application default credentials are used when empty.
type FirestoreConfig struct {
	ProjectID       string
	CredentialsFile string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// S3Config holds AWS S3 settings. Uploaded objects are public-read.
type S3Config struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret       string
	SessionTTLHours int
	CookieSecure    bool
}

// RedisConfig holds the session registry connection. An empty Addr selects the in-process registry.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Env            string
	Port           string
	SiteBaseURL    string
	DocStoreDriver string
	StorageDriver  string
	Database       DatabaseConfig
	Mongo          MongoConfig
	Firestore      FirestoreConfig
	MinIO          MinIOConfig
	S3             S3Config
	Auth           AuthConfig
	Redis          RedisConfig
}

// IsDevelopment reports whether the app runs with development logging and insecure cookies allowed.
func (c *AppConfig) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Env:            getEnv("APP_ENV", "production"),
		Port:           getEnv("PORT", "8080"),
		SiteBaseURL:    strings.TrimRight(getEnv("SITE_BASE_URL", "https://azhar-breast-awareness.web.app"), "/"),
		DocStoreDriver: strings.ToLower(getEnv("DOCSTORE_DRIVER", DriverPostgres)),
		StorageDriver:  strings.ToLower(getEnv("STORAGE_DRIVER", StorageS3)),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "tumanina"),
		},
		Firestore: FirestoreConfig{
			ProjectID:       getEnv("FIRESTORE_PROJECT_ID", ""),
			CredentialsFile: getEnv("FIRESTORE_CREDENTIALS_FILE", ""),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: strings.TrimRight(getEnv("MINIO_PUBLIC_URL", ""), "/"),
		},
		S3: S3Config{
			Region:    getEnv("AWS_REGION", "eu-north-1"),
			AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Bucket:    getEnv("AWS_BUCKET_NAME", ""),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", ""),
			SessionTTLHours: getEnvInt("AUTH_SESSION_TTL_HOURS", 24),
			CookieSecure:    getEnvBool("AUTH_COOKIE_SECURE", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
