package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Assets   AssetsConfig
	Render   RenderConfig
	Storage  StorageConfig
	Redis    RedisConfig
	LogLevel string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
}

// AssetsConfig holds the location of the deployment-time raster assets
type AssetsConfig struct {
	Path string // directory containing manifest.yaml and the asset files
}

// RenderConfig holds compositing pipeline configuration
type RenderConfig struct {
	Workers          int  // concurrent render workers
	FabricTexture    bool // multiply a procedural fabric texture into the tinted bag
	TextureCacheSize int  // max entries for the in-memory texture cache
	TextureTTL       int  // seconds a Redis-backed texture entry lives
}

// StorageConfig holds the S3-compatible object store configuration used by
// the finalize flow
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string // base for returned URLs; derived from Endpoint when empty
	UseSSL        bool
}

// RedisConfig holds Redis-related configuration. An empty Addr disables
// Redis and the texture cache falls back to the in-memory LRU.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
		},
		Assets: AssetsConfig{
			Path: getEnv("ASSETS_PATH", "./assets"),
		},
		Render: RenderConfig{
			Workers:          getEnvAsInt("RENDER_WORKERS", 4),
			FabricTexture:    getEnvAsBool("RENDER_FABRIC_TEXTURE", false),
			TextureCacheSize: getEnvAsInt("TEXTURE_CACHE_SIZE", 64),
			TextureTTL:       getEnvAsInt("TEXTURE_CACHE_TTL", 3600),
		},
		Storage: StorageConfig{
			Endpoint:      getEnv("STORAGE_ENDPOINT", ""),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", ""),
			Bucket:        getEnv("STORAGE_BUCKET", "mockup-uploads"),
			PublicBaseURL: getEnv("STORAGE_PUBLIC_URL", ""),
			UseSSL:        getEnvAsBool("STORAGE_USE_SSL", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
