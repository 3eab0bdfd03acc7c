package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultBackendURL is used by the console when SUPABASE_URL is unset
	DefaultBackendURL = "http://localhost:8080"
	// DefaultBackendKey is used by the console when SUPABASE_ANON_KEY is unset
	DefaultBackendKey = "lexron-public-anon-key"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Backend  BackendConfig
	GenAI    GenAIConfig
	Console  ConsoleConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  int // in minutes
	RefreshExpiry int // in days
}

// StorageConfig locates uploaded objects on disk and the URL they are served under
type StorageConfig struct {
	Root          string
	PublicBaseURL string
}

// BackendConfig is the console's view of the API: where it lives and the public key it presents
type BackendConfig struct {
	URL       string
	PublicKey string
}

// GenAIConfig configures the product description generator
type GenAIConfig struct {
	APIKey   string
	Model    string
	Endpoint string
}

type ConsoleConfig struct {
	LogFile string
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_ACCESS_EXPIRY", 15)
	viper.SetDefault("JWT_REFRESH_EXPIRY", 7)
	viper.SetDefault("STORAGE_ROOT", "./storage")
	viper.SetDefault("STORAGE_PUBLIC_URL", "http://localhost:8080/storage/v1/object/public")
	viper.SetDefault("SUPABASE_URL", DefaultBackendURL)
	viper.SetDefault("SUPABASE_ANON_KEY", DefaultBackendKey)
	viper.SetDefault("GENAI_MODEL", "gemini-3-flash-preview")
	viper.SetDefault("GENAI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta")
	viper.SetDefault("CONSOLE_LOG_FILE", "console.log")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  viper.GetInt("JWT_ACCESS_EXPIRY"),
			RefreshExpiry: viper.GetInt("JWT_REFRESH_EXPIRY"),
		},
		Storage: StorageConfig{
			Root:          viper.GetString("STORAGE_ROOT"),
			PublicBaseURL: strings.TrimRight(viper.GetString("STORAGE_PUBLIC_URL"), "/"),
		},
		Backend: BackendConfig{
			URL:       orDefault(viper.GetString("SUPABASE_URL"), DefaultBackendURL),
			PublicKey: orDefault(viper.GetString("SUPABASE_ANON_KEY"), DefaultBackendKey),
		},
		GenAI: GenAIConfig{
			APIKey:   viper.GetString("API_KEY"),
			Model:    viper.GetString("GENAI_MODEL"),
			Endpoint: viper.GetString("GENAI_ENDPOINT"),
		},
		Console: ConsoleConfig{
			LogFile: viper.GetString("CONSOLE_LOG_FILE"),
		},
	}
}

// orDefault guards against a key that is present but set to an empty string
func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
