package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blagoySimandov/astra/go/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoreDriverFirestore = "firestore"
	StoreDriverPostgres  = "postgres"
	StoreDriverRedis     = "redis"
)

type Config struct {
	ServerAddr        string
	AllowedOrigins    []string
	LogLevel          string
	StoreDriver       string
	ServiceAccountKey string
	FirebaseProjectID string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	GoogleAIAPIKey    string
	GeminiModel       string
	LogoBucket        string
}

var defaults = map[string]any{
	"SERVER_ADDR":     ":8080",
	"ALLOWED_ORIGINS": "*",
	"LOG_LEVEL":       "info",
	"STORE_DRIVER":    StoreDriverFirestore,
	"REDIS_DB":        0,
	"GEMINI_MODEL":    "gemini-2.5-flash",
}

// Load reads the process environment, optionally seeded from a .env file.
// Missing credentials are not an error: the features that need them stay
// unconfigured.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	cfg := &Config{
		ServerAddr:        v.GetString("SERVER_ADDR"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		ServiceAccountKey: v.GetString("SERVICE_ACCOUNT_KEY"),
		FirebaseProjectID: v.GetString("FIREBASE_PROJECT_ID"),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		RedisAddr:         v.GetString("REDIS_ADDR"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		GoogleAIAPIKey:    v.GetString("GOOGLE_AI_API_KEY"),
		GeminiModel:       v.GetString("GEMINI_MODEL"),
		LogoBucket:        v.GetString("LOGO_BUCKET"),
	}

	switch cfg.StoreDriver {
	case StoreDriverFirestore, StoreDriverPostgres, StoreDriverRedis:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// A broken key leaves the project id empty; the store and verifier then
	// stay unconfigured instead of stopping the process.
	if cfg.FirebaseProjectID == "" && cfg.ServiceAccountKey != "" {
		projectID, err := ProjectIDFromServiceAccount(cfg.ServiceAccountKey)
		if err != nil {
			logger.Log.Warn("Ignoring SERVICE_ACCOUNT_KEY", "error", err)
		}
		cfg.FirebaseProjectID = projectID
	}

	return cfg, nil
}

// ProjectIDFromServiceAccount extracts project_id from a service-account
// JSON key.
func ProjectIDFromServiceAccount(key string) (string, error) {
	var sa struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal([]byte(key), &sa); err != nil {
		return "", fmt.Errorf("failed to parse SERVICE_ACCOUNT_KEY: %w", err)
	}
	return sa.ProjectID, nil
}

// HasServiceAccount reports whether Google Cloud credentials were supplied.
func (c *Config) HasServiceAccount() bool {
	return c.ServiceAccountKey != ""
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
