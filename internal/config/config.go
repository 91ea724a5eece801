package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort string `yaml:"port"`

	// StoreBackend selects where the user document lives: json, sqlite, postgres, mysql or mongo
	StoreBackend  string `yaml:"store_backend"`
	DataFile      string `yaml:"data_file"`
	DatabasePath  string `yaml:"db_path"`
	DatabaseURL   string `yaml:"database_url"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`

	SessionSecret   string        `yaml:"session_secret"`
	SessionDuration time.Duration `yaml:"session_duration"`
	SessionStore    string        `yaml:"session_store"`
	RedisURL        string        `yaml:"redis_url"`

	LoginRateLimit  int           `yaml:"login_rate_limit"`
	LoginRateWindow time.Duration `yaml:"login_rate_window"`
	UploadMaxSize   int64         `yaml:"upload_max_size"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`

	AWSRegion    string `yaml:"aws_region"`
	SESFromEmail string `yaml:"ses_from_email"`
	SESFromName  string `yaml:"ses_from_name"`
	AppBaseURL   string `yaml:"app_base_url"`

	GoogleClientID       string `yaml:"google_client_id"`
	GoogleClientSecret   string `yaml:"google_client_secret"`
	OAuthRedirectBaseURL string `yaml:"oauth_redirect_base_url"`

	Debug bool `yaml:"debug"`
}

// insecureSessionSecrets are placeholder values that must never sign sessions
var insecureSessionSecrets = map[string]bool{
	"":                        true,
	"change-me-in-production": true,
	"secret":                  true,
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		StoreBackend:    "json",
		DataFile:        "./users.json",
		DatabasePath:    "./schoolfit.db",
		MongoDatabase:   "schoolfit",
		SessionDuration: 24 * time.Hour,
		SessionStore:    "memory",
		LoginRateLimit:  10,
		LoginRateWindow: time.Minute,
		UploadMaxSize:   5 * 1024 * 1024, // 5MB
		GeminiModel:     "gemini-1.5-flash",
		AWSRegion:       "ap-southeast-1",
		SESFromName:     "SchoolFit",
		AppBaseURL:      "http://localhost:8080",
	}
}

// Load reads configuration from an optional YAML file named by CONFIG_FILE,
// then applies environment variable overrides
func Load() (*Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// EnsureSessionSecret replaces an unset or placeholder session secret with a
// random one for this process and reports whether it did. Sessions signed
// with a generated secret do not survive a restart.
func (c *Config) EnsureSessionSecret() (bool, error) {
	if !insecureSessionSecrets[c.SessionSecret] {
		return false, nil
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return false, fmt.Errorf("failed to generate session secret: %w", err)
	}
	c.SessionSecret = hex.EncodeToString(buf)
	return true, nil
}

// LoadFile overlays values from a YAML file onto cfg
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("PORT", c.ServerPort)
	c.StoreBackend = strings.ToLower(getEnv("STORE_BACKEND", c.StoreBackend))
	c.DataFile = getEnv("DATA_FILE", c.DataFile)
	c.DatabasePath = getEnv("DB_PATH", c.DatabasePath)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.MongoURI = getEnv("MONGO_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGO_DATABASE", c.MongoDatabase)
	c.SessionSecret = getEnv("SESSION_SECRET", c.SessionSecret)
	c.SessionDuration = getEnvDuration("SESSION_DURATION", c.SessionDuration)
	c.SessionStore = strings.ToLower(getEnv("SESSION_STORE", c.SessionStore))
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", c.LoginRateLimit)
	c.LoginRateWindow = getEnvDuration("LOGIN_RATE_WINDOW", c.LoginRateWindow)
	c.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.SESFromEmail = getEnv("SES_FROM_EMAIL", c.SESFromEmail)
	c.SESFromName = getEnv("SES_FROM_NAME", c.SESFromName)
	c.AppBaseURL = getEnv("APP_BASE_URL", c.AppBaseURL)
	c.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", c.GoogleClientID)
	c.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret)
	c.OAuthRedirectBaseURL = getEnv("OAUTH_REDIRECT_BASE_URL", c.OAuthRedirectBaseURL)
	c.Debug = getEnvBool("DEBUG", c.Debug)
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
