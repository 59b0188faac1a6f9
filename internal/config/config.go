package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// Config used for the application configuration, loading the input from environment variables
type Config struct {
	// Server Configuration
	Environment     string        `json:"environment"`
	Port            int           `json:"port"`
	Host            string        `json:"host"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	AllowedOrigins  []string      `json:"allowed_origins"`

	// Database configuration
	DBDriver   string `json:"db_driver"`
	DBPath     string `json:"db_path"`
	DBHost     string `json:"db_host"`
	DBPort     string `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`
	DBSSLMode  string `json:"db_sslmode"`
	// DBReset drops and recreates the drinks table on startup
	DBReset bool `json:"db_reset"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	Auth0Domain string `json:"auth0_domain"`
	JWKSURL     string `json:"jwks_url"`
	Audience    string `json:"audience"`
	Issuer      string `json:"issuer"`
	JWTSecret   string `json:"jwt_secret"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, DBDriver: %s, DBPath: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DBReset: %t, LogLevel: %s, JWKSURL: %s, Audience: %s, Issuer: %s, JWTSecret: [REDACTED]}",
		c.Environment, c.Port, c.Host, c.DBDriver, c.DBPath, c.DBHost, c.DBName, c.DBUser, c.DBReset, c.LogLevel, maskURL(c.JWKSURL), c.Audience, c.Issuer)
}

// IsDevelopment reports whether the service runs with development helpers enabled
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// maskURL masks password in a URL
func maskURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// The issuer and JWKS location default to the Auth0 tenant when AUTH0_DOMAIN is set.
// Returns an error if any environment variable is invalid or no signing key source is configured
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	port, err := strconv.Atoi(GetEnvWithDefault("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	domain := strings.TrimSuffix(GetEnvWithDefault("AUTH0_DOMAIN", ""), "/")
	jwksURL := GetEnvWithDefault("JWKS_URL", "")
	issuer := GetEnvWithDefault("JWT_ISSUER", "")
	if domain != "" {
		if jwksURL == "" {
			jwksURL = fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
		}
		if issuer == "" {
			issuer = fmt.Sprintf("https://%s/", domain)
		}
	}
	if issuer == "" {
		issuer = "coffee-shop-api"
	}
	if jwksURL != "" {
		if _, err := url.ParseRequestURI(jwksURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS_URL %q: %w", jwksURL, err)
		}
	}

	logLevel := GetEnvWithDefault("LOG_LEVEL", "")
	if logLevel != "" {
		if _, err := logrus.ParseLevel(logLevel); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	secret := GetEnvWithDefault("JWT_SECRET", "")
	if jwksURL == "" && secret == "" {
		return nil, fmt.Errorf("no signing keys configured: set AUTH0_DOMAIN, JWKS_URL or JWT_SECRET")
	}

	config := &Config{
		Environment:     GetEnvWithDefault("APP_ENV", "development"),
		Port:            port,
		Host:            GetEnvWithDefault("APP_HOST", "localhost"),
		ShutdownTimeout: time.Duration(GetEnvAsType("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		AllowedOrigins:  splitList(GetEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		DBDriver:        strings.ToLower(GetEnvWithDefault("DB_DRIVER", "sqlite")),
		DBPath:          GetEnvWithDefault("DB_PATH", "database.sqlite"),
		DBHost:          GetEnvWithDefault("DB_HOST", "localhost"),
		DBPort:          GetEnvWithDefault("DB_PORT", "5432"),
		DBName:          GetEnvWithDefault("DB_NAME", "coffee_shop"),
		DBUser:          GetEnvWithDefault("DB_USER", "postgres"),
		DBPassword:      GetEnvWithDefault("DB_PASSWORD", "password"),
		DBSSLMode:       GetEnvWithDefault("DB_SSLMODE", "disable"),
		DBReset:         GetEnvAsType("DB_RESET", false),
		LogLevel:        logLevel,
		Auth0Domain:     domain,
		JWKSURL:         jwksURL,
		Audience:        GetEnvWithDefault("API_AUDIENCE", "drinks"),
		Issuer:          issuer,
		JWTSecret:       secret,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// Level returns the configured log level. LOG_LEVEL wins over the APP_ENV default.
func (c *Config) Level() logrus.Level {
	if c.LogLevel != "" {
		if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
			return level
		}
	}
	return LevelForEnvironment(c.Environment)
}

// LevelForEnvironment maps APP_ENV to the default log level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value", key)
		return defaultValue
	}
	return value
}

// GetEnvAsType retrieves an environment variable and converts it to the specified type
// using generic type handling.
func GetEnvAsType[T any](key string, defaultValue T) T {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var result T
	switch any(result).(type) {
	case int:
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue
		}
		return any(intValue).(T)
	case string:
		return any(value).(T)
	case bool:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return any(boolValue).(T)
	default:
		return defaultValue // Fallback for unsupported types
	}
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
