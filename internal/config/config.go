package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Local     LocalStoreConfig
	Auth      AuthConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	SMS       SMSConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the remote document store. An empty URI
// means the remote store is not configured and the local fallback serves
// everything.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// LocalStoreConfig holds settings for the persisted local fallback.
type LocalStoreConfig struct {
	DataDir string
}

// AuthConfig gates the back-office endpoints. When PasswordHash is empty the
// plain Password is hashed at startup; the original panels shipped with a
// hardcoded credential pair and this service keeps that behavior reachable
// for local installs.
type AuthConfig struct {
	AdminEmail   string
	Password     string
	PasswordHash string
	JWTSecret    string
}

// SheetsConfig contains configuration for the reporting spreadsheet sink.
// Both fields empty disables the sink.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// SMSConfig holds credentials for the booking-confirmation gateway. An empty
// APIKey disables outbound SMS.
type SMSConfig struct {
	BaseURL string
	APIKey  string
	Sender  string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "garage"),
		},
		Local: LocalStoreConfig{
			DataDir: getenvWithDefault("LOCAL_DATA_DIR", "data"),
		},
		Auth: AuthConfig{
			AdminEmail:   getenvWithDefault("ADMIN_EMAIL", "admin@maximahome.com"),
			Password:     os.Getenv("ADMIN_PASSWORD"),
			PasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			JWTSecret:    getenvWithDefault("JWT_SECRET", "maxima-local-secret"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORT_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 21 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "Asia/Tehran"),
		},
		SMS: SMSConfig{
			BaseURL: getenvWithDefault("SMS_BASE_URL", "https://api.kavenegar.com"),
			APIKey:  os.Getenv("SMS_API_KEY"),
			Sender:  getenvWithDefault("SMS_SENDER", "10004346"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must be provided when MONGODB_URI is set")
	}

	if c.Local.DataDir == "" {
		return errors.New("LOCAL_DATA_DIR must be provided")
	}

	if c.Auth.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL must be provided")
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		// Keep the original panels' out-of-the-box credential for local installs.
		c.Auth.Password = "samad1379"
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided")
	}

	if c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided when GOOGLE_SHEET_REPORT_ID is set")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	return nil
}

// LocalOnly reports whether the remote document store is not configured and
// the local fallback serves everything.
func (c *Config) LocalOnly() bool {
	return c.MongoDB.URI == ""
}

// SheetsEnabled reports whether the spreadsheet sink is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.SpreadsheetID != "" && c.Sheets.CredentialsPath != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
