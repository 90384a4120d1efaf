package config

import "testing"

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Local:  LocalStoreConfig{DataDir: "data"},
		Auth: AuthConfig{
			AdminEmail: "admin@maximahome.com",
			JWTSecret:  "secret",
		},
		Reporting: ReportingConfig{
			CronSchedule: "0 21 * * *",
			Timezone:     "Asia/Tehran",
		},
	}
}

func TestLocalOnly(t *testing.T) {
	cfg := validConfig()
	if !cfg.LocalOnly() {
		t.Error("no MONGODB_URI must mean local-only mode")
	}

	cfg.MongoDB.URI = "mongodb://localhost:27017"
	if cfg.LocalOnly() {
		t.Error("a configured remote store must not report local-only mode")
	}
}

func TestValidateDefaultsPassword(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Auth.Password == "" {
		t.Error("blank credentials must fall back to the out-of-the-box password")
	}

	cfg = validConfig()
	cfg.Auth.PasswordHash = "$2a$10$stub"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Auth.Password != "" {
		t.Error("a configured hash must not trigger the password fallback")
	}
}

func TestValidateRequiresDBNameWithURI(t *testing.T) {
	cfg := validConfig()
	cfg.MongoDB.URI = "mongodb://localhost:27017"
	cfg.MongoDB.DBName = ""
	if err := cfg.Validate(); err == nil {
		t.Error("a remote URI without a database name must fail validation")
	}
}

func TestSheetsEnabled(t *testing.T) {
	cfg := validConfig()
	if cfg.SheetsEnabled() {
		t.Error("unconfigured sheets sink must report disabled")
	}

	cfg.Sheets.SpreadsheetID = "sheet-id"
	cfg.Sheets.CredentialsPath = "/etc/creds.json"
	if !cfg.SheetsEnabled() {
		t.Error("fully configured sheets sink must report enabled")
	}
}
