package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	OutputDir string `mapstructure:"OUTPUT_DIR"`
	Workers   int    `mapstructure:"WORKERS"`

	PageSize          string `mapstructure:"PAGE_SIZE"`
	LogoPath          string `mapstructure:"LOGO_PATH"`
	ReportYear        int    `mapstructure:"REPORT_YEAR"`
	ReportTitleSuffix string `mapstructure:"REPORT_TITLE_SUFFIX"`
	ReportSubtitle    string `mapstructure:"REPORT_SUBTITLE"`
	MeasuresFile      string `mapstructure:"MEASURES_FILE"`
	NarrativeFile     string `mapstructure:"NARRATIVE_FILE"`

	CSVPath     string `mapstructure:"CSV_PATH"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	RosterTable string `mapstructure:"ROSTER_TABLE"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`

	AuthSecret     string        `mapstructure:"AUTH_SECRET"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OUTPUT_DIR", "out")
	v.SetDefault("WORKERS", 4)
	v.SetDefault("PAGE_SIZE", "Letter")
	v.SetDefault("ROSTER_TABLE", "provider_roster")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("BODY_LIMIT", "5M")
	v.SetDefault("REQUEST_TIMEOUT", "60s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("PORT")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("OUTPUT_DIR")
	v.BindEnv("WORKERS")
	v.BindEnv("PAGE_SIZE")
	v.BindEnv("LOGO_PATH")
	v.BindEnv("REPORT_YEAR")
	v.BindEnv("REPORT_TITLE_SUFFIX")
	v.BindEnv("REPORT_SUBTITLE")
	v.BindEnv("MEASURES_FILE")
	v.BindEnv("NARRATIVE_FILE")
	v.BindEnv("CSV_PATH")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("ROSTER_TABLE")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("REQUEST_TIMEOUT")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the service is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

var validPageSizes = map[string]bool{
	"Letter": true, "Legal": true, "A4": true,
}

// Validate checks that the configuration can produce documents. Bad layout
// or source settings are refused before any work starts.
func (c *Config) Validate() error {
	if !validPageSizes[c.PageSize] {
		return fmt.Errorf("PAGE_SIZE must be \"Letter\", \"Legal\", or \"A4\", got %q", c.PageSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("WORKERS must not be negative, got %d", c.Workers)
	}
	if c.ReportYear < 0 {
		return fmt.Errorf("REPORT_YEAR must not be negative, got %d", c.ReportYear)
	}
	if c.CSVPath != "" && c.DatabaseURL != "" {
		return fmt.Errorf("CSV_PATH and DATABASE_URL are mutually exclusive; configure one roster source")
	}
	return nil
}
