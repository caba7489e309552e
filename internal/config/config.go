package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Port           string        `koanf:"port"`
	DBDSN          string        `koanf:"db_dsn"`
	LogFile        string        `koanf:"log_file"`
	BackendURL     string        `koanf:"backend_url"`
	TemplatesDir   string        `koanf:"templates_dir"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	DraftDelay     time.Duration `koanf:"draft_delay"`
	ToastTTL       time.Duration `koanf:"toast_ttl"`
	WidgetIdle     time.Duration `koanf:"widget_idle"` // 0 keeps widgets until logout
	SecureCookie   bool          `koanf:"session_secure_cookie"`
}

func Default() Config {
	return Config{
		Port:           "8080",
		DBDSN:          "shopmate.db", // sqlite file in project root
		LogFile:        "./shopmate.log",
		TemplatesDir:   "./web/templates",
		RequestTimeout: 30 * time.Second,
		DraftDelay:     500 * time.Millisecond,
		ToastTTL:       5 * time.Second,
		WidgetIdle:     30 * time.Minute,
	}
}

// Load starts from Default, overlays the YAML file at path when it exists and
// then SHOPMATE_* environment variables (SHOPMATE_DB_DSN -> db_dsn).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("SHOPMATE_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SHOPMATE_"))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshalling config: %w", err)
	}

	if cfg.BackendURL == "" {
		// The widget talks to the API mounted on this same server.
		cfg.BackendURL = "http://127.0.0.1:" + cfg.Port
	}

	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s BACKEND_URL=%s TEMPLATES=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.BackendURL, cfg.TemplatesDir)
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DBDSN == "" {
		return fmt.Errorf("db_dsn is required")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.DraftDelay < 0 || c.ToastTTL < 0 {
		return fmt.Errorf("draft_delay and toast_ttl must be non-negative")
	}
	if c.WidgetIdle < 0 {
		return fmt.Errorf("widget_idle must be non-negative")
	}
	return nil
}
