// Package config loads the calculator configuration through viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/tdm-calculator/internal/catalog"
	"github.com/Veraticus/tdm-calculator/internal/common"
	"github.com/Veraticus/tdm-calculator/internal/model"
	"github.com/Veraticus/tdm-calculator/internal/service"
	"github.com/Veraticus/tdm-calculator/internal/tui/themes"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "$HOME/.local/share/tdm/tdm.db"

// Config is the typed application configuration.
type Config struct {
	Logging      Logging
	DatabasePath string
	CatalogPath  string
	ResultCodes  []model.RuleCode
	Retry        service.RetryOptions
	Account      model.Account
	Theme        string
}

// Logging selects the slog handler.
type Logging struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("catalog.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_delay", 100*time.Millisecond)
	v.SetDefault("retry.max_delay", 5*time.Second)
	v.SetDefault("retry.multiplier", 2.0)
	v.SetDefault("account.id", 0)
	v.SetDefault("account.admin", false)
	v.SetDefault("wizard.theme", "default")
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		DatabasePath: ExpandPath(v.GetString("database.path")),
		CatalogPath:  ExpandPath(v.GetString("catalog.path")),
		Logging: Logging{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Retry: service.RetryOptions{
			MaxAttempts:  v.GetInt("retry.max_attempts"),
			InitialDelay: v.GetDuration("retry.initial_delay"),
			MaxDelay:     v.GetDuration("retry.max_delay"),
			Multiplier:   v.GetFloat64("retry.multiplier"),
		},
		Account: model.Account{
			ID:      v.GetInt("account.id"),
			IsAdmin: v.GetBool("account.admin"),
		},
		Theme: v.GetString("wizard.theme"),
	}

	if cfg.DatabasePath == "" {
		return nil, fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if _, err := common.ParseLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	if cfg.Retry.MaxAttempts < 1 {
		return nil, fmt.Errorf("%w: retry.max_attempts must be at least 1", common.ErrInvalidConfig)
	}

	if _, err := themes.Lookup(cfg.Theme); err != nil {
		return nil, fmt.Errorf("%w: wizard.theme: %w", common.ErrInvalidConfig, err)
	}

	codes := v.GetStringSlice("results.codes")
	if len(codes) == 0 {
		cfg.ResultCodes = model.DefaultResultCodes()
	} else {
		for _, c := range codes {
			code := model.RuleCode(c)
			if !code.Known() {
				return nil, fmt.Errorf("%w: results.codes: unknown rule %q", common.ErrInvalidConfig, c)
			}
			cfg.ResultCodes = append(cfg.ResultCodes, code)
		}
	}

	return cfg, nil
}

// LoadCatalog returns the configured catalog, or the embedded one when no
// path is set.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default()
	}
	return catalog.Load(c.CatalogPath)
}
