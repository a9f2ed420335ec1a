package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/authfront/internal/common"
	"github.com/dmitrijs2005/authfront/internal/validation"
)

// Config holds runtime settings.
//
// Units: Latency, PopupDelay and SignupRedirectDelay are time.Duration.
type Config struct {
	// ContextID names the in-memory store. Ignored when StateFile is set.
	ContextID string
	// StateFile switches to a file-backed, locked store.
	StateFile string

	Latency             time.Duration
	PopupDelay          time.Duration
	SignupRedirectDelay time.Duration

	Policy            validation.PasswordPolicy
	TrackTimestamps   bool
	PrefillLoginEmail bool

	LogFile   string
	LogLevel  string
	LogFormat string
}

// LoadDefaults populates c with the strictest variant of every setting.
func (c *Config) LoadDefaults() {
	c.ContextID = ""
	c.StateFile = ""
	c.Latency = time.Second
	c.PopupDelay = 2 * time.Second
	c.SignupRedirectDelay = 2 * time.Second
	c.Policy = validation.DefaultPolicy()
	c.TrackTimestamps = true
	c.PrefillLoginEmail = true
	c.LogFile = ""
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Load builds a Config from defaults, then the file named by the "config"
// flag (if any), then the flags in fs that were explicitly set. fs may be
// nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if fs != nil {
		if path, _ := fs.GetString(FlagConfig); path != "" {
			if err := loadFile(cfg, path); err != nil {
				return nil, err
			}
		}
		if err := applyFlags(cfg, fs); err != nil {
			return nil, err
		}
	}

	if cfg.ContextID == "" && cfg.StateFile == "" {
		cfg.ContextID = uuid.NewString()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings no component can work with.
func (c *Config) Validate() error {
	switch {
	case c.Latency < 0:
		return fmt.Errorf("%w: latency must not be negative", common.ErrorInvalidConfig)
	case c.PopupDelay < 0:
		return fmt.Errorf("%w: popup_delay must not be negative", common.ErrorInvalidConfig)
	case c.SignupRedirectDelay < 0:
		return fmt.Errorf("%w: signup_redirect_delay must not be negative", common.ErrorInvalidConfig)
	case c.Policy.MinLength < 1:
		return fmt.Errorf("%w: min_password_length must be at least 1", common.ErrorInvalidConfig)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json", common.ErrorInvalidConfig)
	}
	return nil
}
