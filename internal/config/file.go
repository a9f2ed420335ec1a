package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/authfront/internal/common"
)

// fileConfig is the on-disk DTO. Pointers tell absent keys from zero
// values, so a file only overrides what it mentions.
type fileConfig struct {
	ContextID           *string   `json:"context_id" toml:"context_id"`
	StateFile           *string   `json:"state_file" toml:"state_file"`
	Latency             *Duration `json:"latency" toml:"latency"`
	PopupDelay          *Duration `json:"popup_delay" toml:"popup_delay"`
	SignupRedirectDelay *Duration `json:"signup_redirect_delay" toml:"signup_redirect_delay"`
	MinPasswordLength   *int      `json:"min_password_length" toml:"min_password_length"`
	RequireUppercase    *bool     `json:"require_uppercase" toml:"require_uppercase"`
	RequireLowercase    *bool     `json:"require_lowercase" toml:"require_lowercase"`
	RequireDigit        *bool     `json:"require_digit" toml:"require_digit"`
	RequireSymbol       *bool     `json:"require_symbol" toml:"require_symbol"`
	TrackTimestamps     *bool     `json:"track_timestamps" toml:"track_timestamps"`
	PrefillLoginEmail   *bool     `json:"prefill_login_email" toml:"prefill_login_email"`
	LogFile             *string   `json:"log_file" toml:"log_file"`
	LogLevel            *string   `json:"log_level" toml:"log_level"`
	LogFormat           *string   `json:"log_format" toml:"log_format"`
}

// loadFile overlays cfg with the keys present in the file at path.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("%w: decode %s: %v", common.ErrorInvalidConfig, path, err)
		}
	} else if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: decode %s: %v", common.ErrorInvalidConfig, path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	setIf(&cfg.ContextID, fc.ContextID)
	setIf(&cfg.StateFile, fc.StateFile)
	if fc.Latency != nil {
		cfg.Latency = fc.Latency.Duration
	}
	if fc.PopupDelay != nil {
		cfg.PopupDelay = fc.PopupDelay.Duration
	}
	if fc.SignupRedirectDelay != nil {
		cfg.SignupRedirectDelay = fc.SignupRedirectDelay.Duration
	}
	setIf(&cfg.Policy.MinLength, fc.MinPasswordLength)
	setIf(&cfg.Policy.RequireUppercase, fc.RequireUppercase)
	setIf(&cfg.Policy.RequireLowercase, fc.RequireLowercase)
	setIf(&cfg.Policy.RequireDigit, fc.RequireDigit)
	setIf(&cfg.Policy.RequireSymbol, fc.RequireSymbol)
	setIf(&cfg.TrackTimestamps, fc.TrackTimestamps)
	setIf(&cfg.PrefillLoginEmail, fc.PrefillLoginEmail)
	setIf(&cfg.LogFile, fc.LogFile)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
