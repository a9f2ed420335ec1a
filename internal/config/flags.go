package config

import (
	"github.com/spf13/pflag"
)

// Flag names.
const (
	FlagConfig              = "config"
	FlagContextID           = "context-id"
	FlagStateFile           = "state-file"
	FlagLatency             = "latency"
	FlagPopupDelay          = "popup-delay"
	FlagSignupRedirectDelay = "signup-redirect-delay"
	FlagMinPasswordLength   = "min-password-length"
	FlagRequireUppercase    = "require-uppercase"
	FlagRequireLowercase    = "require-lowercase"
	FlagRequireDigit        = "require-digit"
	FlagRequireSymbol       = "require-symbol"
	FlagTrackTimestamps     = "track-timestamps"
	FlagPrefillLoginEmail   = "prefill-login-email"
	FlagLogFile             = "log-file"
	FlagLogLevel            = "log-level"
	FlagLogFormat           = "log-format"
)

// BindFlags registers every setting on fs, with the built-in defaults as
// flag defaults.
func BindFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(FlagConfig, "c", "", "path to a JSON or TOML config file")
	fs.String(FlagContextID, d.ContextID, "name of the in-memory context store (random when empty)")
	fs.String(FlagStateFile, d.StateFile, "keep state in this file instead of memory")
	fs.Duration(FlagLatency, d.Latency, "simulated request latency")
	fs.Duration(FlagPopupDelay, d.PopupDelay, "how long the welcome popup stays up")
	fs.Duration(FlagSignupRedirectDelay, d.SignupRedirectDelay, "how long the signup success message shows")
	fs.Int(FlagMinPasswordLength, d.Policy.MinLength, "minimum password length")
	fs.Bool(FlagRequireUppercase, d.Policy.RequireUppercase, "require an uppercase letter")
	fs.Bool(FlagRequireLowercase, d.Policy.RequireLowercase, "require a lowercase letter")
	fs.Bool(FlagRequireDigit, d.Policy.RequireDigit, "require a digit")
	fs.Bool(FlagRequireSymbol, d.Policy.RequireSymbol, "require a symbol")
	fs.Bool(FlagTrackTimestamps, d.TrackTimestamps, "stamp new users with their creation time")
	fs.Bool(FlagPrefillLoginEmail, d.PrefillLoginEmail, "pre-fill the login email after signup")
	fs.String(FlagLogFile, d.LogFile, "write logs to this rotating file")
	fs.String(FlagLogLevel, d.LogLevel, "log level: debug, info, warn, error")
	fs.String(FlagLogFormat, d.LogFormat, "log format: text or json")
}

// applyFlags copies the flags the user set into cfg. Flags left at their
// default never override the config file.
func applyFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagContextID:
			cfg.ContextID, err = fs.GetString(f.Name)
		case FlagStateFile:
			cfg.StateFile, err = fs.GetString(f.Name)
		case FlagLatency:
			cfg.Latency, err = fs.GetDuration(f.Name)
		case FlagPopupDelay:
			cfg.PopupDelay, err = fs.GetDuration(f.Name)
		case FlagSignupRedirectDelay:
			cfg.SignupRedirectDelay, err = fs.GetDuration(f.Name)
		case FlagMinPasswordLength:
			cfg.Policy.MinLength, err = fs.GetInt(f.Name)
		case FlagRequireUppercase:
			cfg.Policy.RequireUppercase, err = fs.GetBool(f.Name)
		case FlagRequireLowercase:
			cfg.Policy.RequireLowercase, err = fs.GetBool(f.Name)
		case FlagRequireDigit:
			cfg.Policy.RequireDigit, err = fs.GetBool(f.Name)
		case FlagRequireSymbol:
			cfg.Policy.RequireSymbol, err = fs.GetBool(f.Name)
		case FlagTrackTimestamps:
			cfg.TrackTimestamps, err = fs.GetBool(f.Name)
		case FlagPrefillLoginEmail:
			cfg.PrefillLoginEmail, err = fs.GetBool(f.Name)
		case FlagLogFile:
			cfg.LogFile, err = fs.GetString(f.Name)
		case FlagLogLevel:
			cfg.LogLevel, err = fs.GetString(f.Name)
		case FlagLogFormat:
			cfg.LogFormat, err = fs.GetString(f.Name)
		}
	})
	return err
}
