// Package config loads runtime configuration for authfront.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with --config / -c. Files ending in
//     .toml are decoded as TOML, anything else as JSON.
//  3. Command-line flags, but only those the user actually set.
//
// # File schema
//
// Durations are strings such as "1s" or "1500ms"; JSON also accepts integer
// nanoseconds. Keys left out of the file keep their default.
//
//	{
//	  "context_id": "tab-1",
//	  "state_file": "",
//	  "latency": "1s",
//	  "popup_delay": "2s",
//	  "signup_redirect_delay": "2s",
//	  "min_password_length": 8,
//	  "require_uppercase": true,
//	  "require_lowercase": true,
//	  "require_digit": true,
//	  "require_symbol": true,
//	  "track_timestamps": true,
//	  "prefill_login_email": true,
//	  "log_file": "",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// An empty context id is replaced with a random UUID, so every run without
// one gets a fresh in-memory store.
package config
