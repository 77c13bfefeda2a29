package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlclass/pkg/adapter"
)

var (
	outputModes = []string{"auto", "text", "markdown", "json"}
	logFormats  = []string{"text", "json"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !adapter.IsRegistered(c.Engine) {
		return &adapter.UnknownAdapterError{Type: c.Engine, Available: adapter.ListAdapters()}
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("query_timeout must not be negative, got %s", c.QueryTimeout)
	}
	if c.MaxRows < 0 {
		return fmt.Errorf("max_rows must not be negative, got %d", c.MaxRows)
	}
	if !oneOf(c.OutputFormat, outputModes) {
		return fmt.Errorf("invalid output %q\nHint: use one of %s", c.OutputFormat, strings.Join(outputModes, ", "))
	}
	if !oneOf(c.LogFormat, logFormats) {
		return fmt.Errorf("invalid log_format %q\nHint: use one of %s", c.LogFormat, strings.Join(logFormats, ", "))
	}
	return c.UI.Validate()
}

// Validate checks the UI settings.
func (u *UIConfig) Validate() error {
	if u.Port < 0 || u.Port > 65535 {
		return fmt.Errorf("ui.port out of range: %d", u.Port)
	}
	if u.SessionTTL < 0 {
		return fmt.Errorf("ui.session_ttl must not be negative, got %s", u.SessionTTL)
	}
	if u.QueryTimeout < 0 {
		return fmt.Errorf("ui.query_timeout must not be negative, got %s", u.QueryTimeout)
	}
	if u.MaxRows < 0 {
		return fmt.Errorf("ui.max_rows must not be negative, got %d", u.MaxRows)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
