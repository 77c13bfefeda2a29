// Package config provides configuration management for the SQLClass CLI.
package config

import "time"

// UIConfig holds configuration for the web UI server.
type UIConfig struct {
	Port int `koanf:"port"`
	// SessionSecret signs the session cookie. Empty means a random secret
	// per process, which logs everyone out on restart.
	SessionSecret string        `koanf:"session_secret"`
	SessionTTL    time.Duration `koanf:"session_ttl"`
	QueryTimeout  time.Duration `koanf:"query_timeout"`
	MaxRows       int           `koanf:"max_rows"`
	Watch         bool          `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	Engine       string        `koanf:"engine"`
	Seed         uint64        `koanf:"seed"` // 0 = unseeded
	QueryTimeout time.Duration `koanf:"query_timeout"`
	MaxRows      int           `koanf:"max_rows"`
	ForeignKeys  bool          `koanf:"foreign_keys"`
	Verbose      bool          `koanf:"verbose"`
	OutputFormat string        `koanf:"output"`
	LogFormat    string        `koanf:"log_format"`
	UI           UIConfig      `koanf:"ui"`
}

// Default configuration values.
const (
	DefaultEngine    = "sqlite"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat = "text"

	DefaultUIPort         = 8765
	DefaultSessionTTL     = 30 * time.Minute
	DefaultUIQueryTimeout = 30 * time.Second
	DefaultUIMaxRows      = 1000
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Engine:       DefaultEngine,
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		UI: UIConfig{
			Port:         DefaultUIPort,
			SessionTTL:   DefaultSessionTTL,
			QueryTimeout: DefaultUIQueryTimeout,
			MaxRows:      DefaultUIMaxRows,
		},
	}
}

// Effective is the YAML view printed by `sqlclass config`. Durations are
// rendered as strings such as "30s".
type Effective struct {
	Engine       string      `yaml:"engine"`
	Seed         uint64      `yaml:"seed"`
	QueryTimeout string      `yaml:"query_timeout"`
	MaxRows      int         `yaml:"max_rows"`
	ForeignKeys  bool        `yaml:"foreign_keys"`
	Verbose      bool        `yaml:"verbose"`
	Output       string      `yaml:"output"`
	LogFormat    string      `yaml:"log_format"`
	UI           EffectiveUI `yaml:"ui"`
}

// EffectiveUI is the YAML view of UIConfig. The session secret is masked.
type EffectiveUI struct {
	Port          int    `yaml:"port"`
	SessionSecret string `yaml:"session_secret"`
	SessionTTL    string `yaml:"session_ttl"`
	QueryTimeout  string `yaml:"query_timeout"`
	MaxRows       int    `yaml:"max_rows"`
	Watch         bool   `yaml:"watch"`
}

// Effective returns the printable view of c.
func (c *Config) Effective() Effective {
	secret := ""
	if c.UI.SessionSecret != "" {
		secret = "********"
	}
	return Effective{
		Engine:       c.Engine,
		Seed:         c.Seed,
		QueryTimeout: c.QueryTimeout.String(),
		MaxRows:      c.MaxRows,
		ForeignKeys:  c.ForeignKeys,
		Verbose:      c.Verbose,
		Output:       c.OutputFormat,
		LogFormat:    c.LogFormat,
		UI: EffectiveUI{
			Port:          c.UI.Port,
			SessionSecret: secret,
			SessionTTL:    c.UI.SessionTTL.String(),
			QueryTimeout:  c.UI.QueryTimeout.String(),
			MaxRows:       c.UI.MaxRows,
			Watch:         c.UI.Watch,
		},
	}
}
