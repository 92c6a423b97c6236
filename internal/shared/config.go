package shared

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Search  SearchConfig  `toml:"search"`
	Display DisplayConfig `toml:"display"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
}

// BackendConfig points at the chord recommender API.
type BackendConfig struct {
	BaseURL           string  `toml:"base_url"`
	WebURL            string  `toml:"web_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Timeout returns the request timeout as a [time.Duration].
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// SearchConfig contains search defaults.
type SearchConfig struct {
	Limit int    `toml:"limit"`
	Genre string `toml:"genre"`
}

// DisplayConfig contains the colors used to render songs.
type DisplayConfig struct {
	KnownColor   string `toml:"known_color"`
	MissingColor string `toml:"missing_color"`
	TitleColor   string `toml:"title_color"`
	MutedColor   string `toml:"muted_color"`
	StarColor    string `toml:"star_color"`
}

// ExportConfig contains bulk export defaults.
type ExportConfig struct {
	Format            string  `toml:"format"`
	OutputDir         string  `toml:"output_dir"`
	Workers           int     `toml:"workers"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LogLevel parses the configured level, falling back to info.
func (l LogConfig) LogLevel() log.Level {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate rejects values the client cannot work with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: backend.base_url %q is not an absolute URL", ErrInvalidConfig, c.Backend.BaseURL)
	}
	if c.Backend.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: backend.timeout_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("%w: search.limit must not be negative", ErrInvalidConfig)
	}
	if c.Export.Workers < 0 {
		return fmt.Errorf("%w: export.workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
