package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Operating modes select the token verification strategy.
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	IdleTimeout     Duration `toml:"idle_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	URL          string `toml:"url"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// AuthConfig contains bearer token verification settings.
type AuthConfig struct {
	Mode         string              `toml:"mode"`
	Domain       string              `toml:"domain"`
	Audience     string              `toml:"audience"`
	JWKSCacheTTL Duration            `toml:"jwks_cache_ttl"`
	HTTPTimeout  Duration            `toml:"http_timeout"`
	Tokens       map[string][]string `toml:"tokens"`
	Client       ClientConfig        `toml:"client"`
}

// ClientConfig holds machine-to-machine credentials used to request access tokens.
type ClientConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a [time.Duration] decoded from strings such as "5s" or "1h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// A tokens table in the file replaces the default roles instead of merging with them.
	if md.IsDefined("auth", "tokens") {
		tokens := map[string][]string{}
		for key, perms := range config.Auth.Tokens {
			if md.IsDefined("auth", "tokens", key) {
				tokens[key] = perms
			}
		}
		config.Auth.Tokens = tokens
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

// ExampleConfig returns the embedded example configuration.
func ExampleConfig() []byte {
	return exampleConf
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

// LoadEnvFile loads variables from dotenv files into the process environment.
// Missing files are ignored; variables already set are never overwritten.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values with environment variables.
//
// Recognised variables: AUTH0_DOMAIN, API_AUDIENCE, DATABASE_URL, APP_ENV, PORT, LOG_LEVEL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup("AUTH0_DOMAIN"); ok {
		c.Auth.Domain = strings.TrimSpace(v)
	}
	if v, ok := lookup("API_AUDIENCE"); ok {
		c.Auth.Audience = strings.TrimSpace(v)
	}
	if v, ok := lookup("DATABASE_URL"); ok && v != "" {
		c.Database.URL = v
	}
	if v, ok := lookup("APP_ENV"); ok && v != "" {
		c.Auth.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}

// Validate checks the values that the server cannot start without.
func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("%w: auth.mode must be %q or %q, got %q", ErrInvalidConfig, ModeDevelopment, ModeProduction, c.Auth.Mode)
	}

	if c.Auth.Mode == ModeProduction && strings.TrimSpace(c.Auth.Audience) == "" {
		return fmt.Errorf("%w: auth.audience is required in production mode", ErrMissingConfig)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("%w: database.url is empty", ErrMissingConfig)
	}

	return nil
}
