package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"postgrip/internal/eventbus"
)

// EnvPrefix is the prefix for environment overrides, e.g. POSTGRIP_API_BASE_URL
const EnvPrefix = "POSTGRIP"

// DefaultBaseURL is the public API the browser reads from
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Config represents the application configuration
type Config struct {
	Version   int             `mapstructure:"version" toml:"version"`
	API       APIConfig       `mapstructure:"api" toml:"api"`
	Search    SearchConfig    `mapstructure:"search" toml:"search"`
	Query     QueryConfig     `mapstructure:"query" toml:"query"`
	Cache     CacheConfig     `mapstructure:"cache" toml:"cache"`
	Log       LogConfig       `mapstructure:"log" toml:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" toml:"telemetry"`
	UI        UISettings      `mapstructure:"ui" toml:"ui"`
}

// APIConfig describes the remote data source
type APIConfig struct {
	BaseURL   string   `mapstructure:"base_url" toml:"base_url"`
	Timeout   Duration `mapstructure:"timeout" toml:"timeout"`
	RateLimit float64  `mapstructure:"rate_limit" toml:"rate_limit"` // requests per second, 0 disables
	Burst     int      `mapstructure:"burst" toml:"burst"`
}

// SearchConfig controls the search box
type SearchConfig struct {
	Delay Duration `mapstructure:"delay" toml:"delay"`
}

// QueryConfig controls cache freshness
type QueryConfig struct {
	StaleTime Duration `mapstructure:"stale_time" toml:"stale_time"`
	CacheTTL  Duration `mapstructure:"cache_ttl" toml:"cache_ttl"`
}

// CacheConfig selects the response cache backend
type CacheConfig struct {
	Backend string      `mapstructure:"backend" toml:"backend"` // memory or redis
	Redis   RedisConfig `mapstructure:"redis" toml:"redis"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address  string `mapstructure:"address" toml:"address"`
	Password string `mapstructure:"password" toml:"password"`
	DB       int    `mapstructure:"db" toml:"db"`
	Prefix   string `mapstructure:"prefix" toml:"prefix"`
}

// LogConfig controls the log file
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
	JSON  bool   `mapstructure:"json" toml:"json"`
}

// TelemetryConfig controls trace/metric export
type TelemetryConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	File    string `mapstructure:"file" toml:"file"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowBodies bool `mapstructure:"show_bodies" toml:"show_bodies"`
}

// Duration is a time.Duration that reads and writes as "400ms" in TOML and env
type Duration struct {
	time.Duration
}

// D wraps a time.Duration
func D(d time.Duration) Duration { return Duration{d} }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service rooted in the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "postgrip", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// WithBus attaches an event bus to a config service
func WithBus(svc ConfigService, bus eventbus.EventBus) ConfigService {
	if cs, ok := svc.(*configService); ok {
		cs.bus = bus
	}
	return svc
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file; a missing file yields defaults
func (cs *configService) Load() (*Config, error) {
	cfg, err := load(cs.filePath, true)
	if err != nil {
		return nil, err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath, BaseURL: cfg.API.BaseURL})
	}
	return cfg, nil
}

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path, which must exist
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	return load(path, false)
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func load(path string, allowMissing bool) (*Config, error) {
	// .env only seeds the process environment; a missing file is fine
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to read .env: %w", err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	} else if !allowMissing {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout.String())
	v.SetDefault("api.rate_limit", d.API.RateLimit)
	v.SetDefault("api.burst", d.API.Burst)
	v.SetDefault("search.delay", d.Search.Delay.String())
	v.SetDefault("query.stale_time", d.Query.StaleTime.String())
	v.SetDefault("query.cache_ttl", d.Query.CacheTTL.String())
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.redis.address", d.Cache.Redis.Address)
	v.SetDefault("cache.redis.password", d.Cache.Redis.Password)
	v.SetDefault("cache.redis.db", d.Cache.Redis.DB)
	v.SetDefault("cache.redis.prefix", d.Cache.Redis.Prefix)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	v.SetDefault("telemetry.file", d.Telemetry.File)
	v.SetDefault("ui.show_bodies", d.UI.ShowBodies)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api base_url must be an absolute http(s) URL, got %q", c.API.BaseURL)
	}

	if c.API.Timeout.Duration <= 0 {
		return errors.New("api timeout must be positive")
	}

	if c.API.RateLimit < 0 {
		return errors.New("api rate_limit cannot be negative")
	}

	if c.Search.Delay.Duration < 0 {
		return errors.New("search delay cannot be negative")
	}

	if c.Query.StaleTime.Duration < 0 || c.Query.CacheTTL.Duration < 0 {
		return errors.New("query stale_time and cache_ttl cannot be negative")
	}

	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	default:
		return fmt.Errorf("cache backend must be 'memory' or 'redis', got %q", c.Cache.Backend)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   D(10 * time.Second),
			RateLimit: 10,
			Burst:     5,
		},
		Search: SearchConfig{
			Delay: D(400 * time.Millisecond),
		},
		Query: QueryConfig{
			StaleTime: D(0),
			CacheTTL:  D(5 * time.Minute),
		},
		Cache: CacheConfig{
			Backend: "memory",
			Redis: RedisConfig{
				Address: "localhost:6379",
				Prefix:  "postgrip",
			},
		},
		Log: LogConfig{
			Level: "info",
			File:  "postgrip.log",
		},
		Telemetry: TelemetryConfig{
			File: "postgrip-telemetry.jsonl",
		},
		UI: UISettings{
			ShowBodies: true,
		},
	}
}
