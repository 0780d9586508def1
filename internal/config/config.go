// Package config loads orderbot settings from a YAML file, a .env file and
// ORDERBOT_* environment variables, in increasing order of precedence.
package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit config path is given and it exists.
const DefaultFile = "orderbot.yaml"

// Store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Order trackers used by CHECK_STATUS.
const (
	TrackerMock   = "mock"
	TrackerOrders = "orders"
)

type RemoteConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type StoreConfig struct {
	Backend    string        `yaml:"backend"`
	Redis      RedisConfig   `yaml:"redis"`
	SessionTTL time.Duration `yaml:"session_ttl"`
	LockTTL    time.Duration `yaml:"lock_ttl"`

	// EncryptionKey is a 32-byte AES key, base64 or hex encoded. Empty disables encryption.
	EncryptionKey string `yaml:"encryption_key"`
}

type CatalogConfig struct {
	Dir string `yaml:"dir"`
}

type OrdersConfig struct {
	Dir     string `yaml:"dir"`
	MaskPII bool   `yaml:"mask_pii"`
}

type DialogueConfig struct {
	HandoffLink         string `yaml:"handoff_link"`
	ClearDraftOnConfirm bool   `yaml:"clear_draft_on_confirm"`

	// Tracker selects the status lookup: the canned mock or the recorded orders.
	Tracker string `yaml:"tracker"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the full application configuration.
type Config struct {
	Remote     RemoteConfig   `yaml:"remote"`
	ReplyDelay time.Duration  `yaml:"reply_delay"`
	Server     ServerConfig   `yaml:"server"`
	Store      StoreConfig    `yaml:"store"`
	Catalog    CatalogConfig  `yaml:"catalog"`
	Orders     OrdersConfig   `yaml:"orders"`
	Dialogue   DialogueConfig `yaml:"dialogue"`
	Log        LogConfig      `yaml:"log"`
}

// Default returns the built-in configuration: local-only, in-memory, port 8080.
func Default() Config {
	return Config{
		Remote: RemoteConfig{Timeout: 10 * time.Second},
		Server: ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}},
		Store: StoreConfig{
			Backend: BackendMemory,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "orderbot:session:"},
			LockTTL: 30 * time.Second,
		},
		Dialogue: DialogueConfig{Tracker: TrackerMock},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. path may be empty, in which case DefaultFile
// is used if present. envFiles default to ".env"; missing env files are ignored.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	c.Remote.URL = getEnvDefault("ORDERBOT_REMOTE_URL", c.Remote.URL)
	c.Catalog.Dir = getEnvDefault("ORDERBOT_CATALOG_DIR", c.Catalog.Dir)
	c.Orders.Dir = getEnvDefault("ORDERBOT_ORDERS_DIR", c.Orders.Dir)
	c.Orders.MaskPII = getEnvBoolDefault("ORDERBOT_MASK_PII", c.Orders.MaskPII)
	c.Store.Backend = getEnvDefault("ORDERBOT_STORE", c.Store.Backend)
	c.Store.Redis.Addr = getEnvDefault("ORDERBOT_REDIS_ADDR", c.Store.Redis.Addr)
	c.Store.Redis.Password = getEnvDefault("ORDERBOT_REDIS_PASSWORD", c.Store.Redis.Password)
	c.Store.Redis.Prefix = getEnvDefault("ORDERBOT_REDIS_PREFIX", c.Store.Redis.Prefix)
	c.Store.EncryptionKey = getEnvDefault("ORDERBOT_ENCRYPTION_KEY", c.Store.EncryptionKey)
	c.Server.AllowedOrigins = getEnvListDefault("ORDERBOT_ALLOWED_ORIGINS", c.Server.AllowedOrigins)
	c.Dialogue.HandoffLink = getEnvDefault("ORDERBOT_HANDOFF_LINK", c.Dialogue.HandoffLink)
	c.Dialogue.ClearDraftOnConfirm = getEnvBoolDefault("ORDERBOT_CLEAR_DRAFT", c.Dialogue.ClearDraftOnConfirm)
	c.Dialogue.Tracker = getEnvDefault("ORDERBOT_TRACKER", c.Dialogue.Tracker)
	c.Log.Level = getEnvDefault("ORDERBOT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvDefault("ORDERBOT_LOG_FORMAT", c.Log.Format)

	var err error
	if c.Server.Port, err = getEnvInt("ORDERBOT_PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Store.Redis.DB, err = getEnvInt("ORDERBOT_REDIS_DB", c.Store.Redis.DB); err != nil {
		return err
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"ORDERBOT_REMOTE_TIMEOUT", &c.Remote.Timeout},
		{"ORDERBOT_REPLY_DELAY", &c.ReplyDelay},
		{"ORDERBOT_SESSION_TTL", &c.Store.SessionTTL},
		{"ORDERBOT_LOCK_TTL", &c.Store.LockTTL},
	}
	for _, d := range durations {
		if *d.dst, err = getEnvDuration(d.key, *d.dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.Store.Backend, BackendMemory, BackendRedis)
	}
	switch c.Dialogue.Tracker {
	case TrackerMock, TrackerOrders:
	default:
		return fmt.Errorf("unknown tracker %q (want %s or %s)", c.Dialogue.Tracker, TrackerMock, TrackerOrders)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.ReplyDelay < 0 {
		return errors.New("reply_delay must not be negative")
	}
	if _, err := c.EncryptionKeyBytes(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeyBytes decodes Store.EncryptionKey. It returns nil when encryption is off.
func (c Config) EncryptionKeyBytes() ([]byte, error) {
	raw := strings.TrimSpace(c.Store.EncryptionKey)
	if raw == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		key, err = base64.StdEncoding.DecodeString(raw)
	}
	if err != nil {
		return nil, errors.New("encryption_key must be hex or base64")
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvListDefault(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return def
}

func getEnvBoolDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
