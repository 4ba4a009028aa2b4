package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/oomph-ac/pacer/frequency"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	KeyPreventPacketFrequency = "prevent-packet-frequency"
	KeyFrequencyDefault       = "generic-packet-frequency-default"
	KeyFrequencyLimits        = "generic-packet-frequency-limit"
	KeyPreventTimerCheats     = "prevent-timer-cheats"
	KeyEnableBypass           = "enable-bypass-permission"
	KeyLocalAddress           = "local-address"
	KeyRemoteAddress          = "remote-address"
	KeyMetricsAddress         = "metrics-address"
	KeyBanDuration            = "ban-duration"
	KeyLogLevel               = "log-level"
)

const (
	DefaultLocalAddress  = "0.0.0.0:19132"
	DefaultRemoteAddress = "127.0.0.1:19133"
	DefaultBanDuration   = 10 * time.Minute
	DefaultLogLevel      = "info"
)

// Config is a loaded configuration file. Every lookup falls back to a documented default when the key is
// missing or holds a value of the wrong type, so a Config never fails at lookup time.
type Config struct {
	values   map[string]any
	problems []error
	freq     *frequency.Options
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return newConfig(map[string]any{})
}

// Load reads the configuration file at path. The format is picked from the extension: .yaml and .yml are
// decoded as YAML, .toml as TOML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes configuration data in the format named by ext (".yaml", ".yml" or ".toml").
func Parse(data []byte, ext string) (*Config, error) {
	values := map[string]any{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("decode yaml config: %w", err)
		}
		if values == nil {
			values = map[string]any{}
		}
	case ".toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("decode toml config: %w", err)
		}
		values = tree.ToMap()
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return newConfig(values), nil
}

func newConfig(values map[string]any) *Config {
	c := &Config{values: values}

	limits, errs := frequency.ParseLimits(c.StringList(KeyFrequencyLimits))
	c.problems = append(c.problems, errs...)
	c.freq = &frequency.Options{
		Enabled:      c.Bool(KeyPreventPacketFrequency, true),
		DefaultLimit: c.Int(KeyFrequencyDefault, frequency.DefaultLimit),
		Limits:       limits,
		TimerEnabled: c.Bool(KeyPreventTimerCheats, true),
	}
	return c
}

// Frequency returns the frequency engine options of the configuration. The options are resolved once, so
// the same pointer is returned on every call.
func (c *Config) Frequency() *frequency.Options {
	return c.freq
}

// Problems returns the problems found while resolving the configuration, such as malformed frequency limit
// entries. None of them are fatal.
func (c *Config) Problems() []error {
	return c.problems
}

// Has returns true if the key is present in the file.
func (c *Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Bool returns the boolean value of key, or def.
func (c *Config) Bool(key string, def bool) bool {
	switch v := c.values[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Int returns the integer value of key, or def.
func (c *Config) Int(key string, def int) int {
	switch v := c.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// String returns the string value of key, or def.
func (c *Config) String(key, def string) string {
	if v, ok := c.values[key].(string); ok {
		return v
	}
	return def
}

// StringList returns the list value of key. Non string elements are formatted as strings. A missing key
// results in an empty list.
func (c *Config) StringList(key string) []string {
	switch v := c.values[key].(type) {
	case []string:
		return v
	case []any:
		list := make([]string, 0, len(v))
		for _, e := range v {
			list = append(list, fmt.Sprint(e))
		}
		return list
	}
	return nil
}

// Duration returns the duration value of key, or def. Strings are parsed with time.ParseDuration and
// numbers are taken as seconds.
func (c *Config) Duration(key string, def time.Duration) time.Duration {
	switch v := c.values[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int, int64, uint64, float64:
		return time.Duration(c.Int(key, 0)) * time.Second
	}
	return def
}

// LocalAddress is the address players connect to.
func (c *Config) LocalAddress() string {
	return c.String(KeyLocalAddress, DefaultLocalAddress)
}

// RemoteAddress is the address of the server players are forwarded to.
func (c *Config) RemoteAddress() string {
	return c.String(KeyRemoteAddress, DefaultRemoteAddress)
}

// MetricsAddress is the address the prometheus endpoint listens on. Empty disables it.
func (c *Config) MetricsAddress() string {
	return c.String(KeyMetricsAddress, "")
}

// BanDuration is how long a banned identity is refused.
func (c *Config) BanDuration() time.Duration {
	return c.Duration(KeyBanDuration, DefaultBanDuration)
}

// BypassEnabled returns true if players with the bypass permission skip the engine.
func (c *Config) BypassEnabled() bool {
	return c.Bool(KeyEnableBypass, false)
}

// LogLevel ...
func (c *Config) LogLevel() string {
	return c.String(KeyLogLevel, DefaultLogLevel)
}

// file is the layout of the default configuration file.
type file struct {
	PreventPacketFrequency bool     `yaml:"prevent-packet-frequency" toml:"prevent-packet-frequency"`
	FrequencyDefault       int      `yaml:"generic-packet-frequency-default" toml:"generic-packet-frequency-default"`
	FrequencyLimits        []string `yaml:"generic-packet-frequency-limit" toml:"generic-packet-frequency-limit"`
	PreventTimerCheats     bool     `yaml:"prevent-timer-cheats" toml:"prevent-timer-cheats"`
	EnableBypass           bool     `yaml:"enable-bypass-permission" toml:"enable-bypass-permission"`
	LocalAddress           string   `yaml:"local-address" toml:"local-address"`
	RemoteAddress          string   `yaml:"remote-address" toml:"remote-address"`
	MetricsAddress         string   `yaml:"metrics-address" toml:"metrics-address"`
	BanDuration            string   `yaml:"ban-duration" toml:"ban-duration"`
	LogLevel               string   `yaml:"log-level" toml:"log-level"`
}

// WriteDefault creates the default configuration file at path, in the format picked from its extension.
// It returns an error if the file already exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	f := file{
		PreventPacketFrequency: true,
		FrequencyDefault:       frequency.DefaultLimit,
		FrequencyLimits:        []string{"Text:10", "CommandRequest:10"},
		PreventTimerCheats:     true,
		LocalAddress:           DefaultLocalAddress,
		RemoteAddress:          DefaultRemoteAddress,
		BanDuration:            DefaultBanDuration.String(),
		LogLevel:               DefaultLogLevel,
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
	case ".toml":
		data, err = toml.Marshal(f)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("create default config: %w", err)
	}
	return nil
}
