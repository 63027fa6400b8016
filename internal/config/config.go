// Package config loads fnplot's settings from defaults, an optional YAML
// file, and FNPLOT_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/zephyrtronium/fnplot"
)

// EnvPrefix is the prefix of environment variables that override settings.
// The key server.addr is read from FNPLOT_SERVER_ADDR.
const EnvPrefix = "FNPLOT"

// Config is the complete set of settings.
type Config struct {
	Server    Server
	Sampling  Sampling
	Limits    Limits
	Functions Functions
	Render    Render
	Log       Log
	Metrics   Metrics

	v *viper.Viper
}

// Server configures the HTTP listener.
type Server struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// Mode is the gin mode: debug, release, or test.
	Mode string
}

// Sampling bounds the number of points per series.
type Sampling struct {
	MinSamples     int
	MaxSamples     int
	DefaultSamples int
}

// Limits bounds request inputs.
type Limits struct {
	MaxExprLen int
}

// Functions adjusts the whitelist of names in expressions.
type Functions struct {
	// Disabled lists default functions and constants that expressions may
	// not use.
	Disabled []string
}

// Render configures plot images.
type Render struct {
	// Width and Height are the image size in pixels.
	Width        int
	Height       int
	CacheControl string
}

// Log configures the logger.
type Log struct {
	Level  string
	Format string
}

// Metrics configures Prometheus instrumentation.
type Metrics struct {
	Enabled   bool
	Namespace string
}

// setDefaults installs the default value of every key. Keys without a
// default are invisible to environment overrides.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.mode", "release")

	v.SetDefault("sampling.min_samples", fnplot.DefaultSampler.MinSamples)
	v.SetDefault("sampling.max_samples", fnplot.DefaultSampler.MaxSamples)
	v.SetDefault("sampling.default_samples", 1000)

	v.SetDefault("limits.max_expr_len", 1000)
	v.SetDefault("functions.disabled", []string{})

	v.SetDefault("render.width", 800)
	v.SetDefault("render.height", 500)
	v.SetDefault("render.cache_control", "no-store")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "fnplot")
}

// Load reads settings. If path is empty, only defaults and the environment
// apply. The result is validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := decode(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the default settings, ignoring the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return decode(v)
}

func decode(v *viper.Viper) *Config {
	return &Config{
		Server: Server{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			Mode:            v.GetString("server.mode"),
		},
		Sampling: Sampling{
			MinSamples:     v.GetInt("sampling.min_samples"),
			MaxSamples:     v.GetInt("sampling.max_samples"),
			DefaultSamples: v.GetInt("sampling.default_samples"),
		},
		Limits: Limits{
			MaxExprLen: v.GetInt("limits.max_expr_len"),
		},
		Functions: Functions{
			Disabled: splitList(v.GetStringSlice("functions.disabled")),
		},
		Render: Render{
			Width:        v.GetInt("render.width"),
			Height:       v.GetInt("render.height"),
			CacheControl: v.GetString("render.cache_control"),
		},
		Log: Log{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Metrics: Metrics{
			Enabled:   v.GetBool("metrics.enabled"),
			Namespace: v.GetString("metrics.namespace"),
		},
		v: v,
	}
}

// splitList accepts both YAML lists and comma-separated environment values.
func splitList(in []string) []string {
	var r []string
	for _, s := range in {
		for _, f := range strings.Split(s, ",") {
			if f = strings.TrimSpace(f); f != "" {
				r = append(r, f)
			}
		}
	}
	return r
}

// Validate reports every inconsistent setting.
func (c *Config) Validate() error {
	var errs []error
	bad := func(key string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %s", key, fmt.Sprintf(format, args...)))
	}

	if c.Server.Addr == "" {
		bad("server.addr", "must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		bad("server.read_timeout", "must not be negative, got %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		bad("server.write_timeout", "must not be negative, got %v", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		bad("server.shutdown_timeout", "must be positive, got %v", c.Server.ShutdownTimeout)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		bad("server.mode", "must be debug, release, or test, got %q", c.Server.Mode)
	}

	s := c.Sampling
	if s.MinSamples < 1 {
		bad("sampling.min_samples", "must be at least 1, got %d", s.MinSamples)
	}
	if s.MaxSamples < s.MinSamples {
		bad("sampling.max_samples", "must be at least sampling.min_samples (%d), got %d", s.MinSamples, s.MaxSamples)
	}
	if s.DefaultSamples < s.MinSamples || s.DefaultSamples > s.MaxSamples {
		bad("sampling.default_samples", "must be between %d and %d, got %d", s.MinSamples, s.MaxSamples, s.DefaultSamples)
	}

	if c.Limits.MaxExprLen < 1 {
		bad("limits.max_expr_len", "must be positive, got %d", c.Limits.MaxExprLen)
	}
	known := make(map[string]bool)
	for _, name := range fnplot.DefaultFuncs() {
		known[name] = true
	}
	for _, name := range c.Functions.Disabled {
		if !known[name] {
			bad("functions.disabled", "unknown function %q", name)
		}
	}

	if c.Render.Width < 1 || c.Render.Width > 4096 {
		bad("render.width", "must be between 1 and 4096, got %d", c.Render.Width)
	}
	if c.Render.Height < 1 || c.Render.Height > 4096 {
		bad("render.height", "must be between 1 and 4096, got %d", c.Render.Height)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		bad("log.level", "%v", err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		bad("log.format", "must be json or text, got %q", c.Log.Format)
	}

	if c.Metrics.Enabled && !validName(c.Metrics.Namespace) {
		bad("metrics.namespace", "%q is not a valid metric name prefix", c.Metrics.Namespace)
	}

	if len(errs) != 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// validName reports whether s is usable as a Prometheus namespace.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// File returns the config file in use, or the empty string if there is none.
func (c *Config) File() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Watch calls fn with the new settings each time the config file changes.
// If the new settings are invalid, fn receives them along with the
// validation error. Watch returns false without watching if no config file
// is in use.
func (c *Config) Watch(fn func(*Config, error)) bool {
	if c.File() == "" {
		return false
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		c.changed(e, fn)
	})
	c.v.WatchConfig()
	return true
}

// changed handles a file event after viper has re-read the file.
func (c *Config) changed(e fsnotify.Event, fn func(*Config, error)) {
	if e.Has(fsnotify.Remove) {
		return
	}
	next := decode(c.v)
	fn(next, next.Validate())
}

// Sampler returns a sampler bounded by the sampling settings.
func (c *Config) Sampler() fnplot.Sampler {
	return fnplot.Sampler{MinSamples: c.Sampling.MinSamples, MaxSamples: c.Sampling.MaxSamples}
}

// ParseOptions returns the parse options that apply the function settings.
func (c *Config) ParseOptions() []fnplot.ParseOption {
	if len(c.Functions.Disabled) == 0 {
		return nil
	}
	return []fnplot.ParseOption{fnplot.ParsingPreset(fnplot.DisableFuncs(c.Functions.Disabled...))}
}
