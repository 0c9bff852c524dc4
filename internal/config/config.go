// Package config handles TOML configuration loading with sensible defaults,
// overlaid with MINIUTILS_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Env.
const EnvPrefix = "MINIUTILS"

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the top-level configuration for miniutils.
type Config struct {
	Log     LogConfig     `toml:"log"`
	Monitor MonitorConfig `toml:"monitor"`
	Format  FormatConfig  `toml:"format"`
	IP      IPConfig      `toml:"ip"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// MonitorConfig controls system and process sampling.
type MonitorConfig struct {
	Interval        Duration `toml:"interval"`
	ProcessInterval Duration `toml:"process_interval"`
	Top             int      `toml:"top"`
}

// FormatConfig controls how byte counts are printed.
type FormatConfig struct {
	Metric    bool `toml:"metric"`
	Precision int  `toml:"precision"`

	// Human is set when metric or precision came from the file, the
	// environment or a flag. Byte counts then use the spaced form.
	Human bool `toml:"-"`
}

// IPConfig controls address collapsing.
type IPConfig struct {
	MaxGap uint64 `toml:"max_gap"`
}

// Duration wraps time.Duration for TOML string parsing (e.g. "500ms", "2s").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Monitor: MonitorConfig{
			Interval:        Duration{time.Second},
			ProcessInterval: Duration{200 * time.Millisecond},
			Top:             5,
		},
		Format: FormatConfig{
			Precision: 2,
		},
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "miniutils", "config.toml")
}

// Load reads configuration from the given path, falling back to defaults
// for any unset fields. If the file does not exist, returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
	}
	cfg.Format.Human = md.IsDefined("format", "metric") || md.IsDefined("format", "precision")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every value is usable.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (valid: debug|info|warn|error)", ErrInvalid, c.Log.Level)
	}
	if c.Format.Precision < 0 || c.Format.Precision > 3 {
		return fmt.Errorf("%w: format.precision %d (valid: 0-3)", ErrInvalid, c.Format.Precision)
	}
	if c.Monitor.Interval.Duration <= 0 {
		return fmt.Errorf("%w: monitor.interval must be positive", ErrInvalid)
	}
	if c.Monitor.ProcessInterval.Duration <= 0 {
		return fmt.Errorf("%w: monitor.process_interval must be positive", ErrInvalid)
	}
	if c.Monitor.Top < 0 {
		return fmt.Errorf("%w: monitor.top %d", ErrInvalid, c.Monitor.Top)
	}
	return nil
}

// Env returns a viper instance that resolves keys such as "log.level" from
// MINIUTILS_LOG_LEVEL. Callers bind command flags to the same keys with
// BindPFlag before passing it to Overlay.
func Env() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Overlay copies every key that is set in v (through the environment or a
// changed flag) over c and validates the result.
func (c *Config) Overlay(v *viper.Viper) error {
	if v.IsSet("log.level") {
		c.Log.Level = strings.ToLower(v.GetString("log.level"))
	}
	if v.IsSet("monitor.interval") {
		c.Monitor.Interval.Duration = v.GetDuration("monitor.interval")
	}
	if v.IsSet("monitor.process_interval") {
		c.Monitor.ProcessInterval.Duration = v.GetDuration("monitor.process_interval")
	}
	if v.IsSet("monitor.top") {
		c.Monitor.Top = v.GetInt("monitor.top")
	}
	if v.IsSet("format.metric") {
		c.Format.Metric = v.GetBool("format.metric")
		c.Format.Human = true
	}
	if v.IsSet("format.precision") {
		c.Format.Precision = v.GetInt("format.precision")
		c.Format.Human = true
	}
	if v.IsSet("ip.max_gap") {
		c.IP.MaxGap = v.GetUint64("ip.max_gap")
	}
	return c.Validate()
}
