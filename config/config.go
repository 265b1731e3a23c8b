package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. GRIDVIEW_WINDOW_DEBOUNCE_MS
const EnvPrefix = "GRIDVIEW"

// Config is the complete gridview configuration
type Config struct {
	Window   WindowConfig   `mapstructure:"window"`
	Terminal TerminalConfig `mapstructure:"terminal"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Layout   LayoutConfig   `mapstructure:"layout"`
}

// WindowConfig controls render loop timing
type WindowConfig struct {
	// DebounceMs is how long the size must hold before a settled redraw
	DebounceMs int `mapstructure:"debounce_ms"`
	// PollMs is the terminal size polling interval
	PollMs int `mapstructure:"poll_ms"`
	// IdleSleepMs is the loop sleep when no key is pending
	IdleSleepMs int `mapstructure:"idle_sleep_ms"`
	// StopTimeoutMs bounds the wait for background tasks on exit
	StopTimeoutMs int `mapstructure:"stop_timeout_ms"`
}

// TerminalConfig selects the terminal backend
type TerminalConfig struct {
	// Backend: "auto", "ansi" or "tcell"
	Backend string `mapstructure:"backend"`
}

// LoggingConfig controls the debug log file
// Logs never go to stdout or stderr, those belong to the screen
type LoggingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Level   string `mapstructure:"level"`
	// Format: "text" or "json"
	Format string `mapstructure:"format"`
}

// LayoutConfig points at the layout document
type LayoutConfig struct {
	// File is a YAML layout document; empty uses the built-in demo layout
	File string `mapstructure:"file"`
	// Watch reloads the document when it changes on disk
	Watch bool `mapstructure:"watch"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			DebounceMs:    200,
			PollMs:        150,
			IdleSleepMs:   20,
			StopTimeoutMs: 500,
		},
		Terminal: TerminalConfig{
			Backend: "auto",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Path:    filepath.Join("logs", "gridview.log"),
			Level:   "info",
			Format:  "text",
		},
		Layout: LayoutConfig{
			Watch: true,
		},
	}
}

func (c *WindowConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

func (c *WindowConfig) PollInterval() time.Duration {
	return time.Duration(c.PollMs) * time.Millisecond
}

func (c *WindowConfig) IdleSleep() time.Duration {
	return time.Duration(c.IdleSleepMs) * time.Millisecond
}

func (c *WindowConfig) StopTimeout() time.Duration {
	return time.Duration(c.StopTimeoutMs) * time.Millisecond
}

// SetDefaults registers every key's default on v
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("window.debounce_ms", defaults.Window.DebounceMs)
	v.SetDefault("window.poll_ms", defaults.Window.PollMs)
	v.SetDefault("window.idle_sleep_ms", defaults.Window.IdleSleepMs)
	v.SetDefault("window.stop_timeout_ms", defaults.Window.StopTimeoutMs)

	v.SetDefault("terminal.backend", defaults.Terminal.Backend)

	v.SetDefault("logging.enabled", defaults.Logging.Enabled)
	v.SetDefault("logging.path", defaults.Logging.Path)
	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("layout.file", defaults.Layout.File)
	v.SetDefault("layout.watch", defaults.Layout.Watch)
}

// New returns a viper instance with defaults, environment overrides and the
// config file loaded. An explicit cfgFile must exist; without one the search
// path is ConfigDir() then the working directory, and a missing file is fine
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("gridview")
		v.SetConfigType("toml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Load decodes v into a Config and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the user config directory for gridview
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "gridview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gridview"
	}
	return filepath.Join(home, ".config", "gridview")
}
