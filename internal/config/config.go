package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	// Chat server socket
	ServerURL string `mapstructure:"server_url"`

	// Frame sampling
	Quality         int           `mapstructure:"quality"`
	SampleInterval  time.Duration `mapstructure:"sample_interval"`
	PreviewInterval time.Duration `mapstructure:"preview_interval"`

	// Capture sources
	Kind         string `mapstructure:"kind"`
	DisplayIndex int    `mapstructure:"display_index"`
	CameraWidth  int    `mapstructure:"camera_width"`
	CameraHeight int    `mapstructure:"camera_height"`

	// Input bar
	MicSupported bool `mapstructure:"mic_supported"`

	// Window
	WindowWidth  int `mapstructure:"window_width"`
	WindowHeight int `mapstructure:"window_height"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerURL:       "ws://localhost:5000/ws",
		Quality:         70,
		SampleInterval:  time.Second,
		PreviewInterval: 100 * time.Millisecond,
		Kind:            "screen",
		DisplayIndex:    0,
		CameraWidth:     640,
		CameraHeight:    480,
		WindowWidth:     1280,
		WindowHeight:    720,
		LogLevel:        "info",
		LogFormat:       "console",
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"server":    "server_url",
	"quality":   "quality",
	"interval":  "sample_interval",
	"kind":      "kind",
	"display":   "display_index",
	"log-level": "log_level",
}

// Load reads configuration from defaults, an optional file, ADACAST_*
// environment variables and the given flags, in increasing precedence.
// An empty path searches for adacast.yaml in the working directory.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("adacast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ADACAST")
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server_url", cfg.ServerURL)
	v.SetDefault("quality", cfg.Quality)
	v.SetDefault("sample_interval", cfg.SampleInterval)
	v.SetDefault("preview_interval", cfg.PreviewInterval)
	v.SetDefault("kind", cfg.Kind)
	v.SetDefault("display_index", cfg.DisplayIndex)
	v.SetDefault("camera_width", cfg.CameraWidth)
	v.SetDefault("camera_height", cfg.CameraHeight)
	v.SetDefault("mic_supported", cfg.MicSupported)
	v.SetDefault("window_width", cfg.WindowWidth)
	v.SetDefault("window_height", cfg.WindowHeight)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("log_format", cfg.LogFormat)
}

// Validate clamps numeric settings into range and rejects values that cannot
// be fixed up.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("server_url must not be empty")
	}
	if c.Kind != "camera" && c.Kind != "screen" {
		return fmt.Errorf("kind must be camera or screen, got %q", c.Kind)
	}
	if c.Quality < 1 {
		c.Quality = 1
	}
	if c.Quality > 100 {
		c.Quality = 100
	}
	if c.SampleInterval < 100*time.Millisecond {
		c.SampleInterval = 100 * time.Millisecond
	}
	if c.PreviewInterval < 10*time.Millisecond {
		c.PreviewInterval = 10 * time.Millisecond
	}
	if c.DisplayIndex < 0 {
		c.DisplayIndex = 0
	}
	if c.CameraWidth <= 0 {
		c.CameraWidth = 640
	}
	if c.CameraHeight <= 0 {
		c.CameraHeight = 480
	}
	if c.WindowWidth < 640 {
		c.WindowWidth = 640
	}
	if c.WindowHeight < 400 {
		c.WindowHeight = 400
	}
	return nil
}
