// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobuffalo/envy"
	"github.com/gobuffalo/packr"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variables that override the configuration
const (
	EnvBackend       = "KORU_BACKEND"
	EnvDesktopWindow = "KORU_DESKTOP_WINDOW"
	EnvWindowWidth   = "KORU_WINDOW_WIDTH"
	EnvWindowHeight  = "KORU_WINDOW_HEIGHT"
	EnvLogLevel      = "KORU_LOG_LEVEL"
	EnvVulkanDebug   = "KORU_VK_DEBUG"
)

const defaultConfigFile = "default.toml"

// Resources holds the files packed into the binary
var Resources = packr.NewBox("./resources")

// Configuration defines a global engine configuration setting
type Configuration struct {
	Application ApplicationConfiguration `toml:"application"`
	Time        TimeConfiguration        `toml:"time"`
	Graphics    GraphicsConfiguration    `toml:"graphics"`
	XR          XRConfiguration          `toml:"xr"`
	Log         LogConfiguration         `toml:"log"`
}

// ApplicationConfiguration names the application
type ApplicationConfiguration struct {
	Name  string `toml:"name"`
	Title string `toml:"title"`
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int `toml:"frames_per_second"`

	// EventPollDelay is the event poll interval in milliseconds
	EventPollDelay int `toml:"event_poll_delay"`

	// RunFor stops the main loop after the given time, 0 runs until quit
	RunFor Duration `toml:"run_for"`
}

// GraphicsConfiguration selects and configures the graphics backend
type GraphicsConfiguration struct {
	Backend       string `toml:"backend"`
	DesktopWindow bool   `toml:"desktop_window"`
	WindowWidth   int    `toml:"window_width"`
	WindowHeight  int    `toml:"window_height"`
	Resizable     bool   `toml:"resizable"`

	// Debug enables API validation where the backend supports it
	Debug bool `toml:"debug"`
}

// XRConfiguration describes a statically known XR runtime
type XRConfiguration struct {
	Enabled bool `toml:"enabled"`

	// Space separated extension lists
	InstanceExtensions string `toml:"instance_extensions"`
	DeviceExtensions   string `toml:"device_extensions"`

	MinAPIVersion string `toml:"min_api_version"`
	MaxAPIVersion string `toml:"max_api_version"`
}

// LogConfiguration configures the logger
type LogConfiguration struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Duration is a time.Duration read from strings such as "5s"
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfiguration returns the configuration packed into the binary
func DefaultConfiguration() (Configuration, error) {
	var cfg Configuration
	data, err := Resources.Find(defaultConfigFile)
	if err != nil {
		return cfg, errors.New("packr.Find(): " + err.Error())
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", defaultConfigFile, err)
	}
	return cfg, nil
}

// LoadConfiguration builds the configuration from the packed defaults,
// the optional TOML file at path, the optional dotenv file at envFile and
// finally the KORU_* environment variables. Empty paths are skipped.
func LoadConfiguration(path, envFile string) (Configuration, error) {
	cfg, err := DefaultConfiguration()
	if err != nil {
		return cfg, err
	}

	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			log.WithField("key", key.String()).Warn("Unknown configuration key")
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("%s: %w", envFile, err)
		}
	}

	envy.Reload()
	if err := cfg.applyEnvironment(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Configuration) applyEnvironment() error {
	c.Graphics.Backend = envy.Get(EnvBackend, c.Graphics.Backend)
	c.Log.Level = envy.Get(EnvLogLevel, c.Log.Level)

	var err error
	if c.Graphics.DesktopWindow, err = envBool(EnvDesktopWindow, c.Graphics.DesktopWindow); err != nil {
		return err
	}
	if c.Graphics.Debug, err = envBool(EnvVulkanDebug, c.Graphics.Debug); err != nil {
		return err
	}
	if c.Graphics.WindowWidth, err = envInt(EnvWindowWidth, c.Graphics.WindowWidth); err != nil {
		return err
	}
	if c.Graphics.WindowHeight, err = envInt(EnvWindowHeight, c.Graphics.WindowHeight); err != nil {
		return err
	}
	return nil
}

func envBool(key string, fallback bool) (bool, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func envInt(key string, fallback int) (int, error) {
	raw := envy.Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

// Validate checks the values that cannot be corrected later
func (c Configuration) Validate() error {
	if c.Graphics.WindowWidth <= 0 || c.Graphics.WindowHeight <= 0 {
		return fmt.Errorf("graphics: invalid window size %dx%d",
			c.Graphics.WindowWidth, c.Graphics.WindowHeight)
	}
	if c.Time.FramesPerSecond < 0 {
		return fmt.Errorf("time: negative frames_per_second %d", c.Time.FramesPerSecond)
	}
	if c.Time.EventPollDelay <= 0 {
		return fmt.Errorf("time: event_poll_delay must be positive, got %d", c.Time.EventPollDelay)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}
