// File: internal/config/config.go

package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/berrythewa/neowatch/internal/types"
	"github.com/berrythewa/neowatch/pkg/format"
)

const (
	appName        = "neowatch"
	configFileName = "config.yaml"
	dbFileName     = "history.db"
	logFileName    = "neowatch.log"
)

// Log outputs
const (
	OutputFile   = "file"
	OutputStderr = "stderr"
	OutputNone   = "none"
)

// ConfigPaths holds all relevant paths for the application
type ConfigPaths struct {
	ConfigDir  string // Directory containing config.yaml
	ConfigFile string // Path to the config file
	DataDir    string // Directory for logs and recordings
	LogDir     string // Directory for log files
	LogFile    string // Path to the log file
	DBFile     string // Path to the recording database
}

// Config holds all application configuration
type Config struct {
	Interval    time.Duration `yaml:"interval"`
	Differences bool          `yaml:"differences"`
	Precise     bool          `yaml:"precise"`
	ErrExit     bool          `yaml:"errexit"`
	ChgExit     bool          `yaml:"chgexit"`
	NumberDiff  bool          `yaml:"number_diff"`
	Radix       int           `yaml:"radix"`
	Header      bool          `yaml:"header"`
	AltScreen   bool          `yaml:"alt_screen"`

	Colors ColorConfig  `yaml:"colors"`
	Log    LogConfig    `yaml:"log"`
	Record RecordConfig `yaml:"record"`
}

// ColorConfig holds the highlight colors, in any form format.ParseColor accepts
type ColorConfig struct {
	New      string `yaml:"new"`
	Change   string `yaml:"change"`
	Increase string `yaml:"increase"`
	Decrease string `yaml:"decrease"`
}

// LogConfig holds logging-related configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
	Output string `yaml:"output"` // "file", "stderr" or "none"
}

// RecordConfig holds frame recording configuration
type RecordConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DBPath       string `yaml:"db_path"`
	KeepSessions int    `yaml:"keep_sessions"`
	Compress     bool   `yaml:"compress"`
}

// Overridable for tests
var (
	getConfigDir = defaultConfigDir
	getDataDir   = defaultDataDir
)

func defaultConfigDir() (string, error) {
	if dir := os.Getenv("NEOWATCH_CONFIG_DIR"); dir != "" {
		return dir, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("NEOWATCH_DATA_DIR"); dir != "" {
		return dir, nil
	}
	if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, "."+appName), nil
}

// GetConfigPaths returns the configuration and data paths. Nothing is created.
func GetConfigPaths() (*ConfigPaths, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory: %w", err)
	}
	dataDir, err := getDataDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	logDir := filepath.Join(dataDir, "logs")
	return &ConfigPaths{
		ConfigDir:  configDir,
		ConfigFile: filepath.Join(configDir, configFileName),
		DataDir:    dataDir,
		LogDir:     logDir,
		LogFile:    filepath.Join(logDir, logFileName),
		DBFile:     filepath.Join(dataDir, dbFileName),
	}, nil
}

// EnsureDirs creates the data and log directories
func (p *ConfigPaths) EnsureDirs() error {
	for _, dir := range []string{p.DataDir, p.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Interval:  time.Second,
		Radix:     10,
		AltScreen: true,
		Colors: ColorConfig{
			New:      format.DefaultNewColor,
			Change:   format.DefaultChangeColor,
			Increase: format.DefaultIncreaseColor,
			Decrease: format.DefaultDecreaseColor,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: OutputFile,
		},
		Record: RecordConfig{
			KeepSessions: 20,
			Compress:     true,
		},
	}
}

// Load reads the configuration from configPath, or from the default location
// when configPath is empty. A missing file yields the defaults. Environment
// overrides are applied last.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		paths, err := GetConfigPaths()
		if err != nil {
			return nil, err
		}
		configPath = paths.ConfigFile
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to the specified file
func (c *Config) Save(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first invalid field as an InvalidArgs error
func (c *Config) Validate() error {
	if c.Interval < 0 {
		return types.NewInvalidArgs("interval must not be negative: %s", c.Interval)
	}
	if c.Radix < 2 || c.Radix > 36 {
		return types.NewInvalidArgs("radix must be between 2 and 36, got %d", c.Radix)
	}
	if _, err := c.Palette(); err != nil {
		return types.NewInvalidArgs("%v", err)
	}
	switch c.Log.Output {
	case OutputFile, OutputStderr, OutputNone:
	default:
		return types.NewInvalidArgs("log output must be file, stderr or none, got %q", c.Log.Output)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return types.NewInvalidArgs("log format must be json or console, got %q", c.Log.Format)
	}
	if c.Record.KeepSessions < 0 {
		return types.NewInvalidArgs("record.keep_sessions must not be negative, got %d", c.Record.KeepSessions)
	}
	return nil
}

// Palette resolves the configured colors
func (c *Config) Palette() (format.Palette, error) {
	return format.ParsePalette(c.Colors.New, c.Colors.Change, c.Colors.Increase, c.Colors.Decrease)
}

// maxSeconds is the longest interval a time.Duration can hold
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// SecondsToDuration converts a number of seconds to a Duration. NaN,
// infinities, negative values and values a Duration cannot hold are
// InvalidArgs errors.
func SecondsToDuration(secs float64) (time.Duration, error) {
	if math.IsNaN(secs) || math.IsInf(secs, 0) {
		return 0, types.NewInvalidArgs("interval must be a finite number of seconds, got %v", secs)
	}
	if secs < 0 {
		return 0, types.NewInvalidArgs("interval must not be negative: %v", secs)
	}
	if secs >= maxSeconds {
		return 0, types.NewInvalidArgs("interval too large: %v seconds", secs)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

// ParseInterval accepts either a number of seconds ("0.5") or a Go duration ("500ms")
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return SecondsToDuration(secs)
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	return d, nil
}

// overrideFromEnv overrides configuration values from environment variables
func overrideFromEnv(config *Config) error {
	if val := os.Getenv("NEOWATCH_INTERVAL"); val != "" {
		d, err := ParseInterval(val)
		if err != nil {
			if types.IsKind(err, types.InvalidArgs) {
				return err
			}
			return types.NewInvalidArgs("NEOWATCH_INTERVAL: %v", err)
		}
		config.Interval = d
	}
	if val := os.Getenv("NEOWATCH_DIFFERENCES"); val != "" {
		config.Differences = val == "true" || val == "1"
	}
	if val := os.Getenv("NEOWATCH_RADIX"); val != "" {
		radix, err := strconv.Atoi(val)
		if err != nil {
			return types.NewInvalidArgs("NEOWATCH_RADIX: %q is not a number", val)
		}
		config.Radix = radix
	}
	if val := os.Getenv("NEOWATCH_LOG_LEVEL"); val != "" {
		config.Log.Level = val
	}
	if val := os.Getenv("NEOWATCH_RECORD"); val != "" {
		config.Record.Enabled = val == "true" || val == "1"
	}
	return nil
}
