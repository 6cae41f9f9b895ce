// Package config loads and persists FocusHub's settings, resolving its
// config, data, and log paths through the XDG base directories.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Sessions     SessionConfig      `mapstructure:"sessions"`
		Notification NotificationConfig `mapstructure:"notifications"`
		Display      DisplayConfig      `mapstructure:"display"`
		Backend      BackendConfig      `mapstructure:"backend"`
		System       SystemConfig       `mapstructure:"-"`
	}

	// SessionConfig holds session-related settings.
	SessionConfig struct {
		WorkDuration      time.Duration `mapstructure:"-"`
		ShortBreak        time.Duration `mapstructure:"-"`
		LongBreak         time.Duration `mapstructure:"-"`
		LongBreakInterval int           `mapstructure:"long_break_interval"`
		AutoStartBreak    bool          `mapstructure:"auto_start_break"`
	}

	// NotificationConfig holds notification settings.
	NotificationConfig struct {
		Enabled bool   `mapstructure:"enabled"`
		Sound   string `mapstructure:"sound"`
	}

	// DisplayConfig holds display-related settings.
	DisplayConfig struct {
		DarkTheme      bool `mapstructure:"dark_theme"`
		TwentyFourHour bool `mapstructure:"24hr_clock"`
	}

	// BackendConfig holds sync backend settings.
	BackendConfig struct {
		APIURL           string `mapstructure:"api_url"`
		LeaderboardOptIn bool   `mapstructure:"leaderboard_opt_in"`
	}

	// SystemConfig holds system-related settings.
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		LogPath    string
		SessionCmd string
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

const Version = "v0.1.0"

var (
	configDir      = "focushub"
	configFileName = "config.yml"
	dbFileName     = "focushub.db"
	logFileName    = "focushub.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the config, database, and log file locations.
// FOCUSHUB_ENV switches to per-environment file names so development never
// touches real data.
func InitializePaths() {
	env := strings.TrimSpace(os.Getenv("FOCUSHUB_ENV"))
	if env != "" {
		configFileName = fmt.Sprintf("config_%s.yml", env)
		dbFileName = fmt.Sprintf("focushub_%s.db", env)
		logFileName = fmt.Sprintf("focushub_%s.log", env)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, "log", logFileName)
}

// New creates a Config and applies options in order.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	cfg.System.ConfigPath = configFilePath
	cfg.System.DBPath = dbFilePath
	cfg.System.LogPath = logFilePath

	return cfg, nil
}

var (
	once sync.Once
	cfg  *Config
)

// Get returns the singleton configuration, prompting for first-run values
// and reading the config file on first use.
func Get() *Config {
	once.Do(func() {
		var err error

		cfg, err = New(
			WithPromptConfig(configFilePath),
			WithViperConfig(configFilePath),
		)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(1)
		}
	})

	return cfg
}
