package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// StorageConfig locates the local database.
type StorageConfig struct {
	// DBPath is the SQLite file holding activities and checklists.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// TemplatesConfig controls where procedure templates come from.
type TemplatesConfig struct {
	// Dir holds user-supplied YAML templates. Templates found there
	// replace built-in ones with the same ID. Empty means built-ins only.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// RemindersConfig tunes reminder and upcoming-task windows.
type RemindersConfig struct {
	UpcomingDays       int `mapstructure:"upcoming_days" yaml:"upcoming_days"`
	ActivityWindowDays int `mapstructure:"activity_window_days" yaml:"activity_window_days"`
}

// DigestConfig addresses the reminder digest e-mail.
type DigestConfig struct {
	From string   `mapstructure:"from" yaml:"from"`
	To   []string `mapstructure:"to" yaml:"to"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Templates TemplatesConfig `mapstructure:"templates" yaml:"templates"`
	Reminders RemindersConfig `mapstructure:"reminders" yaml:"reminders"`
	Digest    DigestConfig    `mapstructure:"digest" yaml:"digest"`
	Display   DisplayConfig   `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/activityplanner/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDBPath returns the default database location next to the config.
func DefaultDBPath() string {
	return filepath.Join(configDir(), "planner.db")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "activityplanner")
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{DBPath: DefaultDBPath()},
		Reminders: RemindersConfig{
			UpcomingDays:       14,
			ActivityWindowDays: 7,
		},
		Digest: DigestConfig{
			From: "planner@localhost",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration. Any key
// can be overridden with a PLANNER_ environment variable, e.g.
// PLANNER_STORAGE_DB_PATH.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("planner")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultConfig()
	v.SetDefault("storage.db_path", def.Storage.DBPath)
	v.SetDefault("templates.dir", "")
	v.SetDefault("reminders.upcoming_days", def.Reminders.UpcomingDays)
	v.SetDefault("reminders.activity_window_days", def.Reminders.ActivityWindowDays)
	v.SetDefault("digest.from", def.Digest.From)
	v.SetDefault("digest.to", []string{})
	v.SetDefault("display.theme", def.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Reminders.UpcomingDays <= 0 {
		cfg.Reminders.UpcomingDays = def.Reminders.UpcomingDays
	}
	if cfg.Reminders.ActivityWindowDays < 0 {
		cfg.Reminders.ActivityWindowDays = def.Reminders.ActivityWindowDays
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("templates", cfg.Templates)
	v.Set("reminders", cfg.Reminders)
	v.Set("digest", cfg.Digest)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
