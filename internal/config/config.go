package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Store       StoreConfig       `mapstructure:"store"`
	Database    DatabaseConfig    `mapstructure:"database"`
	AnkiConnect AnkiConnectConfig `mapstructure:"ankiconnect"`
	Display     DisplayConfig     `mapstructure:"display"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
}

// Store drivers.
const (
	DriverSQLite      = "sqlite"
	DriverMySQL       = "mysql"
	DriverYAML        = "yaml"
	DriverAnkiConnect = "ankiconnect"
)

type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite mysql yaml ankiconnect"`
	// Path is the collection.anki2 file for sqlite and the fixture file for yaml.
	Path string `mapstructure:"path" validate:"omitempty,file"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	PingAttempts    uint              `mapstructure:"ping_attempts"`
}

type AnkiConnectConfig struct {
	URL           string        `mapstructure:"url" validate:"required,url"`
	Key           string        `mapstructure:"key"`
	RetryAttempts uint          `mapstructure:"retry_attempts"`
	PollInterval  time.Duration `mapstructure:"poll_interval" validate:"min=50ms"`
}

type DisplayConfig struct {
	// Theme is auto, light or dark. auto follows the terminal background.
	Theme         string        `mapstructure:"theme" validate:"oneof=auto light dark"`
	Zoom          float64       `mapstructure:"zoom" validate:"gt=0"`
	BaseFontSize  int           `mapstructure:"base_font_size" validate:"min=1"`
	ZoomDamping   float64       `mapstructure:"zoom_damping" validate:"gte=0,lte=1"`
	ScreenColumns int           `mapstructure:"screen_columns" validate:"min=0"`
	PixelMargins  MarginsConfig `mapstructure:"pixel_margins"`
	CellMargins   MarginsConfig `mapstructure:"cell_margins"`
}

type MarginsConfig struct {
	Side             int     `mapstructure:"side" validate:"min=0"`
	Top              int     `mapstructure:"top" validate:"min=0"`
	Bottom           int     `mapstructure:"bottom" validate:"min=0"`
	ContentGap       int     `mapstructure:"content_gap" validate:"min=0"`
	SmallWindowRatio float64 `mapstructure:"small_window_ratio" validate:"gte=0,lte=1"`
}

type PreferencesConfig struct {
	Directory string `mapstructure:"directory" validate:"required"`
	AddonID   string `mapstructure:"addon_id" validate:"required,excludesall=/\\"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/killfeed")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "anki")
	v.SetDefault("database.username", "user")
	v.SetDefault("database.ping_attempts", 3)
	v.SetDefault("ankiconnect.url", "http://127.0.0.1:8765")
	v.SetDefault("ankiconnect.retry_attempts", 2)
	v.SetDefault("ankiconnect.poll_interval", 500*time.Millisecond)
	v.SetDefault("display.theme", "auto")
	v.SetDefault("display.zoom", 1.0)
	v.SetDefault("display.base_font_size", 12)
	v.SetDefault("display.zoom_damping", 0.4)
	v.SetDefault("display.screen_columns", 0)
	// Host review screen, in pixels
	v.SetDefault("display.pixel_margins.side", 10)
	v.SetDefault("display.pixel_margins.top", 70)
	v.SetDefault("display.pixel_margins.bottom", 50)
	v.SetDefault("display.pixel_margins.content_gap", 10)
	v.SetDefault("display.pixel_margins.small_window_ratio", 0.5)
	// Terminal, in cells
	v.SetDefault("display.cell_margins.side", 2)
	v.SetDefault("display.cell_margins.top", 1)
	v.SetDefault("display.cell_margins.bottom", 1)
	v.SetDefault("display.cell_margins.content_gap", 1)
	v.SetDefault("display.cell_margins.small_window_ratio", 0.5)
	v.SetDefault("preferences.directory", filepath.Join("$HOME", ".config", "killfeed", "addons"))
	v.SetDefault("preferences.addon_id", "card_history_killfeed")

	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind DB_PASSWORD environment variable: %w", err)
	}
	// Bind AnkiConnect API key to environment variable
	if err := v.BindEnv("ankiconnect.key", "ANKICONNECT_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind ANKICONNECT_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	cfg.Store.Path = expandPath(cfg.Store.Path)
	cfg.Preferences.Directory = expandPath(cfg.Preferences.Directory)

	if err := loader.validator.Struct(cfg); err != nil {
		return nil, TranslateError(err, loader.translator, "invalid configuration")
	}

	return &cfg, nil
}

// TranslateError joins the translated messages of validation errors.
func TranslateError(err error, trans ut.Translator, prefix string) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	var errorMsgs []string
	for _, e := range validationErrors {
		errorMsgs = append(errorMsgs, e.Translate(trans))
	}
	return fmt.Errorf("%s: %s", prefix, strings.Join(errorMsgs, ", "))
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(os.ExpandEnv(path))
}
