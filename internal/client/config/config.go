package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/recipes/internal/flagx"
)

// Config holds runtime settings for the recipes CLI.
//
// Durations are written as Go duration strings ("300ms", "3s") in the
// YAML file and in the environment.
type Config struct {
	ServerURL           string        `yaml:"server_url" env:"RECIPES_SERVER_URL"`
	APIPrefix           string        `yaml:"api_prefix" env:"RECIPES_API_PREFIX"`
	HTTPTimeout         time.Duration `yaml:"http_timeout" env:"RECIPES_HTTP_TIMEOUT"`
	SearchDebounce      time.Duration `yaml:"search_debounce" env:"RECIPES_SEARCH_DEBOUNCE"`
	ToastTimeout        time.Duration `yaml:"toast_timeout" env:"RECIPES_TOAST_TIMEOUT"`
	OnlineCheckInterval time.Duration `yaml:"online_check_interval" env:"RECIPES_ONLINE_CHECK_INTERVAL"`
	DBPath              string        `yaml:"db_path" env:"RECIPES_DB_PATH"`
	// StartURL is the address opened at startup; its query seeds the filters.
	StartURL string `yaml:"start_url" env:"RECIPES_START_URL"`
	Debug    bool   `yaml:"debug" env:"RECIPES_DEBUG"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.APIPrefix = "/api/v1"
	c.HTTPTimeout = 15 * time.Second
	c.SearchDebounce = 300 * time.Millisecond
	c.ToastTimeout = 5 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.DBPath = "recipes.db"
	c.StartURL = "/"
	c.Debug = false
}

// LoadConfig builds a Config from defaults, then a .env file in the working
// directory, then the YAML file given with -c/-config, then RECIPES_*
// environment variables and finally the command-line flags in args. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := parseFile(cfg, flagx.ConfigFile(args)); err != nil {
		return nil, err
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to overlay env: %w", err)
	}

	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	return cfg, nil
}
