// Package config loads kotoba settings from defaults, a YAML file, a .env
// file, and KOTOBA_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/kotoba/internal/quiz"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "KOTOBA"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds application configuration.
type Config struct {
	DB      DB      `mapstructure:"db"`
	Log     Log     `mapstructure:"log"`
	Auth    Auth    `mapstructure:"auth"`
	Quiz    Quiz    `mapstructure:"quiz"`
	Catalog Catalog `mapstructure:"catalog"`
	Server  Server  `mapstructure:"server"`
	Coach   Coach   `mapstructure:"coach"`
}

// DB selects the storage backend.
type DB struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`    // empty = default SQLite file
}

// Log configures the zap logger.
type Log struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"` // empty = default state dir
	Development bool   `mapstructure:"development"`
}

// Auth configures the local account layer.
type Auth struct {
	Delay time.Duration `mapstructure:"delay"`
}

// Quiz holds the setup-screen defaults.
type Quiz struct {
	QuestionCount int      `mapstructure:"question_count"`
	Categories    []string `mapstructure:"categories"`
	TimeLimit     int      `mapstructure:"time_limit"` // minutes
	Randomize     bool     `mapstructure:"randomize"`
}

// Catalog points at an optional custom question bank.
type Catalog struct {
	File string `mapstructure:"file"`
}

// Server configures `kotoba serve`.
type Server struct {
	Addr        string        `mapstructure:"addr"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// Coach configures the optional LLM study coach.
type Coach struct {
	Provider    string        `mapstructure:"provider"` // "" disables the coach
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config path. Empty searches the default dir.
	File string

	// EnvFile is loaded with godotenv before reading the environment.
	// Missing files are ignored.
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.development", false)
	v.SetDefault("auth.delay", "1s")
	v.SetDefault("quiz.question_count", 10)
	v.SetDefault("quiz.categories", categoryNames(quiz.AllCategories()))
	v.SetDefault("quiz.time_limit", 0)
	v.SetDefault("quiz.randomize", true)
	v.SetDefault("catalog.file", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.token_ttl", "24h")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("coach.provider", "")
	v.SetDefault("coach.model", "")
	v.SetDefault("coach.api_key", "")
	v.SetDefault("coach.base_url", "")
	v.SetDefault("coach.max_tokens", 1024)
	v.SetDefault("coach.temperature", 0.4)
	v.SetDefault("coach.timeout", "30s")
	v.SetDefault("coach.max_retries", 3)
}

// Load reads configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: db.driver must be \"sqlite\" or \"postgres\", got %q", ErrInvalidConfig, c.DB.Driver)
	}
	if c.DB.Driver == "postgres" && c.DB.DSN == "" {
		return fmt.Errorf("%w: db.dsn is required for postgres", ErrInvalidConfig)
	}
	if c.Auth.Delay < 0 {
		return fmt.Errorf("%w: auth.delay must not be negative", ErrInvalidConfig)
	}
	if _, err := c.QuizDefaults(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Coach.MaxTokens < 0 || c.Coach.MaxRetries < 0 {
		return fmt.Errorf("%w: coach limits must not be negative", ErrInvalidConfig)
	}
	return nil
}

// QuizDefaults converts the quiz section into a quiz.Config.
func (c *Config) QuizDefaults() (quiz.Config, error) {
	qc := quiz.Config{
		QuestionCount: c.Quiz.QuestionCount,
		TimeLimit:     c.Quiz.TimeLimit,
		Randomize:     c.Quiz.Randomize,
	}
	for _, name := range c.Quiz.Categories {
		cat, err := quiz.ParseCategory(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return quiz.Config{}, err
		}
		qc.Categories = append(qc.Categories, cat)
	}
	if err := qc.Validate(); err != nil {
		return quiz.Config{}, err
	}
	return qc, nil
}

// Dir returns the config directory: $XDG_CONFIG_HOME/kotoba or
// ~/.config/kotoba.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "kotoba"), nil
}

// StateDir returns $XDG_STATE_HOME/kotoba or ~/.local/state/kotoba.
func StateDir() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "kotoba"), nil
}

func categoryNames(cats []quiz.Category) []string {
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = string(c)
	}
	return out
}
