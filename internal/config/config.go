package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load
const (
	EnvConfig    = "LIBRARY_CONFIG"
	EnvBooksFile = "LIBRARY_BOOKS_FILE"
	EnvLogLevel  = "LIBRARY_LOG_LEVEL"
	EnvLogDev    = "LIBRARY_LOG_DEV"
	EnvPrompts   = "LIBRARY_PROMPTS"
)

// PromptMode controls whether the session prints its menu and input prompts
type PromptMode string

const (
	PromptsAuto   PromptMode = "auto"   // only when stdin is a terminal
	PromptsAlways PromptMode = "always" // always print
	PromptsNever  PromptMode = "never"  // never print
)

// Config holds the application configuration
type Config struct {
	BooksFile      string     `yaml:"books_file"`
	LogLevel       string     `yaml:"log_level"`
	LogDevelopment bool       `yaml:"log_development"`
	Prompts        PromptMode `yaml:"prompts"`
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		BooksFile: "library_books.csv",
		LogLevel:  "info",
		Prompts:   PromptsAuto,
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (or LIBRARY_CONFIG when path is empty), then a .env file in the working
// directory, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := config.loadEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvBooksFile); v != "" {
		c.BooksFile = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}

	if v := os.Getenv(EnvLogDev); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLogDev, err)
		}
		c.LogDevelopment = dev
	}

	if v := os.Getenv(EnvPrompts); v != "" {
		c.Prompts = PromptMode(v)
	}

	return nil
}

// Validate checks the values that cannot be checked while parsing
func (c *Config) Validate() error {
	if c.BooksFile == "" {
		return fmt.Errorf("books file is required")
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	switch c.Prompts {
	case PromptsAuto, PromptsAlways, PromptsNever:
	default:
		return fmt.Errorf("invalid prompt mode %q (want auto, always or never)", c.Prompts)
	}

	return nil
}

// Level returns the parsed log level. Call Validate first.
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// PromptsEnabled resolves the prompt mode for an input that is or is not a terminal
func (c *Config) PromptsEnabled(interactive bool) bool {
	switch c.Prompts {
	case PromptsAlways:
		return true
	case PromptsNever:
		return false
	default:
		return interactive
	}
}
