// Package config loads the sync configuration from a YAML file, an optional
// .env file and LOCO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file picked up from the working directory when
// no explicit file is given.
const DefaultFile = "loco.yaml"

// DefaultDir is the destination used when Path is empty, relative to the
// project source root.
const DefaultDir = "public/i18n"

// DefaultTimeout bounds the export request.
const DefaultTimeout = 30 * time.Second

// Config holds the recognised sync options.
type Config struct {
	// Locale, when set, wraps the whole export under this single key.
	Locale   string   `yaml:"locale" env:"LOCO_LOCALE" validate:"omitempty,excludesall=/\\"`
	Token    string   `yaml:"token" env:"LOCO_TOKEN" validate:"required"`
	Filter   []string `yaml:"filter" env:"LOCO_FILTER" envSeparator:"," validate:"dive,required"`
	Fallback string   `yaml:"fallback" env:"LOCO_FALLBACK"`
	Path     string   `yaml:"path" env:"LOCO_PATH"`
	Disabled bool     `yaml:"disabled" env:"LOCO_DISABLED"`
	// Timeout of zero means the request is only bounded by the caller's context.
	Timeout time.Duration `yaml:"timeout" env:"LOCO_TIMEOUT" validate:"gte=0"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is a YAML config file. Missing is an error unless it is DefaultFile.
	File string
	// EnvFile is a dotenv file loaded into the process environment if present.
	EnvFile string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the configuration before any source is applied.
func Default() Config {
	return Config{Timeout: DefaultTimeout}
}

// Load builds the configuration: defaults, then the YAML file, then the
// environment. The result is validated.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", opts.EnvFile, err)
		}
	}

	cfg := Default()

	if opts.File != "" {
		if err := readFile(opts.File, &cfg); err != nil {
			if !(errors.Is(err, os.ErrNotExist) && opts.File == DefaultFile) {
				return nil, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// Validate checks the fields the sync cannot run without.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Destination returns the output directory, resolving the default against
// srcDir when Path is unset.
func (c Config) Destination(srcDir string) string {
	if c.Path != "" {
		return c.Path
	}
	return filepath.Join(srcDir, DefaultDir)
}
