// Package config loads SmartGrow settings from config.yaml, a .env file and
// the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/keyring"
	"github.com/julianstephens/smartgrow/internal/utils"
)

// keyringLookup is swapped in tests.
var keyringLookup = keyring.Lookup

type Config struct {
	// Storage is a sqlite/json path, a badger: directory, or a postgres or
	// redis URL.
	Storage  string         `yaml:"storage" validate:"required"`
	LogLevel string         `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Language string         `yaml:"language" validate:"oneof=en tl"`
	Timezone string         `yaml:"timezone" validate:"required"`
	Serve    ServeConfig    `yaml:"serve"`
	Sampler  SamplerConfig  `yaml:"sampler"`
	Provider ProviderConfig `yaml:"provider"`

	// StorageFromSecret is set when Storage came from the keyring or the
	// environment rather than the config file or a flag.
	StorageFromSecret bool `yaml:"-"`
}

type ServeConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

type SamplerConfig struct {
	Interval time.Duration `yaml:"interval" validate:"gt=0"`
	// Seed fixes the random walk when non-zero.
	Seed uint64 `yaml:"seed,omitempty"`
}

type ProviderConfig struct {
	GeminiModel   string `yaml:"gemini_model" validate:"required"`
	OpenAIModel   string `yaml:"openai_model" validate:"required"`
	OpenAIBaseURL string `yaml:"openai_base_url,omitempty" validate:"omitempty,url"`

	GeminiAPIKey string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage:  constants.DefaultConfigPath,
		Language: constants.DefaultLanguage,
		Timezone: "Local",
		Serve:    ServeConfig{Addr: constants.DefaultServeAddr},
		Sampler:  SamplerConfig{Interval: constants.SampleInterval},
		Provider: ProviderConfig{
			GeminiModel: constants.DefaultGeminiModel,
			OpenAIModel: constants.DefaultOpenAIModel,
		},
	}
}

// Dir resolves the configuration directory, honouring SMARTGROW_CONFIG_DIR.
func Dir() (string, error) {
	dir := os.Getenv("SMARTGROW_CONFIG_DIR")
	if dir == "" {
		dir = constants.DefaultConfigDir
	}
	return utils.ExpandPath(dir)
}

// Load reads <dir>/config.yaml when present, applies .env files from the
// working directory and dir, then environment overrides and keyring
// secrets, and validates the result.
func Load(dir string) (*Config, error) {
	for _, envFile := range []string{".env", filepath.Join(dir, ".env")} {
		if _, err := os.Stat(envFile); err != nil {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	data, err := os.ReadFile(filepath.Join(dir, constants.ConfigFileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", constants.ConfigFileName, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}

	fileStorage := cfg.Storage != constants.DefaultConfigPath
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if !fileStorage && !cfg.StorageFromSecret {
		if conn := keyringLookup(constants.DefaultKeyringUser); conn != "" {
			cfg.Storage = conn
			cfg.StorageFromSecret = true
		}
	}
	if cfg.Provider.GeminiAPIKey == "" {
		cfg.Provider.GeminiAPIKey = keyringLookup(constants.KeyringGeminiKey)
	}
	if cfg.Provider.OpenAIAPIKey == "" {
		cfg.Provider.OpenAIAPIKey = keyringLookup(constants.KeyringOpenAIKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	if conn := strings.TrimSpace(os.Getenv("SMARTGROW_DB_CONNECTION")); conn != "" {
		c.Storage = conn
		c.StorageFromSecret = true
	} else if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		c.Storage = "redis://" + strings.TrimPrefix(addr, "redis://")
		c.StorageFromSecret = true
	}
	setString("SMARTGROW_STORAGE", &c.Storage)
	setString("SMARTGROW_LOG_LEVEL", &c.LogLevel)
	setString("SMARTGROW_LANGUAGE", &c.Language)
	setString("SMARTGROW_TIMEZONE", &c.Timezone)
	setString("SMARTGROW_ADDR", &c.Serve.Addr)
	setString("GEMINI_API_KEY", &c.Provider.GeminiAPIKey)
	setString("GEMINI_MODEL", &c.Provider.GeminiModel)
	setString("OPENAI_API_KEY", &c.Provider.OpenAIAPIKey)
	setString("OPENAI_MODEL", &c.Provider.OpenAIModel)
	setString("OPENAI_BASE_URL", &c.Provider.OpenAIBaseURL)

	if v := strings.TrimSpace(os.Getenv("SMARTGROW_SAMPLE_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SMARTGROW_SAMPLE_INTERVAL %q: %w", v, err)
		}
		c.Sampler.Interval = d
	}
	if v := strings.TrimSpace(os.Getenv("SMARTGROW_SAMPLE_SEED")); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid SMARTGROW_SAMPLE_SEED %q: %w", v, err)
		}
		c.Sampler.Seed = seed
	}
	return nil
}

// Validate checks the struct tags and the timezone.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if !utils.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("invalid config: unknown timezone %q", c.Timezone)
	}
	return nil
}

// Location returns the configured time zone.
func (c *Config) Location() *time.Location {
	loc, err := utils.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Save writes the file-backed fields to <dir>/config.yaml.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	saved := *c
	if saved.StorageFromSecret {
		saved.Storage = Default().Storage
	}
	data, err := yaml.Marshal(saved)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, constants.ConfigFileName), data, 0o644)
}
