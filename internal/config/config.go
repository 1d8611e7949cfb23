// Package config resolves runtime settings from defaults, an optional YAML or
// TOML file, and TASKLIST_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "tasklist.yaml"

// Log formats understood by the logging package.
const (
	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatLogfmt = "logfmt"
)

type RuntimeConfig struct {
	Storage StorageConfig `yaml:"storage" toml:"storage"`
	UI      UIConfig      `yaml:"ui" toml:"ui"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

type StorageConfig struct {
	Driver string `yaml:"driver" toml:"driver"`
	Path   string `yaml:"path" toml:"path"`
}

// Validate checks the storage section.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.Required, validation.By(validDriver)),
		validation.Field(&c.Path, validation.When(c.Driver != string(storage.DriverMemory), validation.Required)),
	)
}

type UIConfig struct {
	// Locale is the BCP 47 tag used for alphabetical sorting.
	Locale string `yaml:"locale" toml:"locale"`
}

func (c *UIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Locale, validation.Required, validation.By(validLocale)),
	)
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	// Path is where the interactive UI writes logs; the terminal belongs to the UI.
	Path string `yaml:"path" toml:"path"`
}

func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Format, validation.Required, validation.In(LogFormatText, LogFormatJSON, LogFormatLogfmt)),
	)
}

func (c *RuntimeConfig) Validate() error {
	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.UI.Validate(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Storage: StorageConfig{
			Driver: string(storage.DriverSQLite),
			Path:   "tasklist.db",
		},
		UI: UIConfig{
			Locale: "en",
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
			Path:   "tasklist.log",
		},
	}
}

// LoadFile decodes path over cfg. The decoder is picked from the extension;
// YAML content has ${VAR} references expanded first.
func LoadFile(path string, cfg *RuntimeConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return nil
}

// Load builds the effective configuration. A missing file is only an error
// when required is set; otherwise defaults and the environment apply.
func Load(path string, required bool) (RuntimeConfig, error) {
	cfg := DefaultRuntimeConfig()
	if strings.TrimSpace(path) != "" {
		err := LoadFile(path, &cfg)
		switch {
		case err == nil:
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return RuntimeConfig{}, err
		}
	}
	cfg = RuntimeConfigFromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return RuntimeConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v, ok := getEnvString("TASKLIST_STORAGE_DRIVER"); ok {
		cfg.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_STORAGE_PATH"); ok {
		cfg.Storage.Path = v
	}
	if v, ok := getEnvString("TASKLIST_LOCALE"); ok {
		cfg.UI.Locale = v
	}
	if v, ok := getEnvString("TASKLIST_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_LOG_FORMAT"); ok {
		cfg.Log.Format = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKLIST_LOG_FILE"); ok {
		cfg.Log.Path = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func validDriver(value any) error {
	s, _ := value.(string)
	if !storage.Driver(s).IsValid() {
		return fmt.Errorf("unsupported driver %q", s)
	}
	return nil
}

func validLocale(value any) error {
	s, _ := value.(string)
	if _, err := language.Parse(s); err != nil {
		return fmt.Errorf("invalid locale %q", s)
	}
	return nil
}
