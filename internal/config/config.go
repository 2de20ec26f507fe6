package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config keys, shared by flags, environment variables and the config file.
const (
	KeyAPIServer   = "api-server"
	KeyTypesURL    = "types-url"
	KeyTimeout     = "timeout"
	KeyOutput      = "output"
	KeyLanguage    = "lang"
	KeyDownloadDir = "download-dir"
	KeyVerbose     = "verbose"
)

// EnvPrefix is prepended to every key looked up in the environment, e.g.
// POKEREPORTS_API_SERVER.
const EnvPrefix = "POKEREPORTS"

const (
	DefaultAPIServer = "http://localhost:8000"
	DefaultTypesURL  = "https://pokeapi.co/api/v2/type"
	DefaultOutput    = "table"
	DefaultLanguage  = "en"
)

// settable lists the keys `config set` accepts.
var settable = map[string]func(string) error{
	KeyAPIServer:   nonEmpty,
	KeyTypesURL:    nonEmpty,
	KeyTimeout:     validDuration,
	KeyOutput:      oneOf("table", "json", "yaml", "xlsx"),
	KeyLanguage:    nonEmpty,
	KeyDownloadDir: nonEmpty,
}

// Config holds the application configuration
type Config struct {
	APIServer   string        `yaml:"api-server"`
	TypesURL    string        `yaml:"types-url"`
	Timeout     time.Duration `yaml:"timeout"`
	Output      string        `yaml:"output"`
	Language    string        `yaml:"lang"`
	DownloadDir string        `yaml:"download-dir"`
	Verbose     bool          `yaml:"verbose"`
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIServer, DefaultAPIServer)
	v.SetDefault(KeyTypesURL, DefaultTypesURL)
	v.SetDefault(KeyOutput, DefaultOutput)
	v.SetDefault(KeyLanguage, DefaultLanguage)
	v.SetDefault(KeyDownloadDir, ".")
}

// Load loads the configuration from file and environment
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		APIServer:   strings.TrimSpace(v.GetString(KeyAPIServer)),
		TypesURL:    strings.TrimSpace(v.GetString(KeyTypesURL)),
		Timeout:     v.GetDuration(KeyTimeout),
		Output:      v.GetString(KeyOutput),
		Language:    v.GetString(KeyLanguage),
		DownloadDir: v.GetString(KeyDownloadDir),
		Verbose:     v.GetBool(KeyVerbose),
	}
	if cfg.APIServer == "" {
		cfg.APIServer = DefaultAPIServer
	}
	if cfg.TypesURL == "" {
		cfg.TypesURL = DefaultTypesURL
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid %s %s: must not be negative", KeyTimeout, cfg.Timeout)
	}
	return cfg, nil
}

// Keys returns the keys accepted by Set, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set validates value, stores it on v and writes the config file at path.
func Set(v *viper.Viper, path, key, value string) error {
	check, ok := settable[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := check(value); err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pokereports", "config.yaml")
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

func nonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("value must not be empty")
	}
	return nil
}

func validDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	if d < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

func oneOf(values ...string) func(string) error {
	return func(s string) error {
		for _, v := range values {
			if s == v {
				return nil
			}
		}
		return fmt.Errorf("must be one of %s", strings.Join(values, ", "))
	}
}

// EnvKeyReplacer maps config keys to environment names (api-server →
// API_SERVER).
var EnvKeyReplacer = strings.NewReplacer("-", "_")
