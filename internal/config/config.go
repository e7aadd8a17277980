// Package config loads companion CLI settings from YAML or TOML files,
// the environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/companion/internal/ports"
)

// EnvAPIURL overrides api.base_url when set.
const EnvAPIURL = "COMPANION_API_URL"

// Default values.
const (
	DefaultBaseURL   = "https://api.companion.example.com"
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "companion-cli"
	DefaultProfile   = "default"
	DirName          = ".companion"
)

// Config is the complete CLI configuration.
type Config struct {
	API             APIConfig `yaml:"api" toml:"api"`
	Log             LogConfig `yaml:"log" toml:"log"`
	Profile         string    `yaml:"profile" toml:"profile"`
	PreferencesPath string    `yaml:"preferences_path" toml:"preferences_path"`
	CredentialsPath string    `yaml:"credentials_path" toml:"credentials_path"`
}

// APIConfig configures the backend client.
type APIConfig struct {
	BaseURL   string   `yaml:"base_url" toml:"base_url"`
	Timeout   Duration `yaml:"timeout" toml:"timeout"`
	UserAgent string   `yaml:"user_agent" toml:"user_agent"`
	// RefreshCatalog fetches service areas and certifications from the API
	// instead of using only the built-in list.
	RefreshCatalog bool `yaml:"refresh_catalog" toml:"refresh_catalog"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"` // text or json
	File   string `yaml:"file" toml:"file"`
}

// Duration is a time.Duration written as "15s" in config files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Dir returns ~/.companion.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Default returns a Config with every path rooted at dir.
func Default(dir string) *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   DefaultBaseURL,
			Timeout:   Duration(DefaultTimeout),
			UserAgent: DefaultUserAgent,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(dir, "companion.log"),
		},
		Profile:         DefaultProfile,
		PreferencesPath: filepath.Join(dir, "preferences.yaml"),
		CredentialsPath: filepath.Join(dir, "credentials"),
	}
}

// Load reads the config file at path over the defaults. An empty path means
// dir/config.yaml, falling back to dir/config.toml; a missing default file
// is not an error, a missing explicit file is.
func Load(path, dir string) (*Config, error) {
	cfg := Default(dir)

	explicit := path != ""
	if !explicit {
		path = findDefault(dir)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findDefault(dir string) string {
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func decode(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return NewConfigFormatError(path)
	}
	if err != nil {
		return NewConfigParseError(path, err)
	}
	return nil
}

// ApplyEnv applies environment overrides using getenv (os.Getenv in
// production).
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIURL)); v != "" {
		c.API.BaseURL = v
	}
}

// Overrides are command-line values; empty fields leave the config as is.
type Overrides struct {
	APIURL  string
	Profile string
	Verbose bool
}

// Apply applies flag overrides. Verbose forces debug logging.
func (c *Config) Apply(o Overrides) {
	if o.APIURL != "" {
		c.API.BaseURL = o.APIURL
	}
	if o.Profile != "" {
		c.Profile = o.Profile
	}
	if o.Verbose {
		c.Log.Level = "debug"
	}
}

// Validate checks every field and reports all problems together.
func (c *Config) Validate() error {
	var errs ErrorList

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs.AddValidation("api.base_url", fmt.Sprintf("%q is not an http(s) URL", c.API.BaseURL),
			"Set it to the backend root, e.g. https://api.companion.example.com")
	}
	if c.API.Timeout.Std() <= 0 {
		errs.AddValidation("api.timeout", "must be positive", "Use a duration such as 15s.")
	}
	if _, err := ports.ParseLevel(c.Log.Level); err != nil {
		errs.AddValidation("log.level", err.Error(), "Use debug, info, warn or error.")
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		errs.AddValidation("log.format", fmt.Sprintf("unknown format %q", f), "Use text or json.")
	}
	if strings.TrimSpace(c.Profile) == "" {
		errs.AddValidation("profile", "must not be empty", "Omit it to use \"default\".")
	}

	return errs.AsError()
}

// LogLevel returns the parsed log level, info if invalid.
func (c *Config) LogLevel() ports.Level {
	level, _ := ports.ParseLevel(c.Log.Level)
	return level
}
