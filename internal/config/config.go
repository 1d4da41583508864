package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Config is the root configuration for parkride, stored in
// ~/.parkride/config.json. The file supports single-line // comments.
type Config struct {
	// APIURL is the origin of the Park & Ride backend.
	APIURL string `json:"api_url"`
	// Timezone is the IANA zone used to label income days.
	Timezone string `json:"timezone"`
	// RequestTimeout bounds each backend call, e.g. "15s".
	RequestTimeout string `json:"request_timeout"`
}

const (
	DefaultAPIURL         = "http://localhost:3000"
	DefaultTimezone       = "Asia/Colombo"
	DefaultRequestTimeout = "15s"
)

// Environment variables that override the file.
const (
	EnvAPIURL         = "PARKRIDE_API_URL"
	EnvTimezone       = "PARKRIDE_TIMEZONE"
	EnvRequestTimeout = "PARKRIDE_REQUEST_TIMEOUT"
)

// FileName is the config file inside the parkride directory.
const FileName = "config.json"

func defaultConfig() Config {
	return Config{
		APIURL:         DefaultAPIURL,
		Timezone:       DefaultTimezone,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before parsing.
const configTemplate = `// parkride configuration, ~/.parkride/config.json
//
// Every setting can also be given in the environment (or a .env file in the
// working directory): PARKRIDE_API_URL, PARKRIDE_TIMEZONE and
// PARKRIDE_REQUEST_TIMEOUT. The --api flag wins over both.
{
  // Origin of the Park & Ride backend.
  "api_url": "http://localhost:3000",

  // IANA timezone used to label the 7-day income chart.
  "timezone": "Asia/Colombo",

  // Per-request timeout, as a Go duration ("15s", "1m").
  "request_timeout": "15s"
}
`

// Dir returns ~/.parkride.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".parkride"), nil
}

// stripLineComments removes lines whose leading non-whitespace content
// starts with //. Inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.parkride/config.json and applies .env and environment
// overrides. See LoadFrom.
func Load(warn io.Writer) (Config, error) {
	dir, err := Dir()
	if err != nil {
		return applyEnv(defaultConfig()), err
	}
	return LoadFrom(filepath.Join(dir, FileName), warn)
}

// LoadFrom reads the config file at path, creating it with annotated
// defaults on first run. A .env file in the working directory is loaded
// without overriding variables already set, then PARKRIDE_* variables
// override the file.
func LoadFrom(path string, warn io.Writer) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(warn, "Warning: could not read .env: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(warn, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return applyEnv(defaultConfig()), nil
	}
	if err != nil {
		return applyEnv(defaultConfig()), fmt.Errorf("reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
		return applyEnv(defaultConfig()), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.RequestTimeout == "" {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		cfg.RequestTimeout = v
	}
	return cfg
}

// Timeout parses RequestTimeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing request_timeout %q: %w", c.RequestTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request_timeout must be positive, got %s", d)
	}
	return d, nil
}

// Location loads the Timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// writeDefault creates the config directory and writes the annotated
// template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
