// Package config loads steamdocs settings.
//
// Precedence, highest first: explicitly set flags, STEAMDOCS_* environment
// variables, the YAML config file, built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"steamdocs/internal/request"
)

const (
	EnvPrefix           = "STEAMDOCS_"
	DefaultProductTitle = "Steam Web API Documentation"
	DefaultTimeout      = 10 * time.Second
	stateFileName       = "state.db"
)

type Config struct {
	Catalog      string        `koanf:"catalog"`
	StatePath    string        `koanf:"state_path"`
	PublicHost   string        `koanf:"public_host"`
	PartnerHost  string        `koanf:"partner_host"`
	ProductTitle string        `koanf:"product_title"`
	Timeout      time.Duration `koanf:"timeout"`
	LogLevel     string        `koanf:"log_level"`
	LogFile      string        `koanf:"log_file"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

func (c *Config) Hosts() request.Hosts {
	return request.Hosts{Public: c.PublicHost, Partner: c.PartnerHost}
}

// Defaults are the values used when nothing else sets a key.
func Defaults() map[string]any {
	return map[string]any{
		"catalog":       "",
		"state_path":    DefaultStatePath(),
		"public_host":   request.DefaultPublicHost,
		"partner_host":  request.DefaultPartnerHost,
		"product_title": DefaultProductTitle,
		"timeout":       DefaultTimeout.String(),
		"log_level":     "",
		"log_file":      "",
	}
}

// DefaultStatePath is state.db under the user's data directory.
func DefaultStatePath() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "steamdocs", stateFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "steamdocs", stateFileName)
	}
	return stateFileName
}

// findConfigFile returns explicit when set, else steamdocs.yaml in the
// working directory, else the user config file if present.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"steamdocs.yaml", "steamdocs.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(dir, "steamdocs", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Load reads the configuration. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// STEAMDOCS_PUBLIC_HOST -> public_host
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if key == "state" {
				return "state_path", posflag.FlagVal(flags, f)
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values nothing downstream could use.
func (c *Config) Validate() error {
	for name, host := range map[string]string{"public_host": c.PublicHost, "partner_host": c.PartnerHost} {
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, host)
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}
