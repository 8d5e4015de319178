// Package file loads graphsnap configuration from a TOML file.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/graphsnap/graphsnap/internal/core/domain"
)

// DefaultConfigDir is the directory under the home directory holding the
// config file and history database.
const DefaultConfigDir = ".graphsnap"

// Config is the full configuration surface.
type Config struct {
	Auth    AuthConfig    `toml:"auth"`
	Fetch   FetchConfig   `toml:"fetch"`
	Export  ExportConfig  `toml:"export"`
	History HistoryConfig `toml:"history"`
}

// AuthConfig holds the Entra ID credentials. Either client_secret or
// username/password must be set.
type AuthConfig struct {
	TenantID     string `toml:"tenant_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
}

// FetchConfig controls what is retrieved.
type FetchConfig struct {
	// InboxKeyword filters inbox mail by subject. Empty fetches everything.
	InboxKeyword string `toml:"inbox_keyword"`
	// MaxResults is the requested page size (Graph caps it at 1000).
	MaxResults int64 `toml:"max_results"`
}

// ExportConfig controls the output file.
type ExportConfig struct {
	OutputPath string `toml:"output_path"`
}

// HistoryConfig controls the optional run-history store.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			InboxKeyword: "wisp",
			MaxResults:   100,
		},
		Export: ExportConfig{
			OutputPath: "outlook_data.json",
		},
	}
}

// DefaultPath returns the default config file location,
// ~/.graphsnap/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigDir, "config.toml"), nil
}

// Load reads the config file at path, falling back to the default path when
// path is empty. A missing file yields the defaults without error; the
// credentials check happens later, at authentication.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// Credentials maps the auth section onto domain credentials.
func (c *Config) Credentials() domain.Credentials {
	return domain.Credentials{
		TenantID:     c.Auth.TenantID,
		ClientID:     c.Auth.ClientID,
		ClientSecret: c.Auth.ClientSecret,
		Username:     c.Auth.Username,
		Password:     c.Auth.Password,
	}
}
