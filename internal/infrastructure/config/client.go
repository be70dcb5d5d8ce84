package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ClientConfig holds importctl settings
type ClientConfig struct {
	Server    string
	Token     string
	TokenFile string
	Timeout   time.Duration
	Language  string
}

// DefaultClientConfigPath returns ~/.backoffice/client.yaml
func DefaultClientConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".backoffice", "client.yaml")
	}
	return filepath.Join(home, ".backoffice", "client.yaml")
}

// LoadClient reads the client config file (if present) with IMPORTCTL_
// environment overrides. A missing file is not an error.
func LoadClient(path string) (*ClientConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading client config: %w", err)
		}
	}

	v.SetEnvPrefix("IMPORTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cfg := &ClientConfig{
		Server:    v.GetString("server"),
		Token:     v.GetString("token"),
		TokenFile: v.GetString("token_file"),
		Timeout:   v.GetDuration("timeout"),
		Language:  v.GetString("language"),
	}
	if cfg.Server == "" {
		cfg.Server = "http://localhost:8080"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Language == "" {
		cfg.Language = "fa"
	}
	return cfg, nil
}
