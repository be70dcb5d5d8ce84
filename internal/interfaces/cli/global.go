// Package cli implements the importctl commands.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/infrastructure/config"
	"github.com/storefront/backoffice/internal/infrastructure/importclient"
	"github.com/storefront/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// TokenEnvVar is read when neither --token nor --token-file is given
const TokenEnvVar = "IMPORTCTL_TOKEN"

type GlobalOptions struct {
	ConfigFilePath string
	ServerURL      string
	Token          string
	TokenFile      string
	Timeout        time.Duration
	Language       string
	Verbose        bool

	cfg    *config.ClientConfig
	lang   language.Tag
	logger *zap.Logger
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ConfigFilePath: config.DefaultClientConfigPath(),
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ConfigFilePath, "config", "c", o.ConfigFilePath, "Path to the client config file")
	fs.StringVarP(&o.ServerURL, "server-url", "u", o.ServerURL, "Address of the back office server")
	fs.StringVar(&o.Token, "token", o.Token, "Bearer token (overrides the config file)")
	fs.StringVar(&o.TokenFile, "token-file", o.TokenFile, "File holding the bearer token")
	fs.DurationVar(&o.Timeout, "timeout", o.Timeout, "Per-request timeout")
	fs.StringVar(&o.Language, "lang", o.Language, "Language for status labels (fa, en)")
	fs.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "Log client diagnostics to stderr")
}

// Complete merges the config file with flags; flags win
func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadClient(o.ConfigFilePath)
	if err != nil {
		return err
	}
	if o.ServerURL != "" {
		cfg.Server = o.ServerURL
	}
	if o.Token != "" {
		cfg.Token = o.Token
	}
	if o.TokenFile != "" {
		cfg.TokenFile = o.TokenFile
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.Language != "" {
		cfg.Language = o.Language
	}
	o.cfg = cfg

	tag, err := language.Parse(cfg.Language)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", cfg.Language, err)
	}
	o.lang = bulk.MatchLanguage(tag)

	o.logger = zap.NewNop()
	if o.Verbose {
		log, err := logger.New(logger.Config{Level: "debug", Format: "console", Output: "stderr"})
		if err != nil {
			return err
		}
		o.logger = log
	}
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	if o.cfg == nil {
		return fmt.Errorf("options not completed")
	}
	if !strings.HasPrefix(o.cfg.Server, "http://") && !strings.HasPrefix(o.cfg.Server, "https://") {
		return fmt.Errorf("server url must start with http:// or https://, got %q", o.cfg.Server)
	}
	return nil
}

// Client builds an API client from the completed options
func (o *GlobalOptions) Client() *importclient.Client {
	return importclient.New(o.cfg.Server,
		importclient.CredentialsFor(o.cfg.Token, o.cfg.TokenFile, TokenEnvVar),
		importclient.WithTimeout(o.cfg.Timeout),
		importclient.WithLogger(o.logger),
	)
}

func (o *GlobalOptions) Lang() language.Tag {
	return o.lang
}

func (o *GlobalOptions) Logger() *zap.Logger {
	return o.logger
}

// run wires the Complete, Validate, Run sequence shared by all commands
func run(cmd *cobra.Command, args []string, complete func(*cobra.Command, []string) error, validate func([]string) error, exec func() error) error {
	if err := complete(cmd, args); err != nil {
		return err
	}
	if err := validate(args); err != nil {
		return err
	}
	return exec()
}
