package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/storefront/backoffice/internal/infrastructure/auth"
	"github.com/storefront/backoffice/internal/infrastructure/config"
)

// TokenOptions signs a token locally with the server's secret
type TokenOptions struct {
	OutputOptions

	Secret   string
	Issuer   string
	UserID   string
	Username string
	Roles    []string
	TTL      time.Duration

	// loadServerConfig is swapped in tests
	loadServerConfig func() (*config.Config, error)
}

func NewCmdToken() *cobra.Command {
	o := &TokenOptions{
		Username:         "importctl",
		Roles:            []string{auth.RoleAdmin},
		loadServerConfig: config.Load,
	}
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an API token with the server's JWT secret.",
		Long: "Sign an API token with the server's JWT secret. Without --secret the " +
			"secret and issuer are read from config.toml and BACKOFFICE_ variables.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *TokenOptions) Bind(fs *pflag.FlagSet) {
	o.OutputOptions.Bind(fs)
	fs.StringVar(&o.Secret, "secret", o.Secret, "HMAC secret")
	fs.StringVar(&o.Issuer, "issuer", o.Issuer, "Token issuer")
	fs.StringVar(&o.UserID, "user-id", o.UserID, "Subject uuid (random when empty)")
	fs.StringVar(&o.Username, "username", o.Username, "Username claim")
	fs.StringSliceVar(&o.Roles, "role", o.Roles, "Role claim, repeatable (admin, bot)")
	fs.DurationVar(&o.TTL, "ttl", o.TTL, "Token lifetime (server default when zero)")
}

func (o *TokenOptions) Validate() error {
	if o.Username == "" {
		return fmt.Errorf("username is required")
	}
	if o.TTL < 0 {
		return fmt.Errorf("ttl cannot be negative")
	}
	for _, role := range o.Roles {
		if role != auth.RoleAdmin && role != auth.RoleBot {
			return fmt.Errorf("unknown role %q", role)
		}
	}
	return o.OutputOptions.Validate()
}

func (o *TokenOptions) Run(out io.Writer) error {
	jwtCfg := config.JWTConfig{Secret: o.Secret, Issuer: o.Issuer}
	if jwtCfg.Secret == "" {
		cfg, err := o.loadServerConfig()
		if err != nil {
			return err
		}
		jwtCfg = cfg.JWT
		if o.Issuer != "" {
			jwtCfg.Issuer = o.Issuer
		}
	}

	userID := uuid.New()
	if o.UserID != "" {
		parsed, err := uuid.Parse(o.UserID)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		userID = parsed
	}

	tok, err := auth.NewJWTService(jwtCfg).GenerateToken(auth.GenerateTokenInput{
		UserID:   userID,
		Username: o.Username,
		Roles:    o.Roles,
		TTL:      o.TTL,
	})
	if err != nil {
		return err
	}
	if o.Output == "" {
		_, err := fmt.Fprintln(out, tok.AccessToken)
		return err
	}
	return o.print(out, tok, func(*tabwriter.Writer) {})
}
