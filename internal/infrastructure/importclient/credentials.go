package importclient

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoCredentials is returned when a provider has no token to offer
var ErrNoCredentials = errors.New("no API token configured")

// CredentialProvider supplies the bearer token. It is asked again for
// every request so rotated tokens are picked up without a restart.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticCredentials always returns the same token
type StaticCredentials string

// Token implements CredentialProvider
func (c StaticCredentials) Token(context.Context) (string, error) {
	if c == "" {
		return "", ErrNoCredentials
	}
	return string(c), nil
}

// EnvCredentials reads the token from an environment variable
type EnvCredentials struct {
	Var string
}

// Token implements CredentialProvider
func (c EnvCredentials) Token(context.Context) (string, error) {
	token := strings.TrimSpace(os.Getenv(c.Var))
	if token == "" {
		return "", fmt.Errorf("%w: $%s is empty", ErrNoCredentials, c.Var)
	}
	return token, nil
}

// FileCredentials reads the token from a file, such as one refreshed by a
// sidecar.
type FileCredentials struct {
	Path string
}

// Token implements CredentialProvider
func (c FileCredentials) Token(context.Context) (string, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNoCredentials, c.Path)
	}
	return token, nil
}

// CredentialsFor picks a provider from explicit settings: a literal token
// wins over a token file, which wins over the environment variable.
func CredentialsFor(token, tokenFile, envVar string) CredentialProvider {
	switch {
	case token != "":
		return StaticCredentials(token)
	case tokenFile != "":
		return FileCredentials{Path: tokenFile}
	}
	return EnvCredentials{Var: envVar}
}
