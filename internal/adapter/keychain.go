package adapter

import (
	"context"
	"strings"
	"time"

	"wifimon/internal/domain"
	"wifimon/internal/parser"
	"wifimon/internal/runner"
)

const (
	securityPath = "security"
	// airportPasswordKind is the keychain item kind macOS uses for WiFi passwords
	airportPasswordKind = "AirPort network password"
	// securityItemNotFound is the exit status of security(1) when no item matches
	securityItemNotFound = 44

	// DefaultCredentialTimeout bounds one keychain lookup. The keychain may prompt
	// the user, so it is longer than a source timeout.
	DefaultCredentialTimeout = 30 * time.Second
)

// CredentialStore looks up stored network passwords
type CredentialStore interface {
	Lookup(ctx context.Context, id domain.NetworkID) (domain.Secret, error)
}

// Keychain reads passwords from the macOS keychain with security(1)
type Keychain struct {
	runner  runner.Runner
	timeout time.Duration
}

// NewKeychain creates a keychain store. A zero timeout uses DefaultCredentialTimeout.
func NewKeychain(run runner.Runner, timeout time.Duration) *Keychain {
	if timeout <= 0 {
		timeout = DefaultCredentialTimeout
	}
	return &Keychain{runner: run, timeout: timeout}
}

// Command returns the lookup invocation for id
func (k *Keychain) Command(id domain.NetworkID) runner.Command {
	return runner.Command{
		Name:    securityPath,
		Args:    []string{"find-generic-password", "-D", airportPasswordKind, "-a", string(id), "-w"},
		Timeout: k.timeout,
	}
}

// Lookup returns the stored password for id, or a domain.NotFoundError
func (k *Keychain) Lookup(ctx context.Context, id domain.NetworkID) (domain.Secret, error) {
	cmd := k.Command(id)
	res, err := k.runner.Run(ctx, cmd)
	if err != nil {
		return domain.Secret{}, err
	}

	if res.ExitCode == securityItemNotFound || strings.Contains(res.Stderr, "could not be found") {
		return domain.Secret{}, &domain.NotFoundError{Kind: domain.NotFoundCredential, ID: id}
	}
	if !res.Success() {
		return domain.Secret{}, &domain.ExitError{
			Command: cmd.String(),
			Code:    res.ExitCode,
			Stderr:  strings.TrimSpace(res.Stderr),
		}
	}

	secret, ok := parser.NewCredentialParser(id).Secret(res.Stdout)
	if !ok {
		return domain.Secret{}, &domain.NotFoundError{Kind: domain.NotFoundCredential, ID: id}
	}
	return secret, nil
}
