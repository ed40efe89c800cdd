package supplychain

import "log/slog"

// DefaultKeyDir is the key storage directory used when none is configured.
const DefaultKeyDir = "keys"

// providerConfig holds configuration for the provider.
type providerConfig struct {
	keyDir     string
	signatures bool
	passphrase []byte
	logger     *slog.Logger
}

// Option configures the provider.
type Option func(*providerConfig)

// WithKeyDir sets the directory holding the persisted key pair files.
// The directory is created on first key generation. Its confidentiality
// is a deployment requirement: the private key files allow disclosure of
// every previously encrypted field value.
func WithKeyDir(dir string) Option {
	return func(c *providerConfig) {
		c.keyDir = dir
	}
}

// WithSignatures toggles the token signature layer. When disabled, the
// surrounding bearer-token scheme alone governs authentication and the
// signing key pair is never loaded or generated.
func WithSignatures(enabled bool) Option {
	return func(c *providerConfig) {
		c.signatures = enabled
	}
}

// WithKeyPassphrase seals private key files at rest under a passphrase.
// A store created without the passphrase refuses to open sealed files.
func WithKeyPassphrase(passphrase string) Option {
	return func(c *providerConfig) {
		c.passphrase = []byte(passphrase)
	}
}

// WithLogger sets the logger used for per-field decryption fallbacks.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *providerConfig) {
		c.logger = logger
	}
}
