package keystore

import (
	"errors"
	"fmt"
)

var (
	// ErrPassphraseRequired is returned when a private key file is sealed
	// but no passphrase is configured.
	ErrPassphraseRequired = errors.New("key file is sealed and no passphrase is configured")

	// ErrSealAuthFailed is returned when a sealed key file fails
	// authentication, usually because the passphrase is wrong.
	ErrSealAuthFailed = errors.New("sealed key authentication failed")

	// ErrInvalidSeal is returned when a sealed key file is structurally invalid.
	ErrInvalidSeal = errors.New("sealed key envelope is invalid")

	// ErrIncompletePair is returned when exactly one of a pair's two key
	// files exists on disk. Regenerating over a half-present pair would
	// orphan previously encrypted data, so this is a hard failure.
	ErrIncompletePair = errors.New("incomplete key pair on disk")
)

// KeyReadError indicates that persisted key material exists but could not
// be read or decoded. It is never safe to regenerate in response: data
// already encrypted under the unreadable key would become unrecoverable.
type KeyReadError struct {
	Scheme Scheme
	Path   string
	Err    error
}

func (e *KeyReadError) Error() string {
	return fmt.Sprintf("read %s key %s: %v", e.Scheme, e.Path, e.Err)
}

func (e *KeyReadError) Unwrap() error { return e.Err }

// KeyGenerationError indicates that the underlying primitive could not
// produce a key pair. There is no fallback key source, so initialization
// must abort.
type KeyGenerationError struct {
	Scheme Scheme
	Err    error
}

func (e *KeyGenerationError) Error() string {
	return fmt.Sprintf("generate %s key pair: %v", e.Scheme, e.Err)
}

func (e *KeyGenerationError) Unwrap() error { return e.Err }
