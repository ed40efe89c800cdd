package supplychain

import (
	"errors"
	"fmt"

	"github.com/EasyDeduce/Agricultural-Supply-Chain/internal/crypto"
	"github.com/EasyDeduce/Agricultural-Supply-Chain/internal/keystore"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrKeyGeneration is returned when the underlying primitive could not
	// produce a key pair. This is fatal: there is no fallback key source.
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrKeyRead is returned when persisted key material exists but cannot
	// be read or decoded. The core never regenerates in response, since a
	// fresh pair would orphan previously encrypted data.
	ErrKeyRead = errors.New("key read failed")

	// ErrKeyPassphraseRequired is returned when a private key file is
	// sealed and no passphrase was configured.
	ErrKeyPassphraseRequired = errors.New("key passphrase required")

	// ErrEncryptionFailed is returned when serialization or the symmetric
	// encryption step fails. Callers must treat the pending write as
	// failed and not persist a half-written envelope.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrDecryptionFailed is returned when decapsulation or the symmetric
	// decryption/padding check fails. It indicates a key mismatch or data
	// corruption, never a transient condition; retrying cannot help.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidEnvelope is returned when an envelope is structurally
	// invalid (missing parts or undecodable encoding).
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrSignaturesDisabled is returned by signing operations when the
	// deployment has the signature layer toggled off.
	ErrSignaturesDisabled = errors.New("signature layer is disabled")
)

// KeyStoreError carries the scheme and file path of a failed key-store
// operation. It matches ErrKeyRead or ErrKeyGeneration via errors.Is.
type KeyStoreError struct {
	// Scheme is "encryption" or "signing".
	Scheme string
	// Path is the key file involved, if any.
	Path string
	// Err is the underlying cause.
	Err error

	generation bool
}

func (e *KeyStoreError) Error() string {
	if e.generation {
		return fmt.Sprintf("generate %s key pair: %v", e.Scheme, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("read %s key %s: %v", e.Scheme, e.Path, e.Err)
	}
	return fmt.Sprintf("read %s key: %v", e.Scheme, e.Err)
}

func (e *KeyStoreError) Unwrap() error { return e.Err }

// Is implements errors.Is for sentinel error matching.
func (e *KeyStoreError) Is(target error) bool {
	if e.generation {
		return target == ErrKeyGeneration
	}
	if target == ErrKeyRead {
		return true
	}
	return target == ErrKeyPassphraseRequired && errors.Is(e.Err, keystore.ErrPassphraseRequired)
}

// wrapKeyError converts internal keystore errors to public error types
// so that errors.Is() checks work correctly.
func wrapKeyError(err error) error {
	if err == nil {
		return nil
	}

	var readErr *keystore.KeyReadError
	if errors.As(err, &readErr) {
		return &KeyStoreError{Scheme: string(readErr.Scheme), Path: readErr.Path, Err: readErr.Err}
	}

	var genErr *keystore.KeyGenerationError
	if errors.As(err, &genErr) {
		return &KeyStoreError{Scheme: string(genErr.Scheme), Err: genErr.Err, generation: true}
	}

	return err
}

// wrapCryptoError converts internal crypto errors to public sentinel
// errors.
func wrapCryptoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, crypto.ErrInvalidEnvelope):
		return fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	case errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, crypto.ErrInvalidCiphertextSize),
		errors.Is(err, crypto.ErrInvalidIVSize):
		return fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	case errors.Is(err, crypto.ErrEncryptionFailed):
		return fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	default:
		return err
	}
}
