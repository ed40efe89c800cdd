package crypto

import "errors"

var (
	// ErrInvalidSecretKeySize is returned when the KEM secret key size is invalid.
	ErrInvalidSecretKeySize = errors.New("invalid secret key size")

	// ErrInvalidPublicKeySize is returned when the KEM public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidCiphertextSize is returned when the KEM ciphertext size is invalid.
	ErrInvalidCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidSigningKeySize is returned when an ML-DSA key size is invalid.
	ErrInvalidSigningKeySize = errors.New("invalid signing key size")

	// ErrKeypairMismatch is returned when a public key and secret key were
	// not generated in the same call.
	ErrKeypairMismatch = errors.New("public and secret keys are not a matching pair")

	// ErrSignatureVerificationFailed is returned when signature verification fails.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrDecryptionFailed is returned when symmetric decryption or padding
	// validation fails. With CBC this is the authoritative signal of a
	// mismatched private key or corrupted ciphertext.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrEncryptionFailed is returned when the symmetric encryption step fails.
	ErrEncryptionFailed = errors.New("encryption failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidIVSize is returned when the CBC IV size is invalid.
	ErrInvalidIVSize = errors.New("invalid iv size")

	// ErrInvalidEnvelope is returned when an envelope is structurally invalid.
	// This includes missing parts and undecodable hex/base64 encoding.
	ErrInvalidEnvelope = errors.New("invalid envelope")
)
