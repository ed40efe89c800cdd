package crypto

import (
	"fmt"

	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// Sign produces a detached ML-DSA-65 signature over message using the raw
// private key bytes.
func Sign(secretKey, message []byte) ([]byte, error) {
	if len(secretKey) != MLDSAPrivateKeySize {
		return nil, ErrInvalidSigningKeySize
	}

	priv := &mldsa65.PrivateKey{}
	if err := priv.UnmarshalBinary(secretKey); err != nil {
		return nil, fmt.Errorf("unmarshal private key: %w", err)
	}

	sig := make([]byte, mldsa65.SignatureSize)
	mldsa65.SignTo(priv, message, nil, false, sig)

	return sig, nil
}

// Verify verifies a detached ML-DSA-65 signature. It returns nil for a
// valid signature and an error otherwise.
func Verify(publicKey, message, signature []byte) error {
	if len(publicKey) != MLDSAPublicKeySize {
		return ErrInvalidSigningKeySize
	}

	pk := &mldsa65.PublicKey{}
	if err := pk.UnmarshalBinary(publicKey); err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	if !mldsa65.Verify(pk, message, nil, signature) {
		return ErrSignatureVerificationFailed
	}

	return nil
}

// VerifySafe verifies a signature without returning an error.
// Returns true if the signature is valid, false otherwise.
func VerifySafe(publicKey, message, signature []byte) bool {
	return Verify(publicKey, message, signature) == nil
}
