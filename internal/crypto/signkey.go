package crypto

import (
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
)

// SigningKeypair represents an ML-DSA-65 keypair for detached signatures.
type SigningKeypair struct {
	// PublicKey is the raw ML-DSA-65 public key bytes.
	PublicKey []byte
	// SecretKey is the raw ML-DSA-65 private key bytes.
	SecretKey []byte
}

// GenerateSigningKeypair creates a new ML-DSA-65 keypair.
func GenerateSigningKeypair() (*SigningKeypair, error) {
	pub, priv, err := mldsa65.GenerateKey(randReader)
	if err != nil {
		return nil, err
	}

	pubBytes, err := pub.MarshalBinary()
	if err != nil {
		return nil, err
	}
	privBytes, err := priv.MarshalBinary()
	if err != nil {
		return nil, err
	}

	return &SigningKeypair{
		PublicKey: pubBytes,
		SecretKey: privBytes,
	}, nil
}

// NewSigningKeypairFromBytes creates a signing keypair from raw bytes,
// verifying that the two halves parse and belong together. The check
// signs and verifies a probe message because ML-DSA private keys do not
// expose their public half byte-for-byte.
func NewSigningKeypairFromBytes(secretKeyBytes, publicKeyBytes []byte) (*SigningKeypair, error) {
	if len(secretKeyBytes) != MLDSAPrivateKeySize {
		return nil, ErrInvalidSigningKeySize
	}
	if len(publicKeyBytes) != MLDSAPublicKeySize {
		return nil, ErrInvalidSigningKeySize
	}

	kp := &SigningKeypair{
		PublicKey: publicKeyBytes,
		SecretKey: secretKeyBytes,
	}

	probe := []byte("keypair-probe")
	sig, err := Sign(secretKeyBytes, probe)
	if err != nil {
		return nil, err
	}
	if err := Verify(publicKeyBytes, probe, sig); err != nil {
		return nil, ErrKeypairMismatch
	}

	return kp, nil
}
