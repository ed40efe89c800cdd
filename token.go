package supplychain

import (
	"fmt"

	"github.com/EasyDeduce/Agricultural-Supply-Chain/internal/crypto"
)

// SignedPackage pairs a payload with its detached ML-DSA-65 signature.
// The signature covers the canonicalized payload, so a string payload is
// signed as-is and a structured payload is signed in its JSON form.
type SignedPackage struct {
	// Data is the original payload (string or structured value).
	Data any `json:"data"`
	// Signature is the detached signature (base64url-encoded).
	Signature string `json:"signature"`
}

// Validate checks that the package is structurally sound: the signature
// must be present, decodable, and of the ML-DSA-65 signature size.
// It says nothing about whether the signature verifies.
func (s *SignedPackage) Validate() error {
	if s == nil {
		return fmt.Errorf("signed package is nil")
	}
	if s.Signature == "" {
		return fmt.Errorf("signed package has no signature")
	}
	sig, err := crypto.FromBase64URL(s.Signature)
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	if len(sig) != crypto.MLDSASignatureSize {
		return fmt.Errorf("signature size %d, expected %d", len(sig), crypto.MLDSASignatureSize)
	}
	return nil
}

// Sign produces a SignedPackage over a payload using the provider's
// signing private key. This layers post-quantum authenticity on top of
// the surrounding bearer-token scheme; it does not replace it.
//
// When the signature layer is disabled, Sign returns
// ErrSignaturesDisabled and issuance must be skipped.
func (p *Provider) Sign(payload any) (*SignedPackage, error) {
	if !p.cfg.signatures {
		return nil, ErrSignaturesDisabled
	}

	kp, err := p.signingKeys()
	if err != nil {
		return nil, err
	}

	message, err := crypto.Canonicalize(payload)
	if err != nil {
		return nil, fmt.Errorf("canonicalize payload: %w", err)
	}

	sig, err := crypto.Sign(kp.SecretKey, []byte(message))
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}

	return &SignedPackage{
		Data:      payload,
		Signature: crypto.ToBase64URL(sig),
	}, nil
}

// Verify reports whether the package's signature is valid under the
// provider's signing public key. Every failure mode is a definite false:
// a bad signature, a tampered payload, an undecodable signature
// encoding, or an unloadable payload. The calling authorization layer
// depends on receiving a boolean, never a panic.
//
// When the signature layer is disabled, Verify reports true: bearer
// tokens alone govern authentication and this layer stands aside.
func (p *Provider) Verify(pkg *SignedPackage) bool {
	if !p.cfg.signatures {
		return true
	}
	if pkg == nil {
		return false
	}
	return p.VerifyToken(pkg.Data, pkg.Signature)
}

// SignToken signs an opaque token (e.g. a session credential) and
// returns the detached signature, base64url-encoded.
func (p *Provider) SignToken(token string) (string, error) {
	pkg, err := p.Sign(token)
	if err != nil {
		return "", err
	}
	return pkg.Signature, nil
}

// VerifyToken reports whether signature is a valid detached signature
// over payload under the provider's signing public key. Like Verify, it
// returns false for every failure mode rather than an error.
func (p *Provider) VerifyToken(payload any, signature string) bool {
	if !p.cfg.signatures {
		return true
	}

	kp, err := p.signingKeys()
	if err != nil {
		return false
	}

	message, err := crypto.Canonicalize(payload)
	if err != nil {
		return false
	}

	sig, err := crypto.FromBase64URL(signature)
	if err != nil {
		return false
	}

	return crypto.VerifySafe(kp.PublicKey, []byte(message), sig)
}
