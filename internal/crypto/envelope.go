package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

// Envelope is the encrypted-at-rest representation of one field value.
// It is self-contained: the KEM ciphertext lets the private key holder
// recover the symmetric key that protects the payload.
type Envelope struct {
	// CtKem is the ML-KEM-768 ciphertext (hex-encoded).
	CtKem string `json:"ct_kem"`
	// Ciphertext is the AES-256-CBC encrypted payload (base64-encoded).
	Ciphertext string `json:"ciphertext"`
	// IV is the 16-byte CBC initialization vector (hex-encoded).
	IV string `json:"iv"`
}

// Encrypt wraps a value into an envelope recoverable only by the holder
// of the matching KEM secret key.
//
// The encryption process:
//  1. Canonicalize the value to its string form
//  2. ML-KEM-768 encapsulation against publicKey, with fresh randomness
//  3. AES-256-CBC under the 32-byte shared secret and a fresh random IV
//
// Encrypting the same value twice yields unlinkable envelopes: both the
// KEM ciphertext and the IV differ between calls.
func Encrypt(value any, publicKey []byte) (*Envelope, error) {
	plaintext, err := Canonicalize(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	ctKem, sharedSecret, err := Encapsulate(publicKey)
	if err != nil {
		return nil, fmt.Errorf("encapsulate: %w", err)
	}

	iv := make([]byte, AESBlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	ciphertext, err := encryptAESCBC(sharedSecret, iv, []byte(plaintext))
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}

	return &Envelope{
		CtKem:      ToHex(ctKem),
		Ciphertext: ToBase64(ciphertext),
		IV:         ToHex(iv),
	}, nil
}

// Decrypt recovers the original value from an envelope using the raw KEM
// secret key bytes. A mismatched key surfaces as ErrDecryptionFailed from
// the padding check rather than silently returning garbage plaintext.
func Decrypt(envelope *Envelope, secretKey []byte) (any, error) {
	plaintext, err := DecryptToString(envelope, secretKey)
	if err != nil {
		return nil, err
	}
	return Decanonicalize(plaintext), nil
}

// DecryptToString recovers the canonical plaintext string of an envelope
// without the structured-value parse step.
func DecryptToString(envelope *Envelope, secretKey []byte) (string, error) {
	if envelope == nil {
		return "", ErrInvalidEnvelope
	}

	ctKem, err := FromHex(envelope.CtKem)
	if err != nil {
		return "", fmt.Errorf("%w: decode ct_kem: %v", ErrInvalidEnvelope, err)
	}

	iv, err := FromHex(envelope.IV)
	if err != nil {
		return "", fmt.Errorf("%w: decode iv: %v", ErrInvalidEnvelope, err)
	}

	ciphertext, err := FromBase64(envelope.Ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: decode ciphertext: %v", ErrInvalidEnvelope, err)
	}

	sharedSecret, err := Decapsulate(secretKey, ctKem)
	if err != nil {
		return "", fmt.Errorf("decapsulate: %w", err)
	}

	plaintext, err := decryptAESCBC(sharedSecret, iv, ciphertext)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// encryptAESCBC encrypts data using AES-256-CBC with PKCS#7 padding.
func encryptAESCBC(key, iv, plaintext []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}
	if len(iv) != AESBlockSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), AESBlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := padPKCS7(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

// decryptAESCBC decrypts AES-256-CBC data and validates PKCS#7 padding.
func decryptAESCBC(key, iv, ciphertext []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}
	if len(iv) != AESBlockSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidIVSize, len(iv), AESBlockSize)
	}
	if len(ciphertext) == 0 || len(ciphertext)%AESBlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return unpadPKCS7(padded)
}

// padPKCS7 appends PKCS#7 padding so arbitrary-length plaintext fills
// whole AES blocks. A full block of padding is added when the plaintext
// is already block-aligned.
func padPKCS7(data []byte) []byte {
	n := AESBlockSize - len(data)%AESBlockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpadPKCS7 strips and validates PKCS#7 padding. Any inconsistency is
// reported as ErrDecryptionFailed since a bad pad is how a wrong key or
// tampered ciphertext manifests under CBC.
func unpadPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%AESBlockSize != 0 {
		return nil, ErrDecryptionFailed
	}

	n := int(data[len(data)-1])
	if n == 0 || n > AESBlockSize || n > len(data) {
		return nil, ErrDecryptionFailed
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrDecryptionFailed
		}
	}

	return data[:len(data)-n], nil
}
