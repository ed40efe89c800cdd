package keystore

import (
	"crypto/rand"
	"encoding/json"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	sealVersion = 1
	saltSize    = 16
	sealPrefix  = "ASCKEY1\n"

	argonTime    = uint32(2)
	argonMemKB   = uint32(64 * 1024)
	argonThreads = uint8(1)
)

// sealEnvelope is the on-disk form of a passphrase-sealed private key file.
type sealEnvelope struct {
	Version     uint32 `json:"version"`
	KDF         string `json:"kdf"`
	KDFTime     uint32 `json:"kdf_time"`
	KDFMemoryKB uint32 `json:"kdf_memory_kb"`
	KDFThreads  uint8  `json:"kdf_threads"`
	Salt        []byte `json:"salt"`
	Nonce       []byte `json:"nonce"`
	Ciphertext  []byte `json:"ciphertext"`
}

func isSealed(data []byte) bool {
	return strings.HasPrefix(string(data), sealPrefix)
}

func seal(passphrase, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	key := deriveSealKey(passphrase, salt, argonTime, argonMemKB, argonThreads)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	raw, err := json.Marshal(&sealEnvelope{
		Version:     sealVersion,
		KDF:         "argon2id",
		KDFTime:     argonTime,
		KDFMemoryKB: argonMemKB,
		KDFThreads:  argonThreads,
		Salt:        salt,
		Nonce:       nonce,
		Ciphertext:  ciphertext,
	})
	if err != nil {
		return nil, err
	}
	return append([]byte(sealPrefix), raw...), nil
}

func openSealed(passphrase, data []byte) ([]byte, error) {
	if !isSealed(data) {
		return nil, ErrInvalidSeal
	}
	var env sealEnvelope
	if err := json.Unmarshal(data[len(sealPrefix):], &env); err != nil {
		return nil, ErrInvalidSeal
	}
	if env.Version != sealVersion || env.KDF != "argon2id" {
		return nil, ErrInvalidSeal
	}
	if len(env.Nonce) != chacha20poly1305.NonceSizeX || len(env.Salt) != saltSize {
		return nil, ErrInvalidSeal
	}

	key := deriveSealKey(passphrase, env.Salt, env.KDFTime, env.KDFMemoryKB, env.KDFThreads)
	defer zeroBytes(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Ciphertext, nil)
	if err != nil {
		return nil, ErrSealAuthFailed
	}
	return plaintext, nil
}

func deriveSealKey(passphrase, salt []byte, time, memKB uint32, threads uint8) []byte {
	return argon2.IDKey(passphrase, salt, time, memKB, threads, chacha20poly1305.KeySize)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
