package keystore

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Scheme identifies one of the two independent key pairs the store manages.
type Scheme string

const (
	// SchemeEncryption is the ML-KEM-768 encapsulation pair.
	SchemeEncryption Scheme = "encryption"
	// SchemeSigning is the ML-DSA-65 signature pair.
	SchemeSigning Scheme = "signing"
)

// Pair holds the raw bytes of one persisted key pair.
type Pair struct {
	Public  []byte
	Private []byte
}

// Generator produces a fresh key pair for a scheme. The store is agnostic
// to the underlying primitive; the caller supplies the right generator
// per scheme.
type Generator func() (public, private []byte, err error)

// Store persists key pairs as hex-encoded files under a single directory:
// <dir>/<scheme>_public.key and <dir>/<scheme>_private.key. The directory
// holds private key material and must be excluded from any backup or
// version-control surface that is not access-controlled.
type Store struct {
	dir        string
	passphrase []byte
}

// New creates a store rooted at dir. The directory is created on first
// generation, not here.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// NewSealed creates a store that seals private key files at rest under
// the given passphrase. Public key files stay plain hex.
func NewSealed(dir string, passphrase []byte) *Store {
	return &Store{dir: dir, passphrase: passphrase}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string { return s.dir }

// PublicPath returns the public key file path for a scheme.
func (s *Store) PublicPath(scheme Scheme) string {
	return filepath.Join(s.dir, string(scheme)+"_public.key")
}

// PrivatePath returns the private key file path for a scheme.
func (s *Store) PrivatePath(scheme Scheme) string {
	return filepath.Join(s.dir, string(scheme)+"_private.key")
}

// LoadOrGenerate returns the persisted pair for a scheme, generating and
// persisting a fresh one only when neither key file exists yet.
//
// Absence is the only condition that triggers generation. A half-present
// pair, an unreadable file, or undecodable contents fail loudly with
// *KeyReadError: silently regenerating would orphan every value already
// encrypted under the old pair.
func (s *Store) LoadOrGenerate(scheme Scheme, generate Generator) (*Pair, error) {
	pubPath := s.PublicPath(scheme)
	privPath := s.PrivatePath(scheme)

	pubExists, err := s.exists(scheme, pubPath)
	if err != nil {
		return nil, err
	}
	privExists, err := s.exists(scheme, privPath)
	if err != nil {
		return nil, err
	}

	switch {
	case pubExists && privExists:
		return s.load(scheme)
	case !pubExists && !privExists:
		return s.generate(scheme, generate)
	case pubExists:
		return nil, &KeyReadError{Scheme: scheme, Path: privPath, Err: ErrIncompletePair}
	default:
		return nil, &KeyReadError{Scheme: scheme, Path: pubPath, Err: ErrIncompletePair}
	}
}

func (s *Store) exists(scheme Scheme, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &KeyReadError{Scheme: scheme, Path: path, Err: err}
}

func (s *Store) load(scheme Scheme) (*Pair, error) {
	public, err := s.readKeyFile(scheme, s.PublicPath(scheme), false)
	if err != nil {
		return nil, err
	}
	private, err := s.readKeyFile(scheme, s.PrivatePath(scheme), true)
	if err != nil {
		return nil, err
	}
	return &Pair{Public: public, Private: private}, nil
}

func (s *Store) readKeyFile(scheme Scheme, path string, private bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &KeyReadError{Scheme: scheme, Path: path, Err: err}
	}

	if private && isSealed(data) {
		if len(s.passphrase) == 0 {
			return nil, &KeyReadError{Scheme: scheme, Path: path, Err: ErrPassphraseRequired}
		}
		data, err = openSealed(s.passphrase, data)
		if err != nil {
			return nil, &KeyReadError{Scheme: scheme, Path: path, Err: err}
		}
	}

	key, err := hex.DecodeString(string(data))
	if err != nil {
		return nil, &KeyReadError{Scheme: scheme, Path: path, Err: fmt.Errorf("decode hex: %w", err)}
	}
	return key, nil
}

func (s *Store) generate(scheme Scheme, generate Generator) (*Pair, error) {
	public, private, err := generate()
	if err != nil {
		return nil, &KeyGenerationError{Scheme: scheme, Err: err}
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create key directory: %w", err)
	}

	privData := []byte(hex.EncodeToString(private))
	if len(s.passphrase) > 0 {
		privData, err = seal(s.passphrase, privData)
		if err != nil {
			return nil, fmt.Errorf("seal %s private key: %w", scheme, err)
		}
	}

	if err := os.WriteFile(s.PrivatePath(scheme), privData, 0o600); err != nil {
		return nil, fmt.Errorf("write %s private key: %w", scheme, err)
	}
	if err := os.WriteFile(s.PublicPath(scheme), []byte(hex.EncodeToString(public)), 0o600); err != nil {
		return nil, fmt.Errorf("write %s public key: %w", scheme, err)
	}

	return &Pair{Public: public, Private: private}, nil
}
