package supplychain

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/EasyDeduce/Agricultural-Supply-Chain/internal/crypto"
	"github.com/EasyDeduce/Agricultural-Supply-Chain/internal/keystore"
)

// KeyPair exposes the raw bytes of one of the provider's key pairs.
// Callers must treat both halves as read-only.
type KeyPair struct {
	PublicKey  []byte
	PrivateKey []byte
}

// Envelope is the persisted form of one encrypted field value. It is
// produced by one Encrypt call and consumed by exactly one Decrypt call
// using the holder's matching private key.
type Envelope struct {
	// CtKem is the ML-KEM-768 ciphertext (hex-encoded).
	CtKem string `json:"ct_kem"`
	// Ciphertext is the AES-256-CBC encrypted payload (base64-encoded).
	Ciphertext string `json:"ciphertext"`
	// IV is the 16-byte CBC initialization vector (hex-encoded).
	IV string `json:"iv"`
}

func (e *Envelope) toInternal() *crypto.Envelope {
	if e == nil {
		return nil
	}
	return &crypto.Envelope{CtKem: e.CtKem, Ciphertext: e.Ciphertext, IV: e.IV}
}

func envelopeFromInternal(e *crypto.Envelope) *Envelope {
	return &Envelope{CtKem: e.CtKem, Ciphertext: e.Ciphertext, IV: e.IV}
}

// Provider is the process-wide crypto context. It owns the keystore and
// the two cached key pairs, and is handed by reference into everything
// that encrypts, decrypts, signs, or verifies.
//
// Keys are loaded (or generated on first run) lazily, at most once per
// scheme per process. All operations are safe for concurrent use; after
// the first load per scheme there is no shared mutable state.
type Provider struct {
	cfg   providerConfig
	store *keystore.Store

	encOnce sync.Once
	encPair *crypto.Keypair
	encErr  error

	sigOnce sync.Once
	sigPair *crypto.SigningKeypair
	sigErr  error
}

// New creates a provider. Construct one at process startup and share it;
// do not create a provider per request.
func New(opts ...Option) (*Provider, error) {
	cfg := providerConfig{
		keyDir:     DefaultKeyDir,
		signatures: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	var store *keystore.Store
	if len(cfg.passphrase) > 0 {
		store = keystore.NewSealed(cfg.keyDir, cfg.passphrase)
	} else {
		store = keystore.New(cfg.keyDir)
	}

	return &Provider{cfg: cfg, store: store}, nil
}

// KeyDir returns the configured key storage directory.
func (p *Provider) KeyDir() string { return p.store.Dir() }

// SignaturesEnabled reports whether the token signature layer is active.
func (p *Provider) SignaturesEnabled() bool { return p.cfg.signatures }

// encryptionKeys returns the cached ML-KEM-768 pair, loading or
// generating it on first use. The sync.Once gate serializes concurrent
// first-time callers so two of them cannot race to persist different
// pairs under the same paths.
func (p *Provider) encryptionKeys() (*crypto.Keypair, error) {
	p.encOnce.Do(func() {
		pair, err := p.store.LoadOrGenerate(keystore.SchemeEncryption, func() ([]byte, []byte, error) {
			kp, err := crypto.GenerateKeypair()
			if err != nil {
				return nil, nil, err
			}
			return kp.PublicKey, kp.SecretKey, nil
		})
		if err != nil {
			p.encErr = wrapKeyError(err)
			return
		}
		kp, err := crypto.NewKeypairFromBytes(pair.Private, pair.Public)
		if err != nil {
			p.encErr = &KeyStoreError{
				Scheme: string(keystore.SchemeEncryption),
				Path:   p.store.PrivatePath(keystore.SchemeEncryption),
				Err:    err,
			}
			return
		}
		p.encPair = kp
	})
	return p.encPair, p.encErr
}

// signingKeys returns the cached ML-DSA-65 pair, loading or generating
// it on first use.
func (p *Provider) signingKeys() (*crypto.SigningKeypair, error) {
	p.sigOnce.Do(func() {
		pair, err := p.store.LoadOrGenerate(keystore.SchemeSigning, func() ([]byte, []byte, error) {
			kp, err := crypto.GenerateSigningKeypair()
			if err != nil {
				return nil, nil, err
			}
			return kp.PublicKey, kp.SecretKey, nil
		})
		if err != nil {
			p.sigErr = wrapKeyError(err)
			return
		}
		kp, err := crypto.NewSigningKeypairFromBytes(pair.Private, pair.Public)
		if err != nil {
			p.sigErr = &KeyStoreError{
				Scheme: string(keystore.SchemeSigning),
				Path:   p.store.PrivatePath(keystore.SchemeSigning),
				Err:    err,
			}
			return
		}
		p.sigPair = kp
	})
	return p.sigPair, p.sigErr
}

// EncryptionKeys returns the encapsulation key pair, loading or
// generating it on first use.
func (p *Provider) EncryptionKeys() (*KeyPair, error) {
	kp, err := p.encryptionKeys()
	if err != nil {
		return nil, err
	}
	return &KeyPair{PublicKey: kp.PublicKey, PrivateKey: kp.SecretKey}, nil
}

// SigningKeys returns the signature key pair, loading or generating it
// on first use. It fails with ErrSignaturesDisabled when the signature
// layer is toggled off.
func (p *Provider) SigningKeys() (*KeyPair, error) {
	if !p.cfg.signatures {
		return nil, ErrSignaturesDisabled
	}
	kp, err := p.signingKeys()
	if err != nil {
		return nil, err
	}
	return &KeyPair{PublicKey: kp.PublicKey, PrivateKey: kp.SecretKey}, nil
}

// EncryptionKeyFingerprint returns the SHA-256 fingerprint of the
// encapsulation public key, hex-encoded. Safe to log: it identifies the
// key without exposing material.
func (p *Provider) EncryptionKeyFingerprint() (string, error) {
	kp, err := p.encryptionKeys()
	if err != nil {
		return "", err
	}
	return fingerprint(kp.PublicKey), nil
}

// SigningKeyFingerprint returns the SHA-256 fingerprint of the signature
// public key, hex-encoded.
func (p *Provider) SigningKeyFingerprint() (string, error) {
	if !p.cfg.signatures {
		return "", ErrSignaturesDisabled
	}
	kp, err := p.signingKeys()
	if err != nil {
		return "", err
	}
	return fingerprint(kp.PublicKey), nil
}

func fingerprint(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return hex.EncodeToString(sum[:])
}

// Encrypt wraps a value into an envelope recoverable only with this
// provider's encryption private key. Strings pass through the
// serialization boundary as-is; structured values are JSON-encoded.
// Two calls on the same value yield unlinkable envelopes.
func (p *Provider) Encrypt(value any) (*Envelope, error) {
	kp, err := p.encryptionKeys()
	if err != nil {
		return nil, err
	}
	env, err := crypto.Encrypt(value, kp.PublicKey)
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	return envelopeFromInternal(env), nil
}

// Decrypt recovers the original value from an envelope. Structured
// values come back as their JSON shape (maps, slices, numbers); values
// that were plain scalars come back as the raw string. A mismatched key
// or corrupted ciphertext fails with ErrDecryptionFailed.
func (p *Provider) Decrypt(envelope *Envelope) (any, error) {
	if envelope == nil {
		return nil, ErrInvalidEnvelope
	}
	kp, err := p.encryptionKeys()
	if err != nil {
		return nil, err
	}
	value, err := crypto.Decrypt(envelope.toInternal(), kp.SecretKey)
	if err != nil {
		return nil, wrapCryptoError(err)
	}
	return value, nil
}
