package supplychain

import (
	"errors"
	"fmt"

	"github.com/EasyDeduce/Agricultural-Supply-Chain/internal/crypto"
)

// Field declares one encrypted field of a record type: its stable name
// (the key under which envelope parts are stored) and accessors for the
// plaintext value on the record. The accessor pair is resolved at
// construction time, so a misdeclared field fails when the crypter is
// built rather than at first save.
type Field[T any] struct {
	// Name keys the field's envelope parts in EncryptedFields.
	Name string
	// Get reads the field's current plaintext value from the record.
	Get func(*T) any
	// Set writes a decrypted value back onto the record.
	Set func(*T, any)
}

// EncryptedFields holds the envelope parts for a record's encrypted
// fields: three parallel maps keyed by field name. The maps are excluded
// from JSON serialization so raw envelopes never leak through an
// externally visible representation of the record; only the record
// crypter reads them directly.
type EncryptedFields struct {
	// CtKem maps field name to the KEM ciphertext (hex-encoded).
	CtKem map[string]string `json:"-"`
	// Data maps field name to the symmetric ciphertext (base64-encoded).
	Data map[string]string `json:"-"`
	// IV maps field name to the CBC IV (hex-encoded).
	IV map[string]string `json:"-"`
}

// Has reports whether envelope parts are stored for a field.
func (e *EncryptedFields) Has(name string) bool {
	_, ok := e.envelope(name)
	return ok
}

// Clear drops all stored envelope parts. Used by the safe projection
// step before a record leaves the persistence boundary.
func (e *EncryptedFields) Clear() {
	if e == nil {
		return
	}
	e.CtKem = nil
	e.Data = nil
	e.IV = nil
}

func (e *EncryptedFields) init() {
	if e.CtKem == nil {
		e.CtKem = make(map[string]string)
	}
	if e.Data == nil {
		e.Data = make(map[string]string)
	}
	if e.IV == nil {
		e.IV = make(map[string]string)
	}
}

func (e *EncryptedFields) envelope(name string) (*Envelope, bool) {
	if e == nil {
		return nil, false
	}
	ctKem, ok1 := e.CtKem[name]
	data, ok2 := e.Data[name]
	iv, ok3 := e.IV[name]
	if !ok1 || !ok2 || !ok3 {
		return nil, false
	}
	return &Envelope{CtKem: ctKem, Ciphertext: data, IV: iv}, true
}

func (e *EncryptedFields) setEnvelope(name string, env *Envelope) {
	e.init()
	e.CtKem[name] = env.CtKem
	e.Data[name] = env.Ciphertext
	e.IV[name] = env.IV
}

// Snapshot records the canonical plaintext of each encrypted field as of
// record load. Seal consults it to skip fields that have not changed, so
// an unmodified field keeps its stored envelope byte-identical across
// saves.
type Snapshot map[string]string

// RecordCrypter encrypts and decrypts the declared fields of one record
// type. It is the hook surface a persistence layer calls immediately
// before writing and after reading a record.
type RecordCrypter[T any] struct {
	provider *Provider
	fields   []Field[T]
}

// NewRecordCrypter builds the crypter for a record type from its field
// declarations. Declarations are validated here: every field needs a
// unique non-empty name and both accessors.
func NewRecordCrypter[T any](provider *Provider, fields ...Field[T]) (*RecordCrypter[T], error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if len(fields) == 0 {
		return nil, errors.New("at least one field declaration is required")
	}

	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, errors.New("field declaration has an empty name")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate field declaration %q", f.Name)
		}
		if f.Get == nil || f.Set == nil {
			return nil, fmt.Errorf("field %q needs both Get and Set accessors", f.Name)
		}
		seen[f.Name] = true
	}

	return &RecordCrypter[T]{provider: provider, fields: fields}, nil
}

// Seal encrypts the record's declared fields into enc, immediately
// before the record is persisted. A field is (re)encrypted only when it
// carries a present value and its canonical plaintext differs from the
// load-time snapshot; unchanged fields keep their stored envelope parts
// untouched. Absent (nil or empty) values are skipped entirely.
//
// On success the snapshot, when supplied, is updated in place so a
// subsequent Seal sees the new baseline. Any encryption failure aborts
// with ErrEncryptionFailed and the caller must treat the write as
// failed; enc may hold envelopes for fields processed before the
// failure, so the record must not be persisted.
func (rc *RecordCrypter[T]) Seal(record *T, enc *EncryptedFields, prev Snapshot) error {
	if enc == nil {
		return errors.New("encrypted fields storage is required")
	}

	for _, f := range rc.fields {
		value := f.Get(record)
		if isAbsent(value) {
			continue
		}

		canonical, err := crypto.Canonicalize(value)
		if err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrEncryptionFailed, f.Name, err)
		}

		if prev != nil && enc.Has(f.Name) {
			if baseline, ok := prev[f.Name]; ok && baseline == canonical {
				continue
			}
		}

		envelope, err := rc.provider.Encrypt(canonical)
		if err != nil {
			return fmt.Errorf("encrypt field %q: %w", f.Name, err)
		}
		enc.setEnvelope(f.Name, envelope)

		if prev != nil {
			prev[f.Name] = canonical
		}
	}

	return nil
}

// Open decrypts the record's stored envelopes back onto the record,
// whenever the plaintext values are needed, and returns the snapshot
// Seal uses for change detection.
//
// Failures are contained per field: a corrupted envelope is logged and
// the field keeps its current raw value, so one bad field cannot prevent
// returning the rest of the record. Fields with no stored envelope pass
// through untouched, which keeps pre-encryption records readable.
func (rc *RecordCrypter[T]) Open(record *T, enc *EncryptedFields) (Snapshot, error) {
	snapshot := make(Snapshot, len(rc.fields))

	for _, f := range rc.fields {
		envelope, ok := enc.envelope(f.Name)
		if !ok {
			// Legacy plaintext record: the stored value is the value.
			if value := f.Get(record); !isAbsent(value) {
				if canonical, err := crypto.Canonicalize(value); err == nil {
					snapshot[f.Name] = canonical
				}
			}
			continue
		}

		plaintext, err := rc.provider.decryptCanonical(envelope)
		if err != nil {
			rc.provider.cfg.logger.Warn("field decryption failed, returning stored value",
				"field", f.Name, "error", err)
			continue
		}

		f.Set(record, crypto.Decanonicalize(plaintext))
		snapshot[f.Name] = plaintext
	}

	return snapshot, nil
}

// Project is the safe projection step: it decrypts the record's fields
// and then drops the raw envelope parts, producing the form of the
// record that may be handed to callers outside the persistence boundary.
func (rc *RecordCrypter[T]) Project(record *T, enc *EncryptedFields) error {
	if _, err := rc.Open(record, enc); err != nil {
		return err
	}
	enc.Clear()
	return nil
}

// decryptCanonical recovers an envelope's canonical plaintext string
// without the JSON parse step, so the snapshot records exactly what was
// encrypted.
func (p *Provider) decryptCanonical(envelope *Envelope) (string, error) {
	kp, err := p.encryptionKeys()
	if err != nil {
		return "", err
	}
	plaintext, err := crypto.DecryptToString(envelope.toInternal(), kp.SecretKey)
	if err != nil {
		return "", wrapCryptoError(err)
	}
	return plaintext, nil
}

// isAbsent reports whether a field value counts as empty/absent and is
// therefore never encrypted.
func isAbsent(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []byte:
		return len(v) == 0
	default:
		return false
	}
}
