// Package crypto provides the post-quantum primitives behind the
// supply-chain field encryption layer. It implements hybrid encryption
// and detached digital signatures using standardized algorithms.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - ML-KEM-768 (NIST FIPS 203): Post-quantum key encapsulation
//     mechanism for establishing per-envelope shared secrets. Provides
//     192-bit classical and quantum security levels.
//
//   - ML-DSA-65 (NIST FIPS 204): Post-quantum digital signature
//     algorithm for layering authenticity over bearer tokens. Provides
//     192-bit security.
//
//   - AES-256-CBC with PKCS#7 padding: Symmetric encryption of the
//     canonicalized field value. The 32-byte KEM shared secret is used
//     as the AES key directly; no additional key derivation is applied.
//
// # Envelope Format
//
// Each encrypted field value is a self-contained [Envelope] holding the
// hex-encoded KEM ciphertext, the base64 symmetric ciphertext, and a
// hex-encoded 16-byte IV. Every encryption call performs a fresh
// encapsulation and draws a fresh IV, so identical plaintexts produce
// unlinkable envelopes.
//
// Decryption with a mismatched secret key fails the PKCS#7 padding check
// and surfaces [ErrDecryptionFailed]; it never silently returns corrupt
// plaintext.
//
// # Canonicalization
//
// Encryption and signing both operate on the output of [Canonicalize]:
// strings pass through unchanged, every other value is JSON-encoded.
// [Decanonicalize] reverses this by attempting a JSON parse and falling
// back to the raw string, so scalar values survive the round trip.
//
// # Key Management
//
// Use [GenerateKeypair] and [GenerateSigningKeypair] to create fresh
// pairs. Encapsulation and signature key material are separate types and
// must never be cross-used. Keep secret keys secure: they should never
// be logged, transmitted in plaintext, or stored in version control.
package crypto
