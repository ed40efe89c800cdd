// Package keystore persists the process's two key pairs on the
// filesystem: an encryption pair and a signing pair, each stored as a
// hex-encoded public and private key file under one directory.
//
// Loading is idempotent across restarts: generation happens only when
// neither file of a pair exists. Any other state, such as a half-present
// pair or an unreadable file, is a *KeyReadError rather than a trigger to
// regenerate, because a new pair would permanently orphan data encrypted
// under the old one.
//
// Private key files can optionally be sealed at rest with a passphrase
// (argon2id + XChaCha20-Poly1305). Sealed files carry the "ASCKEY1"
// magic prefix and are rejected with ErrPassphraseRequired when opened
// by a store without the passphrase.
package keystore
