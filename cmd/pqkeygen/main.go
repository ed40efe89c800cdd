// Command pqkeygen pre-provisions the post-quantum key directory at
// deploy time, so the first application request never pays the
// generation cost and operators can verify key identity up front.
//
// Configuration comes from the environment (PQC_KEY_DIR,
// PQC_SIGNATURES_ENABLED, PQC_KEY_PASSPHRASE), optionally via a .env
// file in the working directory.
package main

import (
	"errors"
	"fmt"
	"os"

	supplychain "github.com/EasyDeduce/Agricultural-Supply-Chain"
)

func main() {
	command := "generate"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	opts, err := supplychain.FromEnv()
	if err != nil {
		fatal("load config: %v", err)
	}

	provider, err := supplychain.New(opts...)
	if err != nil {
		fatal("create provider: %v", err)
	}

	switch command {
	case "generate":
		generate(provider)
	case "fingerprint":
		printFingerprints(provider)
	default:
		fatal("usage: pqkeygen [generate|fingerprint]")
	}
}

// generate forces both pairs through load-or-generate and reports where
// they live. Running it against an existing key directory is a no-op
// that reloads the persisted pairs.
func generate(provider *supplychain.Provider) {
	if _, err := provider.EncryptionKeys(); err != nil {
		fatal("encryption keys: %v", err)
	}
	if _, err := provider.SigningKeys(); err != nil && !errors.Is(err, supplychain.ErrSignaturesDisabled) {
		fatal("signing keys: %v", err)
	}

	fmt.Printf("key directory: %s\n", provider.KeyDir())
	printFingerprints(provider)
}

func printFingerprints(provider *supplychain.Provider) {
	encFP, err := provider.EncryptionKeyFingerprint()
	if err != nil {
		fatal("encryption key fingerprint: %v", err)
	}
	fmt.Printf("encryption (ML-KEM-768): %s\n", encFP)

	sigFP, err := provider.SigningKeyFingerprint()
	if errors.Is(err, supplychain.ErrSignaturesDisabled) {
		fmt.Println("signing (ML-DSA-65): disabled")
		return
	}
	if err != nil {
		fatal("signing key fingerprint: %v", err)
	}
	fmt.Printf("signing (ML-DSA-65): %s\n", sigFP)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
