package supplychain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables consumed by FromEnv.
const (
	// EnvKeyDir names the key storage directory.
	EnvKeyDir = "PQC_KEY_DIR"
	// EnvSignaturesEnabled toggles the token signature layer.
	EnvSignaturesEnabled = "PQC_SIGNATURES_ENABLED"
	// EnvKeyPassphrase seals private key files at rest when set.
	EnvKeyPassphrase = "PQC_KEY_PASSPHRASE"
)

// FromEnv builds provider options from the environment. Env files given
// as arguments are loaded first via godotenv; a missing ".env" default
// file is not an error, but a missing explicitly named file is.
//
// Typical usage:
//
//	opts, err := supplychain.FromEnv()
//	provider, err := supplychain.New(opts...)
func FromEnv(files ...string) ([]Option, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}

	var opts []Option

	if dir := os.Getenv(EnvKeyDir); dir != "" {
		opts = append(opts, WithKeyDir(dir))
	}

	if v := os.Getenv(EnvSignaturesEnabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s=%q: %w", EnvSignaturesEnabled, v, err)
		}
		opts = append(opts, WithSignatures(enabled))
	}

	if pass := os.Getenv(EnvKeyPassphrase); pass != "" {
		opts = append(opts, WithKeyPassphrase(pass))
	}

	return opts, nil
}
