package supplychain

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvKeyDir, dir)
	t.Setenv(EnvSignaturesEnabled, "false")
	t.Setenv(EnvKeyPassphrase, "grain elevator")

	opts, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	provider, err := New(opts...)
	if err != nil {
		t.Fatal(err)
	}

	if provider.KeyDir() != dir {
		t.Errorf("KeyDir() = %q, want %q", provider.KeyDir(), dir)
	}
	if provider.SignaturesEnabled() {
		t.Error("signatures should be disabled")
	}

	// The passphrase reached the keystore: keys written now are sealed
	// and unreadable without it.
	if _, err := provider.EncryptionKeys(); err != nil {
		t.Fatal(err)
	}
	bare, err := New(WithKeyDir(dir))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bare.EncryptionKeys(); !errors.Is(err, ErrKeyPassphraseRequired) {
		t.Errorf("expected ErrKeyPassphraseRequired, got %v", err)
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv(EnvKeyDir, "")
	t.Setenv(EnvSignaturesEnabled, "")
	t.Setenv(EnvKeyPassphrase, "")

	opts, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if len(opts) != 0 {
		t.Errorf("expected no options for empty environment, got %d", len(opts))
	}
}

func TestFromEnv_InvalidToggle(t *testing.T) {
	t.Setenv(EnvSignaturesEnabled, "maybe")

	if _, err := FromEnv(); err == nil {
		t.Error("expected error for unparseable toggle")
	}
}

func TestFromEnv_MissingExplicitFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.env")
	if _, err := FromEnv(missing); err == nil {
		t.Error("expected error for missing explicit env file")
	}
}
