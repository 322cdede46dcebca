// Package sessionkey resolves the symmetric session key a server process
// starts with (spec.md §6): either a key supplied on the command line, or
// one freshly drawn from the system RNG and printed once so operators can
// hand it to clients out of band. Adapted from the teacher's KeyProvider
// split between password-derived and pre-supplied key material
// (key_provider.go), generalized from key derivation to key generation
// since this protocol has no password or salt.
package sessionkey

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/justmedusty/kryptos/cipher"
)

// Provider resolves the session key bytes a server uses for every
// connection's CipherFacade.
type Provider interface {
	// Key returns the session key for size, or an error if key material
	// cannot be produced. RandomKeyProvider returns exactly size.Bytes()
	// bytes; FixedKeyProvider returns its key unchanged. A random RC4 key
	// comes from RandomRC4Key, not from a Provider.
	Key(size cipher.KeySize) ([]byte, error)
}

// RandomKeyProvider draws fresh key material from crypto/rand on every
// call, matching spec.md §6: "If no key is supplied, one is generated from
// a cryptographic RNG and truncated to key-size/8 bytes."
type RandomKeyProvider struct{}

// Key returns size.Bytes() random bytes.
func (RandomKeyProvider) Key(size cipher.KeySize) ([]byte, error) {
	buf := make([]byte, size.Bytes())
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("sessionkey: failed to generate random key: %w", err)
	}
	return buf, nil
}

// RandomRC4Key draws a 256-byte random RC4 key, the RC4-specific path
// spec.md §3 describes for Rc4Context's lifecycle: "a random 256-byte key
// is drawn and then the key-scheduling algorithm runs."
func RandomRC4Key() ([]byte, error) {
	buf := make([]byte, 256)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("sessionkey: failed to generate random RC4 key: %w", err)
	}
	return buf, nil
}

// FixedKeyProvider wraps an operator-supplied key (the CLI's optional
// <provided-key> argument), hex-decoded the way the teacher's
// EnvKeyProvider decodes externally-sourced key material.
type FixedKeyProvider struct {
	key []byte
}

// NewFixedKeyProviderHex decodes a hex string into a FixedKeyProvider.
func NewFixedKeyProviderHex(hexKey string) (*FixedKeyProvider, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("sessionkey: provided key is not valid hex: %w", err)
	}
	return &FixedKeyProvider{key: raw}, nil
}

// Key returns the fixed key bytes unchanged. It does not validate length
// against size; NewFacade performs that check for AES, and RC4 accepts
// any non-empty length.
func (f *FixedKeyProvider) Key(cipher.KeySize) ([]byte, error) {
	if len(f.key) == 0 {
		return nil, fmt.Errorf("sessionkey: provided key is empty")
	}
	return f.key, nil
}

// FormatForDisplay renders key as the hex string printed once to standard
// output at server start-up (spec.md §6).
func FormatForDisplay(key []byte) string {
	return hex.EncodeToString(key)
}
