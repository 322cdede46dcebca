package sessionkey

import (
	"testing"

	"github.com/justmedusty/kryptos/cipher"
)

func TestRandomKeyProviderLength(t *testing.T) {
	for _, size := range []cipher.KeySize{cipher.Size128, cipher.Size192, cipher.Size256} {
		key, err := (RandomKeyProvider{}).Key(size)
		if err != nil {
			t.Fatalf("Key(%v): %v", size, err)
		}
		if len(key) != size.Bytes() {
			t.Errorf("len(key) = %d, want %d", len(key), size.Bytes())
		}
	}
}

func TestRandomKeyProviderIsNotConstant(t *testing.T) {
	a, err := (RandomKeyProvider{}).Key(cipher.Size128)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	b, err := (RandomKeyProvider{}).Key(cipher.Size128)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if string(a) == string(b) {
		t.Error("two successive random keys were identical")
	}
}

func TestRandomRC4KeyLength(t *testing.T) {
	key, err := RandomRC4Key()
	if err != nil {
		t.Fatalf("RandomRC4Key: %v", err)
	}
	if len(key) != 256 {
		t.Errorf("len(key) = %d, want 256", len(key))
	}
}

func TestFixedKeyProviderRoundTrip(t *testing.T) {
	p, err := NewFixedKeyProviderHex("000102030405060708090a0b0c0d0e0f")
	if err != nil {
		t.Fatalf("NewFixedKeyProviderHex: %v", err)
	}
	key, err := p.Key(cipher.Size128)
	if err != nil {
		t.Fatalf("Key: %v", err)
	}
	if len(key) != 16 {
		t.Errorf("len(key) = %d, want 16", len(key))
	}
}

func TestNewFixedKeyProviderHexRejectsBadHex(t *testing.T) {
	if _, err := NewFixedKeyProviderHex("not-hex-at-all!!"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestFormatForDisplayIsLowercaseHex(t *testing.T) {
	key := []byte{0xde, 0xad, 0xbe, 0xef}
	if got, want := FormatForDisplay(key), "deadbeef"; got != want {
		t.Errorf("FormatForDisplay = %q, want %q", got, want)
	}
}
