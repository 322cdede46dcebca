package cipher

import "fmt"

// BlockSize is the AES block size in bytes (spec.md glossary: BS).
const BlockSize = 16

// Algorithm identifies which cipher a CipherFacade wraps.
type Algorithm uint8

const (
	// AesCbc selects AES in cipher block chaining mode.
	AesCbc Algorithm = iota
	// AesCtr selects AES in counter mode.
	AesCtr
	// AesEcb selects AES in electronic codebook mode. Unsafe: identical
	// plaintext blocks yield identical ciphertext blocks.
	AesEcb
	// Rc4 selects the RC4 stream cipher. Unsafe: broken as a modern
	// cipher, kept for protocol compatibility.
	Rc4
)

// String renders the algorithm the way the CLI and --help text expect it.
func (a Algorithm) String() string {
	switch a {
	case AesCbc:
		return "AesCbc"
	case AesCtr:
		return "AesCtr"
	case AesEcb:
		return "AesEcb"
	case Rc4:
		return "Rc4"
	default:
		return "unknown"
	}
}

// Unsafe reports whether the algorithm is offered only for compatibility
// and should be flagged to an operator at startup.
func (a Algorithm) Unsafe() bool {
	return a == AesEcb || a == Rc4
}

// ParseAlgorithm parses the CLI's encryption-type argument.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "AesCbc":
		return AesCbc, nil
	case "AesCtr":
		return AesCtr, nil
	case "AesEcb":
		return AesEcb, nil
	case "Rc4":
		return Rc4, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

// KeySize is an AES key size in bits. RC4 ignores this type; its effective
// key length is whatever byte slice is supplied (up to 256 bytes).
type KeySize uint16

const (
	Size128 KeySize = 128
	Size192 KeySize = 192
	Size256 KeySize = 256
)

// Bytes returns the key size in bytes.
func (k KeySize) Bytes() int { return int(k) / 8 }

// Valid reports whether k is one of the three supported AES key sizes.
func (k KeySize) Valid() bool {
	switch k {
	case Size128, Size192, Size256:
		return true
	default:
		return false
	}
}

// ParseKeySize parses the CLI's key-size argument.
func ParseKeySize(n int) (KeySize, error) {
	switch n {
	case 128:
		return Size128, nil
	case 192:
		return Size192, nil
	case 256:
		return Size256, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedKeySize, n)
	}
}
