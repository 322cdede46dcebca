package cipher

// CipherFacade (spec.md §4.5) is the single interface the framing package
// programs against; it hides whether the underlying engine is an AES mode
// driver or RC4. Grounded on the teacher repo's CipherEngine interface
// (cipher.go) and NewCipherEngine factory, generalized from an
// AEAD-only contract to the block/stream split this protocol needs.
type CipherFacade interface {
	// Algorithm reports which cipher this facade wraps.
	Algorithm() Algorithm

	// SetKey re-keys the facade in place. For AES modes this re-runs key
	// expansion; for RC4 it re-runs the KSA and resets i/j.
	SetKey(key []byte) error

	// Encrypt transforms plaintext into a wire-ready ciphertext frame. For
	// CBC/CTR this includes a freshly generated IV/counter prefix; for ECB
	// and RC4 there is no such prefix.
	Encrypt(plaintext []byte) ([]byte, error)

	// Decrypt reverses Encrypt, consuming any IV/counter prefix the frame
	// carries.
	Decrypt(frame []byte) ([]byte, error)

	// GetKey returns a copy of the key currently scheduled, for
	// diagnostics. The chat server itself does not call it.
	GetKey() []byte
}

// NewFacade builds a CipherFacade for algo. For AES algorithms, size must
// be valid and key must be exactly size.Bytes() long. For Rc4, size is
// ignored and key may be 1..256 bytes (spec.md §4.4).
func NewFacade(algo Algorithm, size KeySize, key []byte) (CipherFacade, error) {
	switch algo {
	case AesCbc, AesCtr, AesEcb:
		ctx, err := newAESContext(size, key)
		if err != nil {
			return nil, err
		}
		return &aesFacade{mode: algo, ctx: ctx}, nil
	case Rc4:
		ctx, err := newRC4Context(key)
		if err != nil {
			return nil, err
		}
		return &rc4Facade{ctx: ctx}, nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// aesFacade adapts aesContext plus one of the three mode drivers to the
// CipherFacade interface. The mode field picks which driver Encrypt and
// Decrypt dispatch to.
type aesFacade struct {
	mode Algorithm
	ctx  *aesContext
}

func (f *aesFacade) Algorithm() Algorithm { return f.mode }

func (f *aesFacade) SetKey(key []byte) error {
	ctx, err := newAESContext(f.ctx.size, key)
	if err != nil {
		return err
	}
	f.ctx = ctx
	return nil
}

func (f *aesFacade) GetKey() []byte {
	return append([]byte(nil), f.ctx.key...)
}

// Encrypt dispatches on mode. ECB has no IV; CBC/CTR prefix the frame with
// a freshly drawn 16-byte IV/counter seed, one per call, so that repeated
// encryptions of the same plaintext (including across different recipients
// in a broadcast) produce distinct ciphertexts (spec.md §8 property 3).
func (f *aesFacade) Encrypt(plaintext []byte) ([]byte, error) {
	if f.ctx == nil {
		return nil, ErrUnkeyed
	}

	switch f.mode {
	case AesEcb:
		return ecbEncrypt(f.ctx, zeroPad(plaintext)), nil

	case AesCbc:
		if len(plaintext) == 0 {
			return nil, nil
		}
		iv, err := randomIV()
		if err != nil {
			return nil, err
		}
		cipherBytes := cbcEncrypt(f.ctx, iv, zeroPad(plaintext))
		return append(iv[:], cipherBytes...), nil

	case AesCtr:
		if len(plaintext) == 0 {
			return nil, nil
		}
		ctr, err := randomIV()
		if err != nil {
			return nil, err
		}
		cipherBytes := ctrCrypt(f.ctx, ctr, plaintext)
		return append(ctr[:], cipherBytes...), nil

	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// Decrypt dispatches on mode, stripping the IV/counter prefix CBC/CTR
// frames carry before running the block transform.
func (f *aesFacade) Decrypt(frame []byte) ([]byte, error) {
	if f.ctx == nil {
		return nil, ErrUnkeyed
	}

	switch f.mode {
	case AesEcb:
		if err := validateBlockAligned(frame, "frame"); err != nil {
			return nil, err
		}
		return trimTrailingZeros(ecbDecrypt(f.ctx, frame)), nil

	case AesCbc:
		if len(frame) < BlockSize {
			return nil, ErrShortCiphertext
		}
		if err := validateBlockAligned(frame[BlockSize:], "frame"); err != nil {
			return nil, err
		}
		if err := validateBlockBuffer(frame[:BlockSize], "iv"); err != nil {
			return nil, err
		}
		var iv [BlockSize]byte
		copy(iv[:], frame[:BlockSize])
		return trimTrailingZeros(cbcDecrypt(f.ctx, iv, frame[BlockSize:])), nil

	case AesCtr:
		if len(frame) < BlockSize {
			return nil, ErrShortCiphertext
		}
		var ctr [BlockSize]byte
		copy(ctr[:], frame[:BlockSize])
		return ctrCrypt(f.ctx, ctr, frame[BlockSize:]), nil

	default:
		return nil, ErrUnsupportedAlgorithm
	}
}

// rc4Facade adapts rc4Context to CipherFacade. RC4 has no IV/frame
// structure: the wire carries raw keystream-XORed bytes, and continuity of
// the keystream across calls is the caller's (framing package's)
// responsibility to preserve by reusing the same facade for a connection's
// lifetime.
type rc4Facade struct {
	ctx *rc4Context
}

func (f *rc4Facade) Algorithm() Algorithm { return Rc4 }

func (f *rc4Facade) SetKey(key []byte) error {
	return f.ctx.setKey(key)
}

func (f *rc4Facade) GetKey() []byte {
	return append([]byte(nil), f.ctx.key...)
}

func (f *rc4Facade) Encrypt(plaintext []byte) ([]byte, error) {
	if f.ctx == nil {
		return nil, ErrUnkeyed
	}
	out := make([]byte, len(plaintext))
	f.ctx.crypt(out, plaintext)
	return out, nil
}

func (f *rc4Facade) Decrypt(frame []byte) ([]byte, error) {
	if f.ctx == nil {
		return nil, ErrUnkeyed
	}
	out := make([]byte, len(frame))
	f.ctx.crypt(out, frame)
	return out, nil
}
