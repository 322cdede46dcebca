package cipher

// RC4 stream cipher (spec.md §4.4). Grounded on the RC4 implementation in
// the retrieval pack's ryomak-gopdf PDF-encryption package: a 256-byte S
// array plus two index registers as a struct, key scheduling separated
// from the per-byte crypt loop.

const rc4StateSize = 256

// rc4Context holds RC4's permutation state. It is NOT safe to share
// between goroutines; every call mutates i, j, and S.
type rc4Context struct {
	s    [rc4StateSize]byte
	i, j int
	key  []byte
}

// newRC4Context builds an rc4Context and immediately runs key scheduling.
func newRC4Context(key []byte) (*rc4Context, error) {
	if len(key) == 0 {
		return nil, NewValidationError("key", 0, "RC4 key must not be empty")
	}
	ctx := &rc4Context{key: append([]byte(nil), key...)}
	ctx.scheduleKey()
	return ctx, nil
}

// scheduleKey is the RC4 key-scheduling algorithm (KSA). After it runs, S
// is a permutation of 0..255 and i = j = 0. It must run exactly once per
// key, never per Crypt call, or the keystream diverges from the peer's.
func (ctx *rc4Context) scheduleKey() {
	for i := 0; i < rc4StateSize; i++ {
		ctx.s[i] = byte(i)
	}

	j := 0
	keyLen := len(ctx.key)
	for i := 0; i < rc4StateSize; i++ {
		j = (j + int(ctx.s[i]) + int(ctx.key[i%keyLen])) % rc4StateSize
		ctx.s[i], ctx.s[j] = ctx.s[j], ctx.s[i]
	}

	ctx.i = 0
	ctx.j = 0
}

// setKey resets the context with a new key, re-running the KSA and
// resetting i/j (spec.md §4.5 set_key contract).
func (ctx *rc4Context) setKey(key []byte) error {
	if len(key) == 0 {
		return NewValidationError("key", 0, "RC4 key must not be empty")
	}
	ctx.key = append([]byte(nil), key...)
	ctx.scheduleKey()
	return nil
}

// crypt is RC4's PRGA XORed with src into dst; the same operation serves
// as both encryption and decryption. The keystream is continuous across
// calls: calling crypt twice is equivalent to calling it once on the
// concatenation of both inputs (spec.md §8 property 4).
func (ctx *rc4Context) crypt(dst, src []byte) {
	for k := range src {
		ctx.i = (ctx.i + 1) % rc4StateSize
		ctx.j = (ctx.j + int(ctx.s[ctx.i])) % rc4StateSize
		ctx.s[ctx.i], ctx.s[ctx.j] = ctx.s[ctx.j], ctx.s[ctx.i]
		dst[k] = src[k] ^ ctx.s[(int(ctx.s[ctx.i])+int(ctx.s[ctx.j]))%rc4StateSize]
	}
}
