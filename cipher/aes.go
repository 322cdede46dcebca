package cipher

// AES block primitive (spec.md §4.2). State is addressed column-major:
// state[col][row]. Key expansion, round operations, and the block
// cipher/inverse-cipher are all from scratch; no crypto/aes is used
// anywhere in this package.

// aesState is the 4x4 working state, state[col][row].
type aesState [4][4]byte

// aesContext holds everything needed to run AES at a fixed key size: the
// key bytes, the expanded round-key schedule, and the number of rounds.
// It has no notion of mode (ECB/CBC/CTR); that lives in aesmodes.go.
type aesContext struct {
	size      KeySize
	nk        int // words in the key (4/6/8)
	nr        int // rounds (10/12/14)
	key       []byte
	roundKeys []byte // 16*(nr+1) bytes, flat, word = column
}

// newAESContext builds an aesContext and immediately schedules the given
// key. key must be exactly size.Bytes() long.
func newAESContext(size KeySize, key []byte) (*aesContext, error) {
	if !size.Valid() {
		return nil, ErrUnsupportedKeySize
	}
	if err := validateKeyBytes(key, size.Bytes(), "key"); err != nil {
		return nil, err
	}

	nk := size.Bytes() / 4
	nr := nk + 6

	ctx := &aesContext{
		size: size,
		nk:   nk,
		nr:   nr,
		key:  append([]byte(nil), key...),
	}
	ctx.keyExpansion()
	return ctx, nil
}

// keyExpansion is the deterministic expansion of ctx.key into ctx.roundKeys
// (spec.md §4.2 "Key expansion"): identical (key, size) always produces the
// same schedule.
func (ctx *aesContext) keyExpansion() {
	totalWords := 4 * (ctx.nr + 1)
	ctx.roundKeys = make([]byte, totalWords*4)

	// First Nk words are the key itself.
	copy(ctx.roundKeys, ctx.key)

	var temp [4]byte
	for i := ctx.nk; i < totalWords; i++ {
		prev := ctx.roundKeys[(i-1)*4 : i*4]
		copy(temp[:], prev)

		switch {
		case i%ctx.nk == 0:
			// RotWord then SubWord then XOR rcon.
			temp[0], temp[1], temp[2], temp[3] = temp[1], temp[2], temp[3], temp[0]
			temp[0] = sbox[temp[0]]
			temp[1] = sbox[temp[1]]
			temp[2] = sbox[temp[2]]
			temp[3] = sbox[temp[3]]
			temp[0] ^= rcon[i/ctx.nk]
		case ctx.nk == 8 && i%ctx.nk == 4:
			temp[0] = sbox[temp[0]]
			temp[1] = sbox[temp[1]]
			temp[2] = sbox[temp[2]]
			temp[3] = sbox[temp[3]]
		}

		base := (i - ctx.nk) * 4
		dst := i * 4
		ctx.roundKeys[dst+0] = ctx.roundKeys[base+0] ^ temp[0]
		ctx.roundKeys[dst+1] = ctx.roundKeys[base+1] ^ temp[1]
		ctx.roundKeys[dst+2] = ctx.roundKeys[base+2] ^ temp[2]
		ctx.roundKeys[dst+3] = ctx.roundKeys[base+3] ^ temp[3]
	}
}

func blockToState(buf []byte) aesState {
	var st aesState
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			st[col][row] = buf[col*4+row]
		}
	}
	return st
}

func stateToBlock(st *aesState, buf []byte) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			buf[col*4+row] = st[col][row]
		}
	}
}

func (ctx *aesContext) addRoundKey(round int, st *aesState) {
	rk := ctx.roundKeys[round*16 : round*16+16]
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			st[col][row] ^= rk[col*4+row]
		}
	}
}

func subBytes(st *aesState) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			st[col][row] = sbox[st[col][row]]
		}
	}
}

func invSubBytes(st *aesState) {
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			st[col][row] = rsbox[st[col][row]]
		}
	}
}

// shiftRows cyclically rotates row r left by r columns.
func shiftRows(st *aesState) {
	var tmp aesState
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			tmp[col][row] = st[(col+row)%4][row]
		}
	}
	*st = tmp
}

func invShiftRows(st *aesState) {
	var tmp aesState
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			tmp[(col+row)%4][row] = st[col][row]
		}
	}
	*st = tmp
}

func mixColumns(st *aesState) {
	for col := 0; col < 4; col++ {
		a0, a1, a2, a3 := st[col][0], st[col][1], st[col][2], st[col][3]
		st[col][0] = gmul(a0, 2) ^ gmul(a1, 3) ^ a2 ^ a3
		st[col][1] = a0 ^ gmul(a1, 2) ^ gmul(a2, 3) ^ a3
		st[col][2] = a0 ^ a1 ^ gmul(a2, 2) ^ gmul(a3, 3)
		st[col][3] = gmul(a0, 3) ^ a1 ^ a2 ^ gmul(a3, 2)
	}
}

func invMixColumns(st *aesState) {
	for col := 0; col < 4; col++ {
		a0, a1, a2, a3 := st[col][0], st[col][1], st[col][2], st[col][3]
		st[col][0] = gmul(a0, 0x0e) ^ gmul(a1, 0x0b) ^ gmul(a2, 0x0d) ^ gmul(a3, 0x09)
		st[col][1] = gmul(a0, 0x09) ^ gmul(a1, 0x0e) ^ gmul(a2, 0x0b) ^ gmul(a3, 0x0d)
		st[col][2] = gmul(a0, 0x0d) ^ gmul(a1, 0x09) ^ gmul(a2, 0x0e) ^ gmul(a3, 0x0b)
		st[col][3] = gmul(a0, 0x0b) ^ gmul(a1, 0x0d) ^ gmul(a2, 0x09) ^ gmul(a3, 0x0e)
	}
}

// encryptBlock runs AES-Cipher on exactly one 16-byte block, in place.
func (ctx *aesContext) encryptBlock(block []byte) {
	st := blockToState(block)

	ctx.addRoundKey(0, &st)
	for round := 1; round < ctx.nr; round++ {
		subBytes(&st)
		shiftRows(&st)
		mixColumns(&st)
		ctx.addRoundKey(round, &st)
	}
	// Final round omits MixColumns.
	subBytes(&st)
	shiftRows(&st)
	ctx.addRoundKey(ctx.nr, &st)

	stateToBlock(&st, block)
}

// decryptBlock runs AES-InvCipher on exactly one 16-byte block, in place.
func (ctx *aesContext) decryptBlock(block []byte) {
	st := blockToState(block)

	ctx.addRoundKey(ctx.nr, &st)
	for round := ctx.nr - 1; round > 0; round-- {
		invShiftRows(&st)
		invSubBytes(&st)
		ctx.addRoundKey(round, &st)
		invMixColumns(&st)
	}
	invShiftRows(&st)
	invSubBytes(&st)
	ctx.addRoundKey(0, &st)

	stateToBlock(&st, block)
}
