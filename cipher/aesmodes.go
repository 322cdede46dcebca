package cipher

import "crypto/rand"

// AES mode drivers (spec.md §4.3). All three operate on an *aesContext;
// CBC and CTR also take a caller-supplied IV. IV generation, prefixing,
// and stripping live in
// facade.go, which is the only place that knows about wire framing.

// zeroPad right-pads data with NUL bytes to the next multiple of BlockSize.
// Spec.md §4.5: "the repository's actual behavior... preserved for wire
// compatibility"; it is a documented limitation, not a design choice made
// here from scratch.
func zeroPad(data []byte) []byte {
	rem := len(data) % BlockSize
	if rem == 0 {
		return data
	}
	padded := make([]byte, len(data)+(BlockSize-rem))
	copy(padded, data)
	return padded
}

// trimTrailingZeros removes trailing NUL bytes left by zeroPad.
func trimTrailingZeros(data []byte) []byte {
	end := len(data)
	for end > 0 && data[end-1] == 0 {
		end--
	}
	return data[:end]
}

// ecbEncrypt encrypts plaintext (already a multiple of BlockSize)
// independently block by block.
func ecbEncrypt(ctx *aesContext, plaintext []byte) []byte {
	out := append([]byte(nil), plaintext...)
	for off := 0; off < len(out); off += BlockSize {
		ctx.encryptBlock(out[off : off+BlockSize])
	}
	return out
}

// ecbDecrypt decrypts ciphertext (a multiple of BlockSize) block by block.
func ecbDecrypt(ctx *aesContext, ciphertext []byte) []byte {
	out := append([]byte(nil), ciphertext...)
	for off := 0; off < len(out); off += BlockSize {
		ctx.decryptBlock(out[off : off+BlockSize])
	}
	return out
}

// cbcEncrypt chains blocks: C[0] = E(P[0] xor iv); C[i] = E(P[i] xor C[i-1]).
func cbcEncrypt(ctx *aesContext, iv [BlockSize]byte, plaintext []byte) []byte {
	out := append([]byte(nil), plaintext...)
	prev := iv
	for off := 0; off < len(out); off += BlockSize {
		block := out[off : off+BlockSize]
		xorBlock(block, prev[:])
		ctx.encryptBlock(block)
		copy(prev[:], block)
	}
	return out
}

// cbcDecrypt reverses cbcEncrypt: P[i] = D(C[i]) xor C[i-1], C[-1] = iv.
func cbcDecrypt(ctx *aesContext, iv [BlockSize]byte, ciphertext []byte) []byte {
	out := append([]byte(nil), ciphertext...)
	prev := iv
	for off := 0; off < len(out); off += BlockSize {
		block := out[off : off+BlockSize]
		var curCipher [BlockSize]byte
		copy(curCipher[:], block)
		ctx.decryptBlock(block)
		xorBlock(block, prev[:])
		prev = curCipher
	}
	return out
}

// ctrCrypt XORs data (any length, no padding needed) with the keystream
// generated by encrypting successive big-endian increments of counter.
// Encryption and decryption are the same operation.
func ctrCrypt(ctx *aesContext, counter [BlockSize]byte, data []byte) []byte {
	out := make([]byte, len(data))
	var keystream [BlockSize]byte
	ctr := counter

	for off := 0; off < len(data); off += BlockSize {
		copy(keystream[:], ctr[:])
		ctx.encryptBlock(keystream[:])

		end := off + BlockSize
		if end > len(data) {
			end = len(data)
		}
		for i := off; i < end; i++ {
			out[i] = data[i] ^ keystream[i-off]
		}

		incrementCounter(&ctr)
	}
	return out
}

// incrementCounter treats ctr as a 16-byte big-endian integer and adds one.
func incrementCounter(ctr *[BlockSize]byte) {
	for i := BlockSize - 1; i >= 0; i-- {
		ctr[i]++
		if ctr[i] != 0 {
			return
		}
	}
}

func xorBlock(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// randomIV draws a fresh 16-byte IV/counter seed from the system RNG.
func randomIV() ([BlockSize]byte, error) {
	var iv [BlockSize]byte
	if _, err := rand.Read(iv[:]); err != nil {
		return iv, err
	}
	return iv, nil
}
