// Package kryptos is the root of an encrypted line-oriented chat server:
// clients connect over a plain TCP stream, authenticate by possessing a
// shared session key, and every byte on the wire in either direction is
// enciphered under a symmetric algorithm chosen at server start-up.
//
// # Overview
//
// The interesting engineering lives in two packages:
//
//   - cipher implements RC4 and AES-128/192/256 (ECB, CBC, CTR) from
//     scratch — GF(2^8) arithmetic, the AES block primitive, the three
//     mode drivers, and a CipherFacade that unifies them behind one
//     interface.
//   - framing wraps a net.Conn with a CipherFacade, turning ordinary
//     stream reads and writes into correctly-keyed, correctly-framed
//     ciphertext frames (IV generation and prefixing, zero-padding,
//     non-blocking/blocking read handling).
//
// Everything else is a collaborator of that core: chatpool holds the
// shared, lock-protected set of connected clients and fans broadcasts out
// to them; chatserver drives the username handshake and per-connection
// receive loop; internal/sessionkey resolves the server's session key at
// start-up; cmd/kryptos is the CLI entry point.
//
// # Supported algorithms
//
//   - AES-128/192/256 in CBC or CTR mode: each Encrypt call prefixes a
//     fresh 16-byte IV/counter to the frame.
//   - AES-128/192/256 in ECB mode: offered for protocol compatibility
//     only; identical plaintext blocks yield identical ciphertext blocks.
//   - RC4: offered for protocol compatibility only; broken as a modern
//     cipher.
//
// # Non-goals
//
// This is not a hardened production cipher suite: there is no
// authentication tag (no AEAD), no key-confirmation handshake, no replay
// protection, no forward secrecy, no constant-time guarantees, and no
// secure wiping of plaintext buffers. RC4 and AES-ECB are offered and
// labelled unsafe rather than fixed.
package kryptos
