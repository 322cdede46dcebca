// Package cipher implements the symmetric cryptographic engine behind
// kryptos: from-scratch RC4 and AES-128/192/256 (ECB, CBC, CTR), unified
// behind a single façade so the rest of the server can treat any of them
// identically.
//
// # Supported algorithms
//
//   - RC4: a classical stream cipher. Kept for protocol compatibility with
//     legacy clients; it is cryptographically broken. NewFacade builds it
//     without complaint — Algorithm.Unsafe() is what callers check to warn
//     an operator (cmd/kryptos's root command logs a warning when it's
//     true).
//   - AES-ECB: block-independent mode. Leaks repeated plaintext blocks.
//     Offered and labelled unsafe, not fixed.
//   - AES-CBC / AES-CTR: IV-chained / counter-based modes. Each Encrypt call
//     draws a fresh random IV and prefixes it to the ciphertext, so no
//     out-of-band IV exchange is needed, at a cost of 16 extra wire bytes
//     per call.
//
// # Non-goals
//
// This is not a hardened production cipher suite: no AEAD tag, no
// key-confirmation handshake, no replay protection, no forward secrecy, no
// constant-time guarantees, no secure wiping of plaintext buffers. RC4 and
// AES-ECB reproduce their classical, broken behavior rather than attempting
// to fix it.
//
// # Padding caveat
//
// Block modes (ECB, CBC) zero-pad plaintext to a 16-byte boundary on
// encrypt and trim trailing NUL bytes on decrypt. Plaintext that legitimately
// ends in 0x00 will not round-trip faithfully; this package targets 7-bit
// ASCII chat traffic, not arbitrary binary payloads.
package cipher
