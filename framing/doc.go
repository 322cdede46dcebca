// Package framing converts a raw byte-stream connection into a stream of
// ciphertext frames keyed by a cipher.CipherFacade: every Write enciphers
// before the bytes leave the process, every Read deciphers after they
// arrive. IV/counter prefixing and padding happen inside the façade; this
// package owns partial-write retry and the non-blocking/blocking read
// split a telnet-style handshake needs.
package framing
