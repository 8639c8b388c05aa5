// Package service implements the cryptographic services for at-rest file
// encryption: HKDF-based key derivation with key fingerprinting, and the
// chunked AES-256-CBC + HMAC-SHA256 streaming cipher engine.
package service

import "io"

// KeyDeriver expands a 32-byte master key into independent encryption and MAC
// keys and computes a non-secret fingerprint of the master key.
type KeyDeriver interface {
	// Derive deterministically expands masterKey into a DerivedKeys pair.
	// Fails with domain.ErrInvalidKey if masterKey is not exactly 32 bytes.
	Derive(masterKey []byte) (encKey, macKey []byte, err error)

	// Fingerprint returns a 16 hex char identifier of masterKey, computed as a
	// truncated MAC over a fixed label. It reveals nothing about the key
	// material and is stable across calls.
	Fingerprint(masterKey []byte) (string, error)
}

// StreamCipher performs chunked, bounded-memory authenticated encryption.
//
// Both operations are synchronous streaming pipelines bound to one source and
// one destination; peak memory is proportional to the configured chunk size,
// never to the total stream size. Instances are stateless and safe for
// concurrent use; all per-operation state lives on the stack of each call.
type StreamCipher interface {
	// Encrypt streams plaintext from src through AES-256-CBC with PKCS#7
	// padding into dst, computing HMAC-SHA256 over IV || ciphertext in emission
	// order. A fresh random 16-byte IV is generated per call. Every ciphertext
	// byte reaches dst before Encrypt returns.
	Encrypt(dst io.Writer, src io.Reader, encKey, macKey []byte) (*EncryptResult, error)

	// Decrypt streams ciphertext from src into dst, updating the MAC with every
	// ciphertext chunk in read order and stripping padding only after the true
	// end of stream. The tag comparison is constant time. Plaintext is written
	// to dst progressively, before the final MAC check: dst must be a private
	// scratch resource that the caller discards on error and publishes only
	// after Decrypt returns nil.
	Decrypt(dst io.Writer, src io.Reader, encKey, macKey, iv, expectedTag []byte) (*DecryptResult, error)
}

// EncryptResult reports the outcome of one streaming encryption.
type EncryptResult struct {
	// IV is the random initialization vector generated for this operation.
	IV []byte
	// BytesIn is the total number of plaintext bytes read.
	BytesIn int64
	// BytesOut is the total number of ciphertext bytes written.
	BytesOut int64
	// Tag is the HMAC-SHA256 tag over IV || ciphertext.
	Tag []byte
}

// DecryptResult reports the outcome of one streaming decryption.
type DecryptResult struct {
	// BytesIn is the total number of ciphertext bytes read.
	BytesIn int64
	// BytesOut is the total number of plaintext bytes written.
	BytesOut int64
}
