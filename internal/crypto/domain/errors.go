package domain

import "errors"

// Sentinel errors for key handling and streaming cipher operations.
var (
	// ErrInvalidKey indicates a supplied master key has the wrong length or encoding.
	ErrInvalidKey = errors.New("invalid key")

	// ErrMissingKey indicates no master key was configured and none was supplied.
	ErrMissingKey = errors.New("missing key")

	// ErrKeyMismatch indicates the supplied key's fingerprint disagrees with the
	// fingerprint recorded at encryption time. Checked before touching ciphertext.
	ErrKeyMismatch = errors.New("key mismatch")

	// ErrAuthenticationFailed indicates MAC verification failed or the ciphertext
	// was malformed. Any partial plaintext must be discarded by the caller.
	ErrAuthenticationFailed = errors.New("authentication failed")
)
