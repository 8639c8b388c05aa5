// Package domain provides master key handling for the streaming file cipher:
// parsing of externally supplied key material, derived key containers, and the
// sentinel errors shared by the crypto services.
package domain

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// MasterKeySize is the required master key length in bytes.
const MasterKeySize = 32

// ParseMasterKey decodes externally supplied master key material.
//
// Accepted encodings, tried in order of preference:
//  1. raw: the string is exactly 32 bytes
//  2. hex: 64 hexadecimal characters
//  3. base64: URL-safe base64 (padded or unpadded) decoding to 32 bytes
//
// Anything else, including well-formed encodings of the wrong decoded length,
// fails with ErrInvalidKey.
func ParseMasterKey(value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	if len(value) == MasterKeySize {
		return []byte(value), nil
	}

	if len(value) == MasterKeySize*2 {
		if decoded, err := hex.DecodeString(value); err == nil {
			return decoded, nil
		}
	}

	if decoded, err := base64.URLEncoding.DecodeString(value); err == nil {
		if len(decoded) == MasterKeySize {
			return decoded, nil
		}
		Zero(decoded)
		return nil, fmt.Errorf("%w: decoded key must be %d bytes, got %d", ErrInvalidKey, MasterKeySize, len(decoded))
	}
	if decoded, err := base64.RawURLEncoding.DecodeString(value); err == nil {
		if len(decoded) == MasterKeySize {
			return decoded, nil
		}
		Zero(decoded)
		return nil, fmt.Errorf("%w: decoded key must be %d bytes, got %d", ErrInvalidKey, MasterKeySize, len(decoded))
	}

	return nil, fmt.Errorf("%w: must be raw %d bytes, %d hex chars, or url-safe base64 of %d bytes",
		ErrInvalidKey, MasterKeySize, MasterKeySize*2, MasterKeySize)
}

// ResolveMasterKey returns the master key for one operation: the per-request
// override when present, otherwise the process-wide configured key. Fails with
// ErrMissingKey when neither is available. Key-format errors surface before any
// storage side effect occurs.
func ResolveMasterKey(override, configured string) ([]byte, error) {
	if override != "" {
		return ParseMasterKey(override)
	}
	if configured != "" {
		return ParseMasterKey(configured)
	}
	return nil, ErrMissingKey
}
