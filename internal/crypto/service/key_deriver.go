package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

const (
	// hkdfInfo is the domain separation label for key expansion. Changing it
	// invalidates every stored artifact.
	hkdfInfo = "file-server:aes256cbc+mac"

	// fingerprintLabel is the fixed message MACed to fingerprint a master key.
	fingerprintLabel = "file-server:key-fingerprint:v1"

	// fingerprintHexLen is the length of the hex-encoded fingerprint (8 bytes).
	fingerprintHexLen = 16
)

// hkdfKeyDeriver implements KeyDeriver using HKDF-SHA256 with a nil salt and a
// fixed info label, expanding the master key into 64 bytes split into the
// encryption key and the MAC key.
type hkdfKeyDeriver struct{}

// NewKeyDeriver creates a new HKDF-SHA256 based key deriver.
func NewKeyDeriver() KeyDeriver {
	return &hkdfKeyDeriver{}
}

// Derive expands masterKey into independent encryption and MAC keys.
// The expansion is deterministic: the same master key always yields the same
// pair. Fails with domain.ErrInvalidKey for any other key length.
func (d *hkdfKeyDeriver) Derive(masterKey []byte) (encKey, macKey []byte, err error) {
	if len(masterKey) != cryptoDomain.MasterKeySize {
		return nil, nil, fmt.Errorf(
			"%w: master key must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKey,
			cryptoDomain.MasterKeySize,
			len(masterKey),
		)
	}

	okm := make([]byte, 2*cryptoDomain.DerivedKeySize)
	reader := hkdf.New(sha256.New, masterKey, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(reader, okm); err != nil {
		return nil, nil, fmt.Errorf("hkdf expansion failed: %w", err)
	}

	return okm[:cryptoDomain.DerivedKeySize], okm[cryptoDomain.DerivedKeySize:], nil
}

// Fingerprint computes the non-secret identifier of masterKey: the first 8
// bytes of HMAC-SHA256(macKey, fingerprintLabel), hex encoded. The fingerprint
// depends only on the master key, never on any plaintext, and cannot be
// reversed into the key material.
func (d *hkdfKeyDeriver) Fingerprint(masterKey []byte) (string, error) {
	encKey, macKey, err := d.Derive(masterKey)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(encKey)
	defer cryptoDomain.Zero(macKey)

	mac := hmac.New(sha256.New, macKey)
	mac.Write([]byte(fingerprintLabel))
	sum := mac.Sum(nil)

	return hex.EncodeToString(sum)[:fingerprintHexLen], nil
}
