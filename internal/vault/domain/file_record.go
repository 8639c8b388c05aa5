// Package domain defines the file vault entities: the metadata record bound to
// every encrypted artifact and the per-resource delete report.
package domain

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// FileRecord is the persisted descriptor of one encrypted artifact. It binds
// the artifact's identity, IV, authentication tag, size counters, and the
// fingerprint of the master key used at encryption time. Records are created
// once, after encryption succeeds, and are immutable afterwards.
type FileRecord struct {
	// ID is the opaque artifact identifier (32 hex chars, 128 bits of entropy).
	ID string
	// OriginalFilename is the client-supplied name of the plaintext file.
	OriginalFilename string
	// ContentType is the client-supplied media type of the plaintext.
	ContentType string
	// BytesIn is the plaintext size in bytes.
	BytesIn int64
	// BytesOut is the ciphertext size in bytes.
	BytesOut int64
	// IV is the 16-byte initialization vector, fresh per encryption.
	IV []byte
	// Tag is the 32-byte HMAC-SHA256 tag over IV || ciphertext.
	Tag []byte
	// KeyFingerprint identifies the master key without revealing it.
	KeyFingerprint string
	// CreatedAt is the UTC creation timestamp.
	CreatedAt time.Time
}

// DeleteResult reports the outcome of deleting an artifact. The two removals
// are attempted independently and are deliberately non-atomic: callers must
// not assume all-or-nothing deletion.
type DeleteResult struct {
	// RemovedCiphertext reports whether the ciphertext blob was removed.
	RemovedCiphertext bool `json:"removed_ciphertext"`
	// RemovedMetadata reports whether the metadata record was removed.
	RemovedMetadata bool `json:"removed_metadata"`
}

// NewArtifactID generates a collision-resistant artifact identifier:
// 128 random bits rendered as 32 hex characters. Enough entropy that
// concurrent encrypts never collide.
func NewArtifactID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
