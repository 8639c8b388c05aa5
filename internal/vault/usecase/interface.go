// Package usecase implements business logic orchestration for the file vault.
// It coordinates the key derivation and streaming cipher services with artifact
// and record persistence to provide encrypt, decrypt, and lifecycle operations.
package usecase

import (
	"context"
	"io"

	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// ArtifactStore persists opaque ciphertext artifacts.
type ArtifactStore interface {
	// Put streams a new artifact under the given id. The write callback
	// receives the destination; a callback error discards the partial blob.
	Put(ctx context.Context, id string, write func(w io.Writer) error) error
	// Open returns a reader over the artifact with the given id.
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	// Delete removes the artifact with the given id.
	Delete(ctx context.Context, id string) error
}

// RecordRepository persists file metadata records.
type RecordRepository interface {
	Create(ctx context.Context, record *vaultDomain.FileRecord) error
	Get(ctx context.Context, id string) (*vaultDomain.FileRecord, error)
	List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error)
	Delete(ctx context.Context, id string) error
}

// EncryptInput carries one encryption request.
type EncryptInput struct {
	// Filename is the client-supplied name of the plaintext file.
	Filename string
	// ContentType is the client-supplied media type of the plaintext.
	ContentType string
	// Plaintext is the streaming plaintext source.
	Plaintext io.Reader
	// Key optionally overrides the configured master key for this request.
	Key string
}

// VaultUseCase defines the file vault operations.
type VaultUseCase interface {
	// Encrypt streams the input plaintext into a new encrypted artifact and
	// persists its metadata record.
	Encrypt(ctx context.Context, input EncryptInput) (*vaultDomain.FileRecord, error)
	// Decrypt authenticates and decrypts the artifact with the given id.
	// The returned reader only becomes available after the authentication tag
	// has been verified over the full ciphertext; callers must close it.
	Decrypt(ctx context.Context, id, key string) (io.ReadCloser, *vaultDomain.FileRecord, error)
	// GetMetadata returns the metadata record for the given id.
	GetMetadata(ctx context.Context, id string) (*vaultDomain.FileRecord, error)
	// OpenCiphertext returns a reader over the raw ciphertext artifact, for
	// backup and replication without key material.
	OpenCiphertext(ctx context.Context, id string) (io.ReadCloser, *vaultDomain.FileRecord, error)
	// List returns metadata records ordered newest first with pagination.
	List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error)
	// Delete removes the artifact's ciphertext and metadata independently and
	// reports which removals happened.
	Delete(ctx context.Context, id string) (*vaultDomain.DeleteResult, error)
}
