// Package repository implements persistence for the file vault: ciphertext
// artifact storage on a gocloud.dev blob bucket and file record storage on a
// blob bucket (flat JSON documents), PostgreSQL, or MySQL.
package repository

import (
	"context"
	"io"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/filevault/internal/errors"

	// Register blob bucket drivers
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

// ciphertextSuffix is the bucket key suffix for ciphertext blobs.
const ciphertextSuffix = ".enc"

// BlobArtifactStore stores ciphertext artifacts as opaque blobs in a
// gocloud.dev bucket (filesystem, S3, GCS, Azure, or in-memory for tests).
type BlobArtifactStore struct {
	bucket *blob.Bucket
}

// NewBlobArtifactStore creates an artifact store backed by the given bucket.
func NewBlobArtifactStore(bucket *blob.Bucket) *BlobArtifactStore {
	return &BlobArtifactStore{bucket: bucket}
}

// Put streams a new ciphertext artifact under the given id. The write callback
// receives the destination writer; if it returns an error the partial blob is
// discarded and never becomes visible, otherwise the blob is committed on
// close. The blob writer only publishes complete objects, so a failed encrypt
// never leaves a usable-looking artifact behind.
func (s *BlobArtifactStore) Put(ctx context.Context, id string, write func(w io.Writer) error) error {
	// Canceling the writer's context before Close discards the pending blob
	// instead of committing it.
	writeCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := s.bucket.NewWriter(writeCtx, id+ciphertextSuffix, nil)
	if err != nil {
		return apperrors.Wrap(err, "creating artifact writer")
	}

	if err := write(w); err != nil {
		cancel()
		_ = w.Close()
		return err
	}

	if err := w.Close(); err != nil {
		return apperrors.Wrap(err, "committing artifact")
	}
	return nil
}

// Open returns a reader over the ciphertext artifact with the given id.
// Fails with apperrors.ErrNotFound if the artifact does not exist.
func (s *BlobArtifactStore) Open(ctx context.Context, id string) (io.ReadCloser, error) {
	r, err := s.bucket.NewReader(ctx, id+ciphertextSuffix, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "opening artifact")
	}
	return r, nil
}

// Delete removes the ciphertext artifact with the given id.
// Fails with apperrors.ErrNotFound if the artifact does not exist.
func (s *BlobArtifactStore) Delete(ctx context.Context, id string) error {
	if err := s.bucket.Delete(ctx, id+ciphertextSuffix); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.Wrap(err, "deleting artifact")
	}
	return nil
}
