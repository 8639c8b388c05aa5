package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

func makeRecord(id string, createdAt time.Time) *vaultDomain.FileRecord {
	return &vaultDomain.FileRecord{
		ID:               id,
		OriginalFilename: "report.pdf",
		ContentType:      "application/pdf",
		BytesIn:          1000,
		BytesOut:         1008,
		IV:               []byte("0123456789abcdef"),
		Tag:              []byte("0123456789abcdef0123456789abcdef"),
		KeyFingerprint:   "a1b2c3d4e5f60718",
		CreatedAt:        createdAt,
	}
}

func TestBlobRecordRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		defer bucket.Close()
		repo := NewBlobRecordRepository(bucket)

		record := makeRecord("id-1", time.Now().UTC().Truncate(time.Second))
		require.NoError(t, repo.Create(ctx, record))

		got, err := repo.Get(ctx, "id-1")
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.OriginalFilename, got.OriginalFilename)
		assert.Equal(t, record.ContentType, got.ContentType)
		assert.Equal(t, record.BytesIn, got.BytesIn)
		assert.Equal(t, record.BytesOut, got.BytesOut)
		assert.Equal(t, record.IV, got.IV)
		assert.Equal(t, record.Tag, got.Tag)
		assert.Equal(t, record.KeyFingerprint, got.KeyFingerprint)
		assert.True(t, record.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("document is flat json with encoded binary fields", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		defer bucket.Close()
		repo := NewBlobRecordRepository(bucket)

		require.NoError(t, repo.Create(ctx, makeRecord("id-doc", time.Now().UTC())))

		payload, err := bucket.ReadAll(ctx, "id-doc.json")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal(payload, &doc))
		for _, field := range []string{
			"id", "original_filename", "content_type", "bytes_in",
			"bytes_out", "iv", "hmac", "key_fp", "created_at",
		} {
			assert.Contains(t, doc, field)
		}
		assert.Equal(t, "MDEyMzQ1Njc4OWFiY2RlZg==", doc["iv"])
	})

	t.Run("get unknown id", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		defer bucket.Close()
		repo := NewBlobRecordRepository(bucket)

		_, err := repo.Get(ctx, "nope")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("list newest first with pagination", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		defer bucket.Close()
		repo := NewBlobRecordRepository(bucket)

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		for i, id := range []string{"old", "mid", "new"} {
			require.NoError(t, repo.Create(ctx, makeRecord(id, base.Add(time.Duration(i)*time.Hour))))
		}
		// A ciphertext key must not show up as a record.
		require.NoError(t, bucket.WriteAll(ctx, "old.enc", []byte("ct"), nil))

		records, err := repo.List(ctx, 0, 50)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "new", records[0].ID)
		assert.Equal(t, "mid", records[1].ID)
		assert.Equal(t, "old", records[2].ID)

		records, err = repo.List(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "mid", records[0].ID)

		records, err = repo.List(ctx, 10, 50)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("delete", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		defer bucket.Close()
		repo := NewBlobRecordRepository(bucket)

		require.NoError(t, repo.Create(ctx, makeRecord("id-del", time.Now().UTC())))
		require.NoError(t, repo.Delete(ctx, "id-del"))

		_, err := repo.Get(ctx, "id-del")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, "id-del"), apperrors.ErrNotFound)
	})
}
