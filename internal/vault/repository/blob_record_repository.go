package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"sort"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// metadataSuffix is the bucket key suffix for metadata documents.
const metadataSuffix = ".json"

// recordDocument is the flat JSON encoding of a FileRecord, readable
// independently of the engine. Binary fields are transport-encoded as
// URL-safe base64, the fingerprint as hex, the timestamp as RFC 3339 UTC.
type recordDocument struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	BytesIn          int64     `json:"bytes_in"`
	BytesOut         int64     `json:"bytes_out"`
	IV               string    `json:"iv"`
	HMAC             string    `json:"hmac"`
	KeyFingerprint   string    `json:"key_fp"`
	CreatedAt        time.Time `json:"created_at"`
}

// encodeRecord maps a domain record to its persisted document form.
func encodeRecord(record *vaultDomain.FileRecord) *recordDocument {
	return &recordDocument{
		ID:               record.ID,
		OriginalFilename: record.OriginalFilename,
		ContentType:      record.ContentType,
		BytesIn:          record.BytesIn,
		BytesOut:         record.BytesOut,
		IV:               base64.URLEncoding.EncodeToString(record.IV),
		HMAC:             base64.URLEncoding.EncodeToString(record.Tag),
		KeyFingerprint:   record.KeyFingerprint,
		CreatedAt:        record.CreatedAt.UTC(),
	}
}

// decodeRecord maps a persisted document back to the domain record.
func decodeRecord(doc *recordDocument) (*vaultDomain.FileRecord, error) {
	iv, err := base64.URLEncoding.DecodeString(doc.IV)
	if err != nil {
		return nil, apperrors.Wrap(err, "decoding record iv")
	}
	tag, err := base64.URLEncoding.DecodeString(doc.HMAC)
	if err != nil {
		return nil, apperrors.Wrap(err, "decoding record hmac")
	}

	return &vaultDomain.FileRecord{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		ContentType:      doc.ContentType,
		BytesIn:          doc.BytesIn,
		BytesOut:         doc.BytesOut,
		IV:               iv,
		Tag:              tag,
		KeyFingerprint:   doc.KeyFingerprint,
		CreatedAt:        doc.CreatedAt,
	}, nil
}

// BlobRecordRepository persists FileRecords as one flat JSON document per
// artifact in a gocloud.dev bucket. This is the default metadata backend and
// mirrors the on-disk layout of the ciphertext artifacts.
type BlobRecordRepository struct {
	bucket *blob.Bucket
}

// NewBlobRecordRepository creates a record repository backed by the given bucket.
func NewBlobRecordRepository(bucket *blob.Bucket) *BlobRecordRepository {
	return &BlobRecordRepository{bucket: bucket}
}

// Create persists a new metadata record.
func (r *BlobRecordRepository) Create(ctx context.Context, record *vaultDomain.FileRecord) error {
	payload, err := json.MarshalIndent(encodeRecord(record), "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "encoding record")
	}

	opts := &blob.WriterOptions{ContentType: "application/json"}
	if err := r.bucket.WriteAll(ctx, record.ID+metadataSuffix, payload, opts); err != nil {
		return apperrors.Wrap(err, "writing record")
	}
	return nil
}

// Get loads the metadata record for the given artifact id.
// Fails with apperrors.ErrNotFound if no record exists.
func (r *BlobRecordRepository) Get(ctx context.Context, id string) (*vaultDomain.FileRecord, error) {
	payload, err := r.bucket.ReadAll(ctx, id+metadataSuffix)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "reading record")
	}

	var doc recordDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, apperrors.Wrap(err, "decoding record")
	}
	return decodeRecord(&doc)
}

// List returns metadata records ordered newest first, applying offset and
// limit. Unreadable documents are skipped rather than failing the whole
// listing.
func (r *BlobRecordRepository) List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error) {
	var records []*vaultDomain.FileRecord

	iter := r.bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Wrap(err, "listing records")
		}
		if len(obj.Key) <= len(metadataSuffix) || obj.Key[len(obj.Key)-len(metadataSuffix):] != metadataSuffix {
			continue
		}

		record, err := r.Get(ctx, obj.Key[:len(obj.Key)-len(metadataSuffix)])
		if err != nil {
			continue
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if offset >= len(records) {
		return []*vaultDomain.FileRecord{}, nil
	}
	records = records[offset:]
	if limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// Delete removes the metadata record for the given artifact id.
// Fails with apperrors.ErrNotFound if no record exists.
func (r *BlobRecordRepository) Delete(ctx context.Context, id string) error {
	if err := r.bucket.Delete(ctx, id+metadataSuffix); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return apperrors.ErrNotFound
		}
		return apperrors.Wrap(err, "deleting record")
	}
	return nil
}
