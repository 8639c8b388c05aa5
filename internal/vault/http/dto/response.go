package dto

import (
	"encoding/base64"
	"time"

	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// FileRecordResponse represents file metadata in API responses. IV and HMAC
// are URL-safe base64, the key fingerprint is hex.
type FileRecordResponse struct {
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

// MapRecordToResponse converts a domain file record to its API representation.
func MapRecordToResponse(record *vaultDomain.FileRecord) FileRecordResponse {
	return FileRecordResponse{
		ID:               record.ID,
		OriginalFilename: record.OriginalFilename,
		ContentType:      record.ContentType,
		BytesIn:          record.BytesIn,
		BytesOut:         record.BytesOut,
		IV:               base64.URLEncoding.EncodeToString(record.IV),
		HMAC:             base64.URLEncoding.EncodeToString(record.Tag),
		KeyFingerprint:   record.KeyFingerprint,
		CreatedAt:        record.CreatedAt,
	}
}

// ListFilesResponse represents a paginated list of file records.
type ListFilesResponse struct {
	Data []FileRecordResponse `json:"data"`
}

// MapRecordsToListResponse converts a slice of domain records to a list response.
func MapRecordsToListResponse(records []*vaultDomain.FileRecord) ListFilesResponse {
	data := make([]FileRecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapRecordToResponse(record))
	}

	return ListFilesResponse{
		Data: data,
	}
}

// DeleteFileResponse reports which resources a delete removed.
type DeleteFileResponse struct {
	RemovedCiphertext bool `json:"removed_ciphertext"`
	RemovedMetadata   bool `json:"removed_metadata"`
}

// MapDeleteResultToResponse converts a domain delete result to its API representation.
func MapDeleteResultToResponse(result *vaultDomain.DeleteResult) DeleteFileResponse {
	return DeleteFileResponse{
		RemovedCiphertext: result.RemovedCiphertext,
		RemovedMetadata:   result.RemovedMetadata,
	}
}
