package usecase

import (
	"context"
	"io"
	"time"

	"github.com/allisson/filevault/internal/metrics"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// vaultUseCaseWithMetrics decorates VaultUseCase with metrics instrumentation.
type vaultUseCaseWithMetrics struct {
	next    VaultUseCase
	metrics metrics.BusinessMetrics
}

// NewVaultUseCaseWithMetrics wraps a VaultUseCase with metrics recording.
func NewVaultUseCaseWithMetrics(useCase VaultUseCase, m metrics.BusinessMetrics) VaultUseCase {
	return &vaultUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record reports one operation outcome and its duration.
func (v *vaultUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	v.metrics.RecordOperation(ctx, "vault", operation, status)
	v.metrics.RecordDuration(ctx, "vault", operation, time.Since(start), status)
}

func (v *vaultUseCaseWithMetrics) Encrypt(ctx context.Context, input EncryptInput) (*vaultDomain.FileRecord, error) {
	start := time.Now()
	record, err := v.next.Encrypt(ctx, input)
	v.record(ctx, "file_encrypt", start, err)
	if err == nil {
		v.metrics.RecordBytes(ctx, "vault", "file_encrypt", record.BytesIn)
	}
	return record, err
}

func (v *vaultUseCaseWithMetrics) Decrypt(ctx context.Context, id, key string) (io.ReadCloser, *vaultDomain.FileRecord, error) {
	start := time.Now()
	reader, record, err := v.next.Decrypt(ctx, id, key)
	v.record(ctx, "file_decrypt", start, err)
	if err == nil {
		v.metrics.RecordBytes(ctx, "vault", "file_decrypt", record.BytesOut)
	}
	return reader, record, err
}

func (v *vaultUseCaseWithMetrics) GetMetadata(ctx context.Context, id string) (*vaultDomain.FileRecord, error) {
	start := time.Now()
	record, err := v.next.GetMetadata(ctx, id)
	v.record(ctx, "file_get", start, err)
	return record, err
}

func (v *vaultUseCaseWithMetrics) OpenCiphertext(ctx context.Context, id string) (io.ReadCloser, *vaultDomain.FileRecord, error) {
	start := time.Now()
	reader, record, err := v.next.OpenCiphertext(ctx, id)
	v.record(ctx, "file_download", start, err)
	return reader, record, err
}

func (v *vaultUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error) {
	start := time.Now()
	records, err := v.next.List(ctx, offset, limit)
	v.record(ctx, "file_list", start, err)
	return records, err
}

func (v *vaultUseCaseWithMetrics) Delete(ctx context.Context, id string) (*vaultDomain.DeleteResult, error) {
	start := time.Now()
	result, err := v.next.Delete(ctx, id)
	v.record(ctx, "file_delete", start, err)
	return result, err
}
