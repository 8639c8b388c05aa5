package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
	"github.com/allisson/filevault/internal/vault/repository"
)

const (
	testKey      = "0123456789abcdef0123456789abcdef"
	otherTestKey = "fedcba9876543210fedcba9876543210"
)

type vaultFixture struct {
	useCase   VaultUseCase
	artifacts ArtifactStore
	records   RecordRepository
}

func newVaultFixture(t *testing.T, configuredKey string) *vaultFixture {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	artifacts := repository.NewBlobArtifactStore(bucket)
	records := repository.NewBlobRecordRepository(bucket)

	return &vaultFixture{
		useCase: NewVaultUseCase(
			artifacts,
			records,
			cryptoService.NewKeyDeriver(),
			cryptoService.NewStreamCipher(256),
			configuredKey,
			t.TempDir(),
		),
		artifacts: artifacts,
		records:   records,
	}
}

func (f *vaultFixture) encrypt(t *testing.T, plaintext, key string) *vaultDomain.FileRecord {
	t.Helper()
	record, err := f.useCase.Encrypt(context.Background(), EncryptInput{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Plaintext:   strings.NewReader(plaintext),
		Key:         key,
	})
	require.NoError(t, err)
	return record
}

func TestVaultUseCase_Encrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip with configured key", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		record := fixture.encrypt(t, "hello streaming cipher", "")

		assert.Regexp(t, `^[0-9a-f]{32}$`, record.ID)
		assert.Equal(t, "notes.txt", record.OriginalFilename)
		assert.Equal(t, "text/plain", record.ContentType)
		assert.Equal(t, int64(22), record.BytesIn)
		assert.Equal(t, int64(32), record.BytesOut)
		assert.Len(t, record.IV, 16)
		assert.Len(t, record.Tag, 32)
		assert.Regexp(t, `^[0-9a-f]{16}$`, record.KeyFingerprint)
		assert.False(t, record.CreatedAt.IsZero())

		reader, got, err := fixture.useCase.Decrypt(ctx, record.ID, "")
		require.NoError(t, err)
		defer reader.Close()

		plaintext, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, "hello streaming cipher", string(plaintext))
		assert.Equal(t, record.ID, got.ID)
	})

	t.Run("per-request key overrides configured key", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		record := fixture.encrypt(t, "override", otherTestKey)

		configured := newVaultFixture(t, testKey).encrypt(t, "override", "")
		assert.NotEqual(t, configured.KeyFingerprint, record.KeyFingerprint)
	})

	t.Run("accepts hex and base64 key encodings", func(t *testing.T) {
		fixture := newVaultFixture(t, "")
		raw := bytes.Repeat([]byte{0xAB}, 32)

		hexRecord := fixture.encrypt(t, "data", "abababababababababababababababababababababababababababababababab")
		b64Record := fixture.encrypt(t, "data", base64.URLEncoding.EncodeToString(raw))
		assert.Equal(t, hexRecord.KeyFingerprint, b64Record.KeyFingerprint)
	})

	t.Run("invalid key fails before any storage write", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)

		_, err := fixture.useCase.Encrypt(ctx, EncryptInput{
			Filename:  "x",
			Plaintext: strings.NewReader("data"),
			Key:       "too-short",
		})
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)

		records, err := fixture.useCase.List(ctx, 0, 50)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("missing key", func(t *testing.T) {
		fixture := newVaultFixture(t, "")

		_, err := fixture.useCase.Encrypt(ctx, EncryptInput{
			Filename:  "x",
			Plaintext: strings.NewReader("data"),
		})
		assert.ErrorIs(t, err, cryptoDomain.ErrMissingKey)
	})

	t.Run("record create failure removes the artifact", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		t.Cleanup(func() { _ = bucket.Close() })
		artifacts := repository.NewBlobArtifactStore(bucket)

		boom := errors.New("record store down")
		useCase := NewVaultUseCase(
			artifacts,
			&failingRecordRepository{err: boom},
			cryptoService.NewKeyDeriver(),
			cryptoService.NewStreamCipher(0),
			testKey,
			t.TempDir(),
		)

		record, err := useCase.Encrypt(ctx, EncryptInput{
			Filename:  "x",
			Plaintext: strings.NewReader("data"),
		})
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, record)

		it := bucket.List(nil)
		_, err = it.Next(ctx)
		assert.ErrorIs(t, err, io.EOF, "no blob may remain after a failed encrypt")
	})
}

func TestVaultUseCase_Decrypt(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		_, _, err := fixture.useCase.Decrypt(ctx, "deadbeefdeadbeefdeadbeefdeadbeef", "")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("wrong key fails fast on fingerprint", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		record := fixture.encrypt(t, "secret", "")

		_, _, err := fixture.useCase.Decrypt(ctx, record.ID, otherTestKey)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyMismatch)
	})

	t.Run("tampered ciphertext fails authentication", func(t *testing.T) {
		bucket := memblob.OpenBucket(nil)
		t.Cleanup(func() { _ = bucket.Close() })

		useCase := NewVaultUseCase(
			repository.NewBlobArtifactStore(bucket),
			repository.NewBlobRecordRepository(bucket),
			cryptoService.NewKeyDeriver(),
			cryptoService.NewStreamCipher(0),
			testKey,
			t.TempDir(),
		)

		record, err := useCase.Encrypt(ctx, EncryptInput{
			Filename:  "x",
			Plaintext: strings.NewReader("authenticated data"),
		})
		require.NoError(t, err)

		ciphertext, err := bucket.ReadAll(ctx, record.ID+".enc")
		require.NoError(t, err)
		ciphertext[0] ^= 0x01
		require.NoError(t, bucket.WriteAll(ctx, record.ID+".enc", ciphertext, nil))

		_, _, err = useCase.Decrypt(ctx, record.ID, "")
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailed)
	})
}

func TestVaultUseCase_GetMetadata(t *testing.T) {
	fixture := newVaultFixture(t, testKey)
	record := fixture.encrypt(t, "data", "")

	got, err := fixture.useCase.GetMetadata(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Tag, got.Tag)

	_, err = fixture.useCase.GetMetadata(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVaultUseCase_OpenCiphertext(t *testing.T) {
	fixture := newVaultFixture(t, testKey)
	record := fixture.encrypt(t, "data", "")

	reader, got, err := fixture.useCase.OpenCiphertext(context.Background(), record.ID)
	require.NoError(t, err)
	defer reader.Close()

	ciphertext, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, record.BytesOut, int64(len(ciphertext)))
	assert.NotContains(t, string(ciphertext), "data")
	assert.Equal(t, record.ID, got.ID)
}

func TestVaultUseCase_List(t *testing.T) {
	fixture := newVaultFixture(t, testKey)
	for range 3 {
		fixture.encrypt(t, "data", "")
	}

	records, err := fixture.useCase.List(context.Background(), 0, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = fixture.useCase.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestVaultUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes both resources", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		record := fixture.encrypt(t, "data", "")

		result, err := fixture.useCase.Delete(ctx, record.ID)
		require.NoError(t, err)
		assert.True(t, result.RemovedCiphertext)
		assert.True(t, result.RemovedMetadata)

		_, err = fixture.useCase.GetMetadata(ctx, record.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("reports partial removal when ciphertext is already gone", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		record := fixture.encrypt(t, "data", "")

		require.NoError(t, fixture.artifacts.Delete(ctx, record.ID))

		result, err := fixture.useCase.Delete(ctx, record.ID)
		require.NoError(t, err)
		assert.False(t, result.RemovedCiphertext)
		assert.True(t, result.RemovedMetadata)
	})

	t.Run("unknown id", func(t *testing.T) {
		fixture := newVaultFixture(t, testKey)
		_, err := fixture.useCase.Delete(ctx, "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

// failingRecordRepository fails every write, for exercising cleanup paths.
type failingRecordRepository struct {
	err error
}

func (f *failingRecordRepository) Create(ctx context.Context, record *vaultDomain.FileRecord) error {
	return f.err
}

func (f *failingRecordRepository) Get(ctx context.Context, id string) (*vaultDomain.FileRecord, error) {
	return nil, apperrors.ErrNotFound
}

func (f *failingRecordRepository) List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error) {
	return nil, f.err
}

func (f *failingRecordRepository) Delete(ctx context.Context, id string) error {
	return f.err
}
