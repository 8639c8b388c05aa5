package usecase

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
	apperrors "github.com/allisson/filevault/internal/errors"
	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
)

// vaultUseCase implements the VaultUseCase interface.
type vaultUseCase struct {
	artifacts     ArtifactStore
	records       RecordRepository
	deriver       cryptoService.KeyDeriver
	engine        cryptoService.StreamCipher
	configuredKey string
	scratchDir    string
}

// NewVaultUseCase creates a vault use case instance with the provided
// dependencies. configuredKey is the process-wide master key (may be empty
// when every request supplies its own) and scratchDir is where decrypt
// scratch files are placed (empty means the OS temp dir).
func NewVaultUseCase(
	artifacts ArtifactStore,
	records RecordRepository,
	deriver cryptoService.KeyDeriver,
	engine cryptoService.StreamCipher,
	configuredKey string,
	scratchDir string,
) VaultUseCase {
	return &vaultUseCase{
		artifacts:     artifacts,
		records:       records,
		deriver:       deriver,
		engine:        engine,
		configuredKey: configuredKey,
		scratchDir:    scratchDir,
	}
}

// resolveKeys parses the effective master key and derives the encryption and
// MAC keys plus the key fingerprint. Key-format failures happen here, before
// any storage side effect.
func (v *vaultUseCase) resolveKeys(override string) (encKey, macKey []byte, fingerprint string, err error) {
	masterKey, err := cryptoDomain.ResolveMasterKey(override, v.configuredKey)
	if err != nil {
		return nil, nil, "", err
	}
	defer cryptoDomain.Zero(masterKey)

	encKey, macKey, err = v.deriver.Derive(masterKey)
	if err != nil {
		return nil, nil, "", err
	}

	fingerprint, err = v.deriver.Fingerprint(masterKey)
	if err != nil {
		cryptoDomain.Zero(encKey)
		cryptoDomain.Zero(macKey)
		return nil, nil, "", err
	}

	return encKey, macKey, fingerprint, nil
}

// Encrypt streams the input plaintext through the cipher into a new artifact
// and persists its metadata record. A failure at any stage removes whatever
// was already stored for the new id.
func (v *vaultUseCase) Encrypt(ctx context.Context, input EncryptInput) (*vaultDomain.FileRecord, error) {
	encKey, macKey, fingerprint, err := v.resolveKeys(input.Key)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(encKey)
	defer cryptoDomain.Zero(macKey)

	id := vaultDomain.NewArtifactID()

	var result *cryptoService.EncryptResult
	err = v.artifacts.Put(ctx, id, func(w io.Writer) error {
		result, err = v.engine.Encrypt(w, input.Plaintext, encKey, macKey)
		return err
	})
	if err != nil {
		return nil, err
	}

	record := &vaultDomain.FileRecord{
		ID:               id,
		OriginalFilename: input.Filename,
		ContentType:      input.ContentType,
		BytesIn:          result.BytesIn,
		BytesOut:         result.BytesOut,
		IV:               result.IV,
		Tag:              result.Tag,
		KeyFingerprint:   fingerprint,
		CreatedAt:        time.Now().UTC(),
	}

	if err := v.records.Create(ctx, record); err != nil {
		_ = v.artifacts.Delete(ctx, id)
		return nil, err
	}

	return record, nil
}

// Decrypt authenticates and decrypts the artifact with the given id. The
// plaintext is staged in an unlinked scratch file and only surfaced to the
// caller after the full ciphertext passed authentication, so no unverified
// bytes ever reach the response.
func (v *vaultUseCase) Decrypt(ctx context.Context, id, key string) (io.ReadCloser, *vaultDomain.FileRecord, error) {
	record, err := v.records.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	encKey, macKey, fingerprint, err := v.resolveKeys(key)
	if err != nil {
		return nil, nil, err
	}
	defer cryptoDomain.Zero(encKey)
	defer cryptoDomain.Zero(macKey)

	// A fingerprint mismatch is a usable early signal that the wrong key was
	// supplied; the MAC check below still catches everything else.
	if fingerprint != record.KeyFingerprint {
		return nil, nil, cryptoDomain.ErrKeyMismatch
	}

	ciphertext, err := v.artifacts.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	defer ciphertext.Close()

	scratch, err := os.CreateTemp(v.scratchDir, "filevault-decrypt-*")
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "creating decrypt scratch file")
	}
	// Unlinked immediately so the plaintext disappears when the file is closed,
	// whether by the caller or by a failure below.
	_ = os.Remove(scratch.Name())

	if _, err := v.engine.Decrypt(scratch, ciphertext, encKey, macKey, record.IV, record.Tag); err != nil {
		_ = scratch.Close()
		return nil, nil, err
	}

	if _, err := scratch.Seek(0, io.SeekStart); err != nil {
		_ = scratch.Close()
		return nil, nil, apperrors.Wrap(err, "rewinding decrypt scratch file")
	}

	return scratch, record, nil
}

// GetMetadata returns the metadata record for the given id.
func (v *vaultUseCase) GetMetadata(ctx context.Context, id string) (*vaultDomain.FileRecord, error) {
	return v.records.Get(ctx, id)
}

// OpenCiphertext returns the raw ciphertext artifact and its record. No key
// material is required.
func (v *vaultUseCase) OpenCiphertext(ctx context.Context, id string) (io.ReadCloser, *vaultDomain.FileRecord, error) {
	record, err := v.records.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := v.artifacts.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return reader, record, nil
}

// List returns metadata records ordered newest first with pagination.
func (v *vaultUseCase) List(ctx context.Context, offset, limit int) ([]*vaultDomain.FileRecord, error) {
	return v.records.List(ctx, offset, limit)
}

// Delete removes ciphertext and metadata independently. The two removals are
// deliberately non-atomic; the result reports exactly what was removed so a
// caller can retry a half-deleted artifact. ErrNotFound only when neither
// resource existed.
func (v *vaultUseCase) Delete(ctx context.Context, id string) (*vaultDomain.DeleteResult, error) {
	result := &vaultDomain.DeleteResult{}

	switch err := v.artifacts.Delete(ctx, id); {
	case err == nil:
		result.RemovedCiphertext = true
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return nil, err
	}

	switch err := v.records.Delete(ctx, id); {
	case err == nil:
		result.RemovedMetadata = true
	case errors.Is(err, apperrors.ErrNotFound):
	default:
		return nil, err
	}

	if !result.RemovedCiphertext && !result.RemovedMetadata {
		return nil, apperrors.ErrNotFound
	}

	return result, nil
}
