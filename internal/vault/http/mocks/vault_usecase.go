// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/allisson/filevault/internal/vault/domain"
	vaultUseCase "github.com/allisson/filevault/internal/vault/usecase"
)

// MockVaultUseCase is a mock implementation of VaultUseCase for testing.
type MockVaultUseCase struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of VaultUseCase.
func (m *MockVaultUseCase) Encrypt(
	ctx context.Context,
	input vaultUseCase.EncryptInput,
) (*vaultDomain.FileRecord, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.FileRecord), args.Error(1)
}

// Decrypt mocks the Decrypt method of VaultUseCase.
func (m *MockVaultUseCase) Decrypt(
	ctx context.Context,
	id, key string,
) (io.ReadCloser, *vaultDomain.FileRecord, error) {
	args := m.Called(ctx, id, key)
	var reader io.ReadCloser
	if args.Get(0) != nil {
		reader = args.Get(0).(io.ReadCloser)
	}
	var record *vaultDomain.FileRecord
	if args.Get(1) != nil {
		record = args.Get(1).(*vaultDomain.FileRecord)
	}
	return reader, record, args.Error(2)
}

// GetMetadata mocks the GetMetadata method of VaultUseCase.
func (m *MockVaultUseCase) GetMetadata(ctx context.Context, id string) (*vaultDomain.FileRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.FileRecord), args.Error(1)
}

// OpenCiphertext mocks the OpenCiphertext method of VaultUseCase.
func (m *MockVaultUseCase) OpenCiphertext(
	ctx context.Context,
	id string,
) (io.ReadCloser, *vaultDomain.FileRecord, error) {
	args := m.Called(ctx, id)
	var reader io.ReadCloser
	if args.Get(0) != nil {
		reader = args.Get(0).(io.ReadCloser)
	}
	var record *vaultDomain.FileRecord
	if args.Get(1) != nil {
		record = args.Get(1).(*vaultDomain.FileRecord)
	}
	return reader, record, args.Error(2)
}

// List mocks the List method of VaultUseCase.
func (m *MockVaultUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.FileRecord, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.FileRecord), args.Error(1)
}

// Delete mocks the Delete method of VaultUseCase.
func (m *MockVaultUseCase) Delete(ctx context.Context, id string) (*vaultDomain.DeleteResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.DeleteResult), args.Error(1)
}
