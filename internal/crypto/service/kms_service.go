package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService unwraps a KMS-wrapped master key at startup so the plaintext
// master key never has to live in the environment.
type KMSService interface {
	// UnwrapMasterKey decrypts the base64-encoded wrapped master key using the
	// keeper identified by keyURI and returns the raw 32-byte master key.
	UnwrapMasterKey(ctx context.Context, keyURI, wrappedBase64 string) ([]byte, error)
}

// kmsService implements KMSService using gocloud.dev/secrets.
type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// UnwrapMasterKey opens a secrets.Keeper for the configured provider and
// decrypts the wrapped key. Supported URI schemes: gcpkms://, awskms://,
// azurekeyvault://, hashivault://, base64key://.
func (k *kmsService) UnwrapMasterKey(ctx context.Context, keyURI, wrappedBase64 string) ([]byte, error) {
	wrapped, err := base64.StdEncoding.DecodeString(wrappedBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: wrapped master key is not valid base64: %v", cryptoDomain.ErrInvalidKey, err)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	masterKey, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap master key: %w", err)
	}
	if len(masterKey) != cryptoDomain.MasterKeySize {
		cryptoDomain.Zero(masterKey)
		return nil, fmt.Errorf(
			"%w: unwrapped master key must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKey,
			cryptoDomain.MasterKeySize,
			len(masterKey),
		)
	}

	return masterKey, nil
}
