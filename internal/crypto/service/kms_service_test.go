package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

// localKeeperURI returns a base64key:// URI with a random keeper key, so the
// tests run without any cloud provider.
func localKeeperURI(t *testing.T) string {
	t.Helper()
	keeperKey := make([]byte, 32)
	_, err := rand.Read(keeperKey)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(keeperKey)
}

func TestKMSService_UnwrapMasterKey(t *testing.T) {
	ctx := context.Background()
	service := NewKMSService()

	t.Run("unwraps a wrapped master key", func(t *testing.T) {
		uri := localKeeperURI(t)
		masterKey := randomMasterKey(t)

		keeper, err := secrets.OpenKeeper(ctx, uri)
		require.NoError(t, err)
		defer keeper.Close()

		wrapped, err := keeper.Encrypt(ctx, masterKey)
		require.NoError(t, err)

		unwrapped, err := service.UnwrapMasterKey(ctx, uri, base64.StdEncoding.EncodeToString(wrapped))
		require.NoError(t, err)
		assert.Equal(t, masterKey, unwrapped)
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := service.UnwrapMasterKey(ctx, localKeeperURI(t), "not base64 !!!")
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)
	})

	t.Run("rejects unwrapped keys of the wrong size", func(t *testing.T) {
		uri := localKeeperURI(t)

		keeper, err := secrets.OpenKeeper(ctx, uri)
		require.NoError(t, err)
		defer keeper.Close()

		wrapped, err := keeper.Encrypt(ctx, []byte("short key"))
		require.NoError(t, err)

		_, err = service.UnwrapMasterKey(ctx, uri, base64.StdEncoding.EncodeToString(wrapped))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)
	})

	t.Run("fails on an unknown keeper scheme", func(t *testing.T) {
		_, err := service.UnwrapMasterKey(ctx, "bogus://key", base64.StdEncoding.EncodeToString([]byte("x")))
		assert.Error(t, err)
	})
}
