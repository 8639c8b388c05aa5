package service

import (
	"crypto/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
)

func randomMasterKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.MasterKeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestKeyDeriver_Derive(t *testing.T) {
	deriver := NewKeyDeriver()

	t.Run("expands into two independent 32-byte keys", func(t *testing.T) {
		masterKey := randomMasterKey(t)

		encKey, macKey, err := deriver.Derive(masterKey)
		require.NoError(t, err)
		assert.Len(t, encKey, 32)
		assert.Len(t, macKey, 32)
		assert.NotEqual(t, encKey, macKey)
		assert.NotEqual(t, masterKey, encKey)
		assert.NotEqual(t, masterKey, macKey)
	})

	t.Run("is deterministic", func(t *testing.T) {
		masterKey := randomMasterKey(t)

		enc1, mac1, err := deriver.Derive(masterKey)
		require.NoError(t, err)
		enc2, mac2, err := deriver.Derive(masterKey)
		require.NoError(t, err)

		assert.Equal(t, enc1, enc2)
		assert.Equal(t, mac1, mac2)
	})

	t.Run("different master keys yield different pairs", func(t *testing.T) {
		enc1, _, err := deriver.Derive(randomMasterKey(t))
		require.NoError(t, err)
		enc2, _, err := deriver.Derive(randomMasterKey(t))
		require.NoError(t, err)

		assert.NotEqual(t, enc1, enc2)
	})

	t.Run("rejects wrong key length", func(t *testing.T) {
		_, _, err := deriver.Derive(make([]byte, 16))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)
	})
}

func TestKeyDeriver_Fingerprint(t *testing.T) {
	deriver := NewKeyDeriver()

	t.Run("stable across calls", func(t *testing.T) {
		masterKey := randomMasterKey(t)

		fp1, err := deriver.Fingerprint(masterKey)
		require.NoError(t, err)
		fp2, err := deriver.Fingerprint(masterKey)
		require.NoError(t, err)

		assert.Equal(t, fp1, fp2)
	})

	t.Run("is 16 lowercase hex chars", func(t *testing.T) {
		fp, err := deriver.Fingerprint(randomMasterKey(t))
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}$`), fp)
	})

	t.Run("differs for different keys", func(t *testing.T) {
		fp1, err := deriver.Fingerprint(randomMasterKey(t))
		require.NoError(t, err)
		fp2, err := deriver.Fingerprint(randomMasterKey(t))
		require.NoError(t, err)

		assert.NotEqual(t, fp1, fp2)
	})

	t.Run("rejects wrong key length", func(t *testing.T) {
		_, err := deriver.Fingerprint(make([]byte, 31))
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKey)
	})
}
