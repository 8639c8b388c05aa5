package commands

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	cryptoService "github.com/allisson/filevault/internal/crypto/service"
)

// RunGenerateKey generates a new random master key and prints it in the
// requested encoding together with its fingerprint, so operators can correlate
// stored files with the key that encrypted them.
func RunGenerateKey(format string, io IOTuple) error {
	key := make([]byte, cryptoDomain.MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		return fmt.Errorf("failed to generate key material: %w", err)
	}
	defer cryptoDomain.Zero(key)

	var encoded string
	switch format {
	case "base64":
		encoded = base64.URLEncoding.EncodeToString(key)
	case "hex":
		encoded = hex.EncodeToString(key)
	default:
		return fmt.Errorf("invalid format: %s (valid options: base64, hex)", format)
	}

	fingerprint, err := cryptoService.NewKeyDeriver().Fingerprint(key)
	if err != nil {
		return fmt.Errorf("failed to fingerprint key: %w", err)
	}

	fmt.Fprintf(io.Writer, "ENCRYPTION_KEY=%s\n", encoded)
	fmt.Fprintf(io.Writer, "fingerprint=%s\n", fingerprint)
	return nil
}
