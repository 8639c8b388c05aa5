package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/filevault/internal/crypto/domain"
	apperrors "github.com/allisson/filevault/internal/errors"
)

// DefaultChunkSize is the streaming chunk size used when none is configured.
const DefaultChunkSize = 64 * 1024

// streamCipher implements StreamCipher using AES-256-CBC with PKCS#7 padding
// and an encrypt-then-MAC HMAC-SHA256 tag over IV || ciphertext.
//
// Padding, cipher chaining, and MAC accumulation are advanced together once
// per chunk and finalized exactly once, carrying partial-block state across
// chunk boundaries. This keeps peak memory proportional to the chunk size
// regardless of stream length.
type streamCipher struct {
	chunkSize int
}

// NewStreamCipher creates a streaming cipher engine with the given chunk size.
// A chunk size of zero or less selects DefaultChunkSize.
func NewStreamCipher(chunkSize int) StreamCipher {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &streamCipher{chunkSize: chunkSize}
}

// newBlockCipher validates the encryption key and builds the AES-256 block cipher.
func newBlockCipher(encKey []byte) (cipher.Block, error) {
	if len(encKey) != cryptoDomain.DerivedKeySize {
		return nil, fmt.Errorf(
			"%w: encryption key must be %d bytes, got %d",
			cryptoDomain.ErrInvalidKey,
			cryptoDomain.DerivedKeySize,
			len(encKey),
		)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	return block, nil
}

// Encrypt streams plaintext from src into dst.
//
// The PKCS#7 padder carries a partial block across chunk boundaries, so a
// chunk may end mid-block without losing data. The CBC chaining state spans
// the whole stream; the IV seeds the first block only. The MAC is seeded with
// the IV and then updated with each ciphertext chunk in emission order.
// Finalization always emits between 1 and 16 padding bytes, a full pad block
// for block-aligned input, including the empty stream.
func (s *streamCipher) Encrypt(
	dst io.Writer,
	src io.Reader,
	encKey, macKey []byte,
) (*EncryptResult, error) {
	block, err := newBlockCipher(encKey)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	mode := cipher.NewCBCEncrypter(block, iv)
	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)

	var bytesIn, bytesOut int64
	buf := make([]byte, s.chunkSize)
	carry := make([]byte, 0, s.chunkSize+aes.BlockSize)
	ct := make([]byte, s.chunkSize+aes.BlockSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			bytesIn += int64(n)
			carry = append(carry, buf[:n]...)

			full := len(carry) - len(carry)%aes.BlockSize
			if full > 0 {
				mode.CryptBlocks(ct[:full], carry[:full])
				mac.Write(ct[:full])
				if _, err := dst.Write(ct[:full]); err != nil {
					return nil, apperrors.Wrap(err, "writing ciphertext")
				}
				bytesOut += int64(full)
				carry = append(carry[:0], carry[full:]...)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, apperrors.Wrap(readErr, "reading plaintext")
		}
	}

	// Flush the padder and finalize cipher and MAC.
	padLen := aes.BlockSize - len(carry)%aes.BlockSize
	for range padLen {
		carry = append(carry, byte(padLen))
	}
	mode.CryptBlocks(ct[:len(carry)], carry)
	mac.Write(ct[:len(carry)])
	if _, err := dst.Write(ct[:len(carry)]); err != nil {
		return nil, apperrors.Wrap(err, "writing final ciphertext block")
	}
	bytesOut += int64(len(carry))

	return &EncryptResult{
		IV:       iv,
		BytesIn:  bytesIn,
		BytesOut: bytesOut,
		Tag:      mac.Sum(nil),
	}, nil
}

// Decrypt streams ciphertext from src into dst and verifies the tag.
//
// The MAC is updated with every ciphertext chunk in read order, independent of
// how the decrypting stage buffers internally. The unpadder withholds the
// trailing block until the true end of stream, because the padding bytes may
// be split across the last one or two input chunks. After the stream is fully
// consumed and unpadded, the tag is verified with a constant-time comparison;
// any malformed ciphertext, invalid padding, or tag mismatch fails with
// domain.ErrAuthenticationFailed.
func (s *streamCipher) Decrypt(
	dst io.Writer,
	src io.Reader,
	encKey, macKey, iv, expectedTag []byte,
) (*DecryptResult, error) {
	block, err := newBlockCipher(encKey)
	if err != nil {
		return nil, err
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf(
			"%w: iv must be %d bytes, got %d",
			apperrors.ErrInvalidInput, aes.BlockSize, len(iv),
		)
	}

	mode := cipher.NewCBCDecrypter(block, iv)
	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)

	var bytesIn, bytesOut int64
	buf := make([]byte, s.chunkSize)
	carry := make([]byte, 0, s.chunkSize+aes.BlockSize)
	held := make([]byte, 0, s.chunkSize+2*aes.BlockSize)
	pt := make([]byte, s.chunkSize+aes.BlockSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			bytesIn += int64(n)
			mac.Write(buf[:n])
			carry = append(carry, buf[:n]...)

			full := len(carry) - len(carry)%aes.BlockSize
			if full > 0 {
				mode.CryptBlocks(pt[:full], carry[:full])
				held = append(held, pt[:full]...)
				carry = append(carry[:0], carry[full:]...)
			}

			// The trailing block may hold padding: withhold it until EOF.
			if emit := len(held) - aes.BlockSize; emit > 0 {
				if _, err := dst.Write(held[:emit]); err != nil {
					return nil, apperrors.Wrap(err, "writing plaintext")
				}
				bytesOut += int64(emit)
				held = append(held[:0], held[emit:]...)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, apperrors.Wrap(readErr, "reading ciphertext")
		}
	}

	if len(carry) != 0 || len(held) != aes.BlockSize {
		return nil, fmt.Errorf(
			"%w: ciphertext is not a whole number of cipher blocks",
			cryptoDomain.ErrAuthenticationFailed,
		)
	}

	padLen := int(held[aes.BlockSize-1])
	if padLen < 1 || padLen > aes.BlockSize {
		return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrAuthenticationFailed)
	}
	for _, b := range held[aes.BlockSize-padLen:] {
		if b != byte(padLen) {
			return nil, fmt.Errorf("%w: invalid padding", cryptoDomain.ErrAuthenticationFailed)
		}
	}

	if tail := held[:aes.BlockSize-padLen]; len(tail) > 0 {
		if _, err := dst.Write(tail); err != nil {
			return nil, apperrors.Wrap(err, "writing final plaintext block")
		}
		bytesOut += int64(len(tail))
	}

	if !hmac.Equal(mac.Sum(nil), expectedTag) {
		return nil, fmt.Errorf("%w: hmac tag mismatch", cryptoDomain.ErrAuthenticationFailed)
	}

	return &DecryptResult{BytesIn: bytesIn, BytesOut: bytesOut}, nil
}
