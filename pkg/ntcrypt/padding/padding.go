// Package padding implements the PKCS#1 v1.5 style block used before raising
// a message to a public exponent:
//
//	0x00 0x02 || R || 0x00 || message
//
// where R is at least eight random non-zero bytes. The block is read as a
// big-endian integer. Because that integer carries no length, Unpad must be
// told the key byte length the block was built for.
package padding

import (
	"fmt"
	"io"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

// Overhead is the number of bytes the block adds around the message: the
// two-byte prefix, the separator and the minimum of eight random bytes.
const Overhead = 11

// KeyBytes is the block length used for a modulus of bits bits. Encryption
// and decryption must agree on it, so both sides derive it from the modulus
// bit length with this function.
func KeyBytes(bits int) int {
	return bits / 8
}

// MaxPayload is the longest message that fits a modulus of bits bits. It is
// negative for moduli too small to hold any padded block.
func MaxPayload(bits int) int {
	return KeyBytes(bits) - Overhead
}

// Pad builds the padded block for message and returns it as an integer.
// It fails with ntcrypt.ErrPayloadTooLarge when len(message) exceeds
// MaxPayload(keySizeBits).
func Pad(r io.Reader, message []byte, keySizeBits int) (*big.Int, error) {
	if keySizeBits <= 0 {
		return nil, fmt.Errorf("pad: key size must be positive: %w", ntcrypt.ErrInvalidInput)
	}
	keyBytes := KeyBytes(keySizeBits)
	if limit := MaxPayload(keySizeBits); len(message) > limit {
		return nil, fmt.Errorf("pad: message of %d bytes exceeds %d for a %d-bit key: %w",
			len(message), limit, keySizeBits, ntcrypt.ErrPayloadTooLarge)
	}

	filler, err := randsrc.NonzeroBytes(r, keyBytes-len(message)-3)
	if err != nil {
		return nil, fmt.Errorf("pad: %w", err)
	}
	defer ntcrypt.ZeroizeBytes(filler)

	block := make([]byte, keyBytes)
	defer ntcrypt.ZeroizeBytes(block)
	block[1] = 0x02
	copy(block[2:], filler)
	copy(block[keyBytes-len(message):], message)
	return new(big.Int).SetBytes(block), nil
}

// Unpad reverses Pad. The block is rebuilt at exactly keySizeBytes bytes, so a
// leading 0x00 lost in the integer form is restored. It fails with
// ntcrypt.ErrInvalidPadding when the block is too long, lacks the 0x00 0x02
// prefix, or has no separator after the prefix.
func Unpad(value *big.Int, keySizeBytes int) ([]byte, error) {
	if value == nil || value.Sign() < 0 || keySizeBytes <= 0 {
		return nil, fmt.Errorf("unpad: %w", ntcrypt.ErrInvalidInput)
	}
	if (value.BitLen()+7)/8 > keySizeBytes {
		return nil, fmt.Errorf("unpad: value longer than %d bytes: %w", keySizeBytes, ntcrypt.ErrInvalidPadding)
	}
	block := value.FillBytes(make([]byte, keySizeBytes))
	defer ntcrypt.ZeroizeBytes(block)

	if keySizeBytes < 2 || block[0] != 0x00 || block[1] != 0x02 {
		return nil, fmt.Errorf("unpad: missing 00 02 prefix: %w", ntcrypt.ErrInvalidPadding)
	}
	for i := 2; i < len(block); i++ {
		if block[i] == 0x00 {
			out := make([]byte, len(block)-i-1)
			copy(out, block[i+1:])
			return out, nil
		}
	}
	return nil, fmt.Errorf("unpad: no separator: %w", ntcrypt.ErrInvalidPadding)
}
