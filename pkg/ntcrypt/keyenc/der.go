package keyenc

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/cryptobyte"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
)

const (
	tagSequence = 0x30
	tagInteger  = 0x02

	// MaxFieldBytes is the longest integer encoding a one-byte length allows.
	MaxFieldBytes = 255
)

// EncodeDER emits 0x30 followed by (0x02 len value) for every field in order.
func EncodeDER(fields ...*big.Int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddUint8(tagSequence)
	for i, f := range fields {
		if f == nil || f.Sign() < 0 {
			return nil, fmt.Errorf("der: field %d must be a non-negative integer: %w", i, ntcrypt.ErrInvalidInput)
		}
		v := f.Bytes()
		if len(v) > MaxFieldBytes {
			return nil, fmt.Errorf("der: field %d needs %d bytes, limit is %d: %w",
				i, len(v), MaxFieldBytes, ntcrypt.ErrEncodingTooLarge)
		}
		b.AddUint8(tagInteger)
		b.AddUint8LengthPrefixed(func(child *cryptobyte.Builder) {
			child.AddBytes(v)
		})
	}
	return b.Bytes()
}

// DecodeDER parses a record produced by EncodeDER. It fails with
// ntcrypt.ErrMalformedDER on a tag mismatch, a missing length byte or a value
// shorter than its length.
func DecodeDER(data []byte) ([]*big.Int, error) {
	s := cryptobyte.String(data)
	var tag uint8
	if !s.ReadUint8(&tag) || tag != tagSequence {
		return nil, fmt.Errorf("der: expected sequence tag: %w", ntcrypt.ErrMalformedDER)
	}
	var fields []*big.Int
	for !s.Empty() {
		if !s.ReadUint8(&tag) || tag != tagInteger {
			return nil, fmt.Errorf("der: field %d: expected integer tag: %w", len(fields), ntcrypt.ErrMalformedDER)
		}
		var value cryptobyte.String
		if !s.ReadUint8LengthPrefixed(&value) {
			return nil, fmt.Errorf("der: field %d: truncated: %w", len(fields), ntcrypt.ErrMalformedDER)
		}
		fields = append(fields, new(big.Int).SetBytes(value))
	}
	return fields, nil
}

// DecodeDERFields is DecodeDER that also requires exactly n fields.
func DecodeDERFields(data []byte, n int) ([]*big.Int, error) {
	fields, err := DecodeDER(data)
	if err != nil {
		return nil, err
	}
	if len(fields) != n {
		return nil, fmt.Errorf("der: expected %d fields, got %d: %w", n, len(fields), ntcrypt.ErrMalformedDER)
	}
	return fields, nil
}
