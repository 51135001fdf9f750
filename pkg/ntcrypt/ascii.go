package ntcrypt

import "fmt"

// EncodeASCII returns the bytes of s, failing with ErrInvalidInput when s holds
// anything outside 7-bit ASCII. String messages of the protocol packages go
// through it before padding.
func EncodeASCII(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return nil, fmt.Errorf("byte %d is not ASCII: %w", i, ErrInvalidInput)
		}
	}
	return []byte(s), nil
}

// DecodeASCII is the inverse of EncodeASCII.
func DecodeASCII(b []byte) (string, error) {
	for i, c := range b {
		if c > 0x7f {
			return "", fmt.Errorf("byte %d is not ASCII: %w", i, ErrInvalidInput)
		}
	}
	return string(b), nil
}
