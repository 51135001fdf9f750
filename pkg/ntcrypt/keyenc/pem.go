package keyenc

import (
	"encoding/pem"
	"fmt"
	"math/big"
	"strings"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
)

// KeyType identifies the algorithm and visibility of a PEM block.
type KeyType int

const (
	RSAPublic KeyType = iota + 1
	RSAPrivate
	ElGamalPublic
	ElGamalPrivate
)

// Label returns the literal PEM marker text, e.g. "RSA PUBLIC KEY".
func (k KeyType) Label() string {
	switch k {
	case RSAPublic:
		return "RSA PUBLIC KEY"
	case RSAPrivate:
		return "RSA PRIVATE KEY"
	case ElGamalPublic:
		return "ELGAMAL PUBLIC KEY"
	case ElGamalPrivate:
		return "ELGAMAL PRIVATE KEY"
	default:
		return ""
	}
}

func (k KeyType) String() string {
	if l := k.Label(); l != "" {
		return l
	}
	return fmt.Sprintf("KeyType(%d)", int(k))
}

func (k KeyType) header() string { return "-----BEGIN " + k.Label() + "-----" }
func (k KeyType) footer() string { return "-----END " + k.Label() + "-----" }

// EncodePEM frames der as a PEM block of type k.
func EncodePEM(k KeyType, der []byte) (string, error) {
	if k.Label() == "" {
		return "", fmt.Errorf("pem: unknown key type %d: %w", int(k), ntcrypt.ErrInvalidInput)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: k.Label(), Bytes: der})), nil
}

// DecodePEM extracts the DER bytes from text. It fails with
// ntcrypt.ErrMalformedPEM unless the trimmed text starts with the header and
// ends with the footer of k, and holds exactly one block with no headers.
func DecodePEM(k KeyType, text string) ([]byte, error) {
	if k.Label() == "" {
		return nil, fmt.Errorf("pem: unknown key type %d: %w", int(k), ntcrypt.ErrInvalidInput)
	}
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, k.header()) || !strings.HasSuffix(trimmed, k.footer()) {
		return nil, fmt.Errorf("pem: expected %s block: %w", k.Label(), ntcrypt.ErrMalformedPEM)
	}
	block, rest := pem.Decode([]byte(trimmed + "\n"))
	if block == nil || block.Type != k.Label() || len(block.Headers) != 0 || len(strings.TrimSpace(string(rest))) != 0 {
		return nil, fmt.Errorf("pem: invalid %s body: %w", k.Label(), ntcrypt.ErrMalformedPEM)
	}
	return block.Bytes, nil
}

// MarshalPEM encodes fields as DER and frames them as type k.
func MarshalPEM(k KeyType, fields ...*big.Int) (string, error) {
	der, err := EncodeDER(fields...)
	if err != nil {
		return "", err
	}
	return EncodePEM(k, der)
}

// UnmarshalPEM reverses MarshalPEM, requiring exactly n fields.
func UnmarshalPEM(k KeyType, text string, n int) ([]*big.Int, error) {
	der, err := DecodePEM(k, text)
	if err != nil {
		return nil, err
	}
	return DecodeDERFields(der, n)
}
