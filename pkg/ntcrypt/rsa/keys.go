package rsa

import (
	"fmt"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/keyenc"
)

// PublicKey is the pair (N, E).
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// PrivateKey is the pair (N, D).
type PrivateKey struct {
	N *big.Int
	D *big.Int
}

// KeyPair holds a modulus with both exponents. It is immutable; Public and
// Private return copies.
type KeyPair struct {
	n, e, d *big.Int
}

// NewKeyPair builds a key pair from known components. Only the shape is
// checked: n > 1 and both exponents in [1, n).
func NewKeyPair(n, e, d *big.Int) (*KeyPair, error) {
	if err := checkComponents(n, e); err != nil {
		return nil, fmt.Errorf("rsa key pair: public exponent: %w", err)
	}
	if err := checkComponents(n, d); err != nil {
		return nil, fmt.Errorf("rsa key pair: private exponent: %w", err)
	}
	return &KeyPair{
		n: new(big.Int).Set(n),
		e: new(big.Int).Set(e),
		d: new(big.Int).Set(d),
	}, nil
}

// Public returns the public view of the pair.
func (kp *KeyPair) Public() *PublicKey {
	return &PublicKey{N: new(big.Int).Set(kp.n), E: new(big.Int).Set(kp.e)}
}

// Private returns the private view of the pair.
func (kp *KeyPair) Private() *PrivateKey {
	return &PrivateKey{N: new(big.Int).Set(kp.n), D: new(big.Int).Set(kp.d)}
}

// BitLen is the bit length of the modulus.
func (kp *KeyPair) BitLen() int {
	return kp.n.BitLen()
}

// MarshalPEM encodes the key as an RSA PUBLIC KEY block.
func (k *PublicKey) MarshalPEM() (string, error) {
	if err := k.validate(); err != nil {
		return "", err
	}
	return keyenc.MarshalPEM(keyenc.RSAPublic, k.N, k.E)
}

// Equal reports whether both keys hold the same components.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return equalInt(k.N, other.N) && equalInt(k.E, other.E)
}

func (k *PublicKey) validate() error {
	if k == nil {
		return fmt.Errorf("rsa public key: nil: %w", ntcrypt.ErrInvalidInput)
	}
	if err := checkComponents(k.N, k.E); err != nil {
		return fmt.Errorf("rsa public key: %w", err)
	}
	return nil
}

// MarshalPEM encodes the key as an RSA PRIVATE KEY block.
func (k *PrivateKey) MarshalPEM() (string, error) {
	if err := k.validate(); err != nil {
		return "", err
	}
	return keyenc.MarshalPEM(keyenc.RSAPrivate, k.N, k.D)
}

// Equal reports whether both keys hold the same components.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return equalInt(k.N, other.N) && equalInt(k.D, other.D)
}

func (k *PrivateKey) validate() error {
	if k == nil {
		return fmt.Errorf("rsa private key: nil: %w", ntcrypt.ErrInvalidInput)
	}
	if err := checkComponents(k.N, k.D); err != nil {
		return fmt.Errorf("rsa private key: %w", err)
	}
	return nil
}

// ParsePublicKeyPEM decodes an RSA PUBLIC KEY block.
func ParsePublicKeyPEM(text string) (*PublicKey, error) {
	fields, err := keyenc.UnmarshalPEM(keyenc.RSAPublic, text, 2)
	if err != nil {
		return nil, err
	}
	k := &PublicKey{N: fields[0], E: fields[1]}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// ParsePrivateKeyPEM decodes an RSA PRIVATE KEY block.
func ParsePrivateKeyPEM(text string) (*PrivateKey, error) {
	fields, err := keyenc.UnmarshalPEM(keyenc.RSAPrivate, text, 2)
	if err != nil {
		return nil, err
	}
	k := &PrivateKey{N: fields[0], D: fields[1]}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

func checkComponents(n, exp *big.Int) error {
	switch {
	case n == nil || exp == nil:
		return fmt.Errorf("missing component: %w", ntcrypt.ErrInvalidInput)
	case n.Cmp(big.NewInt(1)) <= 0:
		return fmt.Errorf("modulus must be > 1: %w", ntcrypt.ErrInvalidInput)
	case exp.Sign() <= 0 || exp.Cmp(n) >= 0:
		return fmt.Errorf("exponent out of range [1, n): %w", ntcrypt.ErrInvalidInput)
	}
	return nil
}

func equalInt(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
