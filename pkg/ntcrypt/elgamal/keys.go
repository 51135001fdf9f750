package elgamal

import (
	"fmt"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/keyenc"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
)

// PublicKey is the group (P, G) and the public element H = G^X mod P.
type PublicKey struct {
	P *big.Int
	G *big.Int
	H *big.Int
}

// PrivateKey adds the secret exponent X to the public key.
type PrivateKey struct {
	PublicKey
	X *big.Int
}

// Public returns a copy of the public half.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{
		P: new(big.Int).Set(k.P),
		G: new(big.Int).Set(k.G),
		H: new(big.Int).Set(k.H),
	}
}

// BitLen is the bit length of the group prime.
func (k *PublicKey) BitLen() int {
	return k.P.BitLen()
}

// MarshalPEM encodes the key as an ELGAMAL PUBLIC KEY block.
func (k *PublicKey) MarshalPEM() (string, error) {
	if err := k.validate(); err != nil {
		return "", err
	}
	return keyenc.MarshalPEM(keyenc.ElGamalPublic, k.P, k.G, k.H)
}

// Equal reports whether both keys hold the same components.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return equalInt(k.P, other.P) && equalInt(k.G, other.G) && equalInt(k.H, other.H)
}

// validate checks the shape of the key. Primality of P and the order of G are
// verified only when a key is generated.
func (k *PublicKey) validate() error {
	switch {
	case k == nil || k.P == nil || k.G == nil || k.H == nil:
		return fmt.Errorf("elgamal public key: missing component: %w", ntcrypt.ErrInvalidInput)
	case k.P.Cmp(big.NewInt(2)) < 0:
		return fmt.Errorf("elgamal public key: p must be >= 2: %w", ntcrypt.ErrInvalidInput)
	case !inGroup(k.G, k.P) || !inGroup(k.H, k.P):
		return fmt.Errorf("elgamal public key: g and h must lie in [1, p): %w", ntcrypt.ErrInvalidInput)
	}
	return nil
}

// MarshalPEM encodes the key as an ELGAMAL PRIVATE KEY block.
func (k *PrivateKey) MarshalPEM() (string, error) {
	if err := k.validate(); err != nil {
		return "", err
	}
	return keyenc.MarshalPEM(keyenc.ElGamalPrivate, k.P, k.G, k.H, k.X)
}

// Equal reports whether both keys hold the same components.
func (k *PrivateKey) Equal(other *PrivateKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.PublicKey.Equal(&other.PublicKey) && equalInt(k.X, other.X)
}

func (k *PrivateKey) validate() error {
	if k == nil {
		return fmt.Errorf("elgamal private key: nil: %w", ntcrypt.ErrInvalidInput)
	}
	if err := k.PublicKey.validate(); err != nil {
		return err
	}
	if k.X == nil || k.X.Sign() < 0 || k.X.Cmp(k.P) >= 0 {
		return fmt.Errorf("elgamal private key: x must lie in [0, p): %w", ntcrypt.ErrInvalidInput)
	}
	return nil
}

// ParsePublicKeyPEM decodes an ELGAMAL PUBLIC KEY block.
func ParsePublicKeyPEM(text string) (*PublicKey, error) {
	fields, err := keyenc.UnmarshalPEM(keyenc.ElGamalPublic, text, 3)
	if err != nil {
		return nil, err
	}
	k := &PublicKey{P: fields[0], G: fields[1], H: fields[2]}
	if err := k.validate(); err != nil {
		return nil, err
	}
	return k, nil
}

// ParsePrivateKeyPEM decodes an ELGAMAL PRIVATE KEY block and checks that
// h = g^x mod p.
func ParsePrivateKeyPEM(text string) (*PrivateKey, error) {
	fields, err := keyenc.UnmarshalPEM(keyenc.ElGamalPrivate, text, 4)
	if err != nil {
		return nil, err
	}
	k := &PrivateKey{
		PublicKey: PublicKey{P: fields[0], G: fields[1], H: fields[2]},
		X:         fields[3],
	}
	if err := k.validate(); err != nil {
		return nil, err
	}
	if modarith.MustExp(k.G, k.X, k.P).Cmp(k.H) != 0 {
		return nil, fmt.Errorf("elgamal private key: h does not match x: %w", ntcrypt.ErrInvalidInput)
	}
	return k, nil
}

func inGroup(v, p *big.Int) bool {
	return v.Sign() > 0 && v.Cmp(p) < 0
}

func equalInt(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Cmp(b) == 0
}
