package elgamal

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/logging"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/padding"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/primes"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

// Scheme generates keys and encrypts with one random source. It holds no
// key material and is safe for concurrent use.
type Scheme struct {
	oracle  *primes.Oracle
	rand    io.Reader
	keyBits int
	logger  logging.Logger
}

// New builds a Scheme from options.
func New(opts ...ntcrypt.Option) (*Scheme, error) {
	s := ntcrypt.Resolve(opts...)
	oracle, err := primes.FromSettings(s)
	if err != nil {
		return nil, fmt.Errorf("elgamal: %w", err)
	}
	return &Scheme{
		oracle:  oracle,
		rand:    s.Rand,
		keyBits: s.Config.KeyBits,
		logger:  s.Logger.With("component", "elgamal"),
	}, nil
}

// Generate builds a private key in the group (p, g). It fails with
// ntcrypt.ErrNotPrime when p is composite and ntcrypt.ErrNotPrimitiveRoot
// when g does not generate the whole group. The check factors p-1 and cannot
// be cancelled; use GenerateContext to bound it.
func (s *Scheme) Generate(p, g *big.Int) (*PrivateKey, error) {
	return s.GenerateContext(context.Background(), p, g)
}

// GenerateContext is Generate with ctx bounding the factorization of p-1.
func (s *Scheme) GenerateContext(ctx context.Context, p, g *big.Int) (*PrivateKey, error) {
	if err := s.oracle.RequirePrimitiveRoot(ctx, g, p); err != nil {
		return nil, fmt.Errorf("elgamal generate: %w", err)
	}
	if !inGroup(g, p) {
		return nil, fmt.Errorf("elgamal generate: g must be reduced into [1, p): %w", ntcrypt.ErrInvalidInput)
	}
	x, err := randsrc.Int(s.rand, p)
	if err != nil {
		return nil, fmt.Errorf("elgamal generate: %w", err)
	}
	h, err := modarith.Exp(g, x, p)
	if err != nil {
		return nil, fmt.Errorf("elgamal generate: %w", err)
	}
	return &PrivateKey{
		PublicKey: PublicKey{P: new(big.Int).Set(p), G: new(big.Int).Set(g), H: h},
		X:         x,
	}, nil
}

// GenerateKey draws a fresh bits-bit group with its smallest primitive root
// and builds a key in it. bits <= 0 selects the configured key size. Only
// small groups are practical with the built-in factorizer.
func (s *Scheme) GenerateKey(ctx context.Context, bits int) (*PrivateKey, error) {
	if bits <= 0 {
		bits = s.keyBits
	}
	p, g, err := s.oracle.GenerateGroup(ctx, bits)
	if err != nil {
		return nil, fmt.Errorf("elgamal generate key: %w", err)
	}
	k, err := s.GenerateContext(ctx, p, g)
	if err != nil {
		return nil, fmt.Errorf("elgamal generate key: %w", err)
	}
	s.logger.Debug(ctx, "key generated", "bits", p.BitLen())
	return k, nil
}

// Encrypt pads the ASCII message to the size of p and masks it with a fresh
// ephemeral exponent.
func (s *Scheme) Encrypt(pub *PublicKey, message string) (*Ciphertext, error) {
	b, err := ntcrypt.EncodeASCII(message)
	if err != nil {
		return nil, fmt.Errorf("elgamal encrypt: %w", err)
	}
	return s.EncryptBytes(pub, b)
}

// EncryptBytes is Encrypt for arbitrary bytes. The message may hold at most
// padding.MaxPayload(pub.BitLen()) bytes.
func (s *Scheme) EncryptBytes(pub *PublicKey, message []byte) (*Ciphertext, error) {
	if err := pub.validate(); err != nil {
		return nil, fmt.Errorf("elgamal encrypt: %w", err)
	}
	m, err := padding.Pad(s.rand, message, pub.P.BitLen())
	if err != nil {
		return nil, fmt.Errorf("elgamal encrypt: %w", err)
	}
	defer ntcrypt.ZeroizeInt(m)

	k, err := randsrc.Int(s.rand, pub.P)
	if err != nil {
		return nil, fmt.Errorf("elgamal encrypt: %w", err)
	}
	defer ntcrypt.ZeroizeInt(k)

	shared := modarith.MustExp(pub.H, k, pub.P)
	defer ntcrypt.ZeroizeInt(shared)

	c1 := modarith.MustExp(pub.G, k, pub.P)
	c2 := new(big.Int).Mul(m, shared)
	c2.Mod(c2, pub.P)
	return &Ciphertext{C1: c1, C2: c2}, nil
}

// Decrypt reverses Encrypt. The recovered message must be ASCII.
func (s *Scheme) Decrypt(priv *PrivateKey, ct *Ciphertext) (string, error) {
	b, err := s.DecryptBytes(priv, ct)
	if err != nil {
		return "", err
	}
	msg, err := ntcrypt.DecodeASCII(b)
	if err != nil {
		return "", fmt.Errorf("elgamal decrypt: %w", err)
	}
	return msg, nil
}

// DecryptBytes reverses EncryptBytes. Both ciphertext components must lie in
// [0, p).
func (s *Scheme) DecryptBytes(priv *PrivateKey, ct *Ciphertext) ([]byte, error) {
	if err := priv.validate(); err != nil {
		return nil, fmt.Errorf("elgamal decrypt: %w", err)
	}
	if ct == nil || !inRange(ct.C1, priv.P) || !inRange(ct.C2, priv.P) {
		return nil, fmt.Errorf("elgamal decrypt: ciphertext out of range [0, p): %w", ntcrypt.ErrInvalidInput)
	}

	shared := modarith.MustExp(ct.C1, priv.X, priv.P)
	defer ntcrypt.ZeroizeInt(shared)
	inv, err := modarith.Inverse(shared, priv.P)
	if err != nil {
		return nil, fmt.Errorf("elgamal decrypt: %w", err)
	}
	m := inv.Mul(inv, ct.C2)
	m.Mod(m, priv.P)
	defer ntcrypt.ZeroizeInt(m)

	msg, err := padding.Unpad(m, padding.KeyBytes(priv.P.BitLen()))
	if err != nil {
		return nil, fmt.Errorf("elgamal decrypt: %w", err)
	}
	return msg, nil
}

func inRange(v, p *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(p) < 0
}
