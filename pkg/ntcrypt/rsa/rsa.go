package rsa

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

var one = big.NewInt(1)

// Scheme generates keys and encrypts with one random source. It holds no
// key material and is safe for concurrent use.
type Scheme struct {
	oracle      *primes.Oracle
	rand        io.Reader
	keyBits     int
	maxAttempts int
	logger      logging.Logger
}

// New builds a Scheme from options.
func New(opts ...ntcrypt.Option) (*Scheme, error) {
	s := ntcrypt.Resolve(opts...)
	oracle, err := primes.FromSettings(s)
	if err != nil {
		return nil, fmt.Errorf("rsa: %w", err)
	}
	return &Scheme{
		oracle:      oracle,
		rand:        s.Rand,
		keyBits:     s.Config.KeyBits,
		maxAttempts: s.Config.MaxAttempts,
		logger:      s.Logger.With("component", "rsa"),
	}, nil
}

// Generate builds a key pair from two distinct primes. The private exponent
// is drawn uniformly from [1, phi) until it is coprime to phi and the public
// exponent is its inverse modulo phi.
func (s *Scheme) Generate(p, q *big.Int) (*KeyPair, error) {
	if p == nil || q == nil {
		return nil, fmt.Errorf("rsa generate: nil prime: %w", ntcrypt.ErrInvalidInput)
	}
	for _, c := range []*big.Int{p, q} {
		ok, err := s.oracle.IsProbablePrime(c)
		if err != nil {
			return nil, fmt.Errorf("rsa generate: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("rsa generate: factor is composite: %w", ntcrypt.ErrNotPrime)
		}
	}
	if p.Cmp(q) == 0 {
		return nil, fmt.Errorf("rsa generate: p and q must differ: %w", ntcrypt.ErrInvalidInput)
	}

	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))
	defer ntcrypt.ZeroizeInt(phi)

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		d, err := randsrc.Range(s.rand, one, phi)
		if err != nil {
			return nil, fmt.Errorf("rsa generate: %w", err)
		}
		if !modarith.Coprime(d, phi) {
			continue
		}
		e, err := modarith.Inverse(d, phi)
		if err != nil {
			return nil, fmt.Errorf("rsa generate: %w", err)
		}
		return &KeyPair{n: n, e: e, d: d}, nil
	}
	return nil, fmt.Errorf("rsa generate: no exponent coprime to phi in %d draws: %w", s.maxAttempts, ntcrypt.ErrGenerationExhausted)
}

// GenerateKey draws two distinct primes of bits/2 bits each and builds a key
// pair from them. bits <= 0 selects the configured key size.
func (s *Scheme) GenerateKey(ctx context.Context, bits int) (*KeyPair, error) {
	if bits <= 0 {
		bits = s.keyBits
	}
	if bits < 16 {
		return nil, fmt.Errorf("rsa generate key: bits must be >= 16, got %d: %w", bits, ntcrypt.ErrInvalidInput)
	}
	p, q, err := s.oracle.GeneratePair(ctx, bits/2)
	if err != nil {
		return nil, fmt.Errorf("rsa generate key: %w", err)
	}
	defer ntcrypt.ZeroizeInt(p)
	defer ntcrypt.ZeroizeInt(q)

	kp, err := s.Generate(p, q)
	if err != nil {
		return nil, fmt.Errorf("rsa generate key: %w", err)
	}
	s.logger.Debug(ctx, "key pair generated", "bits", kp.BitLen(), logging.Redacted("d"))
	return kp, nil
}

// Encrypt pads the ASCII message to the modulus size and raises it to the
// public exponent.
func (s *Scheme) Encrypt(pub *PublicKey, message string) (*big.Int, error) {
	b, err := ntcrypt.EncodeASCII(message)
	if err != nil {
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	return s.EncryptBytes(pub, b)
}

// EncryptBytes is Encrypt for arbitrary bytes. The message may hold at most
// padding.MaxPayload(pub.N.BitLen()) bytes.
func (s *Scheme) EncryptBytes(pub *PublicKey, message []byte) (*big.Int, error) {
	if err := pub.validate(); err != nil {
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	m, err := padding.Pad(s.rand, message, pub.N.BitLen())
	if err != nil {
		return nil, fmt.Errorf("rsa encrypt: %w", err)
	}
	defer ntcrypt.ZeroizeInt(m)
	return modarith.Exp(m, pub.E, pub.N)
}

// Decrypt reverses Encrypt. The recovered message must be ASCII.
func (s *Scheme) Decrypt(priv *PrivateKey, ciphertext *big.Int) (string, error) {
	b, err := s.DecryptBytes(priv, ciphertext)
	if err != nil {
		return "", err
	}
	msg, err := ntcrypt.DecodeASCII(b)
	if err != nil {
		return "", fmt.Errorf("rsa decrypt: %w", err)
	}
	return msg, nil
}

// DecryptBytes reverses EncryptBytes. The block is unpadded at the key byte
// length derived from the modulus, never from the decrypted value.
func (s *Scheme) DecryptBytes(priv *PrivateKey, ciphertext *big.Int) ([]byte, error) {
	if err := priv.validate(); err != nil {
		return nil, fmt.Errorf("rsa decrypt: %w", err)
	}
	if ciphertext == nil || ciphertext.Sign() < 0 || ciphertext.Cmp(priv.N) >= 0 {
		return nil, fmt.Errorf("rsa decrypt: ciphertext out of range [0, n): %w", ntcrypt.ErrInvalidInput)
	}
	m, err := modarith.Exp(ciphertext, priv.D, priv.N)
	if err != nil {
		return nil, fmt.Errorf("rsa decrypt: %w", err)
	}
	defer ntcrypt.ZeroizeInt(m)
	msg, err := padding.Unpad(m, padding.KeyBytes(priv.N.BitLen()))
	if err != nil {
		return nil, fmt.Errorf("rsa decrypt: %w", err)
	}
	return msg, nil
}
