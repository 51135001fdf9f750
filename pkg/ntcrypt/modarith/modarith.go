// Package modarith implements the modular arithmetic shared by the
// public-key protocols: square-and-multiply exponentiation and the extended
// Euclidean inverse. Results are always reduced into [0, modulus).
package modarith

import (
	"fmt"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
)

var one = big.NewInt(1)

// Exp returns base^exponent mod modulus using right-to-left binary
// exponentiation: one squaring per exponent bit and one multiplication per set
// bit. Negative bases are reduced first.
func Exp(base, exponent, modulus *big.Int) (*big.Int, error) {
	if base == nil || exponent == nil || modulus == nil {
		return nil, fmt.Errorf("modexp: nil operand: %w", ntcrypt.ErrInvalidInput)
	}
	if modulus.Sign() <= 0 {
		return nil, fmt.Errorf("modexp: modulus must be positive: %w", ntcrypt.ErrInvalidInput)
	}
	if exponent.Sign() < 0 {
		return nil, fmt.Errorf("modexp: exponent must be non-negative: %w", ntcrypt.ErrInvalidInput)
	}
	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}

	result := big.NewInt(1)
	b := new(big.Int).Mod(base, modulus)
	for i, n := 0, exponent.BitLen(); i < n; i++ {
		if exponent.Bit(i) == 1 {
			result.Mul(result, b).Mod(result, modulus)
		}
		if i+1 < n {
			b.Mul(b, b).Mod(b, modulus)
		}
	}
	return result, nil
}

// MustExp is Exp for operands already validated by the caller. It panics on
// invalid input.
func MustExp(base, exponent, modulus *big.Int) *big.Int {
	r, err := Exp(base, exponent, modulus)
	if err != nil {
		panic(err)
	}
	return r
}

// Inverse returns the x in [0, modulus) with a*x ≡ 1 (mod modulus). It fails
// with ntcrypt.ErrNotInvertible when gcd(a, modulus) != 1.
func Inverse(a, modulus *big.Int) (*big.Int, error) {
	if a == nil || modulus == nil {
		return nil, fmt.Errorf("modinverse: nil operand: %w", ntcrypt.ErrInvalidInput)
	}
	if modulus.Sign() <= 0 {
		return nil, fmt.Errorf("modinverse: modulus must be positive: %w", ntcrypt.ErrInvalidInput)
	}
	r := new(big.Int).Mod(a, modulus)
	x := new(big.Int)
	// GCD runs the extended Euclidean algorithm and stores the Bezout
	// coefficient of r in x.
	g := new(big.Int).GCD(x, nil, r, modulus)
	if g.Cmp(one) != 0 {
		return nil, fmt.Errorf("modinverse: gcd is %s: %w", g, ntcrypt.ErrNotInvertible)
	}
	if modulus.Cmp(one) == 0 {
		return new(big.Int), nil
	}
	return x.Mod(x, modulus), nil
}

// GCD returns the greatest common divisor of |a| and |b|.
func GCD(a, b *big.Int) *big.Int {
	return new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
}

// Coprime reports whether gcd(a, b) == 1.
func Coprime(a, b *big.Int) bool {
	return GCD(a, b).Cmp(one) == 0
}
