package primes

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
)

// IsPrimitiveRoot reports whether g generates the multiplicative group modulo
// the prime p. It fails with ntcrypt.ErrNotPrime when p is not prime and
// returns false when gcd(g, p) != 1. Otherwise g is a primitive root iff
// g^((p-1)/q) mod p != 1 for every prime factor q of p-1. ctx bounds the
// factorization of p-1.
func (o *Oracle) IsPrimitiveRoot(ctx context.Context, g, p *big.Int) (bool, error) {
	if g == nil || p == nil {
		return false, fmt.Errorf("primitive root: nil operand: %w", ntcrypt.ErrInvalidInput)
	}
	if err := o.requirePrime(p); err != nil {
		return false, err
	}
	if !modarith.Coprime(g, p) {
		return false, nil
	}
	factors, err := o.orderFactors(ctx, p)
	if err != nil {
		return false, err
	}
	return hasFullOrder(g, p, factors), nil
}

// RequirePrimitiveRoot is IsPrimitiveRoot folded into a single error:
// ntcrypt.ErrNotPrimitiveRoot when g does not generate the group modulo p.
func (o *Oracle) RequirePrimitiveRoot(ctx context.Context, g, p *big.Int) error {
	ok, err := o.IsPrimitiveRoot(ctx, g, p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s is not a primitive root of %s: %w", g, p, ntcrypt.ErrNotPrimitiveRoot)
	}
	return nil
}

// FindPrimitiveRoot returns the smallest primitive root of the prime p,
// scanning g = 2, 3, ... after factoring p-1 once. For p = 2 it returns 1.
// The scan stops at the configured RootScanLimit, failing with
// ntcrypt.ErrGenerationExhausted.
func (o *Oracle) FindPrimitiveRoot(ctx context.Context, p *big.Int) (*big.Int, error) {
	if p == nil {
		return nil, fmt.Errorf("primitive root: nil modulus: %w", ntcrypt.ErrInvalidInput)
	}
	if err := o.requirePrime(p); err != nil {
		return nil, err
	}
	if p.Cmp(two) == 0 {
		return big.NewInt(1), nil
	}
	factors, err := o.orderFactors(ctx, p)
	if err != nil {
		return nil, err
	}

	var tried int64
	for g := big.NewInt(2); g.Cmp(p) < 0; g.Add(g, one) {
		if o.rootScanLimit > 0 && tried == o.rootScanLimit {
			break
		}
		tried++
		if tried%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("primitive root: %w", err)
			}
		}
		if hasFullOrder(g, p, factors) {
			o.logger.Debug(ctx, "primitive root found", "bits", p.BitLen(), "candidates", tried)
			return new(big.Int).Set(g), nil
		}
	}
	return nil, fmt.Errorf("primitive root: none found after %d candidates: %w", tried, ntcrypt.ErrGenerationExhausted)
}

// GenerateGroup returns a random bits-bit prime p and its smallest primitive
// root. The cost is dominated by factoring p-1, so it is only practical for
// small groups such as those used in tests.
func (o *Oracle) GenerateGroup(ctx context.Context, bits int) (p, g *big.Int, err error) {
	p, err = o.Generate(ctx, bits)
	if err != nil {
		return nil, nil, err
	}
	g, err = o.FindPrimitiveRoot(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	return p, g, nil
}

func (o *Oracle) requirePrime(p *big.Int) error {
	ok, err := o.IsProbablePrime(p)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", p, ntcrypt.ErrNotPrime)
	}
	return nil
}

func (o *Oracle) orderFactors(ctx context.Context, p *big.Int) ([]*big.Int, error) {
	order := new(big.Int).Sub(p, one)
	factors, err := o.factorizer.PrimeFactors(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("primitive root: factor p-1: %w", err)
	}
	return factors, nil
}

// hasFullOrder reports whether g^((p-1)/q) != 1 (mod p) for every q.
func hasFullOrder(g, p *big.Int, factors []*big.Int) bool {
	order := new(big.Int).Sub(p, one)
	e := new(big.Int)
	for _, q := range factors {
		e.Quo(order, q)
		if modarith.MustExp(g, e, p).Cmp(one) == 0 {
			return false
		}
	}
	return true
}
