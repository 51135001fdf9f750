package primes

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

const trialDivisionBound = 1000

var smallPrimes = sieve(trialDivisionBound)

func sieve(limit int) []*big.Int {
	composite := make([]bool, limit+1)
	var out []*big.Int
	for i := 2; i <= limit; i++ {
		if composite[i] {
			continue
		}
		out = append(out, big.NewInt(int64(i)))
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return out
}

// rhoFactorizer strips factors below trialDivisionBound and splits what
// remains with Pollard's rho. Cofactors are classified with the owning
// Oracle's Miller-Rabin test.
type rhoFactorizer struct {
	oracle *Oracle
}

// NewFactorizer returns the built-in factorizer bound to o. It is the default
// when no ntcrypt.WithFactorizer option is given.
func NewFactorizer(o *Oracle) ntcrypt.Factorizer {
	return &rhoFactorizer{oracle: o}
}

func (f *rhoFactorizer) PrimeFactors(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	if n == nil || n.Sign() <= 0 {
		return nil, fmt.Errorf("factor: n must be positive: %w", ntcrypt.ErrInvalidInput)
	}
	found := map[string]*big.Int{}
	add := func(q *big.Int) { found[q.String()] = q }

	m := new(big.Int).Set(n)
	rem := new(big.Int)
	for _, q := range smallPrimes {
		if m.Cmp(one) == 0 {
			break
		}
		for {
			quo, r := new(big.Int).QuoRem(m, q, rem)
			if r.Sign() != 0 {
				break
			}
			add(q)
			m = quo
		}
	}

	pending := []*big.Int{m}
	for len(pending) > 0 {
		x := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if x.Cmp(one) == 0 {
			continue
		}
		prime, err := f.oracle.IsProbablePrime(x)
		if err != nil {
			return nil, err
		}
		if prime {
			add(x)
			continue
		}
		d, err := f.rho(ctx, x)
		if err != nil {
			return nil, err
		}
		pending = append(pending, d, new(big.Int).Quo(x, d))
	}

	out := make([]*big.Int, 0, len(found))
	for _, q := range found {
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out, nil
}

// rho returns a non-trivial divisor of the odd composite n using Floyd cycle
// detection on x -> x^2 + c, retrying with a fresh c when the walk closes
// without splitting n.
func (f *rhoFactorizer) rho(ctx context.Context, n *big.Int) (*big.Int, error) {
	if n.Bit(0) == 0 {
		return big.NewInt(2), nil
	}
	step := func(v, c *big.Int) {
		v.Mul(v, v).Add(v, c).Mod(v, n)
	}
	diff := new(big.Int)
	for {
		c, err := randsrc.Range(f.oracle.rand, one, n)
		if err != nil {
			return nil, fmt.Errorf("factor: %w", err)
		}
		start, err := randsrc.Int(f.oracle.rand, n)
		if err != nil {
			return nil, fmt.Errorf("factor: %w", err)
		}
		x := new(big.Int).Set(start)
		y := new(big.Int).Set(start)
		d := big.NewInt(1)
		for iter := 1; d.Cmp(one) == 0; iter++ {
			if iter%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("factor: %w", err)
				}
			}
			step(x, c)
			step(y, c)
			step(y, c)
			d = modarith.GCD(diff.Sub(x, y), n)
		}
		if d.Cmp(n) != 0 {
			return d, nil
		}
	}
}
