package primes_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/primes"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

// multiplicativeOrder computes the order of g modulo p by brute force.
func multiplicativeOrder(g, p int64) int64 {
	x := g % p
	for k := int64(1); k < p; k++ {
		if x == 1 {
			return k
		}
		x = x * g % p
	}
	return 0
}

func TestIsPrimitiveRoot(t *testing.T) {
	o := newOracle(t, "roots")

	ok, err := o.IsPrimitiveRoot(context.Background(), big.NewInt(5), big.NewInt(23))
	require.NoError(t, err)
	require.True(t, ok)

	// 2 is a quadratic residue mod 23: 2^11 = 1.
	ok, err = o.IsPrimitiveRoot(context.Background(), big.NewInt(2), big.NewInt(23))
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = o.IsPrimitiveRoot(context.Background(), big.NewInt(7), big.NewInt(23))
	require.NoError(t, err)
	require.True(t, ok, "7 has order 22 mod 23")

	ok, err = o.IsPrimitiveRoot(context.Background(), big.NewInt(46), big.NewInt(23))
	require.NoError(t, err)
	require.False(t, ok, "multiples of p share a factor with p")

	_, err = o.IsPrimitiveRoot(context.Background(), big.NewInt(3), big.NewInt(24))
	require.True(t, errors.Is(err, ntcrypt.ErrNotPrime))

	require.NoError(t, o.RequirePrimitiveRoot(context.Background(), big.NewInt(5), big.NewInt(23)))
	err = o.RequirePrimitiveRoot(context.Background(), big.NewInt(2), big.NewInt(23))
	require.True(t, errors.Is(err, ntcrypt.ErrNotPrimitiveRoot))
}

func TestIsPrimitiveRootMatchesBruteForce(t *testing.T) {
	o := newOracle(t, "brute")
	for _, p := range []int64{3, 5, 7, 11, 13, 23, 41, 97, 101} {
		for g := int64(1); g < p; g++ {
			ok, err := o.IsPrimitiveRoot(context.Background(), big.NewInt(g), big.NewInt(p))
			require.NoError(t, err)
			require.Equal(t, multiplicativeOrder(g, p) == p-1, ok, "g=%d p=%d", g, p)
		}
	}
}

func TestFindPrimitiveRoot(t *testing.T) {
	o := newOracle(t, "find")
	ctx := context.Background()

	want := map[int64]int64{2: 1, 3: 2, 7: 3, 23: 5, 41: 6, 71: 7, 104729: 12}
	for p, g := range want {
		got, err := o.FindPrimitiveRoot(ctx, big.NewInt(p))
		require.NoError(t, err)
		require.Equal(t, g, got.Int64(), "smallest primitive root of %d", p)
	}

	_, err := o.FindPrimitiveRoot(ctx, big.NewInt(561))
	require.True(t, errors.Is(err, ntcrypt.ErrNotPrime))
}

func TestFindPrimitiveRootScanLimit(t *testing.T) {
	o := newOracle(t, "limit", func(c *ntcrypt.Config) { c.RootScanLimit = 3 })
	// 2, 3, 4 are tried; the smallest primitive root of 41 is 6.
	_, err := o.FindPrimitiveRoot(context.Background(), big.NewInt(41))
	require.True(t, errors.Is(err, ntcrypt.ErrGenerationExhausted))
}

func TestGenerateGroup(t *testing.T) {
	o := newOracle(t, "group")
	p, g, err := o.GenerateGroup(context.Background(), 32)
	require.NoError(t, err)
	require.Equal(t, 32, p.BitLen())

	ok, err := o.IsPrimitiveRoot(context.Background(), g, p)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPrimeFactors(t *testing.T) {
	o := newOracle(t, "factor")
	f := primes.NewFactorizer(o)
	ctx := context.Background()

	n := big.NewInt(16 * 3 * 1009)
	n.Mul(n, big.NewInt(1000003))
	n.Mul(n, big.NewInt(999983))
	factors, err := f.PrimeFactors(ctx, n)
	require.NoError(t, err)
	got := make([]int64, len(factors))
	for i, q := range factors {
		got[i] = q.Int64()
	}
	require.Equal(t, []int64{2, 3, 1009, 999983, 1000003}, got)

	factors, err = f.PrimeFactors(ctx, big.NewInt(1))
	require.NoError(t, err)
	require.Empty(t, factors)

	_, err = f.PrimeFactors(ctx, big.NewInt(0))
	require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput))
}

type countingFactorizer struct {
	calls int
	err   error
	inner ntcrypt.Factorizer
}

func (c *countingFactorizer) PrimeFactors(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.inner.PrimeFactors(ctx, n)
}

func TestInjectedFactorizer(t *testing.T) {
	base := newOracle(t, "inject")
	counter := &countingFactorizer{inner: primes.NewFactorizer(base)}
	o, err := primes.New(
		ntcrypt.WithRand(randsrc.NewDeterministic([]byte("inject"))),
		ntcrypt.WithFactorizer(counter),
	)
	require.NoError(t, err)

	ok, err := o.IsPrimitiveRoot(context.Background(), big.NewInt(5), big.NewInt(23))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, counter.calls)

	boom := errors.New("factoring service unavailable")
	counter.err = boom
	_, err = o.IsPrimitiveRoot(context.Background(), big.NewInt(5), big.NewInt(23))
	require.ErrorIs(t, err, boom)
}

// contextFactorizer fails as soon as its context is done.
type contextFactorizer struct {
	inner ntcrypt.Factorizer
}

func (c contextFactorizer) PrimeFactors(ctx context.Context, n *big.Int) ([]*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.inner.PrimeFactors(ctx, n)
}

func TestPrimitiveRootHonorsContext(t *testing.T) {
	base := newOracle(t, "ctx")
	o, err := primes.New(
		ntcrypt.WithRand(randsrc.NewDeterministic([]byte("ctx"))),
		ntcrypt.WithFactorizer(contextFactorizer{inner: primes.NewFactorizer(base)}),
	)
	require.NoError(t, err)

	require.NoError(t, o.RequirePrimitiveRoot(context.Background(), big.NewInt(5), big.NewInt(23)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = o.IsPrimitiveRoot(ctx, big.NewInt(5), big.NewInt(23))
	require.ErrorIs(t, err, context.Canceled)
	err = o.RequirePrimitiveRoot(ctx, big.NewInt(5), big.NewInt(23))
	require.ErrorIs(t, err, context.Canceled)
}
