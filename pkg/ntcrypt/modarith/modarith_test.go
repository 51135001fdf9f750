package modarith_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

func TestExpTextbookRSA(t *testing.T) {
	n := big.NewInt(3233)

	c, err := modarith.Exp(big.NewInt(65), big.NewInt(17), n)
	require.NoError(t, err)
	require.Equal(t, int64(2790), c.Int64())

	m, err := modarith.Exp(c, big.NewInt(2753), n)
	require.NoError(t, err)
	require.Equal(t, int64(65), m.Int64())
}

func TestExpEdgeCases(t *testing.T) {
	tests := []struct {
		name                      string
		base, exponent, mod, want int64
	}{
		{"zero exponent", 5, 0, 7, 1},
		{"modulus one", 5, 3, 1, 0},
		{"zero base", 0, 5, 7, 0},
		{"negative base", -2, 3, 7, 6},
		{"base larger than modulus", 30, 2, 7, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := modarith.Exp(big.NewInt(tt.base), big.NewInt(tt.exponent), big.NewInt(tt.mod))
			require.NoError(t, err)
			require.Equal(t, tt.want, got.Int64())
		})
	}
}

func TestExpMatchesBigInt(t *testing.T) {
	r := randsrc.NewDeterministic([]byte("modexp"))
	bound := new(big.Int).Lsh(big.NewInt(1), 300)
	for i := 0; i < 50; i++ {
		base, err := randsrc.Int(r, bound)
		require.NoError(t, err)
		exp, err := randsrc.Int(r, bound)
		require.NoError(t, err)
		mod, err := randsrc.Range(r, big.NewInt(2), bound)
		require.NoError(t, err)

		got, err := modarith.Exp(base, exp, mod)
		require.NoError(t, err)
		want := new(big.Int).Exp(base, exp, mod)
		require.Zero(t, want.Cmp(got), "Exp(%s, %s, %s)", base, exp, mod)
	}
}

func TestExpRejectsInvalidInput(t *testing.T) {
	_, err := modarith.Exp(big.NewInt(2), big.NewInt(-1), big.NewInt(7))
	require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput))
	_, err = modarith.Exp(big.NewInt(2), big.NewInt(3), big.NewInt(0))
	require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput))
	_, err = modarith.Exp(nil, big.NewInt(3), big.NewInt(7))
	require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput))
}

func TestInverse(t *testing.T) {
	e, err := modarith.Inverse(big.NewInt(2753), big.NewInt(3120))
	require.NoError(t, err)
	require.Equal(t, int64(17), e.Int64())

	inv, err := modarith.Inverse(big.NewInt(-3), big.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, int64(2), inv.Int64())

	_, err = modarith.Inverse(big.NewInt(6), big.NewInt(9))
	require.True(t, errors.Is(err, ntcrypt.ErrNotInvertible))
	_, err = modarith.Inverse(big.NewInt(0), big.NewInt(9))
	require.True(t, errors.Is(err, ntcrypt.ErrNotInvertible))
}

func TestInverseProperty(t *testing.T) {
	r := randsrc.NewDeterministic([]byte("inverse"))
	m := new(big.Int).SetUint64(1000000007)
	for i := 0; i < 100; i++ {
		a, err := randsrc.Range(r, big.NewInt(1), m)
		require.NoError(t, err)
		inv, err := modarith.Inverse(a, m)
		require.NoError(t, err)
		prod := new(big.Int).Mul(a, inv)
		require.Equal(t, int64(1), prod.Mod(prod, m).Int64())
	}
}

func TestCoprime(t *testing.T) {
	require.True(t, modarith.Coprime(big.NewInt(2753), big.NewInt(3120)))
	require.False(t, modarith.Coprime(big.NewInt(12), big.NewInt(18)))
	require.Equal(t, int64(6), modarith.GCD(big.NewInt(-12), big.NewInt(18)).Int64())
}
