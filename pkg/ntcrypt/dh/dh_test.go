package dh_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/dh"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

var mersenne127 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))

func newParty(t *testing.T, seed string, g, p int64) *dh.Party {
	t.Helper()
	pt, err := dh.NewParty(big.NewInt(g), big.NewInt(p),
		ntcrypt.WithRand(randsrc.NewDeterministic([]byte(seed))))
	require.NoError(t, err)
	return pt
}

func exchange(t *testing.T, alice, bob *dh.Party) (*big.Int, *big.Int) {
	t.Helper()
	sa, err := alice.Secret(bob.SendComponent())
	require.NoError(t, err)
	sb, err := bob.Secret(alice.SendComponent())
	require.NoError(t, err)
	return sa, sb
}

func TestKnownExchange(t *testing.T) {
	alice := newParty(t, "alice", 5, 23)
	bob := newParty(t, "bob", 5, 23)
	alice.SetExponent(6)
	bob.SetExponent(15)

	require.Equal(t, int64(8), alice.SendComponent().Int64())
	require.Equal(t, int64(19), bob.SendComponent().Int64())

	sa, sb := exchange(t, alice, bob)
	require.Equal(t, int64(2), sa.Int64())
	require.Equal(t, int64(2), sb.Int64())
}

func TestSecretsAgree(t *testing.T) {
	alice, err := dh.NewParty(big.NewInt(43), mersenne127,
		ntcrypt.WithRand(randsrc.NewDeterministic([]byte("alice-127"))))
	require.NoError(t, err)
	bob, err := dh.NewParty(big.NewInt(43), mersenne127,
		ntcrypt.WithRand(randsrc.NewDeterministic([]byte("bob-127"))))
	require.NoError(t, err)

	sa, sb := exchange(t, alice, bob)
	require.Zero(t, sa.Cmp(sb))

	require.NoError(t, alice.Resample())
	ra, rb := exchange(t, alice, bob)
	require.Zero(t, ra.Cmp(rb))
	require.NotZero(t, ra.Cmp(sa), "a resampled exponent must yield a new secret")
}

func TestResampleKeepsGroup(t *testing.T) {
	pt := newParty(t, "resample", 5, 23)
	for i := 0; i < 50; i++ {
		require.NoError(t, pt.Resample())
		g, p := pt.Parameters()
		require.Equal(t, int64(5), g.Int64())
		require.Equal(t, int64(23), p.Int64())
		// a in [0, 21) never reaches g^21.
		c := pt.SendComponent()
		require.NotEqual(t, new(big.Int).Exp(g, big.NewInt(21), p).Int64(), c.Int64())
	}
}

func TestReplaceParameters(t *testing.T) {
	alice := newParty(t, "alice-replace", 5, 23)
	bob := newParty(t, "bob-replace", 5, 23)

	staleFromBob := bob.SendComponent()
	require.NoError(t, alice.ReplaceParameters(big.NewInt(5), big.NewInt(47)))

	g, p := alice.Parameters()
	require.Equal(t, int64(5), g.Int64())
	require.Equal(t, int64(47), p.Int64())
	require.Negative(t, alice.SendComponent().Cmp(p))

	// The old group's component is still a valid residue mod 47 but the
	// secrets no longer agree until bob moves too.
	_, err := alice.Secret(staleFromBob)
	require.NoError(t, err)

	require.NoError(t, bob.ReplaceParameters(big.NewInt(5), big.NewInt(47)))
	sa, sb := exchange(t, alice, bob)
	require.Zero(t, sa.Cmp(sb))
}

func TestReplaceParametersFailureLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name string
		g, p *big.Int
		want error
	}{
		{"composite modulus", big.NewInt(2), big.NewInt(21), ntcrypt.ErrNotPrime},
		{"non-root", big.NewInt(2), big.NewInt(23), ntcrypt.ErrNotPrimitiveRoot},
		{"modulus two", big.NewInt(1), big.NewInt(2), ntcrypt.ErrInvalidInput},
		{"unreduced generator", big.NewInt(52), big.NewInt(47), ntcrypt.ErrInvalidInput},
		{"nil modulus", big.NewInt(5), nil, ntcrypt.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pt := newParty(t, "replace-fail", 5, 23)
			pt.SetExponent(6)

			err := pt.ReplaceParameters(tt.g, tt.p)
			require.True(t, errors.Is(err, tt.want), "got %v", err)

			g, p := pt.Parameters()
			require.Equal(t, int64(5), g.Int64())
			require.Equal(t, int64(23), p.Int64())
			require.Equal(t, int64(8), pt.SendComponent().Int64())
		})
	}
}

func TestNewPartyValidation(t *testing.T) {
	_, err := dh.NewParty(big.NewInt(2), big.NewInt(23))
	require.True(t, errors.Is(err, ntcrypt.ErrNotPrimitiveRoot))
	_, err = dh.NewParty(big.NewInt(2), big.NewInt(561))
	require.True(t, errors.Is(err, ntcrypt.ErrNotPrime))
	_, err = dh.NewParty(big.NewInt(1), big.NewInt(2))
	require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput))

	// p = 3 leaves the single exponent 0.
	pt, err := dh.NewParty(big.NewInt(2), big.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, int64(1), pt.SendComponent().Int64())
}

func TestSecretRejectsOutOfRange(t *testing.T) {
	pt := newParty(t, "range", 5, 23)
	for _, v := range []*big.Int{nil, big.NewInt(0), big.NewInt(23), big.NewInt(-4)} {
		_, err := pt.Secret(v)
		require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput), "received %v", v)
	}
}

func TestConcurrentUse(t *testing.T) {
	alice := newParty(t, "alice-concurrent", 5, 23)
	bob := newParty(t, "bob-concurrent", 5, 23)

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := alice.Resample(); err != nil {
				errs <- err
			}
		}()
		go func(i int) {
			defer wg.Done()
			p := big.NewInt(23)
			if i%2 == 1 {
				p = big.NewInt(47)
			}
			if err := alice.ReplaceParameters(big.NewInt(5), p); err != nil {
				errs <- err
				return
			}
			if _, err := alice.Secret(big.NewInt(19)); err != nil {
				errs <- err
			}
			c := alice.SendComponent()
			_, mod := alice.Parameters()
			if c.Sign() <= 0 || c.Cmp(big.NewInt(47)) >= 0 || mod.Sign() <= 0 {
				errs <- errors.New("component outside any group")
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, alice.ReplaceParameters(big.NewInt(5), big.NewInt(23)))
	sa, sb := exchange(t, alice, bob)
	require.Zero(t, sa.Cmp(sb))
}

func TestGenerateParameters(t *testing.T) {
	rnd := randsrc.NewDeterministic([]byte("dh-params"))
	g, p, err := dh.GenerateParameters(context.Background(), 32, ntcrypt.WithRand(rnd))
	require.NoError(t, err)
	require.Equal(t, 32, p.BitLen())

	alice, err := dh.NewParty(g, p, ntcrypt.WithRand(rnd))
	require.NoError(t, err)
	bob, err := dh.NewParty(g, p, ntcrypt.WithRand(rnd))
	require.NoError(t, err)
	sa, sb := exchange(t, alice, bob)
	require.Zero(t, sa.Cmp(sb))

	_, _, err = dh.GenerateParameters(context.Background(), 1)
	require.True(t, errors.Is(err, ntcrypt.ErrInvalidInput))
}
