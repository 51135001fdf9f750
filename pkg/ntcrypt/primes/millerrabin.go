package primes

import (
	"fmt"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Decompose writes n-1 as d*2^s with d odd. It is defined for n >= 2.
func Decompose(n *big.Int) (d *big.Int, s int, err error) {
	if n == nil || n.Cmp(two) < 0 {
		return nil, 0, fmt.Errorf("decompose: n must be >= 2: %w", ntcrypt.ErrInvalidInput)
	}
	m := new(big.Int).Sub(n, one)
	s = int(m.TrailingZeroBits())
	return m.Rsh(m, uint(s)), s, nil
}

// Witness runs one Miller-Rabin round for odd n > 2 with n-1 = d*2^s. It
// returns true when witness fails to prove n composite, that is when
// witness^d ≡ 1 or witness^(d*2^i) ≡ -1 (mod n) for some 0 <= i < s.
// Outside that domain (nil operands, n < 3, negative d or witness) it
// returns false.
func Witness(n, witness, d *big.Int, s int) bool {
	if n == nil || witness == nil || d == nil || n.Cmp(three) < 0 || d.Sign() < 0 || witness.Sign() < 0 {
		return false
	}
	x := modarith.MustExp(witness, d, n)
	if x.Cmp(one) == 0 {
		return true
	}
	minusOne := new(big.Int).Sub(n, one)
	for i := 0; i < s; i++ {
		if x.Cmp(minusOne) == 0 {
			return true
		}
		x.Mul(x, x).Mod(x, n)
	}
	return false
}
