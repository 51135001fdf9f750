package ntcrypt_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
)

func TestZeroizeBytes(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	ntcrypt.ZeroizeBytes(buf)
	require.Equal(t, []byte{0, 0, 0, 0}, buf)
	ntcrypt.ZeroizeBytes(nil)
}

func TestZeroizeInt(t *testing.T) {
	x := new(big.Int).Lsh(big.NewInt(0xdeadbeef), 300)
	words := x.Bits()
	ntcrypt.ZeroizeInt(x)
	require.Zero(t, x.Sign())
	for _, w := range words {
		require.Zero(t, w)
	}
	ntcrypt.ZeroizeInt(nil)
}
