package ntcrypt

import (
	"math/big"
	"runtime"
)

// ZeroizeBytes overwrites the provided slice with zeros and prevents compiler
// dead store elimination using runtime.KeepAlive.
//
// This follows the pattern recommended in golang/go#33325. It cannot reach
// copies made by math/big or the garbage collector.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}

// ZeroizeInt wipes the limbs backing x and leaves x equal to zero.
func ZeroizeInt(x *big.Int) {
	if x == nil {
		return
	}
	words := x.Bits()
	for i := range words {
		words[i] = 0
	}
	runtime.KeepAlive(words)
	x.SetInt64(0)
}
