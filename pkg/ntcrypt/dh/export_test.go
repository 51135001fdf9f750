package dh

import "math/big"

// SetExponent pins the private exponent for known-answer tests.
func (pt *Party) SetExponent(x int64) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.exponent = big.NewInt(x)
}
