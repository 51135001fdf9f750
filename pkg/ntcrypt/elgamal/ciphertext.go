package elgamal

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
)

// Ciphertext is the pair (C1, C2) = (g^k, m*h^k) mod p.
type Ciphertext struct {
	C1 *big.Int
	C2 *big.Int
}

type rawCiphertext struct {
	C1 []byte `cbor:"1,keyasint"`
	C2 []byte `cbor:"2,keyasint"`
}

var decMode = func() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}()

// MarshalBinary encodes the ciphertext as a CBOR map {1: c1, 2: c2} with
// both values as big-endian byte strings.
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	if c == nil || c.C1 == nil || c.C2 == nil {
		return nil, fmt.Errorf("elgamal ciphertext: missing component: %w", ntcrypt.ErrInvalidInput)
	}
	if c.C1.Sign() < 0 || c.C2.Sign() < 0 {
		return nil, fmt.Errorf("elgamal ciphertext: negative component: %w", ntcrypt.ErrInvalidInput)
	}
	return cbor.Marshal(rawCiphertext{C1: c.C1.Bytes(), C2: c.C2.Bytes()})
}

// UnmarshalBinary decodes the form written by MarshalBinary. Unknown keys,
// duplicate keys and trailing bytes are rejected.
func (c *Ciphertext) UnmarshalBinary(data []byte) error {
	var raw rawCiphertext
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("elgamal ciphertext: %v: %w", err, ntcrypt.ErrInvalidInput)
	}
	if raw.C1 == nil || raw.C2 == nil {
		return fmt.Errorf("elgamal ciphertext: missing component: %w", ntcrypt.ErrInvalidInput)
	}
	c.C1 = new(big.Int).SetBytes(raw.C1)
	c.C2 = new(big.Int).SetBytes(raw.C2)
	return nil
}
