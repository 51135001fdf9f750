package ntcrypt

import (
	"errors"
)

var (
	// ErrInvalidInput is returned when an argument has the wrong shape, such as
	// a nil integer, a negative modulus or a non-ASCII plaintext.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotPrime is returned when a value required to be prime fails the
	// Miller-Rabin test.
	ErrNotPrime = errors.New("not prime")

	// ErrNotPrimitiveRoot is returned when a generator is not a primitive root
	// of the supplied prime.
	ErrNotPrimitiveRoot = errors.New("not a primitive root")

	// ErrNotInvertible is returned when gcd(a, m) != 1.
	ErrNotInvertible = errors.New("not invertible")

	// ErrGenerationExhausted is returned when prime search exceeds its attempt
	// budget.
	ErrGenerationExhausted = errors.New("prime generation exhausted")

	// ErrPayloadTooLarge is returned when a message does not fit the padding
	// for the key size.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrInvalidPadding is returned when an unpadded block lacks the 00 02
	// prefix or the zero separator.
	ErrInvalidPadding = errors.New("invalid padding")

	// ErrMalformedDER is returned on tag mismatch or truncated DER input.
	ErrMalformedDER = errors.New("malformed DER")

	// ErrMalformedPEM is returned when PEM text lacks the exact header and
	// footer for the requested key type.
	ErrMalformedPEM = errors.New("malformed PEM")

	// ErrEncodingTooLarge is returned when an integer needs 256 or more bytes,
	// which the one-byte DER length cannot express.
	ErrEncodingTooLarge = errors.New("encoding too large")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidInput, "InvalidInput"},
	{ErrNotPrime, "NotPrime"},
	{ErrNotPrimitiveRoot, "NotPrimitiveRoot"},
	{ErrNotInvertible, "NotInvertible"},
	{ErrGenerationExhausted, "GenerationExhausted"},
	{ErrPayloadTooLarge, "PayloadTooLarge"},
	{ErrInvalidPadding, "InvalidPadding"},
	{ErrMalformedDER, "MalformedDER"},
	{ErrMalformedPEM, "MalformedPEM"},
	{ErrEncodingTooLarge, "EncodingTooLarge"},
}

// Kind returns the name of the error kind wrapped by err, "" for nil and
// "Unknown" for errors that do not originate from this library.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
