// Package ntcrypt is the root of a small number-theoretic public-key library:
// Miller-Rabin primality testing, modular arithmetic, RSA and ElGamal
// encryption, Diffie-Hellman key agreement, a PKCS#1 v1.5 style integer padding
// and a restricted DER/PEM key format.
//
// The root package only carries what every component shares: the error kinds,
// configuration, functional options (random source, logger, factorizer) and
// zeroization helpers. The algorithms live in subpackages:
//
//   - modarith: modular exponentiation and inverse
//   - primes: Miller-Rabin oracle, prime generation, primitive roots
//   - padding: PKCS#1 v1.5 style pad and unpad between bytes and integers
//   - keyenc: single-byte-length DER sequences of integers and PEM framing
//   - rsa, elgamal, dh: the public-key protocols
//   - textnorm: the letters-only normalization used by classical ciphers
//
// None of the arithmetic is constant time. The library is intended for
// teaching, testing and interoperability with its own PEM format, not for
// protecting production secrets.
package ntcrypt
