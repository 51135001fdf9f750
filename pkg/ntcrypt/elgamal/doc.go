// Package elgamal implements ElGamal encryption in the multiplicative group of
// a prime field.
//
// A key is built from a prime p and a primitive root g of p. The private
// exponent x is uniform in [0, p) and the public element is h = g^x mod p.
// Messages are padded with package padding to the size of p before being
// masked with a fresh shared value h^k, so every ciphertext is a pair
// (c1, c2) = (g^k, m*h^k) mod p.
//
// Verifying g requires the prime factors of p-1. Pass
// ntcrypt.WithFactorizer when working with groups whose order the built-in
// factorizer cannot split quickly.
//
// Ciphertexts have a CBOR wire form through MarshalBinary and
// UnmarshalBinary. Keys serialize to ELGAMAL PUBLIC KEY blocks holding
// (p, g, h) and ELGAMAL PRIVATE KEY blocks holding (p, g, h, x).
package elgamal
