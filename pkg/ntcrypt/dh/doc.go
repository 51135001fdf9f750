// Package dh implements finite-field Diffie-Hellman between two parties that
// share a prime p and a primitive root g.
//
// A Party owns a private exponent drawn from [0, p-2). It publishes
// g^a mod p with SendComponent and combines the peer's component with
// Secret. Resample draws a new exponent under the current group. Calling it
// after every exchange gives each session a fresh secret.
//
// ReplaceParameters swaps the group and the exponent together. There is no
// way to keep an exponent drawn under the old modulus, so a party never
// combines a stale exponent with a new group. Both sides must replace their
// parameters and exchange fresh components before secrets match again.
//
// A Party is safe for concurrent use. Reads run in parallel; Resample and
// ReplaceParameters take the party exclusively.
package dh
