// Package primes is the primality oracle: Miller-Rabin testing, random prime
// generation and primitive root search.
//
// Decompose and Witness are pure functions. Everything that needs randomness
// or a search budget hangs off an Oracle, which is built from ntcrypt options:
//
//	oracle, err := primes.New(ntcrypt.WithConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	ok, err := oracle.IsProbablePrime(n)
//	p, err := oracle.Generate(ctx, 512)
//
// # Primitive roots
//
// IsPrimitiveRoot and FindPrimitiveRoot need the distinct prime factors of
// p-1. The built-in factorizer uses trial division followed by Pollard's rho,
// which is only practical when p-1 is small or smooth. For cryptographic
// sizes either supply a generator obtained elsewhere or inject a dedicated
// factorizer with ntcrypt.WithFactorizer.
//
// Generate and FindPrimitiveRoot are the only operations with unbounded
// latency. Both stop at their configured budget and honor context
// cancellation between candidates.
package primes
