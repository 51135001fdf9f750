// Package rsa implements textbook RSA over the ntcrypt primitives, with the
// PKCS#1 v1.5 style block from package padding applied before encryption.
//
// Key generation draws the private exponent first, uniformly from [1, phi)
// among the values coprime to phi, and derives the public exponent as its
// inverse. The primes are discarded once n is built, so there is no CRT
// decryption path.
//
// # Usage
//
//	scheme, err := rsa.New(ntcrypt.WithConfig(cfg))
//	if err != nil {
//	    return err
//	}
//	kp, err := scheme.GenerateKey(ctx, 1024)
//	if err != nil {
//	    return err
//	}
//	c, err := scheme.Encrypt(kp.Public(), "attack at dawn")
//	msg, err := scheme.Decrypt(kp.Private(), c)
//
// Keys serialize to PEM blocks labelled RSA PUBLIC KEY and RSA PRIVATE KEY
// holding the DER sequences (n, e) and (n, d).
//
// This package performs no constant-time arithmetic and must not be used
// where timing side channels matter.
package rsa
