// Package selftest runs known-answer and round-trip checks over every
// ntcrypt component. The command line tool runs it at startup and embedders
// can call Run before serving traffic.
package selftest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/dh"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/elgamal"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/padding"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/primes"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/rsa"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/textnorm"
)

// RSABits is the modulus size used by the RSA round trip.
const RSABits = 512

// elgamalPrime is the safe prime 2^255 + 196479. Its smallest primitive root
// is 5.
var elgamalPrime = new(big.Int).Add(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(196479))

// Result is the outcome of one check.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Report collects the results of a run in execution order.
type Report struct {
	Results []Result
}

// Failed returns the results with a non-nil error.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of all failed checks, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
	}
	return errors.Join(errs...)
}

type check struct {
	name string
	run  func(ctx context.Context, opts []ntcrypt.Option) error
}

var checks = []check{
	{"modarith/textbook-rsa", checkTextbookRSA},
	{"primes/known-values", checkKnownPrimes},
	{"primes/primitive-root", checkPrimitiveRoot},
	{"padding/round-trip", checkPadding},
	{"rsa/round-trip", checkRSA},
	{"elgamal/round-trip", checkElGamal},
	{"dh/exchange", checkDH},
	{"textnorm/normalize", checkNormalize},
}

// Run executes every check with the given options and logs each outcome.
// Checks after a cancelled context are reported with the context error.
func Run(ctx context.Context, opts ...ntcrypt.Option) *Report {
	logger := ntcrypt.Resolve(opts...).Logger.With("component", "selftest")
	report := &Report{Results: make([]Result, 0, len(checks))}
	for _, c := range checks {
		start := time.Now()
		err := ctx.Err()
		if err == nil {
			err = c.run(ctx, opts)
		}
		res := Result{Name: c.name, Err: err, Duration: time.Since(start)}
		report.Results = append(report.Results, res)
		if err != nil {
			logger.Error(ctx, "check failed", "check", c.name, "kind", ntcrypt.Kind(err), "error", err)
			continue
		}
		logger.Info(ctx, "check passed", "check", c.name, "duration", res.Duration)
	}
	return report
}

func expectInt(what string, got *big.Int, want int64) error {
	if got.Cmp(big.NewInt(want)) != 0 {
		return fmt.Errorf("%s = %s, want %d", what, got, want)
	}
	return nil
}

func checkTextbookRSA(_ context.Context, _ []ntcrypt.Option) error {
	n, phi := big.NewInt(3233), big.NewInt(3120)
	e, err := modarith.Inverse(big.NewInt(2753), phi)
	if err != nil {
		return err
	}
	if err := expectInt("inverse(2753, 3120)", e, 17); err != nil {
		return err
	}
	c, err := modarith.Exp(big.NewInt(65), e, n)
	if err != nil {
		return err
	}
	if err := expectInt("65^17 mod 3233", c, 2790); err != nil {
		return err
	}
	m, err := modarith.Exp(c, big.NewInt(2753), n)
	if err != nil {
		return err
	}
	return expectInt("2790^2753 mod 3233", m, 65)
}

func checkKnownPrimes(_ context.Context, opts []ntcrypt.Option) error {
	o, err := primes.New(opts...)
	if err != nil {
		return err
	}
	for v, want := range map[int64]bool{2: true, 3: true, 5: true, 97: true, 104729: true, 4: false, 9: false, 561: false} {
		got, err := o.IsProbablePrime(big.NewInt(v))
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("IsProbablePrime(%d) = %t, want %t", v, got, want)
		}
	}
	return nil
}

func checkPrimitiveRoot(ctx context.Context, opts []ntcrypt.Option) error {
	o, err := primes.New(opts...)
	if err != nil {
		return err
	}
	p := big.NewInt(23)
	if err := o.RequirePrimitiveRoot(ctx, big.NewInt(5), p); err != nil {
		return err
	}
	ok, err := o.IsPrimitiveRoot(ctx, big.NewInt(2), p)
	if err != nil {
		return err
	}
	if ok {
		return errors.New("2 accepted as a primitive root of 23")
	}
	g, err := o.FindPrimitiveRoot(ctx, p)
	if err != nil {
		return err
	}
	return expectInt("smallest primitive root of 23", g, 5)
}

func checkPadding(_ context.Context, opts []ntcrypt.Option) error {
	r := ntcrypt.Resolve(opts...).Rand
	const bits = 1024
	limit := padding.MaxPayload(bits)
	msg := make([]byte, limit+1)
	for i := range msg {
		msg[i] = byte(i)
	}
	for n := 0; n <= limit; n++ {
		v, err := padding.Pad(r, msg[:n], bits)
		if err != nil {
			return err
		}
		got, err := padding.Unpad(v, padding.KeyBytes(bits))
		if err != nil {
			return err
		}
		if string(got) != string(msg[:n]) {
			return fmt.Errorf("round trip of %d bytes changed the message", n)
		}
	}
	if _, err := padding.Pad(r, msg, bits); !errors.Is(err, ntcrypt.ErrPayloadTooLarge) {
		return fmt.Errorf("oversized payload: got %v, want %v", err, ntcrypt.ErrPayloadTooLarge)
	}
	return nil
}

func checkRSA(ctx context.Context, opts []ntcrypt.Option) error {
	s, err := rsa.New(opts...)
	if err != nil {
		return err
	}
	kp, err := s.GenerateKey(ctx, RSABits)
	if err != nil {
		return err
	}
	text, err := kp.Private().MarshalPEM()
	if err != nil {
		return err
	}
	priv, err := rsa.ParsePrivateKeyPEM(text)
	if err != nil {
		return err
	}
	const msg = "the quick brown fox"
	c, err := s.Encrypt(kp.Public(), msg)
	if err != nil {
		return err
	}
	got, err := s.Decrypt(priv, c)
	if err != nil {
		return err
	}
	if got != msg {
		return fmt.Errorf("rsa round trip returned %q", got)
	}
	return nil
}

func checkElGamal(_ context.Context, opts []ntcrypt.Option) error {
	s, err := elgamal.New(opts...)
	if err != nil {
		return err
	}
	k, err := s.Generate(elgamalPrime, big.NewInt(5))
	if err != nil {
		return err
	}
	text, err := k.Public().MarshalPEM()
	if err != nil {
		return err
	}
	pub, err := elgamal.ParsePublicKeyPEM(text)
	if err != nil {
		return err
	}
	const msg = "jumps over the dog"
	ct, err := s.Encrypt(pub, msg)
	if err != nil {
		return err
	}
	wire, err := ct.MarshalBinary()
	if err != nil {
		return err
	}
	var back elgamal.Ciphertext
	if err := back.UnmarshalBinary(wire); err != nil {
		return err
	}
	got, err := s.Decrypt(k, &back)
	if err != nil {
		return err
	}
	if got != msg {
		return fmt.Errorf("elgamal round trip returned %q", got)
	}
	return nil
}

func checkDH(_ context.Context, opts []ntcrypt.Option) error {
	g, p := big.NewInt(5), big.NewInt(23)
	alice, err := dh.NewParty(g, p, opts...)
	if err != nil {
		return err
	}
	bob, err := dh.NewParty(g, p, opts...)
	if err != nil {
		return err
	}
	for round := 0; round < 2; round++ {
		sa, err := alice.Secret(bob.SendComponent())
		if err != nil {
			return err
		}
		sb, err := bob.Secret(alice.SendComponent())
		if err != nil {
			return err
		}
		if sa.Cmp(sb) != 0 {
			return fmt.Errorf("round %d: secrets differ", round)
		}
		if err := alice.Resample(); err != nil {
			return err
		}
	}
	return nil
}

func checkNormalize(_ context.Context, _ []ntcrypt.Option) error {
	if got := textnorm.Normalize("Crème brûlée!", 4); got != "CREMEBRULEEX" {
		return fmt.Errorf("Normalize returned %q", got)
	}
	return nil
}
