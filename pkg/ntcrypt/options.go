package ntcrypt

import (
	"context"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/logging"
)

// Factorizer returns the distinct prime factors of n in ascending order. The
// primitive root test needs the factorization of p-1; callers working with
// large groups can plug in a dedicated factoring service.
type Factorizer interface {
	PrimeFactors(ctx context.Context, n *big.Int) ([]*big.Int, error)
}

// Settings is the resolved form of a set of Options.
type Settings struct {
	// Rand is the random source. It must be cryptographically secure outside
	// of tests.
	Rand       io.Reader
	Config     Config
	Logger     logging.Logger
	Factorizer Factorizer
}

// Option customizes a component at construction time.
type Option func(*Settings)

// WithRand injects the random source. Tests use randsrc.NewDeterministic.
func WithRand(r io.Reader) Option {
	return func(s *Settings) { s.Rand = r }
}

// WithConfig replaces the default search budgets.
func WithConfig(cfg Config) Option {
	return func(s *Settings) { s.Config = cfg }
}

// WithLogger attaches a logger. Components log nothing by default.
func WithLogger(l logging.Logger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithFactorizer replaces the built-in trial division and Pollard rho
// factorizer used for primitive root checks.
func WithFactorizer(f Factorizer) Option {
	return func(s *Settings) { s.Factorizer = f }
}

// Resolve applies opts over the defaults: crypto/rand, DefaultConfig and a
// discarding logger. A nil Factorizer is left for the primes package to fill.
func Resolve(opts ...Option) Settings {
	s := Settings{
		Rand:   rand.Reader,
		Config: DefaultConfig(),
		Logger: logging.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.Rand == nil {
		s.Rand = rand.Reader
	}
	if s.Logger == nil {
		s.Logger = logging.Nop()
	}
	return s
}
