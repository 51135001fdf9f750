package primes

import (
	"context"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/logging"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

// Oracle answers primality questions with witnesses drawn from an injected
// random source. An Oracle is safe for concurrent use when its random source
// is; both randsrc sources are.
type Oracle struct {
	rand          io.Reader
	witnesses     int
	maxAttempts   int
	rootScanLimit int64
	factorizer    ntcrypt.Factorizer
	logger        logging.Logger
}

// New builds an Oracle from options. It fails with ntcrypt.ErrInvalidInput
// when the configured budgets are out of range.
func New(opts ...ntcrypt.Option) (*Oracle, error) {
	return FromSettings(ntcrypt.Resolve(opts...))
}

// FromSettings builds an Oracle from already resolved settings so protocol
// packages can share one random source and logger with it.
func FromSettings(s ntcrypt.Settings) (*Oracle, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	o := &Oracle{
		rand:          s.Rand,
		witnesses:     s.Config.Witnesses,
		maxAttempts:   s.Config.MaxAttempts,
		rootScanLimit: s.Config.RootScanLimit,
		factorizer:    s.Factorizer,
		logger:        s.Logger.With("component", "primes"),
	}
	if o.factorizer == nil {
		o.factorizer = &rhoFactorizer{oracle: o}
	}
	return o, nil
}

// Witnesses returns the number of Miller-Rabin rounds per test.
func (o *Oracle) Witnesses() int {
	return o.witnesses
}

// IsProbablePrime reports whether n passes o.Witnesses() Miller-Rabin rounds
// with witnesses drawn uniformly from [2, n-2]. A composite passes with
// probability at most 4^-witnesses. The error is non-nil only when n is nil
// or the random source fails.
func (o *Oracle) IsProbablePrime(n *big.Int) (bool, error) {
	if n == nil {
		return false, fmt.Errorf("primality: nil candidate: %w", ntcrypt.ErrInvalidInput)
	}
	if n.Cmp(one) <= 0 {
		return false, nil
	}
	if n.Cmp(three) <= 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}

	d, s, err := Decompose(n)
	if err != nil {
		return false, err
	}
	hi := new(big.Int).Sub(n, one) // exclusive bound: witnesses lie in [2, n-2]
	for i := 0; i < o.witnesses; i++ {
		a, err := randsrc.Range(o.rand, two, hi)
		if err != nil {
			return false, fmt.Errorf("primality: draw witness: %w", err)
		}
		if !Witness(n, a, d, s) {
			return false, nil
		}
	}
	return true, nil
}

// Generate returns a random probable prime of exactly bits bits. Each
// candidate has its top bit set to fix the length and its bottom bit set to
// make it odd. After the configured number of fruitless candidates it fails
// with ntcrypt.ErrGenerationExhausted.
func (o *Oracle) Generate(ctx context.Context, bits int) (*big.Int, error) {
	if bits < 2 {
		return nil, fmt.Errorf("generate prime: bits must be >= 2, got %d: %w", bits, ntcrypt.ErrInvalidInput)
	}
	buf := make([]byte, (bits+7)/8)
	defer ntcrypt.ZeroizeBytes(buf)
	excess := uint(len(buf)*8 - bits)

	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate prime: %w", err)
		}
		if _, err := io.ReadFull(o.rand, buf); err != nil {
			return nil, fmt.Errorf("generate prime: read random source: %w", err)
		}
		buf[0] &= byte(0xff >> excess)
		candidate := new(big.Int).SetBytes(buf)
		candidate.SetBit(candidate, bits-1, 1)
		candidate.SetBit(candidate, 0, 1)

		ok, err := o.IsProbablePrime(candidate)
		if err != nil {
			return nil, fmt.Errorf("generate prime: %w", err)
		}
		if ok {
			o.logger.Debug(ctx, "prime found", "bits", bits, "attempts", attempt)
			return candidate, nil
		}
	}
	o.logger.Warn(ctx, "prime search exhausted", "bits", bits, "attempts", o.maxAttempts)
	return nil, fmt.Errorf("generate prime: no %d-bit prime in %d attempts: %w", bits, o.maxAttempts, ntcrypt.ErrGenerationExhausted)
}

// GeneratePair returns two distinct primes of bits bits each, searching for
// both concurrently.
func (o *Oracle) GeneratePair(ctx context.Context, bits int) (p, q *big.Int, err error) {
	if bits < 3 {
		// Only one 2-bit prime exists.
		return nil, nil, fmt.Errorf("generate prime pair: bits must be >= 3, got %d: %w", bits, ntcrypt.ErrInvalidInput)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = o.Generate(gctx, bits)
		return err
	})
	g.Go(func() error {
		var err error
		q, err = o.Generate(gctx, bits)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	for retry := 0; p.Cmp(q) == 0; retry++ {
		if retry == o.maxAttempts {
			return nil, nil, fmt.Errorf("generate prime pair: no distinct %d-bit primes: %w", bits, ntcrypt.ErrGenerationExhausted)
		}
		if q, err = o.Generate(ctx, bits); err != nil {
			return nil, nil, err
		}
	}
	return p, q, nil
}
