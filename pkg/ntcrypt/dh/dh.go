package dh

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/logging"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/modarith"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/primes"
	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt/randsrc"
)

var (
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Party is one side of an exchange.
type Party struct {
	oracle *primes.Oracle
	rand   io.Reader
	logger logging.Logger

	mu       sync.RWMutex
	g, p     *big.Int
	exponent *big.Int
}

// NewParty validates (g, p) and draws the first private exponent. It fails
// with ntcrypt.ErrNotPrime or ntcrypt.ErrNotPrimitiveRoot for an invalid
// group and with ntcrypt.ErrInvalidInput when p < 3, which leaves no room
// for an exponent. Validation factors p-1 without a deadline, so callers
// with untrusted or large moduli should vet them with
// primes.Oracle.RequirePrimitiveRoot under their own context first.
func NewParty(g, p *big.Int, opts ...ntcrypt.Option) (*Party, error) {
	s := ntcrypt.Resolve(opts...)
	oracle, err := primes.FromSettings(s)
	if err != nil {
		return nil, fmt.Errorf("dh: %w", err)
	}
	pt := &Party{
		oracle: oracle,
		rand:   s.Rand,
		logger: s.Logger.With("component", "dh"),
	}
	if err := pt.checkGroup(context.Background(), g, p); err != nil {
		return nil, fmt.Errorf("dh new party: %w", err)
	}
	x, err := pt.sample(p)
	if err != nil {
		return nil, fmt.Errorf("dh new party: %w", err)
	}
	pt.g = new(big.Int).Set(g)
	pt.p = new(big.Int).Set(p)
	pt.exponent = x
	return pt, nil
}

// Parameters returns copies of the current generator and modulus.
func (pt *Party) Parameters() (g, p *big.Int) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return new(big.Int).Set(pt.g), new(big.Int).Set(pt.p)
}

// SendComponent returns g^a mod p for the current exponent a.
func (pt *Party) SendComponent() *big.Int {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return modarith.MustExp(pt.g, pt.exponent, pt.p)
}

// Secret combines the peer's component into the shared value received^a mod
// p. The component must lie in [1, p).
func (pt *Party) Secret(received *big.Int) (*big.Int, error) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	if received == nil || received.Sign() <= 0 || received.Cmp(pt.p) >= 0 {
		return nil, fmt.Errorf("dh secret: component out of range [1, p): %w", ntcrypt.ErrInvalidInput)
	}
	return modarith.MustExp(received, pt.exponent, pt.p), nil
}

// Resample replaces the private exponent with a fresh one under the current
// group. The old exponent is wiped.
func (pt *Party) Resample() error {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	x, err := pt.sample(pt.p)
	if err != nil {
		return fmt.Errorf("dh resample: %w", err)
	}
	ntcrypt.ZeroizeInt(pt.exponent)
	pt.exponent = x
	pt.logger.Debug(context.Background(), "private exponent resampled", logging.Redacted("exponent"))
	return nil
}

// ReplaceParameters moves the party to the group (g, p) with a fresh
// exponent drawn under p. Validation and sampling happen before the swap, so
// on failure the party keeps its previous state. Like NewParty, the
// validation cannot be cancelled.
func (pt *Party) ReplaceParameters(g, p *big.Int) error {
	if err := pt.checkGroup(context.Background(), g, p); err != nil {
		return fmt.Errorf("dh replace parameters: %w", err)
	}
	x, err := pt.sample(p)
	if err != nil {
		return fmt.Errorf("dh replace parameters: %w", err)
	}

	pt.mu.Lock()
	defer pt.mu.Unlock()
	ntcrypt.ZeroizeInt(pt.exponent)
	pt.g = new(big.Int).Set(g)
	pt.p = new(big.Int).Set(p)
	pt.exponent = x
	pt.logger.Debug(context.Background(), "parameters replaced", "bits", p.BitLen())
	return nil
}

func (pt *Party) checkGroup(ctx context.Context, g, p *big.Int) error {
	if err := pt.oracle.RequirePrimitiveRoot(ctx, g, p); err != nil {
		return err
	}
	if p.Cmp(three) < 0 {
		return fmt.Errorf("modulus must be >= 3: %w", ntcrypt.ErrInvalidInput)
	}
	if g.Sign() <= 0 || g.Cmp(p) >= 0 {
		return fmt.Errorf("generator must be reduced into [1, p): %w", ntcrypt.ErrInvalidInput)
	}
	return nil
}

// sample draws an exponent uniformly from [0, p-2).
func (pt *Party) sample(p *big.Int) (*big.Int, error) {
	return randsrc.Int(pt.rand, new(big.Int).Sub(p, two))
}

// GenerateParameters returns a random bits-bit prime and its smallest
// primitive root, ready for NewParty. Only small groups are practical with
// the built-in factorizer.
func GenerateParameters(ctx context.Context, bits int, opts ...ntcrypt.Option) (g, p *big.Int, err error) {
	oracle, err := primes.New(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dh generate parameters: %w", err)
	}
	p, g, err = oracle.GenerateGroup(ctx, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("dh generate parameters: %w", err)
	}
	return g, p, nil
}
