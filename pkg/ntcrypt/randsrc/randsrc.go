// Package randsrc supplies the random sources used by ntcrypt components: the
// operating system CSPRNG for real use and a seeded, reproducible stream for
// tests.
package randsrc

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"
	"sync"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"

	"github.com/hsiuhsiu/ntcrypt-go/pkg/ntcrypt"
)

const (
	deterministicSalt = "ntcrypt-randsrc-deterministic"
	deterministicInfo = "ntcrypt-randsrc-chacha20"
)

// Default returns the operating system CSPRNG.
func Default() io.Reader {
	return rand.Reader
}

// deterministicReader expands a seed into a ChaCha20 keystream. The key and
// nonce come from HKDF-SHA256(seed) with fixed context strings, so the same
// seed always yields the same byte sequence. It is safe for concurrent use,
// but concurrent readers interleave nondeterministically.
type deterministicReader struct {
	mu     sync.Mutex
	stream *chacha20.Cipher
}

// NewDeterministic returns a reproducible stream for tests. It must never be
// used to generate keys that protect real data.
func NewDeterministic(seed []byte) io.Reader {
	kdf := hkdf.New(sha256.New, seed, []byte(deterministicSalt), []byte(deterministicInfo))
	material := make([]byte, chacha20.KeySize+chacha20.NonceSize)
	if _, err := io.ReadFull(kdf, material); err != nil {
		// HKDF-SHA256 can emit up to 8160 bytes; 44 never fails.
		panic(fmt.Sprintf("randsrc: hkdf expand: %v", err))
	}
	stream, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	ntcrypt.ZeroizeBytes(material)
	if err != nil {
		panic(fmt.Sprintf("randsrc: chacha20: %v", err))
	}
	return &deterministicReader{stream: stream}
}

func (r *deterministicReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(p)
	r.stream.XORKeyStream(p, p)
	return len(p), nil
}

// Int returns a uniform value in [0, max).
func Int(r io.Reader, max *big.Int) (*big.Int, error) {
	if max == nil || max.Sign() <= 0 {
		return nil, fmt.Errorf("random bound must be positive: %w", ntcrypt.ErrInvalidInput)
	}
	v, err := rand.Int(r, max)
	if err != nil {
		return nil, fmt.Errorf("read random source: %w", err)
	}
	return v, nil
}

// Range returns a uniform value in [lo, hi).
func Range(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo == nil || hi == nil || hi.Cmp(lo) <= 0 {
		return nil, fmt.Errorf("empty random range: %w", ntcrypt.ErrInvalidInput)
	}
	v, err := Int(r, new(big.Int).Sub(hi, lo))
	if err != nil {
		return nil, err
	}
	return v.Add(v, lo), nil
}

// NonzeroBytes returns n random bytes, none of which is zero. Zero bytes are
// redrawn one at a time, which keeps every byte uniform over 1..255.
func NonzeroBytes(r io.Reader, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d: %w", n, ntcrypt.ErrInvalidInput)
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("read random source: %w", err)
	}
	for i := range out {
		for out[i] == 0 {
			if _, err := io.ReadFull(r, out[i:i+1]); err != nil {
				return nil, fmt.Errorf("read random source: %w", err)
			}
		}
	}
	return out, nil
}
