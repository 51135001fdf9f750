package ntcrypt

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// DefaultWitnesses bounds the Miller-Rabin false-positive rate by 4^-12.
	DefaultWitnesses = 12
	// DefaultMaxAttempts is the number of candidates drawn before prime
	// generation gives up.
	DefaultMaxAttempts = 10000
	// DefaultKeyBits is the modulus size used by the GenerateKey helpers.
	DefaultKeyBits = 1024
)

// Config expresses the search budgets shared by every component. It can be
// built in code, starting from DefaultConfig, or decoded from TOML:
//
//	witnesses = 20
//	max_attempts = 50000
//	key_bits = 2048
//	root_scan_limit = 1000
type Config struct {
	// Witnesses is the number of Miller-Rabin witnesses drawn per test.
	Witnesses int `toml:"witnesses"`

	// MaxAttempts caps the number of candidates drawn by prime generation.
	MaxAttempts int `toml:"max_attempts"`

	// KeyBits is the modulus bit length used when a key is generated without
	// caller supplied primes.
	KeyBits int `toml:"key_bits"`

	// RootScanLimit caps the number of candidates tried by the primitive root
	// search. Zero scans every residue up to p-1.
	RootScanLimit int64 `toml:"root_scan_limit"`
}

// DefaultConfig returns the budgets used when no configuration is supplied.
func DefaultConfig() Config {
	return Config{
		Witnesses:   DefaultWitnesses,
		MaxAttempts: DefaultMaxAttempts,
		KeyBits:     DefaultKeyBits,
	}
}

// Validate reports the first field that is out of range.
func (c Config) Validate() error {
	switch {
	case c.Witnesses < 1:
		return fmt.Errorf("witnesses must be >= 1, got %d: %w", c.Witnesses, ErrInvalidInput)
	case c.MaxAttempts < 1:
		return fmt.Errorf("max_attempts must be >= 1, got %d: %w", c.MaxAttempts, ErrInvalidInput)
	case c.KeyBits < 16:
		return fmt.Errorf("key_bits must be >= 16, got %d: %w", c.KeyBits, ErrInvalidInput)
	case c.RootScanLimit < 0:
		return fmt.Errorf("root_scan_limit must be >= 0, got %d: %w", c.RootScanLimit, ErrInvalidInput)
	}
	return nil
}

// LoadConfig reads a TOML file on top of DefaultConfig. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return finishDecode(cfg, md)
}

// DecodeConfig parses TOML text on top of DefaultConfig.
func DecodeConfig(text string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return finishDecode(cfg, md)
}

func finishDecode(cfg Config, md toml.MetaData) (Config, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("unknown config keys %s: %w", strings.Join(keys, ", "), ErrInvalidInput)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
