// Package logging provides the small logging facade shared by ntcrypt
// components.
//
// The Logger interface wraps a context-aware subset of log/slog. Components
// default to a discarding logger; pass one built with New to observe prime
// searches, key generation and Diffie-Hellman rekeying:
//
//	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})
//	scheme := rsa.New(ntcrypt.WithLogger(logging.New(slog.New(handler))))
//
// # Redaction
//
// Private exponents, primes and plaintexts must never reach a log record. Use
// Redacted to keep the attribute name while dropping the value:
//
//	logger.Debug(ctx, "private exponent resampled", logging.Redacted("exponent"))
//	// Logs: exponent="[redacted]"
package logging
