package store

import "github.com/rs/zerolog"

// Try runs a best-effort operation: any failure is logged at debug and
// replaced with the fallback value. Hook write paths must never surface
// store errors to the host.
func Try[T any](log zerolog.Logger, op string, fallback T, fn func() (T, error)) T {
	v, err := fn()
	if err != nil {
		log.Debug().Err(err).Str("op", op).Msg("best-effort operation failed")
		return fallback
	}
	return v
}
