package dex

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidGenerationKey is returned when a generation key has no
	// configuration entry. Always fatal to the call; never retried.
	ErrInvalidGenerationKey = errors.New("invalid generation key")

	// ErrUpstreamUnavailable is returned when the listing fetch or a static
	// aggregate load fails. Fatal to the whole call; the cache is left
	// untouched. Individual detail fetch failures never produce this — they
	// are logged and the item is dropped.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
