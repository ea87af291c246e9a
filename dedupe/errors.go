package dedupe

import "errors"

var (
	// ErrCacheRequired is returned when a hash cache is not provided.
	ErrCacheRequired = errors.New("hash cache required")
)
