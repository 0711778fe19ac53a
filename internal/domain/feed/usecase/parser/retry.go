package parser

import (
	feederrors "github.com/PinkD/telegram-bili-feed-helper/internal/domain/feed/errors"
	"github.com/rs/zerolog"
)

// retryOnConflict reruns the whole resolution once when its cache write lost
// a concurrent-insert race. The full rerun matters: the value to write may
// depend on an upstream response fetched inside fn, and the second pass will
// find the winning row in the cache instead.
func retryOnConflict[T any](logger zerolog.Logger, fn func() (T, error)) (T, error) {
	result, err := fn()
	if err != nil && feederrors.IsWriteConflict(err) {
		logger.Debug().Msg("Cache write conflict, retrying resolution")
		return fn()
	}
	return result, err
}
