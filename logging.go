package trigger

import (
	"time"

	"github.com/rs/zerolog"
)

// WithLogger installs hooks that log dispatches to logger: each dispatch at
// debug level, handler failures at error level and unsupported triggers at
// warn level. A disabled logger installs nothing.
//
// Example:
//
//	logger := zerolog.New(os.Stderr).With().Timestamp().Str("component", "door").Logger()
//	m, err := trigger.NewIntMapper(door, trigger.WithLogger[int](logger))
func WithLogger[K comparable](logger zerolog.Logger) Option[K] {
	return func(c *config[K]) {
		if logger.GetLevel() == zerolog.Disabled {
			return
		}

		c.hooks.onDispatch = append(c.hooks.onDispatch, func(trigger K, handler string) {
			logger.Debug().
				Interface("trigger", trigger).
				Str("handler", handler).
				Msg("Dispatching trigger")
		})
		c.hooks.onSuccess = append(c.hooks.onSuccess, func(trigger K, handler string, d time.Duration) {
			logger.Debug().
				Interface("trigger", trigger).
				Str("handler", handler).
				Dur("duration", d).
				Msg("Handler completed")
		})
		c.hooks.onFailure = append(c.hooks.onFailure, func(trigger K, handler string, err error, d time.Duration) {
			logger.Error().
				Err(err).
				Interface("trigger", trigger).
				Str("handler", handler).
				Dur("duration", d).
				Msg("Handler failed")
		})
		c.hooks.onNotSupported = append(c.hooks.onNotSupported, func(trigger K, err error) {
			logger.Warn().
				Err(err).
				Interface("trigger", trigger).
				Msg("Trigger not supported")
		})
	}
}
