package refpool

import "go.uber.org/zap"

// config carries construction-time settings shared by Pool and SafePool.
type config struct {
	logger *zap.Logger
}

func defaultConfig() config {
	return config{logger: zap.NewNop()}
}

// Option configures a pool at construction time.
type Option func(*config)

// WithLogger attaches a zap logger for debug-level diagnostics
// (construction, exhaustion, clears). The default is a nop logger:
// the pool is silent unless asked.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
