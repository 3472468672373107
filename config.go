package wit

import "go.uber.org/zap"

// RuntimeConfig controls behavior shared across every Module compiled from a
// Runtime: currently just the logger. Built the way the teacher's own
// config.go builds RuntimeConfig: an immutable, clone-on-write options
// struct, never mutated after a With* call returns a new copy.
type RuntimeConfig struct {
	logger *zap.Logger
}

// newRuntimeConfig helps avoid copy/pasting the wrong defaults.
var newRuntimeConfig = &RuntimeConfig{logger: zap.NewNop()}

// NewRuntimeConfig returns a RuntimeConfig with every field at its default:
// a no-op logger.
func NewRuntimeConfig() *RuntimeConfig {
	ret := *newRuntimeConfig
	return &ret
}

// clone ensures all fields are copied even if nil.
func (c *RuntimeConfig) clone() *RuntimeConfig {
	ret := *c
	return &ret
}

// WithLogger sets the structured logger used to trace interface-types
// section decode events (Runtime.DecodeModule); adapter execution is not
// logged. A nil logger resets to zap.NewNop(), so callers never
// need to nil-check before logging.
func (c *RuntimeConfig) WithLogger(logger *zap.Logger) *RuntimeConfig {
	if logger == nil {
		logger = zap.NewNop()
	}
	ret := c.clone()
	ret.logger = logger
	return ret
}
