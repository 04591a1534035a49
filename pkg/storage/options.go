package storage

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/metrics"
)

type RegistryOption func(*Registry)

func WithConcurrency(policy ConcurrencyPolicy) RegistryOption {
	return func(r *Registry) {
		r.policy = policy
	}
}

// WithCodec sets the snapshot format used by Save and Restore
func WithCodec(c codec.Codec) RegistryOption {
	return func(r *Registry) {
		if c != nil {
			r.codec = c
		}
	}
}

func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.log = l
	}
}

func WithMetrics(m *metrics.Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// WithBackgroundSave enables the periodic save worker. It only writes when
// the registry changed since the last save.
func WithBackgroundSave(path string, interval time.Duration) RegistryOption {
	return func(r *Registry) {
		r.dataFile = path
		r.backgroundSave = interval > 0
		if interval > 0 {
			r.saveInterval = interval
		}
	}
}
