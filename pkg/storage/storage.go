package storage

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/btree"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adfharrison1/go-staffdb/pkg/codec"
	"github.com/adfharrison1/go-staffdb/pkg/domain"
	"github.com/adfharrison1/go-staffdb/pkg/indexing"
	"github.com/adfharrison1/go-staffdb/pkg/metrics"
)

const primaryDegree = 32

// entry is the primary-store item; lookups use an entry with only id set.
type entry struct {
	id  int64
	emp domain.Employee
}

func entryLess(a, b entry) bool { return a.id < b.id }

// Registry holds employees keyed by id together with the department and
// manager-factor indexes. The three structures change together under one
// lock; see ConcurrencyPolicy.
type Registry struct {
	lock    locker
	primary *btree.BTreeG[entry]
	index   *indexing.Maintainer
	dirty   atomic.Bool

	// Configuration
	policy         ConcurrencyPolicy
	codec          codec.Codec
	log            zerolog.Logger
	metrics        *metrics.Metrics
	dataFile       string
	backgroundSave bool
	saveInterval   time.Duration

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

var _ domain.Company = (*Registry)(nil)

// NewRegistry creates an empty registry
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		primary:      btree.NewG(primaryDegree, entryLess),
		index:        indexing.NewMaintainer(),
		policy:       ReadWrite,
		codec:        codec.Lines{},
		log:          log.Logger,
		saveInterval: 5 * time.Minute,
		stopChan:     make(chan struct{}),
	}

	// Apply options
	for _, option := range options {
		option(r)
	}

	r.lock = newLocker(r.policy)
	r.log = r.log.With().Str("component", "registry").Logger()

	return r
}

// withReadLock executes fn inside a read section
func (r *Registry) withReadLock(fn func()) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	fn()
}

// withWriteLock executes fn inside a write section
func (r *Registry) withWriteLock(fn func() error) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	return fn()
}

// ascendLocked yields every employee in id order. The caller holds the lock.
func (r *Registry) ascendLocked(yield func(domain.Employee) bool) {
	r.primary.Ascend(func(it entry) bool {
		return yield(it.emp)
	})
}

// Policy returns the concurrency policy the registry was built with.
func (r *Registry) Policy() ConcurrencyPolicy {
	return r.policy
}

// Codec returns the snapshot codec used by Save and Restore.
func (r *Registry) Codec() codec.Codec {
	return r.codec
}

// Dirty reports whether the registry changed since the last save or restore.
func (r *Registry) Dirty() bool {
	return r.dirty.Load()
}
