package storage

import (
	"fmt"
	"strings"
	"sync"
)

// ConcurrencyPolicy selects how the registry guards its state.
type ConcurrencyPolicy int

const (
	// ReadWrite allows concurrent readers and serialises writers.
	ReadWrite ConcurrencyPolicy = iota
	// SingleThreaded takes no locks; the caller confines the registry to one goroutine.
	SingleThreaded
)

func (p ConcurrencyPolicy) String() string {
	switch p {
	case ReadWrite:
		return "rw"
	case SingleThreaded:
		return "single"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a configuration value onto a policy.
func ParsePolicy(name string) (ConcurrencyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rw", "readwrite", "":
		return ReadWrite, nil
	case "single", "none":
		return SingleThreaded, nil
	default:
		return ReadWrite, fmt.Errorf("unknown concurrency policy %q", name)
	}
}

type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type noopLocker struct{}

func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}

func newLocker(p ConcurrencyPolicy) locker {
	if p == SingleThreaded {
		return noopLocker{}
	}
	return &sync.RWMutex{}
}
