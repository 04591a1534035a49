package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

func TestBackgroundSave_WritesWhenDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staff.jsonl")
	r := newTestRegistry(t, WithBackgroundSave(path, 20*time.Millisecond))
	r.StartBackgroundWorkers()
	defer r.StopBackgroundWorkers()

	// nothing to save yet
	time.Sleep(60 * time.Millisecond)
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, r.Add(domain.NewRegular(1, "IT", 100)))
	require.NoError(t, r.Add(domain.NewManager(2, "IT", 200, 1.5)))

	require.Eventually(t, func() bool {
		return !r.Dirty()
	}, 2*time.Second, 10*time.Millisecond)

	restored := newTestRegistry(t)
	require.NoError(t, restored.Restore(path))
	assert.Equal(t, 2, restored.Len())
}

func TestBackgroundSave_StopIsIdempotent(t *testing.T) {
	r := newTestRegistry(t, WithBackgroundSave(filepath.Join(t.TempDir(), "staff.jsonl"), time.Hour))
	r.StartBackgroundWorkers()

	r.StopBackgroundWorkers()
	assert.NotPanics(t, r.StopBackgroundWorkers)
}

func TestBackgroundSave_DisabledIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	r.StartBackgroundWorkers()
	require.NoError(t, r.Add(domain.NewRegular(1, "IT", 100)))
	r.StopBackgroundWorkers()
	assert.True(t, r.Dirty())
}
