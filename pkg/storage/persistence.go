package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/adfharrison1/go-staffdb/pkg/domain"
)

// Save writes every employee to path using the registry codec. The snapshot
// is written to a uniquely named temporary file beside path and renamed into
// place, so a failed save leaves the previous file intact and concurrent
// saves never share a temporary file.
func (r *Registry) Save(path string) error {
	start := time.Now()
	count, err := r.save(path)
	r.metrics.ObserveOp("save", err)
	r.metrics.ObserveSnapshot("save", start)
	if err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("save failed")
		return err
	}

	r.log.Info().
		Str("path", path).
		Str("format", r.codec.Name()).
		Int("employees", count).
		Dur("took", time.Since(start)).
		Msg("registry saved")
	return nil
}

func (r *Registry) save(path string) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("%w: create directory %s: %w", domain.ErrIOFailure, dir, err)
		}
	}

	file, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: create temporary file for %s: %w", domain.ErrIOFailure, path, err)
	}
	tmp := file.Name()

	count, wasDirty, err := r.encodeTo(file)
	if err == nil {
		if chmodErr := file.Chmod(0o644); chmodErr != nil {
			err = fmt.Errorf("%w: chmod %s: %w", domain.ErrIOFailure, tmp, chmodErr)
		}
	}
	if err == nil {
		if syncErr := file.Sync(); syncErr != nil {
			err = fmt.Errorf("%w: sync %s: %w", domain.ErrIOFailure, tmp, syncErr)
		}
	}
	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("%w: close %s: %w", domain.ErrIOFailure, tmp, closeErr)
	}
	if err == nil {
		if renameErr := os.Rename(tmp, path); renameErr != nil {
			err = fmt.Errorf("%w: rename %s: %w", domain.ErrIOFailure, tmp, renameErr)
		}
	}

	if err != nil {
		os.Remove(tmp)
		if wasDirty {
			r.dirty.Store(true)
		}
		return 0, err
	}
	return count, nil
}

// SaveTo encodes every employee to w without touching the dirty flag.
func (r *Registry) SaveTo(w io.Writer) error {
	var err error
	r.withReadLock(func() {
		err = r.codec.Encode(w, r.ascendLocked)
	})
	r.metrics.ObserveOp("save", err)
	return err
}

// encodeTo snapshots the registry inside one read section and clears the
// dirty flag, reporting whether it was set.
func (r *Registry) encodeTo(w io.Writer) (count int, wasDirty bool, err error) {
	r.withReadLock(func() {
		count = r.primary.Len()
		err = r.codec.Encode(w, r.ascendLocked)
		if err == nil {
			wasDirty = r.dirty.Swap(false)
		}
	})
	if err != nil && !errors.Is(err, domain.ErrIOFailure) {
		err = fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	return count, wasDirty, err
}

// Restore reads a snapshot from path and adds each record in file order. A
// missing file restores nothing. Restore stops at the first failing record;
// records added before it stay in the registry.
func (r *Registry) Restore(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.log.Info().Str("path", path).Msg("no snapshot found, starting empty")
			return nil
		}
		err = fmt.Errorf("%w: open %s: %w", domain.ErrIOFailure, path, err)
		r.metrics.ObserveOp("restore", err)
		return err
	}
	defer file.Close()

	if err := r.RestoreFrom(file); err != nil {
		r.log.Error().Err(err).Str("path", path).Msg("restore failed")
		return err
	}
	return nil
}

// RestoreFrom decodes a snapshot from rd and adds each record inside a single
// write section.
func (r *Registry) RestoreFrom(rd io.Reader) error {
	start := time.Now()
	restored := 0
	err := r.withWriteLock(func() error {
		wasEmpty := r.primary.Len() == 0
		for e, err := range r.codec.Decode(rd) {
			if err != nil {
				return err
			}
			if err := r.addLocked(e); err != nil {
				return fmt.Errorf("restore employee %d: %w", e.ID(), err)
			}
			restored++
		}
		if wasEmpty {
			r.dirty.Store(false)
		}
		return nil
	})
	r.metrics.ObserveOp("restore", err)
	r.metrics.ObserveSnapshot("restore", start)
	if err != nil {
		return err
	}

	r.log.Info().
		Str("format", r.codec.Name()).
		Int("employees", restored).
		Dur("took", time.Since(start)).
		Msg("registry restored")
	return nil
}
