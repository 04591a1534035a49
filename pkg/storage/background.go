package storage

import (
	"time"
)

// StartBackgroundWorkers starts the periodic save worker when enabled
func (r *Registry) StartBackgroundWorkers() {
	if !r.backgroundSave || r.dataFile == "" {
		return
	}

	r.log.Info().
		Str("path", r.dataFile).
		Dur("interval", r.saveInterval).
		Msg("background save enabled")

	r.backgroundWg.Add(1)
	go func() {
		defer r.backgroundWg.Done()
		ticker := time.NewTicker(r.saveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.saveIfDirty()
			case <-r.stopChan:
				return
			}
		}
	}()
}

// StopBackgroundWorkers stops background workers. Safe to call repeatedly.
func (r *Registry) StopBackgroundWorkers() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	r.backgroundWg.Wait()
}

func (r *Registry) saveIfDirty() {
	if !r.dirty.Load() {
		r.log.Debug().Msg("registry clean, skipping background save")
		return
	}
	if err := r.Save(r.dataFile); err != nil {
		r.log.Error().Err(err).Msg("background save failed")
	}
}
