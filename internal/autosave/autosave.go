// Package autosave periodically persists a task store as a safety net for
// saves that failed in the foreground.
package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/abatilo/todo/internal/task"
)

// DefaultInterval matches the interactive app's save cadence.
const DefaultInterval = 30 * time.Second

// Persister runs a save against a consistent snapshot. todo.Store
// implements it; the store lock keeps saves and mutations from interleaving.
type Persister interface {
	PersistIfDirty(save func([]*task.Task) error) (bool, error)
}

// SaveFunc writes a snapshot, usually storage.FileStore.Save.
type SaveFunc func([]*task.Task) error

// Saver calls PersistIfDirty on a fixed interval until stopped.
type Saver struct {
	store    Persister
	save     SaveFunc
	interval time.Duration
	logger   *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Saver. A non-positive interval uses DefaultInterval.
func New(store Persister, save SaveFunc, interval time.Duration, logger *zap.Logger) *Saver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{
		store:    store,
		save:     save,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Start launches the background loop.
func (s *Saver) Start(ctx context.Context) {
	s.logger.Debug("starting autosave", zap.Duration("interval", s.interval))
	s.wg.Add(1)
	go s.run(ctx)
}

// Stop ends the loop, waits for an in-flight save, then flushes once more.
// It returns the error of that final flush.
func (s *Saver) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	_, err := s.store.PersistIfDirty(s.save)
	if err != nil {
		s.logger.Error("final save failed", zap.Error(err))
	}
	return err
}

func (s *Saver) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Saver) tick() {
	saved, err := s.store.PersistIfDirty(s.save)
	if err != nil {
		s.logger.Error("autosave failed", zap.Error(err))
		return
	}
	if saved {
		s.logger.Debug("autosaved tasks")
	}
}
