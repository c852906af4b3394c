package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LastUsedUpdater persists the last_used_at timestamp of an API key
type LastUsedUpdater interface {
	UpdateLastUsed(ctx context.Context, id uuid.UUID) error
}

// LastUsedWorkerConfig holds configuration for the worker
type LastUsedWorkerConfig struct {
	BufferSize       int           // queued ids before updates are dropped
	DebounceInterval time.Duration // min interval between writes for the same key
	BatchInterval    time.Duration // flush period
	MaxBatchSize     int           // flush early once this many ids are queued
	WriteTimeout     time.Duration // per-batch database deadline
}

// DefaultLastUsedWorkerConfig returns default configuration
func DefaultLastUsedWorkerConfig() LastUsedWorkerConfig {
	return LastUsedWorkerConfig{
		BufferSize:       1000,
		DebounceInterval: time.Minute,
		BatchInterval:    5 * time.Second,
		MaxBatchSize:     100,
		WriteTimeout:     10 * time.Second,
	}
}

// LastUsedWorker records API key usage off the request path. Writes for the
// same key are debounced and flushed in batches.
type LastUsedWorker struct {
	repo   LastUsedUpdater
	logger *slog.Logger
	config LastUsedWorkerConfig

	queue chan uuid.UUID

	mu      sync.Mutex
	written map[uuid.UUID]time.Time

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewLastUsedWorker creates a worker; zero config fields take their defaults
func NewLastUsedWorker(repo LastUsedUpdater, logger *slog.Logger, config LastUsedWorkerConfig) *LastUsedWorker {
	defaults := DefaultLastUsedWorkerConfig()
	if config.BufferSize == 0 {
		config.BufferSize = defaults.BufferSize
	}
	if config.DebounceInterval == 0 {
		config.DebounceInterval = defaults.DebounceInterval
	}
	if config.BatchInterval == 0 {
		config.BatchInterval = defaults.BatchInterval
	}
	if config.MaxBatchSize == 0 {
		config.MaxBatchSize = defaults.MaxBatchSize
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}

	return &LastUsedWorker{
		repo:    repo,
		logger:  logger,
		config:  config,
		queue:   make(chan uuid.UUID, config.BufferSize),
		written: make(map[uuid.UUID]time.Time),
		done:    make(chan struct{}),
	}
}

// Start begins the background loop
func (w *LastUsedWorker) Start() {
	w.wg.Add(1)
	go w.run()
	w.logger.Info("last used worker started",
		"buffer_size", w.config.BufferSize,
		"debounce_interval", w.config.DebounceInterval,
		"batch_interval", w.config.BatchInterval,
	)
}

// Stop flushes the pending batch and waits for the loop to exit
func (w *LastUsedWorker) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		w.logger.Info("last used worker stopped")
	})
}

// Enqueue schedules a last_used_at write. It never blocks: recently written
// keys are skipped and a full buffer drops the update.
func (w *LastUsedWorker) Enqueue(keyID uuid.UUID) {
	if w.recentlyWritten(keyID, time.Now()) {
		return
	}

	select {
	case w.queue <- keyID:
	default:
		w.logger.Debug("last used update dropped, buffer full", "key_id", keyID)
	}
}

func (w *LastUsedWorker) recentlyWritten(keyID uuid.UUID, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	last, ok := w.written[keyID]
	return ok && now.Sub(last) < w.config.DebounceInterval
}

func (w *LastUsedWorker) run() {
	defer w.wg.Done()

	flush := time.NewTicker(w.config.BatchInterval)
	defer flush.Stop()

	prune := time.NewTicker(5 * time.Minute)
	defer prune.Stop()

	batch := make(map[uuid.UUID]struct{})

	for {
		select {
		case <-w.done:
			w.flush(batch)
			return

		case keyID := <-w.queue:
			batch[keyID] = struct{}{}
			if len(batch) >= w.config.MaxBatchSize {
				w.flush(batch)
				batch = make(map[uuid.UUID]struct{})
			}

		case <-flush.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = make(map[uuid.UUID]struct{})
			}

		case now := <-prune.C:
			w.prune(now)
		}
	}
}

func (w *LastUsedWorker) flush(batch map[uuid.UUID]struct{}) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.config.WriteTimeout)
	defer cancel()

	var ok int
	for keyID := range batch {
		if err := w.repo.UpdateLastUsed(ctx, keyID); err != nil {
			w.logger.Error("failed to update last used", "key_id", keyID, "error", err)
			continue
		}

		w.mu.Lock()
		w.written[keyID] = time.Now()
		w.mu.Unlock()
		ok++
	}

	w.logger.Debug("last used batch written", "count", ok, "failed", len(batch)-ok)
}

// prune forgets keys written more than two debounce intervals ago
func (w *LastUsedWorker) prune(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for keyID, last := range w.written {
		if now.Sub(last) > 2*w.config.DebounceInterval {
			delete(w.written, keyID)
		}
	}
}
