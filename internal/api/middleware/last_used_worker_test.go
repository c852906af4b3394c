package middleware

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/JungUiJin/faicial-ai-test/internal/domain"
)

type MockLastUsedUpdater struct {
	mock.Mock
}

func (m *MockLastUsedUpdater) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastConfig() LastUsedWorkerConfig {
	return LastUsedWorkerConfig{
		BufferSize:       10,
		DebounceInterval: 10 * time.Millisecond,
		BatchInterval:    20 * time.Millisecond,
		MaxBatchSize:     5,
	}
}

func TestLastUsedWorker_Enqueue(t *testing.T) {
	t.Run("enqueues and processes updates", func(t *testing.T) {
		repo := new(MockLastUsedUpdater)
		keyID := uuid.New()
		repo.On("UpdateLastUsed", mock.Anything, keyID).Return(nil)

		worker := NewLastUsedWorker(repo, quietLogger(), fastConfig())
		worker.Start()
		worker.Enqueue(keyID)
		time.Sleep(100 * time.Millisecond)
		worker.Stop()

		repo.AssertCalled(t, "UpdateLastUsed", mock.Anything, keyID)
	})

	t.Run("debounces rapid updates for same key", func(t *testing.T) {
		repo := new(MockLastUsedUpdater)
		keyID := uuid.New()

		var calls int32
		repo.On("UpdateLastUsed", mock.Anything, keyID).Run(func(mock.Arguments) {
			atomic.AddInt32(&calls, 1)
		}).Return(nil)

		cfg := fastConfig()
		cfg.BufferSize = 100
		cfg.DebounceInterval = time.Second
		cfg.MaxBatchSize = 100

		worker := NewLastUsedWorker(repo, quietLogger(), cfg)
		worker.Start()
		for i := 0; i < 10; i++ {
			worker.Enqueue(keyID)
		}
		time.Sleep(100 * time.Millisecond)
		worker.Enqueue(keyID)
		time.Sleep(50 * time.Millisecond)
		worker.Stop()

		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("processes multiple different keys", func(t *testing.T) {
		repo := new(MockLastUsedUpdater)
		keys := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
		for _, k := range keys {
			repo.On("UpdateLastUsed", mock.Anything, k).Return(nil)
		}

		worker := NewLastUsedWorker(repo, quietLogger(), fastConfig())
		worker.Start()
		for _, k := range keys {
			worker.Enqueue(k)
		}
		time.Sleep(100 * time.Millisecond)
		worker.Stop()

		for _, k := range keys {
			repo.AssertCalled(t, "UpdateLastUsed", mock.Anything, k)
		}
	})

	t.Run("keeps running after repository errors", func(t *testing.T) {
		repo := new(MockLastUsedUpdater)
		failing, healthy := uuid.New(), uuid.New()
		repo.On("UpdateLastUsed", mock.Anything, failing).Return(domain.ErrAPIKeyNotFound)
		repo.On("UpdateLastUsed", mock.Anything, healthy).Return(nil)

		worker := NewLastUsedWorker(repo, quietLogger(), fastConfig())
		worker.Start()
		worker.Enqueue(failing)
		time.Sleep(60 * time.Millisecond)
		worker.Enqueue(healthy)
		time.Sleep(60 * time.Millisecond)
		worker.Stop()

		repo.AssertCalled(t, "UpdateLastUsed", mock.Anything, failing)
		repo.AssertCalled(t, "UpdateLastUsed", mock.Anything, healthy)
	})

	t.Run("drops updates when buffer is full", func(t *testing.T) {
		repo := new(MockLastUsedUpdater)
		cfg := fastConfig()
		cfg.BufferSize = 2

		worker := NewLastUsedWorker(repo, quietLogger(), cfg)
		for i := 0; i < 10; i++ {
			worker.Enqueue(uuid.New())
		}

		assert.Len(t, worker.queue, 2)
	})

	t.Run("flushes when max batch size is reached", func(t *testing.T) {
		repo := new(MockLastUsedUpdater)
		var calls int32
		repo.On("UpdateLastUsed", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			atomic.AddInt32(&calls, 1)
		}).Return(nil)

		cfg := fastConfig()
		cfg.BufferSize = 100
		cfg.BatchInterval = 10 * time.Second
		cfg.MaxBatchSize = 3

		worker := NewLastUsedWorker(repo, quietLogger(), cfg)
		worker.Start()
		for i := 0; i < 4; i++ {
			worker.Enqueue(uuid.New())
		}
		time.Sleep(50 * time.Millisecond)

		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))

		worker.Stop()
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls), "stop flushes the remainder")
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		worker := NewLastUsedWorker(new(MockLastUsedUpdater), quietLogger(), fastConfig())
		worker.Start()
		worker.Stop()
		assert.NotPanics(t, worker.Stop)
	})
}

func TestLastUsedWorker_Prune(t *testing.T) {
	worker := NewLastUsedWorker(new(MockLastUsedUpdater), quietLogger(), fastConfig())
	stale, fresh := uuid.New(), uuid.New()
	now := time.Now()
	worker.written[stale] = now.Add(-time.Second)
	worker.written[fresh] = now

	worker.prune(now)

	assert.NotContains(t, worker.written, stale)
	assert.Contains(t, worker.written, fresh)
}

func TestDefaultLastUsedWorkerConfig(t *testing.T) {
	config := DefaultLastUsedWorkerConfig()

	assert.Equal(t, 1000, config.BufferSize)
	assert.Equal(t, time.Minute, config.DebounceInterval)
	assert.Equal(t, 5*time.Second, config.BatchInterval)
	assert.Equal(t, 100, config.MaxBatchSize)
	assert.Equal(t, 10*time.Second, config.WriteTimeout)
}
