package tasks

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"lingosub/internal/logging"
	"lingosub/internal/services"
)

const component = "tasks"

// Registry runs named background tasks with a fixed in-flight ceiling.
// Launch fails fast when the ceiling is reached rather than queueing.
type Registry struct {
	logger *slog.Logger
	limit  int

	mu       sync.Mutex
	inFlight int
	wg       sync.WaitGroup
}

// NewRegistry builds a registry allowing at most limit concurrent tasks.
// Non-positive limits fall back to a single slot.
func NewRegistry(logger *slog.Logger, limit int) *Registry {
	if limit <= 0 {
		limit = 1
	}
	return &Registry{
		logger: logging.NewComponentLogger(logger, component),
		limit:  limit,
	}
}

// Launch starts fn on its own goroutine under a fresh task id. It returns
// the id immediately, or ErrTransient when every slot is taken. The task's
// error is logged, not returned; callers needing the result should plumb
// their own channel through fn.
func (r *Registry) Launch(ctx context.Context, name string, fn func(ctx context.Context) error) (string, error) {
	r.mu.Lock()
	if r.inFlight >= r.limit {
		r.mu.Unlock()
		return "", services.Wrap(services.ErrTransient, component, "launch",
			"task capacity reached, retry later", nil)
	}
	r.inFlight++
	r.wg.Add(1)
	r.mu.Unlock()

	id := uuid.NewString()
	logger := r.logger.With(logging.String("task", name), logging.String("task_id", id))
	logger.Info("task started")

	go func() {
		defer func() {
			r.mu.Lock()
			r.inFlight--
			r.mu.Unlock()
			r.wg.Done()
		}()
		if err := fn(ctx); err != nil {
			logger.Error("task failed", logging.Error(err))
			return
		}
		logger.Info("task finished")
	}()
	return id, nil
}

// InFlight reports how many tasks are currently running.
func (r *Registry) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight
}

// Wait blocks until every launched task has returned or ctx is cancelled.
func (r *Registry) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
