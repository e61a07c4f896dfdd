package chase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner executes a single chase attempt.
type Runner interface {
	Run(ctx context.Context, exceptionID uuid.UUID) error
}

// DispatcherConfig holds tuning for the background chase worker.
type DispatcherConfig struct {
	QueueSize  int
	RunTimeout time.Duration
}

// DefaultDispatcherConfig returns sensible dispatcher defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:  64,
		RunTimeout: 30 * time.Second,
	}
}

// Dispatcher decouples HTTP handlers from the chase loop. Handlers enqueue an
// exception ID and return immediately; a single background worker drains the
// queue and runs each attempt with its own timeout.
type Dispatcher struct {
	runner Runner
	config DispatcherConfig
	logger *zap.Logger
	queue  chan uuid.UUID
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(runner Runner, config DispatcherConfig, logger *zap.Logger) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = DefaultDispatcherConfig().RunTimeout
	}
	return &Dispatcher{
		runner: runner,
		config: config,
		logger: logger,
		queue:  make(chan uuid.UUID, config.QueueSize),
	}
}

// Start launches the worker goroutine.
func (d *Dispatcher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	d.wg.Add(1)
	go d.workLoop(ctx)

	d.logger.Info("chase dispatcher started", zap.Int("queue_size", d.config.QueueSize))
	return nil
}

// Stop signals the worker and waits for it to finish, bounded by ctx.
// Enqueued but unprocessed IDs are dropped; a chase can always be retriggered.
func (d *Dispatcher) Stop(ctx context.Context) error {
	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("chase dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue schedules a chase attempt. It never blocks: when the queue is full
// the ID is dropped and false is returned.
func (d *Dispatcher) Enqueue(exceptionID uuid.UUID) bool {
	select {
	case d.queue <- exceptionID:
		return true
	default:
		d.logger.Warn("chase queue full, dropping attempt",
			zap.String("exception_id", exceptionID.String()),
		)
		return false
	}
}

func (d *Dispatcher) workLoop(ctx context.Context) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-d.queue:
			d.runOne(ctx, id)
		}
	}
}

func (d *Dispatcher) runOne(ctx context.Context, id uuid.UUID) {
	runCtx, cancel := context.WithTimeout(ctx, d.config.RunTimeout)
	defer cancel()

	if err := d.runner.Run(runCtx, id); err != nil {
		if errors.Is(err, ErrDuplicateSend) {
			d.logger.Warn("chase attempt skipped, duplicate send blocked",
				zap.String("exception_id", id.String()),
			)
			return
		}
		d.logger.Error("chase attempt failed",
			zap.String("exception_id", id.String()),
			zap.Error(err),
		)
	}
}
