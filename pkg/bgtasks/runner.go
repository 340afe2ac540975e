package bgtasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrNotPerformed возвращается задачей, когда интеграция не настроена и вызов не выполнялся
var ErrNotPerformed = errors.New("bgtasks: integration not configured")

// Результаты задач (лейблы метрики background_tasks_total)
const (
	ResultOK      = "ok"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
	ResultTimeout = "timeout"
	ResultPanic   = "panic"
	ResultDropped = "dropped"
)

const (
	defaultWorkers = 16
	defaultTimeout = 5 * time.Second
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Observer получает результат каждой задачи (используется для метрик)
type Observer interface {
	ObserveTask(task, result string)
}

// Task фоновая задача; ctx ограничен таймаутом раннера
type Task func(ctx context.Context) error

// Runner выполняет best-effort задачи в фоне, не блокируя ответ клиенту
// Число одновременно выполняемых задач ограничено семафором: лишние задачи ждут
// свободного воркера, а не отбрасываются. Таймаут задачи отсчитывается с момента старта.
// Shutdown дожидается завершения всех принятых задач, включая ожидающие.
type Runner struct {
	sem      *semaphore.Weighted
	timeout  time.Duration
	logger   Logger
	observer Observer

	baseCtx context.Context
	abort   context.CancelFunc

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewRunner создает раннер; workers <= 0 и timeout <= 0 заменяются значениями по умолчанию
func NewRunner(workers int, timeout time.Duration, logger Logger, observer Observer) *Runner {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		sem:      semaphore.NewWeighted(int64(workers)),
		timeout:  timeout,
		logger:   logger,
		observer: observer,
		baseCtx:  ctx,
		abort:    cancel,
	}
}

// Submit ставит задачу в очередь и сразу возвращает управление
// Возвращает false только после начала Shutdown
func (r *Runner) Submit(name string, task Task) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.logger.Warn("bgtasks: task %s rejected, runner is shutting down", name)
		r.observe(name, ResultDropped)
		return false
	}

	r.wg.Add(1)
	go r.run(name, task)
	return true
}

func (r *Runner) run(name string, task Task) {
	defer r.wg.Done()

	// Ожидание воркера прерывается только аварийной остановкой (истёк ctx у Shutdown)
	if err := r.sem.Acquire(r.baseCtx, 1); err != nil {
		r.logger.Warn("bgtasks: task %s dropped before start: %v", name, err)
		r.observe(name, ResultDropped)
		return
	}
	defer r.sem.Release(1)

	ctx, cancel := context.WithTimeout(r.baseCtx, r.timeout)
	defer cancel()

	start := time.Now()
	err := r.safeCall(ctx, task)
	elapsed := time.Since(start)

	switch {
	case err == nil:
		r.logger.Info("bgtasks: task %s completed in %s", name, elapsed)
		r.observe(name, ResultOK)
	case errors.Is(err, ErrNotPerformed):
		r.logger.Info("bgtasks: task %s skipped: %v", name, err)
		r.observe(name, ResultSkipped)
	case errors.Is(err, errPanic):
		r.logger.Error("bgtasks: task %s panicked: %v", name, err)
		r.observe(name, ResultPanic)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		r.logger.Warn("bgtasks: task %s timed out after %s: %v", name, elapsed, err)
		r.observe(name, ResultTimeout)
	default:
		r.logger.Warn("bgtasks: task %s failed after %s: %v", name, elapsed, err)
		r.observe(name, ResultFailed)
	}
}

var errPanic = errors.New("bgtasks: panic")

func (r *Runner) safeCall(ctx context.Context, task Task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", errPanic, p)
		}
	}()
	return task(ctx)
}

func (r *Runner) observe(name, result string) {
	if r.observer != nil {
		r.observer.ObserveTask(name, result)
	}
}

// Wait блокируется до завершения всех принятых задач
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown перестаёт принимать задачи и ждёт завершения уже запущенных
// Если ctx истекает раньше, контексты оставшихся задач отменяются
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.abort()
		return nil
	case <-ctx.Done():
		r.abort()
		<-done
		return ctx.Err()
	}
}
