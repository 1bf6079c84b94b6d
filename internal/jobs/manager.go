// Package jobs serializes explorer commands coming from several goroutines
// onto one worker, so a Facade can sit behind a multi-threaded host.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"twopane/internal/explorer"
	"twopane/internal/logging"
)

// Func is a command run against the managed Facade.
type Func func(f *explorer.Facade) error

// ErrClosed is returned for jobs enqueued after Close.
var ErrClosed = errors.New("job manager closed")

// ErrCanceled is the error of jobs removed from the queue before they ran.
var ErrCanceled = errors.New("job canceled")

// Manager coordinates queueing and background processing (single worker).
// A running job always completes; only pending jobs can be canceled.
type Manager struct {
	facade *explorer.Facade
	logger *zap.Logger

	mu          sync.Mutex
	cond        *sync.Cond
	queue       []*Job
	closed      bool
	nextID      int64
	subscribers []func()
	current     *Job
	history     []*Job
	historyMax  int
	stopped     chan struct{}
}

// NewManager constructs and starts a Manager for facade. historyMax bounds
// the finished jobs kept for List; 0 keeps none.
func NewManager(facade *explorer.Facade, historyMax int, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		facade:     facade,
		logger:     logger,
		historyMax: historyMax,
		stopped:    make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	go m.worker()
	m.logger.Debug("job manager created; worker started")
	return m
}

// Subscribe registers a callback called on state changes.
func (m *Manager) Subscribe(cb func()) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, cb)
	n := len(m.subscribers)
	m.mu.Unlock()
	m.logger.Debug("subscriber added", zap.Int("total", n))
}

func (m *Manager) notify() {
	// call without holding the lock to avoid re-entrancy
	m.mu.Lock()
	subs := append([]func(){}, m.subscribers...)
	m.mu.Unlock()
	for _, cb := range subs {
		cb()
	}
}

// Enqueue queues fn. The returned job's Done channel closes when it ends.
func (m *Manager) Enqueue(t Type, description string, fn Func) *Job {
	j := &Job{
		Type:        t,
		Description: description,
		run:         fn,
		Status:      StatusPending,
		EnqueuedAt:  time.Now(),
		done:        make(chan struct{}),
	}

	m.mu.Lock()
	m.nextID++
	j.ID = m.nextID
	if m.closed {
		m.mu.Unlock()
		m.finish(j, ErrClosed)
		return j
	}
	m.queue = append(m.queue, j)
	m.mu.Unlock()

	m.logger.Debug("enqueue", zap.Int64("id", j.ID), zap.String("type", string(t)), zap.String("description", description))
	m.notify()
	m.cond.Signal()
	return j
}

// EnqueuePaste queues Facade.Paste.
func (m *Manager) EnqueuePaste(dst string) *Job {
	return m.Enqueue(TypePaste, dst, func(f *explorer.Facade) error {
		_, err := f.Paste(dst)
		return err
	})
}

// EnqueueTransfer queues Facade.Transfer.
func (m *Manager) EnqueueTransfer(spec explorer.TransferSpec) *Job {
	return m.Enqueue(TypeTransfer, spec.Operation.String()+" -> "+spec.DstDir, func(f *explorer.Facade) error {
		_, err := f.Transfer(spec)
		return err
	})
}

// EnqueueRename queues Facade.Rename.
func (m *Manager) EnqueueRename(dir, name, newName string) *Job {
	return m.Enqueue(TypeRename, name+" -> "+newName, func(f *explorer.Facade) error {
		_, err := f.Rename(dir, name, newName)
		return err
	})
}

// EnqueueRenameMany queues Facade.RenameMany.
func (m *Manager) EnqueueRenameMany(sel explorer.Selection, newName, prefix, suffix string) *Job {
	return m.Enqueue(TypeRenameMany, newName, func(f *explorer.Facade) error {
		_, err := f.RenameMany(sel, newName, prefix, suffix)
		return err
	})
}

// EnqueueDelete queues Facade.Delete followed by ClearCache, the pairing
// every delete from the UI uses.
func (m *Manager) EnqueueDelete(sel explorer.Selection) *Job {
	return m.Enqueue(TypeDelete, sel.Parent, func(f *explorer.Facade) error {
		_, err := f.Delete(sel)
		f.ClearCache()
		return err
	})
}

// EnqueueUndo queues Facade.Undo.
func (m *Manager) EnqueueUndo() *Job {
	return m.Enqueue(TypeUndo, "", (*explorer.Facade).Undo)
}

// EnqueueRedo queues Facade.Redo.
func (m *Manager) EnqueueRedo() *Job {
	return m.Enqueue(TypeRedo, "", (*explorer.Facade).Redo)
}

// Wait blocks until j ends or ctx is done and returns the job's error.
func (m *Manager) Wait(ctx context.Context, j *Job) error {
	select {
	case <-j.Done():
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel removes a pending job by ID. Running jobs are not interrupted.
func (m *Manager) Cancel(id int64) bool {
	m.mu.Lock()
	for i, j := range m.queue {
		if j.ID == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			m.mu.Unlock()
			m.logger.Debug("cancel pending", zap.Int64("id", id))
			m.finish(j, ErrCanceled)
			return true
		}
	}
	m.mu.Unlock()
	return false
}

// List returns snapshots of the running job, pending jobs, then finished
// jobs newest first.
func (m *Manager) List() []JobSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]JobSnapshot, 0, len(m.queue)+1+len(m.history))
	if m.current != nil {
		out = append(out, m.current.Snapshot())
	}
	for _, j := range m.queue {
		out = append(out, j.Snapshot())
	}
	for i := len(m.history) - 1; i >= 0; i-- {
		out = append(out, m.history[i].Snapshot())
	}
	return out
}

// Close stops the worker after the running job and cancels pending jobs.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	pending := m.queue
	m.queue = nil
	m.mu.Unlock()

	m.cond.Broadcast()
	for _, j := range pending {
		m.finish(j, ErrCanceled)
	}
	<-m.stopped
}

func (m *Manager) worker() {
	defer close(m.stopped)
	for {
		m.mu.Lock()
		for len(m.queue) == 0 && !m.closed {
			m.cond.Wait()
		}
		if m.closed {
			m.mu.Unlock()
			return
		}
		// pop head
		j := m.queue[0]
		m.queue = m.queue[1:]
		m.current = j
		m.mu.Unlock()

		j.mu.Lock()
		j.Status = StatusRunning
		j.StartedAt = time.Now()
		j.mu.Unlock()
		m.logger.Debug("start job", zap.Int64("id", j.ID), zap.String("type", string(j.Type)))
		m.notify()

		err := j.run(m.facade)

		m.mu.Lock()
		m.current = nil
		m.mu.Unlock()
		m.finish(j, err)
	}
}

// finish records the outcome, closes Done and moves the job to history
func (m *Manager) finish(j *Job, err error) {
	j.mu.Lock()
	switch {
	case errors.Is(err, ErrCanceled), errors.Is(err, ErrClosed):
		j.Status = StatusCanceled
		j.err = err
	case err != nil:
		j.Status = StatusFailed
		j.Error = err.Error()
		j.err = err
	default:
		j.Status = StatusCompleted
	}
	j.CompletedAt = time.Now()
	status := j.Status
	j.mu.Unlock()

	if status == StatusFailed {
		m.logger.Warn("job failed", zap.Int64("id", j.ID), zap.String("type", string(j.Type)), zap.Error(err))
	} else {
		m.logger.Debug("job finished", zap.Int64("id", j.ID), zap.String("status", string(status)))
	}

	m.mu.Lock()
	m.addHistoryLocked(j)
	m.mu.Unlock()
	close(j.done)
	m.notify()
}

// addHistoryLocked appends a finished job to history and trims oldest; caller must hold m.mu
func (m *Manager) addHistoryLocked(j *Job) {
	if m.historyMax <= 0 {
		return
	}
	m.history = append(m.history, j)
	if len(m.history) > m.historyMax {
		drop := len(m.history) - m.historyMax
		m.history = append([]*Job{}, m.history[drop:]...)
	}
}
