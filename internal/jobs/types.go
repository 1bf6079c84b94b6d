package jobs

import (
	"sync"
	"time"
)

// Type represents job type.
type Type string

const (
	TypePaste      Type = "paste"
	TypeTransfer   Type = "transfer"
	TypeRename     Type = "rename"
	TypeRenameMany Type = "rename_many"
	TypeDelete     Type = "delete"
	TypeUndo       Type = "undo"
	TypeRedo       Type = "redo"
)

// Status represents job status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// Job holds one queued explorer command.
type Job struct {
	// immutable fields
	ID          int64
	Type        Type
	Description string
	run         Func

	// state
	mu          sync.RWMutex
	Status      Status
	Error       string
	err         error
	EnqueuedAt  time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	done chan struct{}
}

// Done is closed once the job has finished, failed or been canceled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Err returns the error the command returned, if any.
func (j *Job) Err() error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.err
}

// Snapshot returns a copy of important fields for UI.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return JobSnapshot{
		ID:          j.ID,
		Type:        j.Type,
		Description: j.Description,
		Status:      j.Status,
		Error:       j.Error,
		EnqueuedAt:  j.EnqueuedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

// JobSnapshot is a read-only view for UI.
type JobSnapshot struct {
	ID          int64
	Type        Type
	Description string
	Status      Status
	Error       string
	EnqueuedAt  time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}
