// Package explorer turns file-manager commands into fileops primitives and
// keeps the history needed to undo and redo them.
package explorer

import (
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"twopane/internal/config"
	"twopane/internal/constants"
	apperrors "twopane/internal/errors"
	"twopane/internal/fileops"
	"twopane/internal/history"
	"twopane/internal/logging"
)

// Facade owns one session: the pending selection, the undo/redo guards and
// the action history. It is not safe for concurrent use; callers serialize
// access, typically from a single UI event loop.
type Facade struct {
	ops     *fileops.FileOps
	history *history.History[Batch]
	pending []PendingItem

	// guards against duplicate firing of the same undo/redo
	lastUndo *Batch
	lastRedo *Batch
	// the batch at cursor 0 has been undone; the cursor cannot express it
	bottomUndone bool
	// index of the Action a failed undo or redo stopped at
	undoResume int
	redoResume int

	cfg    config.Config
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Facade.
type Option func(*Facade)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Facade) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(f *Facade) {
		if cfg != nil {
			f.cfg = *cfg
		}
	}
}

// WithClock sets the time source used for the %today% token.
func WithClock(now func() time.Time) Option {
	return func(f *Facade) {
		if now != nil {
			f.now = now
		}
	}
}

// New creates a Facade over ops.
func New(ops *fileops.FileOps, opts ...Option) *Facade {
	f := &Facade{
		ops:    ops,
		cfg:    *config.Default(),
		now:    time.Now,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.history = history.New[Batch](f.cfg.History.MaxEntries)
	return f
}

// StoreSrc replaces the pending selection. Every name must exist under
// sel.Parent, otherwise nothing changes.
func (f *Facade) StoreSrc(sel Selection) error {
	if !sel.Operation.Transferable() {
		return apperrors.NewInvalidArgumentError("store_src", sel.Parent, "operation must be copy or move, got "+sel.Operation.String())
	}
	items := make([]PendingItem, 0, len(sel.Names))
	for _, name := range sel.Names {
		src := filepath.Join(sel.Parent, name)
		if !f.ops.Exists(src) {
			return apperrors.NewNotFoundError("store_src", src, "source not found")
		}
		items = append(items, PendingItem{Source: src, Operation: sel.Operation})
	}
	f.pending = items
	f.logger.Debug("pending selection stored",
		zap.Int("count", len(items)), zap.Stringer("operation", sel.Operation))
	return nil
}

// Paste applies the pending selection into dst and records it as one batch.
// The pending selection is cleared whether or not every item succeeds.
func (f *Facade) Paste(dst string) (Batch, error) {
	items := f.pending
	f.pending = nil
	return f.transfer("paste", items, dst)
}

// Transfer copies or moves spec.Names from spec.SrcDir into spec.DstDir.
func (f *Facade) Transfer(spec TransferSpec) (Batch, error) {
	if !spec.Operation.Transferable() {
		return nil, apperrors.NewInvalidArgumentError("transfer", spec.SrcDir, "operation must be copy or move, got "+spec.Operation.String())
	}
	items := make([]PendingItem, 0, len(spec.Names))
	for _, name := range spec.Names {
		items = append(items, PendingItem{Source: filepath.Join(spec.SrcDir, name), Operation: spec.Operation})
	}
	return f.transfer("transfer", items, spec.DstDir)
}

func (f *Facade) transfer(op string, items []PendingItem, dst string) (Batch, error) {
	batch := Batch{}
	for _, it := range items {
		var (
			result string
			err    error
		)
		switch it.Operation {
		case OpCopy:
			result, err = f.ops.Copy(it.Source, dst)
		case OpMove:
			result, err = f.ops.Move(it.Source, dst)
		default:
			err = apperrors.NewInvalidArgumentError(op, it.Source, "cannot transfer with "+it.Operation.String())
		}
		if err != nil {
			f.logger.Warn(op+" stopped", zap.String("source", it.Source), zap.Int("applied", len(batch)), zap.Error(err))
			f.record(batch, true)
			return batch, err
		}
		batch = append(batch, Action{Source: it.Source, Operation: it.Operation, Destination: dst, Result: result})
	}
	f.logger.Debug(op, zap.String("dst", dst), zap.Int("actions", len(batch)))
	f.record(batch, false)
	return batch, nil
}

// Rename renames dir/name to newName, keeping the extension.
func (f *Facade) Rename(dir, name, newName string) (string, error) {
	src := filepath.Join(dir, name)
	if !f.ops.Exists(src) {
		return "", apperrors.NewNotFoundError("rename", src, "source not found")
	}
	result, err := f.ops.Rename(src, newName, "", "")
	if err != nil {
		return "", err
	}
	f.record(Batch{{Source: src, Operation: OpRename, Destination: newName, Result: result}}, false)
	return result, nil
}

// RenameMany renames every selected entry. The first gets newName, the i-th
// newName_i. prefix and suffix may contain %today%, %creationd% or
// %creationdt%, resolved per entry.
func (f *Facade) RenameMany(sel Selection, newName, prefix, suffix string) (Batch, error) {
	batch := Batch{}
	for i, name := range sel.Names {
		src := filepath.Join(sel.Parent, name)
		action, err := f.renameOne(src, manyStem(newName, i), prefix, suffix)
		if err != nil {
			f.logger.Warn("rename_many stopped", zap.String("source", src), zap.Int("applied", len(batch)), zap.Error(err))
			f.record(batch, true)
			return batch, err
		}
		batch = append(batch, action)
	}
	f.logger.Debug("rename_many", zap.String("parent", sel.Parent), zap.Int("actions", len(batch)))
	f.record(batch, false)
	return batch, nil
}

func (f *Facade) renameOne(src, stem, prefix, suffix string) (Action, error) {
	p, err := f.resolveTokens(prefix, src)
	if err != nil {
		return Action{}, err
	}
	s, err := f.resolveTokens(suffix, src)
	if err != nil {
		return Action{}, err
	}
	result, err := f.ops.Rename(src, stem, p, s)
	if err != nil {
		return Action{}, err
	}
	return Action{Source: src, Operation: OpRename, Destination: stem, Result: result, Prefix: p, Suffix: s}, nil
}

// Delete removes every selected entry that exists and skips the rest. It
// returns the removed paths. History is left alone; pair it with ClearCache.
func (f *Facade) Delete(sel Selection) ([]string, error) {
	var removed []string
	for _, name := range sel.Names {
		p := filepath.Join(sel.Parent, name)
		if !f.ops.Exists(p) {
			f.logger.Debug("delete skipped missing entry", zap.String("path", p))
			continue
		}
		if err := f.ops.Delete(p); err != nil {
			return removed, err
		}
		removed = append(removed, p)
	}
	return removed, nil
}

// ClearCache forgets the pending selection, the guards and the whole
// history.
func (f *Facade) ClearCache() {
	f.pending = nil
	f.resetGuards()
	f.history.Clear()
	f.logger.Debug("history cleared")
}

// Pending returns a copy of the pending selection.
func (f *Facade) Pending() []PendingItem {
	return append([]PendingItem(nil), f.pending...)
}

// History returns the recorded batches, oldest first.
func (f *Facade) History() []Batch {
	entries := f.history.Entries()
	out := make([]Batch, len(entries))
	for i, b := range entries {
		out[i] = b.Clone()
	}
	return out
}

// Cursor returns the history position, -1 when empty.
func (f *Facade) Cursor() int {
	return f.history.Cursor()
}

// CanUndo reports whether an applied batch is waiting to be undone.
func (f *Facade) CanUndo() bool {
	return f.history.Len() > 0 && !f.bottomUndone
}

// CanRedo reports whether an undone batch is waiting to be redone.
func (f *Facade) CanRedo() bool {
	if f.bottomUndone {
		return true
	}
	_, ok := f.history.Next()
	return ok
}

// record stores batch as the newest history entry. Partial batches are kept
// only when something was applied.
func (f *Facade) record(batch Batch, partial bool) {
	if len(batch) == 0 && (partial || !f.cfg.History.RecordEmptyBatches) {
		return
	}
	if f.bottomUndone {
		// everything left in history has been undone
		f.history.Clear()
	}
	f.history.Store(batch.Clone())
	f.resetGuards()
}

func (f *Facade) resetGuards() {
	f.lastUndo = nil
	f.lastRedo = nil
	f.bottomUndone = false
	f.undoResume = 0
	f.redoResume = 0
}

func manyStem(newName string, i int) string {
	if i == 0 {
		return newName
	}
	return newName + constants.NameJoiner + strconv.Itoa(i)
}
