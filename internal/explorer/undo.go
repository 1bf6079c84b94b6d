package explorer

import (
	"path/filepath"

	"go.uber.org/zap"

	apperrors "twopane/internal/errors"
	"twopane/internal/fileops"
)

// Undo reverses the current batch, Action by Action in stored order, then
// moves the history cursor back. A batch equal to the last undone one is not
// reversed again, but the cursor still moves past it. When an inverse fails
// the cursor stays put and the error is returned; a later Undo resumes at
// the Action that failed.
func (f *Facade) Undo() error {
	batch, ok := f.history.Current()
	switch {
	case !ok:
		f.logger.Debug("undo skipped: history empty")
		return nil
	case f.bottomUndone:
		f.logger.Debug("undo skipped: nothing left to undo")
		return nil
	case f.lastUndo != nil && batch.Equal(*f.lastUndo):
		f.logger.Debug("undo skipped: batch already undone", zap.Int("cursor", f.history.Cursor()))
		f.stepBack()
		return nil
	}

	for i := f.undoResume; i < len(batch); i++ {
		if err := f.inverse(batch[i]); err != nil {
			f.logger.Warn("undo failed", zap.Stringer("operation", batch[i].Operation),
				zap.String("result", batch[i].Result), zap.Error(err))
			f.undoResume, f.redoResume = i, 0
			return err
		}
	}

	undone := batch.Clone()
	f.lastUndo = &undone
	f.lastRedo = nil
	f.stepBack()
	f.logger.Debug("undo", zap.Int("actions", len(batch)), zap.Int("cursor", f.history.Cursor()))
	return nil
}

// Redo replays the next undone batch with its original sources and
// destinations and moves the cursor forward. A batch equal to the last
// redone one is not replayed again, but the cursor still moves past it. The
// stored results are refreshed with what the replay produced so a later undo
// reverses the real outcome. After a failure the Actions already replayed
// keep their new results and a later Redo resumes at the one that failed.
func (f *Facade) Redo() error {
	var (
		batch Batch
		ok    bool
	)
	if f.bottomUndone {
		batch, ok = f.history.Current()
	} else {
		batch, ok = f.history.Next()
	}
	switch {
	case !ok:
		f.logger.Debug("redo skipped: nothing to redo")
		return nil
	case f.lastRedo != nil && batch.Equal(*f.lastRedo):
		f.logger.Debug("redo skipped: batch already redone", zap.Int("cursor", f.history.Cursor()))
		f.stepForward()
		return nil
	}

	for i := f.redoResume; i < len(batch); i++ {
		result, err := f.forward(batch[i])
		if err != nil {
			f.logger.Warn("redo failed", zap.Stringer("operation", batch[i].Operation),
				zap.String("source", batch[i].Source), zap.Error(err))
			f.undoResume, f.redoResume = 0, i
			return err
		}
		// batch shares storage with the history entry
		batch[i].Result = result
	}

	redone := batch.Clone()
	f.lastRedo = &redone
	f.lastUndo = nil
	f.stepForward()
	f.logger.Debug("redo", zap.Int("actions", len(batch)), zap.Int("cursor", f.history.Cursor()))
	return nil
}

// stepBack moves the cursor below the batch just undone. At index 0 the
// cursor cannot move, so the undone bottom batch is flagged instead.
func (f *Facade) stepBack() {
	f.undoResume, f.redoResume = 0, 0
	if !f.history.Undo() {
		f.bottomUndone = true
	}
}

// stepForward moves the cursor onto the batch just redone.
func (f *Facade) stepForward() {
	f.undoResume, f.redoResume = 0, 0
	if f.bottomUndone {
		f.bottomUndone = false
		return
	}
	f.history.Redo()
}

// inverse reverses one applied Action.
func (f *Facade) inverse(a Action) error {
	switch a.Operation {
	case OpCopy:
		return f.ops.Delete(a.Result)
	case OpMove:
		back, err := f.ops.Move(a.Result, filepath.Dir(a.Source))
		if err != nil {
			return err
		}
		if filepath.Base(back) != filepath.Base(a.Source) {
			_, err = f.ops.Rename(back, f.originalStem(a.Source, back), "", "")
		}
		return err
	case OpRename:
		_, err := f.ops.Rename(a.Result, f.originalStem(a.Source, a.Result), "", "")
		return err
	default:
		return apperrors.NewInvalidArgumentError("undo", a.Source, "no inverse for operation "+a.Operation.String())
	}
}

// forward re-applies one Action and returns its new result path.
func (f *Facade) forward(a Action) (string, error) {
	switch a.Operation {
	case OpCopy:
		return f.ops.Copy(a.Source, a.Destination)
	case OpMove:
		return f.ops.Move(a.Source, a.Destination)
	case OpRename:
		return f.ops.Rename(a.Source, a.Destination, a.Prefix, a.Suffix)
	default:
		return "", apperrors.NewInvalidArgumentError("redo", a.Source, "cannot replay operation "+a.Operation.String())
	}
}

// originalStem is the stem that gives source's base name back once the
// extension of current is appended. Directories have no extension.
func (f *Facade) originalStem(source, current string) string {
	base := filepath.Base(source)
	if f.ops.IsDir(current) {
		return base
	}
	stem, _ := fileops.SplitName(base)
	return stem
}
