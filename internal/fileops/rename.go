package fileops

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	apperrors "twopane/internal/errors"
)

// Rename renames src inside its own directory to
// "{prefix}_{newStem}_{suffix}{ext}", where ext is src's extension
// (directories have none) and empty prefix/suffix are left out. It returns
// the new path. A destination that already exists is reported as
// AlreadyExists; other OS errors are returned unchanged.
func (f *FileOps) Rename(src, newStem, prefix, suffix string) (string, error) {
	if newStem == "" {
		return "", apperrors.NewInvalidArgumentError("rename", src, "new name is empty")
	}
	info, err := f.lstat(src)
	if err != nil {
		return "", apperrors.NewNotFoundError("rename", src, "source not found")
	}

	ext := ""
	if !info.IsDir() {
		_, ext = SplitName(filepath.Base(src))
	}
	dst := filepath.Join(filepath.Dir(src), RenamedName(newStem, ext, prefix, suffix))
	if dst == filepath.Clean(src) {
		return dst, nil
	}
	if existing, err := f.lstat(dst); err == nil && !os.SameFile(info, existing) {
		return "", apperrors.NewAlreadyExistsError("rename", dst, "destination already exists")
	}

	f.logger.Debug("rename", zap.String("src", src), zap.String("dst", dst))
	if err := f.fs.Rename(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}
