package fileops

import (
	"os"

	"go.uber.org/zap"

	apperrors "twopane/internal/errors"
)

// Delete removes a file, a symlink (the link itself) or a whole directory
// tree.
func (f *FileOps) Delete(src string) error {
	info, err := f.lstat(src)
	if err != nil {
		return apperrors.NewNotFoundError("delete", src, "path not found")
	}

	f.logger.Debug("delete", zap.String("path", src), zap.Bool("dir", info.IsDir()))
	if info.IsDir() && info.Mode()&os.ModeSymlink == 0 {
		return f.fs.RemoveAll(src)
	}
	return f.fs.Remove(src)
}
