package fileops

import (
	"time"

	apperrors "twopane/internal/errors"
)

// CreationTime returns when src was created. Platforms that do not record a
// birth time fall back to the inode change time, then to the modification
// time.
func (f *FileOps) CreationTime(src string) (time.Time, error) {
	info, err := f.fs.Stat(src)
	if err != nil {
		return time.Time{}, apperrors.NewNotFoundError("creation_time", src, "path not found")
	}
	if t, ok := birthTime(src, info); ok {
		return t, nil
	}
	return info.ModTime(), nil
}
