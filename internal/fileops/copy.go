package fileops

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	apperrors "twopane/internal/errors"
)

const copyBufferSize = 1 << 20 // 1 MiB

// CopyFile copies the regular file src into dstDir, choosing a collision-free
// name, and returns the new path. Permission bits and modification time are
// preserved.
func (f *FileOps) CopyFile(src, dstDir string) (string, error) {
	src, dstDir, err := f.Validate(src, dstDir, KindFile)
	if err != nil {
		return "", err
	}
	dst, err := f.collisionFreeTarget(dstDir, filepath.Base(src), true)
	if err != nil {
		return "", err
	}
	f.logger.Debug("copy file", zap.String("src", src), zap.String("dst", dst))
	if err := f.copyFileContents(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// CopyDir recursively copies the directory src into dstDir, choosing a
// collision-free name for the top directory, and returns the new path.
func (f *FileOps) CopyDir(src, dstDir string) (string, error) {
	src, dstDir, err := f.Validate(src, dstDir, KindDirectory)
	if err != nil {
		return "", err
	}
	if dstDir == src || strings.HasPrefix(dstDir, src+string(filepath.Separator)) {
		return "", apperrors.NewInvalidArgumentError("copy_dir", src, "cannot copy a directory into itself")
	}
	dst, err := f.collisionFreeTarget(dstDir, filepath.Base(src), false)
	if err != nil {
		return "", err
	}
	f.logger.Debug("copy dir", zap.String("src", src), zap.String("dst", dst))
	if err := f.copyTree(src, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Copy dispatches to CopyFile or CopyDir by the kind of src.
func (f *FileOps) Copy(src, dst string) (string, error) {
	kind, ok := f.Kind(src)
	if !ok {
		return "", apperrors.NewNotFoundError("copy", src, "source not found")
	}
	if kind == KindDirectory {
		return f.CopyDir(src, dst)
	}
	return f.CopyFile(src, dst)
}

// Move copies src into dst and then deletes src. It is not atomic: when the
// delete fails the copy is left in place and its path is returned with the
// error.
func (f *FileOps) Move(src, dst string) (string, error) {
	result, err := f.Copy(src, dst)
	if err != nil {
		return "", err
	}
	if err := f.Delete(src); err != nil {
		return result, err
	}
	f.logger.Debug("moved", zap.String("src", src), zap.String("dst", result))
	return result, nil
}

// copyTree creates dst and copies the children of src into it. dst must not
// exist yet.
func (f *FileOps) copyTree(src, dst string) error {
	info, err := f.fs.Stat(src)
	if err != nil {
		return err
	}
	if err := f.fs.Mkdir(dst, info.Mode().Perm()|0700); err != nil {
		return apperrors.NewFileSystemError("copy_dir", dst, "cannot create directory", err)
	}

	entries, err := afero.ReadDir(f.fs, src)
	if err != nil {
		return apperrors.NewFileSystemError("copy_dir", src, "cannot read directory", err)
	}
	for _, e := range entries {
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dst, e.Name())
		switch {
		case e.Mode()&os.ModeSymlink != 0:
			err = f.copySymlink(from, to)
		case e.IsDir():
			err = f.copyTree(from, to)
		default:
			err = f.copyFileContents(from, to)
		}
		if err != nil {
			return err
		}
	}

	// restore the mode and mtime once the children are written
	_ = f.fs.Chmod(dst, info.Mode().Perm())
	_ = f.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// copySymlink recreates the link at dst when the filesystem supports links,
// otherwise it copies what the link points to.
func (f *FileOps) copySymlink(src, dst string) error {
	reader, canRead := f.fs.(afero.LinkReader)
	linker, canLink := f.fs.(afero.Linker)
	if canRead && canLink {
		target, err := reader.ReadlinkIfPossible(src)
		if err != nil {
			return apperrors.NewFileSystemError("copy_symlink", src, "cannot read link", err)
		}
		f.logger.Debug("symlink", zap.String("dst", dst), zap.String("target", target))
		if err := linker.SymlinkIfPossible(target, dst); err != nil {
			return apperrors.NewFileSystemError("copy_symlink", dst, "cannot create link", err)
		}
		return nil
	}

	info, err := f.fs.Stat(src)
	if err != nil {
		f.logger.Debug("skip dangling link", zap.String("path", src))
		return nil
	}
	if info.IsDir() {
		return f.copyTree(src, dst)
	}
	return f.copyFileContents(src, dst)
}

// copyFileContents writes src to a newly created dst. An existing dst is
// never replaced.
func (f *FileOps) copyFileContents(src, dst string) error {
	info, err := f.fs.Stat(src)
	if err != nil {
		return err
	}
	in, err := f.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := f.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()|0200)
	if err != nil {
		if os.IsExist(err) {
			return apperrors.NewAlreadyExistsError("copy_file", dst, "destination already exists")
		}
		return apperrors.NewFileSystemError("copy_file", dst, "cannot create file", err)
	}

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(out, in, buf); err != nil {
		out.Close()
		_ = f.fs.Remove(dst)
		return apperrors.NewFileSystemError("copy_file", src, "copy failed", err)
	}
	if err := out.Close(); err != nil {
		_ = f.fs.Remove(dst)
		return apperrors.NewFileSystemError("copy_file", dst, "close failed", err)
	}

	if err := f.fs.Chmod(dst, info.Mode().Perm()); err != nil {
		return apperrors.NewFileSystemError("copy_file", dst, "cannot set mode", err)
	}
	// best-effort to keep the modification time
	_ = f.fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}
