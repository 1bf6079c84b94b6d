// Package fileops implements the collision-safe filesystem primitives the
// explorer builds its commands from. Every probe re-reads the filesystem;
// nothing about existence or kind is cached between calls.
package fileops

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	apperrors "twopane/internal/errors"
	"twopane/internal/logging"
)

// Kind classifies a filesystem entity.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindDirectory:
		return "Directory"
	default:
		return "Unknown"
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindFile || k == KindDirectory
}

// Listing holds the direct children of a directory split by kind.
type Listing struct {
	Files []string
	Dirs  []string
}

// Opener launches the platform default application for a path.
type Opener func(path string) error

// FileOps performs primitive operations over an afero filesystem.
type FileOps struct {
	fs     afero.Fs
	open   Opener
	logger *zap.Logger
}

// Option configures a FileOps.
type Option func(*FileOps)

// WithLogger sets the logger used for primitive-level debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(f *FileOps) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithOpener replaces the default-application launcher.
func WithOpener(open Opener) Option {
	return func(f *FileOps) {
		if open != nil {
			f.open = open
		}
	}
}

// New creates a FileOps over fs.
func New(fs afero.Fs, opts ...Option) *FileOps {
	f := &FileOps{
		fs:     fs,
		open:   OpenWithDefaultApp,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewOS creates a FileOps over the host filesystem.
func NewOS(opts ...Option) *FileOps {
	return New(afero.NewOsFs(), opts...)
}

// Fs returns the underlying filesystem.
func (f *FileOps) Fs() afero.Fs {
	return f.fs
}

// Kind reports the kind of path, following symlinks. ok is false when the
// path does not exist or is neither a regular file nor a directory.
func (f *FileOps) Kind(path string) (kind Kind, ok bool) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return 0, false
	}
	switch {
	case info.IsDir():
		return KindDirectory, true
	case info.Mode().IsRegular():
		return KindFile, true
	default:
		return 0, false
	}
}

// IsDir reports whether path is an existing directory.
func (f *FileOps) IsDir(path string) bool {
	k, ok := f.Kind(path)
	return ok && k == KindDirectory
}

// IsFile reports whether path is an existing regular file.
func (f *FileOps) IsFile(path string) bool {
	k, ok := f.Kind(path)
	return ok && k == KindFile
}

// Exists reports whether anything, including a dangling symlink, is at path.
func (f *FileOps) Exists(path string) bool {
	_, err := f.lstat(path)
	return err == nil
}

// List enumerates the direct children of path. Symlinks are classified by
// their target and dangling entries are skipped.
func (f *FileOps) List(path string) (Listing, error) {
	if !f.IsDir(path) {
		return Listing{}, apperrors.NewNotFoundError("list", path, "not a directory")
	}
	infos, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return Listing{}, err
	}

	var out Listing
	for _, info := range infos {
		full := filepath.Join(path, info.Name())
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := f.fs.Stat(full)
			if err != nil {
				f.logger.Debug("skip dangling entry", zap.String("path", full))
				continue
			}
			info = target
		}
		switch {
		case info.IsDir():
			out.Dirs = append(out.Dirs, full)
		case info.Mode().IsRegular():
			out.Files = append(out.Files, full)
		}
	}
	return out, nil
}

// Validate checks that src is of the given kind and dst is a directory, and
// returns both as clean absolute paths.
func (f *FileOps) Validate(src, dst string, kind Kind) (string, string, error) {
	if !kind.Valid() {
		return "", "", apperrors.NewInvalidArgumentError("validate", src, "unknown kind "+kind.String())
	}
	if k, ok := f.Kind(src); !ok || k != kind {
		return "", "", apperrors.NewNotFoundError("validate", src, kind.String()+" not found")
	}
	if !f.IsDir(dst) {
		return "", "", apperrors.NewNotFoundError("validate", dst, "destination directory not found")
	}
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return "", "", err
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return "", "", err
	}
	return absSrc, absDst, nil
}

// OpenDefault launches the default application for a regular file. Anything
// else is ignored.
func (f *FileOps) OpenDefault(src string) error {
	if !f.IsFile(src) {
		return nil
	}
	f.logger.Debug("open default", zap.String("path", src))
	return f.open(src)
}

func (f *FileOps) lstat(path string) (os.FileInfo, error) {
	if l, ok := f.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(path)
		return info, err
	}
	return f.fs.Stat(path)
}
