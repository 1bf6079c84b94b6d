package explorer

import (
	"os"
	"path/filepath"
	"runtime"

	"go.uber.org/zap"

	"twopane/internal/constants"
	apperrors "twopane/internal/errors"
	"twopane/internal/fileops"
)

// DefaultDir returns the directory a new pane starts in: the configured
// override, else the user's documents directory, else the home directory.
func (f *Facade) DefaultDir() (string, error) {
	if dir := f.cfg.Explorer.DefaultDir; dir != "" {
		return dir, nil
	}
	if runtime.GOOS == "linux" {
		if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" && f.ops.IsDir(dir) {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", apperrors.NewNotFoundError("default_dir", "", "home directory unknown")
	}
	docs := filepath.Join(home, constants.DocumentsDirName)
	if f.ops.IsDir(docs) {
		return docs, nil
	}
	return home, nil
}

// Parent returns the parent of the directory path.
func (f *Facade) Parent(path string) (string, error) {
	if !f.ops.IsDir(path) {
		return "", apperrors.NewNotFoundError("get_parent", path, "not a directory")
	}
	return filepath.Dir(filepath.Clean(path)), nil
}

// Content lists path as Entries grouped by kind, each group in listing
// order. Entries that vanish while listing are left out.
func (f *Facade) Content(path string) ([]Entry, error) {
	listing, err := f.ops.List(path)
	if err != nil {
		return nil, err
	}

	files := f.entries(listing.Files, fileops.KindFile)
	dirs := f.entries(listing.Dirs, fileops.KindDirectory)
	if f.cfg.Explorer.DirectoriesFirst {
		return append(dirs, files...), nil
	}
	return append(files, dirs...), nil
}

func (f *Facade) entries(paths []string, kind fileops.Kind) []Entry {
	out := make([]Entry, 0, len(paths))
	for _, p := range paths {
		info, err := f.ops.Fs().Stat(p)
		if err != nil {
			f.logger.Debug("entry vanished", zap.String("path", p), zap.Error(err))
			continue
		}
		out = append(out, Entry{
			Name:     filepath.Base(p),
			Modified: info.ModTime().Local().Format(f.cfg.Explorer.TimestampLayout),
			Kind:     kind,
		})
	}
	return out
}

// IsValidPath reports whether path is an existing directory.
func (f *Facade) IsValidPath(path string) bool {
	return f.ops.IsDir(path)
}

// Open activates dir/name. A directory's path is returned for the caller
// to navigate into; a file is handed to the default application and the
// returned path is empty.
func (f *Facade) Open(dir, name string) (string, error) {
	p := filepath.Join(dir, name)
	kind, ok := f.ops.Kind(p)
	if !ok {
		return "", apperrors.NewNotFoundError("open", p, "path not found")
	}
	if kind == fileops.KindDirectory {
		return p, nil
	}
	return "", f.ops.OpenDefault(p)
}
