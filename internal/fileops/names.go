package fileops

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"twopane/internal/constants"
)

// SplitName splits a base name into stem and extension. Dotfiles such as
// ".bashrc" have no extension.
func SplitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name || ext == "." {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// RenamedName builds "{prefix}_{stem}_{suffix}{ext}", leaving out empty parts.
func RenamedName(stem, ext, prefix, suffix string) string {
	name := stem
	if prefix != "" {
		name = prefix + constants.NameJoiner + name
	}
	if suffix != "" {
		name = name + constants.NameJoiner + suffix
	}
	return name + ext
}

// copyName builds "{stem}_copy_{n}{ext}".
func copyName(stem, ext string, n int) string {
	return stem + constants.CopyInfix + strconv.Itoa(n) + ext
}

// collisionFreeTarget picks the destination for a copy of name into dstDir.
// When dstDir/name is taken, n is the number of entries matching
// "{stem}*{ext}" and the copy becomes "{stem}_copy_{n}{ext}". If that slot is
// also taken n is advanced until a free one is found.
func (f *FileOps) collisionFreeTarget(dstDir, name string, withExt bool) (string, error) {
	candidate := filepath.Join(dstDir, name)
	if !f.Exists(candidate) {
		return candidate, nil
	}

	stem, ext := name, ""
	if withExt {
		stem, ext = SplitName(name)
	}
	n, err := f.countMatches(dstDir, stem, ext)
	if err != nil {
		return "", err
	}
	for {
		candidate = filepath.Join(dstDir, copyName(stem, ext, n))
		if !f.Exists(candidate) {
			return candidate, nil
		}
		n++
	}
}

// countMatches counts the entries of dir matching "{stem}*{ext}".
func (f *FileOps) countMatches(dir, stem, ext string) (int, error) {
	fsys := afero.NewIOFS(afero.NewBasePathFs(f.fs, dir))
	matches, err := doublestar.Glob(fsys, escapeGlob(stem)+"*"+escapeGlob(ext))
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// escapeGlob quotes the characters doublestar treats as pattern syntax.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
