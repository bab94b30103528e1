// Package loader defines the byte-range source resolver `include()`
// consumes, plus a filesystem-backed implementation rooted at a single
// directory (NASL scripts and their includes conventionally live flat
// inside a feed directory).
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// Loader resolves an include key (conventionally a filename) to source
// bytes.
type Loader interface {
	Load(key string) ([]byte, error)
}

// Filesystem loads include keys as files relative to Root. It refuses to
// resolve outside Root, since an include key comes from script text and
// must not be allowed to escape the feed directory.
type Filesystem struct {
	Root string
}

// NewFilesystem returns a Loader rooted at root.
func NewFilesystem(root string) *Filesystem {
	return &Filesystem{Root: root}
}

func (f *Filesystem) Load(key string) ([]byte, error) {
	cleanRoot, err := filepath.Abs(f.Root)
	if err != nil {
		return nil, err
	}
	full, err := filepath.Abs(filepath.Join(f.Root, key))
	if err != nil {
		return nil, err
	}
	if full != cleanRoot && !isWithin(cleanRoot, full) {
		return nil, fmt.Errorf("loader: %q escapes root %q", key, f.Root)
	}
	return os.ReadFile(full)
}

func isWithin(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !hasDotDotPrefix(rel)
}

func hasDotDotPrefix(rel string) bool {
	return len(rel) >= 2 && rel[0] == '.' && rel[1] == '.' &&
		(len(rel) == 2 || rel[2] == os.PathSeparator)
}

// NoOp always fails to resolve, for contexts (interpreter tests, `nasl run`
// without an include root) that never expect an include to actually run.
type NoOp struct{}

func (NoOp) Load(key string) ([]byte, error) {
	return nil, fmt.Errorf("loader: include(%q) is unsupported in this context", key)
}
