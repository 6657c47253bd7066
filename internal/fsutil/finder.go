// Package fsutil resolves a toolchain description directory into the
// individual files a loader adapter should decode.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindFilesByExtension walks rootPath recursively and returns the full path
// of every regular file whose name ends in extension. filepath.WalkDir
// visits a directory's entries in lexical order, so the result is stable
// across calls on an unchanged tree — callers that fold multiple files into
// one record rely on that for deterministic ordering.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("fsutil: extension must not be empty")
	}

	var matches []string
	err := filepath.WalkDir(rootPath, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.HasSuffix(entry.Name(), extension) {
			matches = append(matches, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return matches, nil
}
