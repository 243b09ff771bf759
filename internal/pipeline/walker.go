// Package pipeline runs the chunking engine over stylesheet trees and
// feeds the results to downstream storage.
package pipeline

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker traverses directories respecting include/exclude patterns.
type Walker struct {
	includes []string
	excludes []string
}

// NewWalker creates a walker with the given patterns. With no includes it
// defaults to stylesheet extensions.
func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{
			"**/*.xsl",
			"**/*.xslt",
		}
	}

	defaultExcludes := []string{
		"**/.git/**",
		"**/node_modules/**",
		"**/target/**",
		"**/dist/**",
		"**/build/**",
		"**/.idea/**",
		"**/.vscode/**",
	}
	excludes = append(defaultExcludes, excludes...)

	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Walk calls fn for every file under root that matches the include patterns
// and none of the exclude patterns.
func (w *Walker) Walk(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if w.excludesDir(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if matchAny(w.excludes, relPath) {
			return nil
		}
		if matchAny(w.includes, relPath) {
			return fn(path)
		}
		return nil
	})
}

func (w *Walker) excludesDir(relPath string) bool {
	// "**/.git/**" should match the ".git" directory itself, so try both
	// the bare path and the path as a prefix.
	return matchAny(w.excludes, relPath) || matchAny(w.excludes, relPath+"/")
}

func matchAny(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
