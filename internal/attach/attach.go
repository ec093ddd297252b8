// Package attach expands the file arguments of "attach" commands.
package attach

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves each pattern to regular files. Plain paths must exist;
// glob patterns (including "**") must match at least one file. Directories
// are skipped and duplicates are dropped, keeping first-seen order.
func Expand(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(p string) {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if !seen[abs] {
			seen[abs] = true
			files = append(files, p)
		}
	}

	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			info, err := os.Stat(pattern)
			if err != nil {
				return nil, fmt.Errorf("attachment %s: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("attachment %s is a directory", pattern)
			}
			add(pattern)
			continue
		}

		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func hasMeta(p string) bool {
	for _, r := range p {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
