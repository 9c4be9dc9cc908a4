package walker

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// alwaysExcludedDirs are directories never considered for indexing,
// regardless of ignore rules.
var alwaysExcludedDirs = []string{
	".git",
	".chromadb",
}

// pattern is a single parsed ignore rule.
type pattern struct {
	glob     string
	dirOnly  bool // trailing "/" in the source line
	anchored bool // contains a "/" once the trailing one is stripped
}

// Filter evaluates gitignore-style rules against relative paths.
// The zero value matches nothing (index everything).
type Filter struct {
	patterns []pattern
}

// LoadFilter reads an ignore file and parses its rules. A missing file
// yields an empty filter. A file that cannot be read degrades to an
// empty filter with a warning rather than failing the walk.
func LoadFilter(ignorePath string, log *slog.Logger) Filter {
	data, err := os.ReadFile(ignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("ignore file unreadable, indexing everything",
				slog.String("path", ignorePath), slog.String("error", err.Error()))
		}
		return Filter{}
	}
	return parseFilter(string(data))
}

func parseFilter(content string) Filter {
	var f Filter
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		dirOnly := strings.HasSuffix(line, "/")
		line = strings.TrimSuffix(line, "/")
		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}
		f.patterns = append(f.patterns, pattern{
			glob:     filepath.ToSlash(line),
			dirOnly:  dirOnly,
			anchored: strings.Contains(line, "/"),
		})
	}
	return f
}

// Match reports whether the slash-normalized relative path is excluded.
func (f Filter) Match(relPath string, isDir bool) bool {
	for _, p := range f.patterns {
		if p.dirOnly && !isDir {
			continue
		}
		if p.matches(relPath) {
			return true
		}
	}
	return false
}

// MatchFile reports whether a file path, or any of its parent
// directories, is excluded. Directory-only patterns exclude everything
// beneath the matching directory.
func (f Filter) MatchFile(relPath string) bool {
	if f.Match(relPath, false) {
		return true
	}
	dir := path.Dir(relPath)
	for dir != "." && dir != "/" {
		if f.Match(dir, true) {
			return true
		}
		dir = path.Dir(dir)
	}
	return false
}

func (p pattern) matches(relPath string) bool {
	if p.anchored {
		ok, err := doublestar.Match(p.glob, relPath)
		return err == nil && ok
	}
	// Unanchored patterns match any single path component.
	for _, part := range strings.Split(relPath, "/") {
		if ok, err := doublestar.Match(p.glob, part); err == nil && ok {
			return true
		}
	}
	return false
}
