package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrRootNotFound is returned when the walk root does not exist.
var ErrRootNotFound = errors.New("root directory not found")

// Entry describes one eligible file found under the root. RelPath is
// slash-normalized so the same logical file maps to the same id on
// every platform.
type Entry struct {
	RelPath string
	AbsPath string
	Size    int64
	ModTime time.Time
}

// Options controls a walk.
type Options struct {
	// IgnoreFile is the name of the gitignore-style file looked up in
	// the root (e.g. ".talkieignore"). Empty disables ignore rules.
	IgnoreFile string

	// ExcludeFiles are root-relative file names that are never yielded,
	// such as the fingerprint store and its lock file.
	ExcludeFiles []string

	Logger *slog.Logger
}

// Walk traverses the tree rooted at root and returns every regular file
// not excluded by the ignore rules. The result is recomputed from the
// filesystem on each call; ordering is not significant and callers
// treat the result as a set.
func Walk(root string, opts Options) ([]Entry, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return nil, fmt.Errorf("walker: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %s is not a directory", root)
	}

	var filter Filter
	if opts.IgnoreFile != "" {
		filter = LoadFilter(filepath.Join(absRoot, opts.IgnoreFile), log)
	}

	excluded := make(map[string]bool, len(opts.ExcludeFiles))
	for _, name := range opts.ExcludeFiles {
		excluded[name] = true
	}

	var entries []Entry

	err = filepath.WalkDir(absRoot, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			log.Debug("skipping unreadable entry", slog.String("path", p))
			return nil
		}

		relPath, err := filepath.Rel(absRoot, p)
		if err != nil {
			return nil
		}
		rel := filepath.ToSlash(relPath)

		if d.IsDir() {
			if p == absRoot {
				return nil
			}
			for _, name := range alwaysExcludedDirs {
				if d.Name() == name {
					return filepath.SkipDir
				}
			}
			if filter.Match(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if excluded[rel] {
			return nil
		}
		if filter.MatchFile(rel) {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}

		entries = append(entries, Entry{
			RelPath: rel,
			AbsPath: p,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	return entries, nil
}
