package rag

import (
	"log/slog"
	"sort"

	"talkie/internal/fingerprint"
	"talkie/internal/walker"
)

// Plan partitions the union of current and stored paths into four
// disjoint sets. It is computed once per sync cycle and discarded.
type Plan struct {
	New       []string
	Modified  []string
	Unchanged []string
	Deleted   []string
}

// Classify diffs the walked entries against the fingerprint store.
//
// Paths present on disk but not in the store are New; stored paths
// missing from disk are Deleted. For paths in both, a two-stage check
// decides: if size and modification time match the stored metadata the
// file is Unchanged without reading it; otherwise the content hash is
// computed and only a hash mismatch classifies as Modified. A metadata
// mismatch with an identical hash is a file touched but not edited, and
// stays Unchanged. The metadata comparison is a read-avoidance
// optimization only; the hash is always the authority on change.
func Classify(entries []walker.Entry, store *fingerprint.Store, log *slog.Logger) Plan {
	if log == nil {
		log = slog.Default()
	}

	current := make(map[string]walker.Entry, len(entries))
	for _, e := range entries {
		current[e.RelPath] = e
	}

	var plan Plan

	for _, e := range entries {
		stored, ok := store.Get(e.RelPath)
		if !ok {
			plan.New = append(plan.New, e.RelPath)
			continue
		}

		if stored.Metadata.Size == e.Size && stored.Metadata.Timestamp == fingerprint.Timestamp(e.ModTime) {
			plan.Unchanged = append(plan.Unchanged, e.RelPath)
			continue
		}

		hash, err := fingerprint.HashFile(e.AbsPath)
		if err != nil {
			// Unreadable now; let reconciliation surface the error as a
			// per-file failure.
			log.Debug("hash failed during classification",
				slog.String("path", e.RelPath), slog.String("error", err.Error()))
			plan.Modified = append(plan.Modified, e.RelPath)
			continue
		}

		if hash == stored.Hash {
			plan.Unchanged = append(plan.Unchanged, e.RelPath)
		} else {
			plan.Modified = append(plan.Modified, e.RelPath)
		}
	}

	for _, p := range store.Paths() {
		if _, ok := current[p]; !ok {
			plan.Deleted = append(plan.Deleted, p)
		}
	}

	sort.Strings(plan.New)
	sort.Strings(plan.Modified)
	sort.Strings(plan.Unchanged)
	sort.Strings(plan.Deleted)
	return plan
}
