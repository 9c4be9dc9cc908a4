package rag

import (
	"fmt"
	"strings"
	"time"
)

// Stage identifies where in the reconciliation a file failed.
type Stage string

const (
	StageRead   Stage = "read"
	StageEmbed  Stage = "embed"
	StageUpsert Stage = "upsert"
	StageDelete Stage = "delete"
)

// Failure records one file that could not be reconciled this cycle. The
// file's entries in both stores are left exactly as they were, so it is
// reclassified and retried on the next run.
type Failure struct {
	Path  string
	Stage Stage
	Err   error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Path, f.Stage, f.Err)
}

// Report summarizes one sync cycle.
type Report struct {
	Root       string
	Collection string

	New       int
	Updated   int
	Unchanged int
	Deleted   int
	Failed    int

	Failures []Failure
	Duration time.Duration
}

// Clean reports whether every file reconciled without error.
func (r *Report) Clean() bool {
	return r.Failed == 0
}

// Summary renders the cycle outcome as human-readable text.
func (r *Report) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sync complete for %s (collection %s) in %s:\n", r.Root, r.Collection, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&sb, "  new:       %d\n", r.New)
	fmt.Fprintf(&sb, "  updated:   %d\n", r.Updated)
	fmt.Fprintf(&sb, "  deleted:   %d\n", r.Deleted)
	fmt.Fprintf(&sb, "  unchanged: %d\n", r.Unchanged)
	fmt.Fprintf(&sb, "  failed:    %d\n", r.Failed)
	for _, f := range r.Failures {
		fmt.Fprintf(&sb, "    %s\n", f.Error())
	}
	return sb.String()
}
