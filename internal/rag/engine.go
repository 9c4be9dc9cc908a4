// Package rag maintains a semantic index of a directory's files and
// answers nearest-neighbor queries against it. One sync cycle walks the
// tree, classifies each file as new, modified, unchanged, or deleted,
// and reconciles the vector index and the fingerprint store to match.
package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"talkie/internal/embeddings"
	"talkie/internal/fingerprint"
	"talkie/internal/vectordb"
	"talkie/internal/walker"
)

// ProgressFunc is called as reconciliation advances.
type ProgressFunc func(done, total int, path string)

// Options tunes an Engine. Zero values fall back to defaults.
type Options struct {
	IgnoreFile      string // gitignore-style file name in the root
	FingerprintFile string // fingerprint store file name in the root
	VectorDir       string // vector database directory name in the root
	MaxFileSize     int64  // files above this are per-file errors
	PersistEvery    int    // fingerprint save interval during reconcile
	Logger          *slog.Logger
	Progress        ProgressFunc
}

const (
	defaultIgnoreFile   = ".talkieignore"
	defaultVectorDir    = ".chromadb"
	defaultMaxFileSize  = 1 << 20
	defaultPersistEvery = 25
)

func (o Options) withDefaults() Options {
	if o.IgnoreFile == "" {
		o.IgnoreFile = defaultIgnoreFile
	}
	if o.FingerprintFile == "" {
		o.FingerprintFile = fingerprint.DefaultFileName
	}
	if o.VectorDir == "" {
		o.VectorDir = defaultVectorDir
	}
	if o.MaxFileSize == 0 {
		o.MaxFileSize = defaultMaxFileSize
	}
	if o.PersistEvery == 0 {
		o.PersistEvery = defaultPersistEvery
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Engine owns the sync and query flows for indexed roots. The embedder
// and index opener are injected so tests can substitute doubles.
type Engine struct {
	embedder embeddings.Embedder
	open     vectordb.Opener
	opts     Options
	log      *slog.Logger

	mu      sync.Mutex
	suspect map[string][]string // root -> fingerprinted paths missing from the index
}

// NewEngine builds an Engine around an embedder and an index opener.
func NewEngine(embedder embeddings.Embedder, open vectordb.Opener, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		embedder: embedder,
		open:     open,
		opts:     opts,
		log:      opts.Logger,
		suspect:  make(map[string][]string),
	}
}

// Result is one query hit, nearest-first.
type Result struct {
	Path       string
	Content    string
	Similarity float32
}

// FileInfo describes one indexed file as recorded in the fingerprint store.
type FileInfo struct {
	Path    string
	Size    int64
	ModTime float64
	Hash    string
}

// Sync reconciles the vector index and fingerprint store for root with
// the current filesystem state. Running it twice with no filesystem
// change in between performs no embedding or index calls on the second
// run. Per-file failures are collected in the report and never abort
// the cycle.
func (e *Engine) Sync(ctx context.Context, root string) (*Report, error) {
	return e.run(ctx, root, false)
}

// Reindex rebuilds root's index from scratch: the collection and the
// fingerprints are cleared, then every eligible file is re-embedded.
func (e *Engine) Reindex(ctx context.Context, root string) (*Report, error) {
	return e.run(ctx, root, true)
}

func (e *Engine) run(ctx context.Context, root string, fromScratch bool) (*Report, error) {
	start := time.Now()

	absRoot, err := e.resolveRoot(root)
	if err != nil {
		return nil, err
	}

	store, err := fingerprint.Load(absRoot, e.opts.FingerprintFile)
	if err != nil {
		return nil, err
	}
	if err := store.Lock(); err != nil {
		return nil, err
	}
	defer store.Unlock()

	collection := store.CollectionName()
	if collection == "" {
		collection = DeriveCollectionName(absRoot)
		store.SetCollectionName(collection)
	}

	idx, err := e.open(filepath.Join(absRoot, e.opts.VectorDir), collection)
	if err != nil {
		return nil, fmt.Errorf("open vector index: %w", err)
	}

	if fromScratch {
		if err := idx.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear vector index: %w", err)
		}
		store.Clear()
	}

	report := &Report{Root: absRoot, Collection: collection}

	// Scanning.
	entries, err := walker.Walk(absRoot, walker.Options{
		IgnoreFile:   e.opts.IgnoreFile,
		ExcludeFiles: []string{store.FileName(), store.LockFileName()},
		Logger:       e.log,
	})
	if err != nil {
		return nil, err
	}

	// Classifying.
	plan := Classify(entries, store, e.log)
	plan = e.requeueSuspects(absRoot, plan)

	byPath := make(map[string]walker.Entry, len(entries))
	for _, entry := range entries {
		byPath[entry.RelPath] = entry
	}

	// Reconciling. The fingerprint for a path is written only after the
	// corresponding index write is confirmed, so an interruption can
	// leave the index ahead of the fingerprints for at most the
	// in-flight path, never the reverse.
	total := len(plan.New) + len(plan.Modified) + len(plan.Deleted)
	done := 0
	sinceSave := 0

	advance := func(path string) {
		done++
		sinceSave++
		if e.opts.Progress != nil {
			e.opts.Progress(done, total, path)
		}
		if sinceSave >= e.opts.PersistEvery {
			sinceSave = 0
			if err := store.Save(); err != nil {
				e.log.Warn("incremental fingerprint save failed",
					slog.String("error", err.Error()))
			}
		}
	}

	for _, group := range []struct {
		paths []string
		isNew bool
	}{
		{plan.New, true},
		{plan.Modified, false},
	} {
		for _, path := range group.paths {
			if ctx.Err() != nil {
				return e.finish(store, report, start, ctx.Err())
			}
			if fail := e.reconcileFile(ctx, idx, store, byPath[path]); fail != nil {
				report.Failed++
				report.Failures = append(report.Failures, *fail)
				e.log.Warn("file skipped this cycle",
					slog.String("path", fail.Path),
					slog.String("stage", string(fail.Stage)),
					slog.String("error", fail.Err.Error()))
			} else if group.isNew {
				report.New++
			} else {
				report.Updated++
			}
			advance(path)
		}
	}

	for _, path := range plan.Deleted {
		if ctx.Err() != nil {
			return e.finish(store, report, start, ctx.Err())
		}
		if err := idx.Delete(ctx, path); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{Path: path, Stage: StageDelete, Err: err})
			advance(path)
			continue
		}
		store.Remove(path)
		report.Deleted++
		advance(path)
	}

	// Unchanged files keep their hash; refresh the cheap metadata so a
	// touched-but-not-edited file is not re-hashed every cycle.
	for _, path := range plan.Unchanged {
		entry := byPath[path]
		if fp, ok := store.Get(path); ok {
			fp.Metadata = fingerprint.Metadata{
				Timestamp: fingerprint.Timestamp(entry.ModTime),
				Size:      entry.Size,
			}
			store.Put(path, fp)
		}
		report.Unchanged++
	}

	// Persisting.
	return e.finish(store, report, start, nil)
}

// reconcileFile runs read -> embed -> upsert for one path and records
// its fingerprint only after the index write is confirmed. On failure
// neither store is touched for this path.
func (e *Engine) reconcileFile(ctx context.Context, idx vectordb.Index, store *fingerprint.Store, entry walker.Entry) *Failure {
	content, err := readContent(entry.AbsPath, e.opts.MaxFileSize)
	if err != nil {
		return &Failure{Path: entry.RelPath, Stage: StageRead, Err: err}
	}

	vector, err := embeddings.EmbedOne(ctx, e.embedder, content)
	if err != nil {
		return &Failure{Path: entry.RelPath, Stage: StageEmbed, Err: err}
	}

	modTime := fingerprint.Timestamp(entry.ModTime)
	err = idx.Upsert(ctx, vectordb.Document{
		ID:        entry.RelPath,
		Content:   content,
		Embedding: vector,
		Metadata: vectordb.Metadata{
			RelPath: entry.RelPath,
			ModTime: modTime,
		},
	})
	if err != nil {
		return &Failure{Path: entry.RelPath, Stage: StageUpsert, Err: err}
	}

	store.Put(entry.RelPath, fingerprint.Fingerprint{
		Metadata: fingerprint.Metadata{
			Timestamp: modTime,
			Size:      int64(len(content)),
		},
		Hash: fingerprint.HashBytes([]byte(content)),
	})
	return nil
}

// markSuspect flags fingerprinted paths found missing from the index.
// The next sync cycle for root re-embeds them.
func (e *Engine) markSuspect(root string, paths []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.suspect[root] = append(e.suspect[root], paths...)
}

func (e *Engine) takeSuspects(root string) map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	paths := e.suspect[root]
	if len(paths) == 0 {
		return nil
	}
	delete(e.suspect, root)
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

// requeueSuspects moves unchanged paths flagged by an earlier drift
// check back into New, repairing the missing index entry by
// re-embedding. A clean run touches neither the embedder nor the index
// for its unchanged set.
func (e *Engine) requeueSuspects(root string, plan Plan) Plan {
	suspects := e.takeSuspects(root)
	if len(suspects) == 0 {
		return plan
	}
	kept := plan.Unchanged[:0]
	for _, path := range plan.Unchanged {
		if !suspects[path] {
			kept = append(kept, path)
			continue
		}
		e.log.Warn("fingerprint present but index entry missing, re-embedding",
			slog.String("path", path))
		plan.New = append(plan.New, path)
	}
	plan.Unchanged = kept
	sort.Strings(plan.New)
	return plan
}

// checkDrift probes every fingerprinted path for a matching index entry
// and flags the missing ones for the next sync. A failed lookup says
// nothing about the entry and is skipped, so a flaky index never
// triggers a mass re-embed.
func (e *Engine) checkDrift(ctx context.Context, root string, idx vectordb.Index, store *fingerprint.Store) {
	var missing []string
	for _, path := range store.Paths() {
		_, ok, err := idx.Get(ctx, path)
		if err != nil {
			e.log.Warn("index lookup failed during drift check",
				slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		if !ok {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		e.log.Warn("index is missing fingerprinted files, re-embedding on next sync",
			slog.Int("count", len(missing)))
		e.markSuspect(root, missing)
	}
}

func (e *Engine) finish(store *fingerprint.Store, report *Report, start time.Time, cause error) (*Report, error) {
	store.MarkChecked(time.Now())
	if err := store.Save(); err != nil {
		report.Duration = time.Since(start)
		if cause != nil {
			return report, cause
		}
		return report, err
	}
	report.Duration = time.Since(start)
	return report, cause
}

// Query embeds text and returns the k nearest indexed files for root,
// best match first. An empty or missing index yields an empty result.
// The call is read-only: neither store is modified.
func (e *Engine) Query(ctx context.Context, root, text string, k int) ([]Result, error) {
	absRoot, err := e.resolveRoot(root)
	if err != nil {
		return nil, err
	}

	store, err := fingerprint.Load(absRoot, e.opts.FingerprintFile)
	if err != nil {
		return nil, err
	}
	collection := store.CollectionName()
	if collection == "" {
		collection = DeriveCollectionName(absRoot)
	}

	idx, err := e.open(filepath.Join(absRoot, e.opts.VectorDir), collection)
	if err != nil {
		return nil, fmt.Errorf("open vector index: %w", err)
	}

	// A collection smaller than the fingerprint set means index entries
	// are missing; flag them so the next sync repairs the drift. The
	// query itself stays read-only.
	count := idx.Count()
	if count < store.Len() {
		e.checkDrift(ctx, absRoot, idx, store)
	}
	if count == 0 {
		return nil, nil
	}

	vector, err := embeddings.EmbedOne(ctx, e.embedder, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := idx.Query(ctx, vector, k, nil)
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(hits))
	for i, h := range hits {
		results[i] = Result{
			Path:       h.Document.ID,
			Content:    h.Document.Content,
			Similarity: h.Similarity,
		}
	}
	return results, nil
}

// List returns the files currently tracked for root, sorted by path.
func (e *Engine) List(root string) ([]FileInfo, error) {
	absRoot, err := e.resolveRoot(root)
	if err != nil {
		return nil, err
	}

	store, err := fingerprint.Load(absRoot, e.opts.FingerprintFile)
	if err != nil {
		return nil, err
	}

	infos := make([]FileInfo, 0, store.Len())
	for _, path := range store.Paths() {
		fp, _ := store.Get(path)
		infos = append(infos, FileInfo{
			Path:    path,
			Size:    fp.Metadata.Size,
			ModTime: fp.Metadata.Timestamp,
			Hash:    fp.Hash,
		})
	}
	return infos, nil
}

// resolveRoot validates the root before any state is created or
// mutated: a missing or non-directory root is a fatal error.
func (e *Engine) resolveRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", walker.ErrRootNotFound, root)
		}
		return "", fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", root)
	}
	return absRoot, nil
}
