// Package fingerprint persists the last-known content fingerprint of
// every indexed file, keyed by root-relative path. The on-disk format
// is a single JSON file per indexed root.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
)

// DefaultFileName is the fingerprint file created in each indexed root.
const DefaultFileName = ".file_hashes.json"

// Metadata is the cheap portion of a fingerprint, used to avoid
// re-hashing files whose size and modification time are unchanged.
type Metadata struct {
	Timestamp float64 `json:"timestamp"`
	Size      int64   `json:"size"`
}

// Fingerprint pairs a content hash with the file metadata observed when
// the hash was computed.
type Fingerprint struct {
	Metadata Metadata `json:"metadata"`
	Hash     string   `json:"hash"`
}

// Store is the in-memory aggregate for one indexed root. Mutations via
// Put/Remove/Clear touch memory only; Save persists explicitly.
type Store struct {
	path string
	flk  *flock.Flock

	files          map[string]Fingerprint
	collectionName string
	lastCheck      *float64
}

// storeJSON is the persisted shape of a Store.
type storeJSON struct {
	Files          map[string]Fingerprint `json:"files"`
	CollectionName string                 `json:"collection_name"`
	LastCheck      *float64               `json:"last_check"`
}

// Load reads the fingerprint file named fileName inside root. An absent
// file yields an empty store; this is not an error.
func Load(root, fileName string) (*Store, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	path := filepath.Join(root, fileName)

	s := &Store{
		path:  path,
		flk:   flock.New(path + ".lock"),
		files: make(map[string]Fingerprint),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("fingerprint: read %s: %w", path, err)
	}

	var raw storeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("fingerprint: parse %s: %w", path, err)
	}
	if raw.Files != nil {
		s.files = raw.Files
	}
	s.collectionName = raw.CollectionName
	s.lastCheck = raw.LastCheck
	return s, nil
}

// Save persists the store with write-replace semantics: the content is
// written to a temporary file in the same directory and atomically
// renamed over the target, so a failure never leaves a corrupt file.
func (s *Store) Save() error {
	raw := storeJSON{
		Files:          s.files,
		CollectionName: s.collectionName,
		LastCheck:      s.lastCheck,
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("fingerprint: marshal: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("fingerprint: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("fingerprint: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("fingerprint: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("fingerprint: replace %s: %w", s.path, err)
	}
	return nil
}

// Lock acquires an exclusive advisory lock scoped to this store's file.
// Concurrent sync cycles against the same root must serialize on it.
func (s *Store) Lock() error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("fingerprint: lock %s: %w", s.flk.Path(), err)
	}
	return nil
}

// Unlock releases the advisory lock. Safe to call on every exit path.
func (s *Store) Unlock() {
	_ = s.flk.Unlock()
}

// Get returns the fingerprint for a relative path, if present.
func (s *Store) Get(relPath string) (Fingerprint, bool) {
	fp, ok := s.files[relPath]
	return fp, ok
}

// Put records a fingerprint for a relative path in memory.
func (s *Store) Put(relPath string, fp Fingerprint) {
	s.files[relPath] = fp
}

// Remove drops a relative path from the in-memory aggregate.
func (s *Store) Remove(relPath string) {
	delete(s.files, relPath)
}

// Clear drops every fingerprint, used when re-indexing from scratch.
func (s *Store) Clear() {
	s.files = make(map[string]Fingerprint)
}

// Len returns the number of tracked files.
func (s *Store) Len() int {
	return len(s.files)
}

// Paths returns the tracked relative paths, sorted for stable output.
func (s *Store) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// CollectionName returns the vector-index collection bound to this root.
func (s *Store) CollectionName() string {
	return s.collectionName
}

// SetCollectionName binds the vector-index collection for this root.
func (s *Store) SetCollectionName(name string) {
	s.collectionName = name
}

// MarkChecked records the completion time of a sync cycle.
func (s *Store) MarkChecked(t time.Time) {
	ts := Timestamp(t)
	s.lastCheck = &ts
}

// LastCheck returns the completion time of the previous sync cycle, or
// nil if no cycle has completed.
func (s *Store) LastCheck() *float64 {
	return s.lastCheck
}

// FileName returns the base name of the persisted fingerprint file.
func (s *Store) FileName() string {
	return filepath.Base(s.path)
}

// LockFileName returns the base name of the advisory lock file.
func (s *Store) LockFileName() string {
	return filepath.Base(s.flk.Path())
}

// Timestamp converts a time to the numeric form stored in fingerprints.
// The same input always produces the same float, so stored and freshly
// computed values compare equal for an untouched file.
func Timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
