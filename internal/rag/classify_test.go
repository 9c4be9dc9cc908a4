package rag

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"talkie/internal/fingerprint"
	"talkie/internal/walker"
)

// syncedEntry writes a file and records a matching fingerprint, as if a
// previous cycle had indexed it.
func syncedEntry(t *testing.T, root string, store *fingerprint.Store, rel, content string) walker.Entry {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(full)
	if err != nil {
		t.Fatal(err)
	}
	store.Put(rel, fingerprint.Fingerprint{
		Metadata: fingerprint.Metadata{
			Timestamp: fingerprint.Timestamp(info.ModTime()),
			Size:      info.Size(),
		},
		Hash: fingerprint.HashBytes([]byte(content)),
	})
	return walker.Entry{
		RelPath: rel,
		AbsPath: full,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

func statEntry(t *testing.T, root, rel string) walker.Entry {
	t.Helper()
	full := filepath.Join(root, rel)
	info, err := os.Stat(full)
	if err != nil {
		t.Fatal(err)
	}
	return walker.Entry{RelPath: rel, AbsPath: full, Size: info.Size(), ModTime: info.ModTime()}
}

func TestClassify_Partition(t *testing.T) {
	root := t.TempDir()
	store, _ := fingerprint.Load(root, "")

	unchanged := syncedEntry(t, root, store, "same.txt", "stable content")
	modified := syncedEntry(t, root, store, "edited.txt", "old content")

	// Edit after fingerprinting.
	if err := os.WriteFile(modified.AbsPath, []byte("new content!"), 0o644); err != nil {
		t.Fatal(err)
	}
	modified = statEntry(t, root, "edited.txt")

	// Stored but gone from disk.
	store.Put("removed.txt", fingerprint.Fingerprint{Hash: "x"})

	// On disk but never fingerprinted.
	if err := os.WriteFile(filepath.Join(root, "fresh.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	fresh := statEntry(t, root, "fresh.txt")

	plan := Classify([]walker.Entry{unchanged, modified, fresh}, store, nil)

	assertPaths(t, "New", plan.New, "fresh.txt")
	assertPaths(t, "Modified", plan.Modified, "edited.txt")
	assertPaths(t, "Unchanged", plan.Unchanged, "same.txt")
	assertPaths(t, "Deleted", plan.Deleted, "removed.txt")
}

func TestClassify_MetadataFastPathSkipsHashing(t *testing.T) {
	root := t.TempDir()
	store, _ := fingerprint.Load(root, "")

	entry := syncedEntry(t, root, store, "a.txt", "alpha")

	// Corrupt the stored hash. With identical metadata the cheap check
	// classifies Unchanged without ever reading the file, so the bogus
	// hash is not noticed.
	fp, _ := store.Get("a.txt")
	fp.Hash = "not-a-real-hash"
	store.Put("a.txt", fp)

	plan := Classify([]walker.Entry{entry}, store, nil)
	assertPaths(t, "Unchanged", plan.Unchanged, "a.txt")
}

func TestClassify_BackdatedEditDetectedByHash(t *testing.T) {
	root := t.TempDir()
	store, _ := fingerprint.Load(root, "")

	entry := syncedEntry(t, root, store, "a.txt", "alpha")
	origMod := entry.ModTime

	// Edit the content, then force the timestamp back to its original
	// value, as a version-control checkout would.
	if err := os.WriteFile(entry.AbsPath, []byte("alpha2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(entry.AbsPath, origMod, origMod); err != nil {
		t.Fatal(err)
	}
	entry = statEntry(t, root, "a.txt")

	plan := Classify([]walker.Entry{entry}, store, nil)
	assertPaths(t, "Modified", plan.Modified, "a.txt")
}

func TestClassify_TouchedButNotEdited(t *testing.T) {
	root := t.TempDir()
	store, _ := fingerprint.Load(root, "")

	entry := syncedEntry(t, root, store, "a.txt", "alpha")

	// Bump only the timestamp; the content hash still matches, so the
	// file stays Unchanged.
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(entry.AbsPath, future, future); err != nil {
		t.Fatal(err)
	}
	entry = statEntry(t, root, "a.txt")

	plan := Classify([]walker.Entry{entry}, store, nil)
	assertPaths(t, "Unchanged", plan.Unchanged, "a.txt")
	if len(plan.Modified) != 0 {
		t.Errorf("Modified = %v, want empty", plan.Modified)
	}
}

func assertPaths(t *testing.T, label string, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d] = %q, want %q", label, i, got[i], want[i])
		}
	}
}
